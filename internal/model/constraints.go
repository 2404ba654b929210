package model

import (
	"math"
	"slices"

	"autotimetabler/internal/cp"
	"autotimetabler/internal/week"

	"github.com/samber/lo"
)

// GapSemantics selects which adjacent period pairs the minimum-gap requirement
// binds
type GapSemantics int

const (
	// GapBothPresent enforces the gap only when both periods of a too-close
	// pair are chosen: at most one of the two may appear in the timetable
	GapBothPresent GapSemantics = iota
	// GapEitherPresent enforces the gap whenever either period is chosen,
	// which rules both members of a too-close pair out of the timetable
	// entirely. Kept selectable because earlier generations of this tool
	// guarded the constraint this way
	GapEitherPresent
)

// ComposeConstraints wires the four constraint families over the built
// variables: exactly one class per course, global no-overlap, the distinct-day
// cap and, when configured, the minimum inter-class gap
func ComposeConstraints(model cp.Model, variables Variables, input Input, semantics GapSemantics) error {
	addExactlyOnePerCourse(model, variables)
	addNoOverlap(model, variables)
	if err := addMaxDays(model, variables, input.MaxDays); err != nil {
		return err
	}
	if input.Gap != nil {
		addMinGap(model, variables, *input.Gap, semantics)
	}
	return nil
}

func addExactlyOnePerCourse(model cp.Model, variables Variables) {
	for _, course := range variables.Courses {
		canonicals := lo.Map(course, func(class ClassVars, _ int) cp.BoolVar { return class.Canonical() })
		model.AddExactlyOne(canonicals)
	}
}

func addNoOverlap(model cp.Model, variables Variables) {
	intervals := lo.Map(variables.Periods, func(periodVar PeriodVar, _ int) cp.IntervalVar { return periodVar.Interval })
	model.AddNoOverlap(intervals)
}

// addMaxDays caps the number of distinct attendance days. Whether a day is
// attended cannot be computed before solving, so it is itself a solver
// expression: the disjunction of all presences meeting on that day, with the
// disjunctions summed against the cap
func addMaxDays(model cp.Model, variables Variables, maxDays int) error {
	perDay := make(map[int][]cp.BoolVar)
	for _, periodVar := range variables.Periods {
		span, err := week.ToCalendar(week.Interval{Start: periodVar.Start, End: periodVar.End})
		if err != nil {
			return err
		}
		perDay[span.Day] = append(perDay[span.Day], periodVar.Presence)
	}

	attended := make([]cp.BoolVar, 0, week.DaysInAWorkWeek)
	for day := 1; day <= week.DaysInAWorkWeek; day++ {
		if len(perDay[day]) == 0 {
			continue
		}
		attended = append(attended, model.AddBoolOr(perDay[day]))
	}

	model.AddLinear(attended, cp.LessOrEqual, int64(maxDays))
	return nil
}

// addMinGap walks the globally time-ordered period list and constrains every
// adjacent pair closer than the configured gap (in hours)
func addMinGap(model cp.Model, variables Variables, gapHours float64, semantics GapSemantics) {
	// Stable sort over the (course, class, period) creation order so ties
	// break deterministically
	ordered := slices.Clone(variables.Periods)
	slices.SortStableFunc(ordered, func(a, b PeriodVar) int {
		if a.Start != b.Start {
			return int(a.Start - b.Start)
		}
		return int(a.End - b.End)
	})

	for i := 0; i+1 < len(ordered); i++ {
		gapMinutes := math.Abs(float64(ordered[i+1].Start - ordered[i].End))
		if gapMinutes/week.MinutesInAnHour >= gapHours {
			continue
		}

		pair := []cp.BoolVar{ordered[i].Presence, ordered[i+1].Presence}
		switch semantics {
		case GapBothPresent:
			model.AddLinear(pair, cp.LessOrEqual, 1)
		case GapEitherPresent:
			either := model.AddBoolOr(pair)
			model.AddLinear([]cp.BoolVar{either}, cp.LessOrEqual, 0)
		}
	}
}
