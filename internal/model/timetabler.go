package model

import (
	"context"
	"errors"
	"math"
	"slices"

	"autotimetabler/internal/cp"
	"autotimetabler/internal/week"
)

var (
	// ErrUnsatisfiable reports that the solver proved no feasible timetable
	// exists under the composed constraints
	ErrUnsatisfiable = errors.New("no feasible timetable exists")
	// ErrTimeout reports that the solver gave up before reaching an answer;
	// this is not a proof of infeasibility
	ErrTimeout = errors.New("solver gave up before reaching an answer")
)

// Meeting is one attended period of a solved timetable
type Meeting struct {
	Course   int
	Class    int
	Period   int
	Day      int
	Start    float64
	End      float64
	Location string
}

// Schedule is a full solved timetable: one class per course, meetings sorted
// by day then start hour
type Schedule struct {
	Status   cp.Status
	Meetings []Meeting
}

type Timetabler interface {
	// Build models the request and returns a satisfying timetable, or
	// ErrUnsatisfiable / ErrTimeout when the solver proves infeasibility or
	// runs out of time respectively
	Build(ctx context.Context, input Input) (*Schedule, error)
	// Enumerate returns every satisfying timetable of the request
	Enumerate(ctx context.Context, input Input) ([]*Schedule, error)
	// Verify replays every constraint of the request over a solved schedule
	Verify(schedule *Schedule, input Input) bool
}

func NewTimetabler(solver cp.Solver, semantics GapSemantics) Timetabler {
	return &satTimetabler{solver: solver, semantics: semantics}
}

type satTimetabler struct {
	solver    cp.Solver
	semantics GapSemantics
}

func (timetabler *satTimetabler) Build(ctx context.Context, input Input) (*Schedule, error) {
	schedules, err := timetabler.solve(ctx, input, cp.Options{})
	if err != nil {
		return nil, err
	}
	return schedules[0], nil
}

func (timetabler *satTimetabler) Enumerate(ctx context.Context, input Input) ([]*Schedule, error) {
	return timetabler.solve(ctx, input, cp.Options{EnumerateAll: true})
}

func (timetabler *satTimetabler) solve(ctx context.Context, input Input, options cp.Options) ([]*Schedule, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	//** Normalize the catalog; fail fast on a course with no feasible class
	courses, err := NewNormalizer().Normalize(input)
	if err != nil {
		return nil, err
	}

	//** Materialize variables and compose constraints
	model := cp.NewModel()
	variables := BuildVariables(model, courses)
	if err := ComposeConstraints(model, variables, input, timetabler.semantics); err != nil {
		return nil, err
	}

	//** Delegate to the solver
	result, err := model.Solve(ctx, timetabler.solver, options)
	if err != nil {
		return nil, err
	}
	switch result.Status {
	case cp.StatusInfeasible:
		return nil, ErrUnsatisfiable
	case cp.StatusUnknown:
		return nil, ErrTimeout
	}

	//** Decode assignments back into calendar terms
	schedules := make([]*Schedule, 0, len(result.Solutions))
	for _, assignment := range result.Solutions {
		schedule, err := decodeSchedule(variables, assignment, result.Status)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

func decodeSchedule(variables Variables, assignment cp.Assignment, status cp.Status) (*Schedule, error) {
	schedule := &Schedule{Status: status}

	for _, periodVar := range variables.Periods {
		if !assignment[periodVar.Presence] {
			continue
		}

		span, err := week.ToCalendar(week.Interval{Start: periodVar.Start, End: periodVar.End})
		if err != nil {
			return nil, err
		}

		schedule.Meetings = append(schedule.Meetings, Meeting{
			Course:   periodVar.Course,
			Class:    periodVar.Class,
			Period:   periodVar.Period,
			Day:      span.Day,
			Start:    span.Start,
			End:      span.End,
			Location: periodVar.Location,
		})
	}

	slices.SortFunc(schedule.Meetings, func(a, b Meeting) int {
		if a.Day != b.Day {
			return a.Day - b.Day
		}
		if a.Start != b.Start {
			if a.Start < b.Start {
				return -1
			}
			return 1
		}
		return 0
	})

	return schedule, nil
}

func (timetabler *satTimetabler) Verify(schedule *Schedule, input Input) bool {
	if schedule == nil || input.Validate() != nil {
		return false
	}

	courses, err := NewNormalizer().Normalize(input)
	if err != nil {
		return false
	}

	// Group the chosen meetings by course and class
	chosen := make(map[[2]int][]Meeting)
	for _, meeting := range schedule.Meetings {
		chosen[[2]int{meeting.Course, meeting.Class}] = append(chosen[[2]int{meeting.Course, meeting.Class}], meeting)
	}

	// Check that:
	// - Exactly one class is chosen per course
	// - Every period of a chosen class is attended (classes are atomic)
	// - Every attended meeting matches its catalog period
	chosenClasses := make(map[int]int)
	for key := range chosen {
		if _, duplicate := chosenClasses[key[0]]; duplicate {
			return false
		}
		chosenClasses[key[0]] = key[1]
	}
	if len(chosenClasses) != len(courses) {
		return false
	}
	for courseId, classId := range chosenClasses {
		if courseId < 0 || courseId >= len(courses) || classId < 0 || classId >= len(courses[courseId]) {
			return false
		}
		class := courses[courseId][classId]
		meetings := chosen[[2]int{courseId, classId}]
		if len(meetings) != len(class) {
			return false
		}
		for _, meeting := range meetings {
			if meeting.Period < 0 || meeting.Period >= len(class) {
				return false
			}
			period := class[meeting.Period]
			if meeting.Day != period.Day || meeting.Start != period.Start || meeting.End != period.End {
				return false
			}
		}
	}

	// Check that no two meetings overlap on the linear minute axis
	intervals := make([]week.Interval, 0, len(schedule.Meetings))
	days := make(map[int]bool)
	chosenPeriods := make(map[[3]int]bool)
	for _, meeting := range schedule.Meetings {
		intervals = append(intervals, week.ToLinear(meeting.Day, meeting.Start, meeting.End))
		days[meeting.Day] = true
		chosenPeriods[[3]int{meeting.Course, meeting.Class, meeting.Period}] = true
	}
	slices.SortFunc(intervals, func(a, b week.Interval) int { return int(a.Start - b.Start) })
	for i := 0; i+1 < len(intervals); i++ {
		if intervals[i].End > intervals[i+1].Start {
			return false
		}
	}

	// Check the gap requirement under the same adjacency the composer binds
	if input.Gap != nil && !gapRespected(courses, chosenPeriods, *input.Gap, timetabler.semantics) {
		return false
	}

	// Check the distinct-day cap
	return len(days) <= input.MaxDays
}

// gapRespected replays the minimum-gap family over the full time-ordered
// period list of the normalized catalog
func gapRespected(courses []Course, chosenPeriods map[[3]int]bool, gapHours float64, semantics GapSemantics) bool {
	type slot struct {
		key      [3]int
		interval week.Interval
	}

	slots := []slot{}
	for courseId, course := range courses {
		for classId, class := range course {
			for periodId, period := range class {
				slots = append(slots, slot{
					key:      [3]int{courseId, classId, periodId},
					interval: week.ToLinear(period.Day, period.Start, period.End),
				})
			}
		}
	}
	slices.SortStableFunc(slots, func(a, b slot) int {
		if a.interval.Start != b.interval.Start {
			return int(a.interval.Start - b.interval.Start)
		}
		return int(a.interval.End - b.interval.End)
	})

	for i := 0; i+1 < len(slots); i++ {
		gapMinutes := math.Abs(float64(slots[i+1].interval.Start - slots[i].interval.End))
		if gapMinutes/week.MinutesInAnHour >= gapHours {
			continue
		}

		first, second := chosenPeriods[slots[i].key], chosenPeriods[slots[i+1].key]
		switch semantics {
		case GapBothPresent:
			if first && second {
				return false
			}
		case GapEitherPresent:
			if first || second {
				return false
			}
		}
	}
	return true
}
