package model

import (
	"fmt"

	"autotimetabler/internal/cp"
	"autotimetabler/internal/week"
)

// PeriodVar ties one surviving catalog period to its solver decisions: a
// presence variable and an optional interval on the linear minute axis gated
// by it
type PeriodVar struct {
	Course   int
	Class    int
	Period   int
	Start    int64
	End      int64
	Location string
	Presence cp.BoolVar
	Interval cp.IntervalVar
}

// ClassVars groups the period variables of one class of one course
type ClassVars struct {
	Course  int
	Class   int
	Periods []PeriodVar
}

// Canonical returns the presence variable that stands for selecting the whole
// class. It is the first period's: the remaining presences are implied from
// it, never free
func (class ClassVars) Canonical() cp.BoolVar {
	return class.Periods[0].Presence
}

// Variables is the global solution space together with its per-course grouping
type Variables struct {
	// Periods holds every period variable in (course, class, period) order,
	// keeping solver behavior reproducible across runs with identical input
	Periods []PeriodVar
	Courses [][]ClassVars
}

// BuildVariables materializes presence and interval variables for every period
// of the filtered catalog and chains multi-period classes behind their
// canonical presence, so a class is selected as a whole or not at all
func BuildVariables(model cp.Model, courses []Course) Variables {
	variables := Variables{Courses: make([][]ClassVars, len(courses))}

	for courseId, course := range courses {
		for classId, class := range course {
			classVars := ClassVars{Course: courseId, Class: classId}

			for periodId, period := range class {
				interval := week.ToLinear(period.Day, period.Start, period.End)
				name := fmt.Sprintf("period_%d_%d_%d", courseId, classId, periodId)

				presence := model.NewBoolVar(name + "_bool")
				intervalVar := model.NewOptionalIntervalVar(interval.Start, interval.Length(), interval.End, presence, name+"_interval")

				classVars.Periods = append(classVars.Periods, PeriodVar{
					Course:   courseId,
					Class:    classId,
					Period:   periodId,
					Start:    interval.Start,
					End:      interval.End,
					Location: period.Location,
					Presence: presence,
					Interval: intervalVar,
				})
			}

			// Every presence of the class takes the same value: selecting the
			// canonical period drags the remaining periods along, and a
			// non-canonical period can never be present on its own
			for _, periodVar := range classVars.Periods[1:] {
				model.AddImplication(classVars.Canonical(), periodVar.Presence)
				model.AddImplication(periodVar.Presence, classVars.Canonical())
			}

			variables.Courses[courseId] = append(variables.Courses[courseId], classVars)
			variables.Periods = append(variables.Periods, classVars.Periods...)
		}
	}

	return variables
}
