package model

import (
	"fmt"

	"github.com/samber/lo"
)

// InfeasibleCourseError reports a course left with no class after the day and
// window filter. Raised before model construction so the caller learns which
// course is the cause instead of a bare solver "infeasible"
type InfeasibleCourseError struct {
	Course int
}

func (err *InfeasibleCourseError) Error() string {
	return fmt.Sprintf("course %d has no feasible class under the given day and time-window restrictions", err.Course)
}

// Normalizer filters the catalog down to the periods compatible with the
// request's allowed days and daily time window
type Normalizer interface {
	// Normalize returns a new filtered catalog; the input is not mutated. A
	// course losing all of its classes yields an *InfeasibleCourseError
	Normalize(input Input) ([]Course, error)
}

func NewNormalizer() Normalizer {
	return &normalizerImplementation{}
}

type normalizerImplementation struct{}

func (normalizer *normalizerImplementation) Normalize(input Input) ([]Course, error) {
	allowedDays := make(map[int]bool, len(input.Days))
	for _, day := range input.Days {
		allowedDays[day] = true
	}

	feasible := func(period Period) bool {
		return allowedDays[period.Day] && input.WindowStart <= period.Start && period.End <= input.WindowEnd
	}

	courses := make([]Course, 0, len(input.Courses))
	for courseId, course := range input.Courses {
		// A class is atomic: all of its periods are attended together, so a
		// class with any infeasible period is entirely infeasible
		classes := lo.Filter(course, func(class Class, _ int) bool {
			return lo.EveryBy(class, feasible)
		})

		if len(classes) == 0 {
			return nil, &InfeasibleCourseError{Course: courseId}
		}
		courses = append(courses, classes)
	}

	return courses, nil
}
