package model

import (
	"context"
	"testing"

	"autotimetabler/internal/cp"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func newTestTimetabler(semantics GapSemantics) Timetabler {
	return NewTimetabler(cp.NewBacktrackSolver(), semantics)
}

func TestBuild(t *testing.T) {
	t.Run("Solves a mixed catalog of single and multi-period classes", func(t *testing.T) {
		// Arrange
		input := Input{
			Days:        []int{1, 2, 3, 4, 5},
			WindowStart: 9,
			WindowEnd:   24,
			MaxDays:     2,
			Courses: []Course{
				{
					{{Day: 3, Start: 14, End: 15, Location: "a"}},
					{{Day: 4, Start: 11, End: 12, Location: "b"}},
				},
				{
					{
						{Day: 3, Start: 17, End: 18, Location: "a"},
						{Day: 4, Start: 14, End: 18, Location: "a"},
					},
					{
						{Day: 4, Start: 17, End: 18, Location: "b"},
						{Day: 3, Start: 14, End: 18, Location: "b"},
					},
				},
				{
					{{Day: 4, Start: 12, End: 13, Location: "c"}},
				},
			},
		}
		timetabler := newTestTimetabler(GapBothPresent)

		// Act
		schedule, err := timetabler.Build(context.Background(), input)

		// Assert
		assert.Nil(t, err)
		assert.NotNil(t, schedule)
		assert.Equal(t, cp.StatusFeasible, schedule.Status)
		assert.Len(t, schedule.Meetings, 4) // One period, two linked periods, one period
		assert.True(t, timetabler.Verify(schedule, input))
	})

	t.Run("Reports overlap infeasibility as unsatisfiable", func(t *testing.T) {
		input := Input{
			Days:        []int{1},
			WindowStart: 8,
			WindowEnd:   18,
			MaxDays:     5,
			Courses: []Course{
				{{{Day: 1, Start: 9, End: 11, Location: "a"}}},
				{{{Day: 1, Start: 10, End: 12, Location: "b"}}},
			},
		}

		schedule, err := newTestTimetabler(GapBothPresent).Build(context.Background(), input)

		assert.Nil(t, schedule)
		assert.ErrorIs(t, err, ErrUnsatisfiable)
	})

	t.Run("Propagates infeasible-course errors before solving", func(t *testing.T) {
		input := Input{
			Days:        []int{1},
			WindowStart: 8,
			WindowEnd:   18,
			MaxDays:     5,
			Courses: []Course{
				{{{Day: 2, Start: 9, End: 11, Location: "a"}}},
			},
		}

		schedule, err := newTestTimetabler(GapBothPresent).Build(context.Background(), input)

		var infeasibleErr *InfeasibleCourseError
		assert.Nil(t, schedule)
		assert.ErrorAs(t, err, &infeasibleErr)
		assert.Equal(t, 0, infeasibleErr.Course)
	})

	t.Run("Propagates malformed-period errors", func(t *testing.T) {
		input := Input{
			Days:    []int{1},
			MaxDays: 5,
			Courses: []Course{{{{Day: 1, Start: 11, End: 10}}}},
		}

		_, err := newTestTimetabler(GapBothPresent).Build(context.Background(), input)

		var malformedErr *MalformedPeriodError
		assert.ErrorAs(t, err, &malformedErr)
	})

	t.Run("Reports a spent context as a timeout, not as infeasibility", func(t *testing.T) {
		input := Input{
			Days:        []int{1},
			WindowStart: 8,
			WindowEnd:   18,
			MaxDays:     1,
			Courses:     []Course{{{{Day: 1, Start: 9, End: 10, Location: "a"}}}},
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		schedule, err := newTestTimetabler(GapBothPresent).Build(ctx, input)

		assert.Nil(t, schedule)
		assert.ErrorIs(t, err, ErrTimeout)
	})
}

func TestLinking(t *testing.T) {
	// One course, two alternative classes of two periods each: every solution
	// must take a class whole or not at all
	input := Input{
		Days:        []int{1, 2, 3, 4},
		WindowStart: 8,
		WindowEnd:   18,
		MaxDays:     4,
		Courses: []Course{
			{
				{
					{Day: 1, Start: 9, End: 10, Location: "a"},
					{Day: 3, Start: 9, End: 10, Location: "a"},
				},
				{
					{Day: 2, Start: 9, End: 10, Location: "b"},
					{Day: 4, Start: 9, End: 10, Location: "b"},
				},
			},
		},
	}
	timetabler := newTestTimetabler(GapBothPresent)

	schedules, err := timetabler.Enumerate(context.Background(), input)

	assert.Nil(t, err)
	assert.Len(t, schedules, 2)
	for _, schedule := range schedules {
		assert.Len(t, schedule.Meetings, 2)

		// No half-selected class may leak into a schedule: exactly one class
		// is attended and it appears with both of its periods
		perClass := lo.CountValuesBy(schedule.Meetings, func(meeting Meeting) int { return meeting.Class })
		assert.Len(t, perClass, 1)
		for _, count := range perClass {
			assert.Equal(t, 2, count)
		}
		assert.True(t, timetabler.Verify(schedule, input))
	}
}

func TestExactlyOnePerCourse(t *testing.T) {
	// Three non-overlapping alternatives: exactly three timetables exist
	input := Input{
		Days:        []int{1},
		WindowStart: 8,
		WindowEnd:   18,
		MaxDays:     1,
		Courses: []Course{
			{
				{{Day: 1, Start: 9, End: 10, Location: "a"}},
				{{Day: 1, Start: 11, End: 12, Location: "b"}},
				{{Day: 1, Start: 13, End: 14, Location: "c"}},
			},
		},
	}

	schedules, err := newTestTimetabler(GapBothPresent).Enumerate(context.Background(), input)

	assert.Nil(t, err)
	assert.Len(t, schedules, 3)
	for _, schedule := range schedules {
		assert.Equal(t, cp.StatusOptimal, schedule.Status)
		assert.Len(t, schedule.Meetings, 1)
	}
}

func TestMaxDaysCap(t *testing.T) {
	// Two courses, each offering one class on Monday and one on Tuesday, at
	// non-overlapping times
	input := Input{
		Days:        []int{1, 2},
		WindowStart: 8,
		WindowEnd:   18,
		Courses: []Course{
			{
				{{Day: 1, Start: 9, End: 10, Location: "a"}},
				{{Day: 2, Start: 9, End: 10, Location: "a"}},
			},
			{
				{{Day: 1, Start: 11, End: 12, Location: "b"}},
				{{Day: 2, Start: 11, End: 12, Location: "b"}},
			},
		},
	}
	timetabler := newTestTimetabler(GapBothPresent)

	t.Run("Cap of one forces a single attendance day", func(t *testing.T) {
		input := input
		input.MaxDays = 1

		schedules, err := timetabler.Enumerate(context.Background(), input)

		assert.Nil(t, err)
		assert.Len(t, schedules, 2) // Both on Monday, or both on Tuesday
		for _, schedule := range schedules {
			days := lo.Uniq(lo.Map(schedule.Meetings, func(meeting Meeting, _ int) int { return meeting.Day }))
			assert.Len(t, days, 1)
			assert.True(t, timetabler.Verify(schedule, input))
		}
	})

	t.Run("Cap of two admits every combination", func(t *testing.T) {
		input := input
		input.MaxDays = 2

		schedules, err := timetabler.Enumerate(context.Background(), input)

		assert.Nil(t, err)
		assert.Len(t, schedules, 4)
	})
}

func TestMinGapSemantics(t *testing.T) {
	// Course 0 meets only at Monday 9-10. Course 1 offers Monday 10:30-11:30
	// (half an hour after course 0) and Monday 13-14. With a one-hour gap the
	// 9-10 / 10:30-11:30 pair is too close
	gap := 1.0
	input := Input{
		Days:        []int{1},
		WindowStart: 8,
		WindowEnd:   18,
		MaxDays:     1,
		Gap:         &gap,
		Courses: []Course{
			{
				{{Day: 1, Start: 9, End: 10, Location: "a"}},
			},
			{
				{{Day: 1, Start: 10.5, End: 11.5, Location: "b"}},
				{{Day: 1, Start: 13, End: 14, Location: "b"}},
			},
		},
	}

	t.Run("Both-present keeps the distant alternative open", func(t *testing.T) {
		timetabler := newTestTimetabler(GapBothPresent)

		schedules, err := timetabler.Enumerate(context.Background(), input)

		assert.Nil(t, err)
		assert.Len(t, schedules, 1)
		assert.Equal(t, 13.0, schedules[0].Meetings[1].Start)
		assert.True(t, timetabler.Verify(schedules[0], input))
	})

	t.Run("Either-present rules out both members of the close pair", func(t *testing.T) {
		// The inverted guard forbids the 9-10 period too, leaving course 0
		// with no class at all
		schedule, err := newTestTimetabler(GapEitherPresent).Build(context.Background(), input)

		assert.Nil(t, schedule)
		assert.ErrorIs(t, err, ErrUnsatisfiable)
	})
}

func TestVerifyRejectsTamperedSchedules(t *testing.T) {
	input := Input{
		Days:        []int{1, 2},
		WindowStart: 8,
		WindowEnd:   18,
		MaxDays:     2,
		Courses: []Course{
			{
				{{Day: 1, Start: 9, End: 10, Location: "a"}},
				{{Day: 2, Start: 9, End: 10, Location: "b"}},
			},
		},
	}
	timetabler := newTestTimetabler(GapBothPresent)

	schedule, err := timetabler.Build(context.Background(), input)
	assert.Nil(t, err)
	assert.True(t, timetabler.Verify(schedule, input))

	t.Run("A meeting outside the catalog", func(t *testing.T) {
		tampered := *schedule
		tampered.Meetings = append([]Meeting{}, schedule.Meetings...)
		tampered.Meetings[0].Start = 15

		assert.False(t, timetabler.Verify(&tampered, input))
	})

	t.Run("A second class of the same course", func(t *testing.T) {
		tampered := *schedule
		tampered.Meetings = append([]Meeting{}, schedule.Meetings...)
		other := 1 - schedule.Meetings[0].Class
		tampered.Meetings = append(tampered.Meetings, Meeting{
			Course: 0, Class: other, Period: 0,
			Day: 1 + other, Start: 9, End: 10, Location: "tampered",
		})

		assert.False(t, timetabler.Verify(&tampered, input))
	})

	t.Run("A nil schedule", func(t *testing.T) {
		assert.False(t, timetabler.Verify(nil, input))
	})
}
