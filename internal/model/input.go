package model

import (
	"encoding/json"
	"fmt"
	"os"

	"autotimetabler/internal/week"

	"github.com/mitchellh/mapstructure"
)

// Period is the atomic catalog unit: one weekly meeting at a fixed day, start
// and end hour, held at a location. Day is 1-based with Monday = 1; hours are
// fractional (12.5 = 12:30)
type Period struct {
	Day      int     `mapstructure:"day"`
	Start    float64 `mapstructure:"start"`
	End      float64 `mapstructure:"end"`
	Location string  `mapstructure:"location"`
}

// A class is an ordered set of periods attended together (e.g. lecture plus
// lab); a course is an ordered set of alternative classes of which exactly one
// must be chosen
type (
	Class  = []Period
	Course = []Class
)

// Input is one timetabling request: the course catalog plus the attendance
// restrictions to plan under
type Input struct {
	Days        []int    `mapstructure:"days"`
	WindowStart float64  `mapstructure:"start"`
	WindowEnd   float64  `mapstructure:"end"`
	MaxDays     int      `mapstructure:"max_days"`
	Gap         *float64 `mapstructure:"gap"`
	Courses     []Course `mapstructure:"courses"`
}

// MalformedRequestError reports restrictions that cannot admit any timetable
// regardless of the catalog: no allowed attendance days, or a day cap below one
type MalformedRequestError struct {
	Reason string
}

func (err *MalformedRequestError) Error() string {
	return "malformed request: " + err.Reason
}

// MalformedPeriodError reports a catalog period with an out-of-range day or
// hour, or a start at or after its end
type MalformedPeriodError struct {
	Course, Class, Period int
	Value                 Period
}

func (err *MalformedPeriodError) Error() string {
	return fmt.Sprintf("course %d, class %d, period %d is malformed: day=%d start=%v end=%v",
		err.Course, err.Class, err.Period, err.Value.Day, err.Value.Start, err.Value.End)
}

// Validate rejects structurally invalid requests before any model construction
func (input Input) Validate() error {
	if input.MaxDays < 1 {
		return &MalformedRequestError{Reason: fmt.Sprintf("max_days must be at least 1, got %d", input.MaxDays)}
	}
	if len(input.Days) == 0 {
		return &MalformedRequestError{Reason: "no allowed attendance days"}
	}

	for courseId, course := range input.Courses {
		for classId, class := range course {
			for periodId, period := range class {
				if period.Day < 1 || period.Day > week.DaysInAWorkWeek ||
					period.Start < 0 || period.Start >= week.HoursInADay ||
					period.End < 0 || period.End >= week.HoursInADay ||
					period.Start >= period.End {
					return &MalformedPeriodError{Course: courseId, Class: classId, Period: periodId, Value: period}
				}
			}
		}
	}
	return nil
}

// InputFromJson loads a timetabling request from a catalog JSON file. Decoding
// is weakly typed so catalogs carrying numbers as strings still load
func InputFromJson(file string) (Input, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Input{}, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Input{}, err
	}

	var input Input
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &input,
	})
	if err != nil {
		return Input{}, err
	}
	if err := decoder.Decode(inputJson); err != nil {
		return Input{}, err
	}

	return input, nil
}
