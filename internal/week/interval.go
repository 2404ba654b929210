package week

import (
	"fmt"
	"math"
)

const (
	MinutesInAnHour = 60
	HoursInADay     = 24
	DaysInAWorkWeek = 5
	MinutesInADay   = MinutesInAnHour * HoursInADay
	// Minutes from Monday 00:00 till Friday 24:00
	MinutesInAWorkWeek = MinutesInADay * DaysInAWorkWeek
)

// Interval is a half-open [Start, End) range of minutes elapsed since Monday 00:00
type Interval struct {
	Start int64
	End   int64
}

func (interval Interval) Length() int64 {
	return interval.End - interval.Start
}

// Span is the calendar-side counterpart of an Interval: a day of the work week
// (Monday = 1) and fractional start/end hours within that day
type Span struct {
	Day   int
	Start float64
	End   float64
}

// DecodeError reports a linear interval whose endpoints fall on different days
// of the week. Meetings never span midnight, so such an interval indicates a
// modeling bug upstream
type DecodeError struct {
	Interval Interval
	StartDay int
	EndDay   int
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf("interval [%d, %d) starts on day %d but ends on day %d", err.Interval.Start, err.Interval.End, err.StartDay, err.EndDay)
}

// ToLinear maps a calendar span onto the flat Monday-to-Friday minute axis:
// minute = 60 * (24*(day - 1) + hour). Fractional hours must be exact in
// minutes (e.g. quarter-hour granularity); the multiplication is rounded so
// binary float noise cannot shift a boundary
func ToLinear(day int, startHour, endHour float64) Interval {
	dayOffset := int64(day-1) * MinutesInADay
	return Interval{
		Start: dayOffset + int64(math.Round(startHour*MinutesInAnHour)),
		End:   dayOffset + int64(math.Round(endHour*MinutesInAnHour)),
	}
}

// ToCalendar is the exact inverse of ToLinear for every interval ToLinear can
// produce. Both endpoints must decode to the same day; a cross-day interval is
// rejected with a *DecodeError rather than silently truncated. Hours are
// rounded to two decimals, good enough for display while the internal
// arithmetic stays in integer minutes
func ToCalendar(interval Interval) (Span, error) {
	startDay := int(interval.Start / MinutesInADay)
	endDay := int(interval.End / MinutesInADay)
	if startDay != endDay {
		return Span{}, &DecodeError{Interval: interval, StartDay: startDay + 1, EndDay: endDay + 1}
	}

	return Span{
		Day:   startDay + 1,
		Start: roundHour(interval.Start % MinutesInADay),
		End:   roundHour(interval.End % MinutesInADay),
	}, nil
}

func roundHour(minutes int64) float64 {
	return math.Round(float64(minutes)/MinutesInAnHour*100) / 100
}
