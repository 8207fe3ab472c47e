package calendar

import "time"

// Weekday is an ISO-8601 weekday ordinal, 1 for Monday through 7 for Sunday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// WeekdayOf returns the ISO weekday ordinal of the given date.
func WeekdayOf(date time.Time) Weekday {
	wd := date.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf drops the clock part of t, keeping the calendar day as seen in t's location.
// The result is midnight UTC so it can be compared and used as a map key.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// DateRange is an inclusive span of calendar days. A range whose Start is after its End is empty.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: DateOf(start), End: DateOf(end)}
}

func (r DateRange) IsEmpty() bool {
	return r.Start.After(r.End)
}

func (r DateRange) Contains(date time.Time) bool {
	return !r.IsEmpty() && !date.Before(r.Start) && !date.After(r.End)
}

// Days returns every calendar day of the range in ascending order.
func (r DateRange) Days() []time.Time {
	if r.IsEmpty() {
		return nil
	}
	days := make([]time.Time, 0, r.Len())
	for day := r.Start; !day.After(r.End); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// Len returns the number of days in the range.
func (r DateRange) Len() int {
	if r.IsEmpty() {
		return 0
	}
	// Sub saturates after about 292 years, seconds do not
	return int((DateOf(r.End).Unix()-DateOf(r.Start).Unix())/(24*60*60)) + 1
}

// Clip returns the intersection of both ranges. The result may be empty.
func (r DateRange) Clip(other DateRange) DateRange {
	clipped := r
	if other.Start.After(clipped.Start) {
		clipped.Start = other.Start
	}
	if other.End.Before(clipped.End) {
		clipped.End = other.End
	}
	return clipped
}

func (r DateRange) String() string {
	return "[" + r.Start.Format(time.DateOnly) + ", " + r.End.Format(time.DateOnly) + "]"
}
