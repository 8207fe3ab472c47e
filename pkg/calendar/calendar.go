package calendar

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidWeekday = errors.New("invalid weekday ordinal")

// WorkingDaySet knows which weekdays are not worked on. The zero value treats every day as a working day.
type WorkingDaySet struct {
	nonWorking [Sunday + 1]bool
}

// NewWorkingDaySet builds a set from the non-working weekday ordinals. Duplicates are allowed.
func NewWorkingDaySet(nonWorking ...Weekday) (WorkingDaySet, error) {
	var set WorkingDaySet
	for _, wd := range nonWorking {
		if !wd.Valid() {
			return WorkingDaySet{}, fmt.Errorf("%w: %d", ErrInvalidWeekday, wd)
		}
		set.nonWorking[wd] = true
	}
	return set, nil
}

// MustWorkingDaySet is like NewWorkingDaySet but panics on invalid ordinals.
func MustWorkingDaySet(nonWorking ...Weekday) WorkingDaySet {
	set, err := NewWorkingDaySet(nonWorking...)
	if err != nil {
		panic(err)
	}
	return set
}

func (s WorkingDaySet) IsWorkingDay(date time.Time) bool {
	return !s.nonWorking[WeekdayOf(date)]
}

// WorkingDaysInRange returns the working days of the range in ascending order.
func (s WorkingDaySet) WorkingDaysInRange(r DateRange) []time.Time {
	var days []time.Time
	for _, day := range r.Days() {
		if s.IsWorkingDay(day) {
			days = append(days, day)
		}
	}
	return days
}

// CountWorkingDays returns len(WorkingDaysInRange(r)) without building the list.
func (s WorkingDaySet) CountWorkingDays(r DateRange) int {
	n := r.Len()
	if n == 0 {
		return 0
	}
	count := n / 7 * len(s.WorkingWeekdays())
	// the remaining days form a partial week starting on the weekday after the last full week
	for day := r.Start.AddDate(0, 0, n/7*7); !day.After(r.End); day = day.AddDate(0, 0, 1) {
		if s.IsWorkingDay(day) {
			count++
		}
	}
	return count
}

// FirstWorkingDay returns the earliest working day of the range.
func (s WorkingDaySet) FirstWorkingDay(r DateRange) (time.Time, bool) {
	if r.IsEmpty() {
		return time.Time{}, false
	}
	// a week always contains every weekday
	limit := r.Start.AddDate(0, 0, 6)
	for day := r.Start; !day.After(r.End) && !day.After(limit); day = day.AddDate(0, 0, 1) {
		if s.IsWorkingDay(day) {
			return day, true
		}
	}
	return time.Time{}, false
}

// WorkingWeekdays returns the weekdays that are worked on, ascending.
func (s WorkingDaySet) WorkingWeekdays() []Weekday {
	weekdays := make([]Weekday, 0, 7)
	for wd := Monday; wd <= Sunday; wd++ {
		if !s.nonWorking[wd] {
			weekdays = append(weekdays, wd)
		}
	}
	return weekdays
}

// NonWorkingWeekdays returns the configured non-working weekdays, ascending.
func (s WorkingDaySet) NonWorkingWeekdays() []Weekday {
	weekdays := make([]Weekday, 0, 7)
	for wd := Monday; wd <= Sunday; wd++ {
		if s.nonWorking[wd] {
			weekdays = append(weekdays, wd)
		}
	}
	return weekdays
}
