package utils

import (
	"time"

	"github.com/klokku/workload/pkg/calendar"
)

type Clock interface {
	Now() time.Time
}

// Today returns the current calendar day of the clock, as seen in loc.
func Today(c Clock, loc *time.Location) time.Time {
	now := c.Now()
	if loc != nil {
		now = now.In(loc)
	}
	return calendar.DateOf(now)
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
