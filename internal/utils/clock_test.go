package utils

import (
	"testing"
	"time"

	"github.com/klokku/workload/pkg/calendar"
	"github.com/stretchr/testify/assert"
)

func TestToday(t *testing.T) {
	clock := &MockClock{}
	clock.SetNow(time.Date(2013, time.June, 2, 23, 30, 0, 0, time.UTC))

	assert.Equal(t, calendar.Date(2013, time.June, 2), Today(clock, nil))

	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, calendar.Date(2013, time.June, 3), Today(clock, tokyo))
}
