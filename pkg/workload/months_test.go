package workload

import (
	"testing"
	"time"

	"github.com/klokku/workload/pkg/calendar"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func months(buckets []MonthBucket) []time.Month {
	result := make([]time.Month, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, b.FirstDay.Month())
	}
	return result
}

func TestMonthBuckets(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected []time.Month
	}{
		{"last day before first day", calendar.Date(2012, 3, 29), calendar.Date(2012, 3, 28), []time.Month{}},
		{"single day", calendar.Date(2012, 3, 27), calendar.Date(2012, 3, 27), []time.Month{3}},
		{"days of one month", calendar.Date(2012, 3, 27), calendar.Date(2012, 3, 28), []time.Month{3}},
		{"march to may", calendar.Date(2012, 3, 31), calendar.Date(2012, 5, 1), []time.Month{3, 4, 5}},
		{"over a year boundary", calendar.Date(2011, 3, 3), calendar.Date(2012, 5, 1),
			[]time.Month{3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, months(MonthBuckets(calendar.DateRange{Start: tt.from, End: tt.to})))
		})
	}
}

func TestMonthBuckets_ClipsToSpan(t *testing.T) {
	buckets := MonthBuckets(calendar.DateRange{Start: calendar.Date(2012, 3, 31), End: calendar.Date(2012, 5, 1)})

	assert.Equal(t, []MonthBucket{
		{FirstDay: calendar.Date(2012, 3, 31), LastDay: calendar.Date(2012, 3, 31)},
		{FirstDay: calendar.Date(2012, 4, 1), LastDay: calendar.Date(2012, 4, 30)},
		{FirstDay: calendar.Date(2012, 5, 1), LastDay: calendar.Date(2012, 5, 1)},
	}, buckets)
	assert.Equal(t, 30, buckets[1].Days())
}

func TestMonthBuckets_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	base := calendar.Date(2010, 1, 1)

	properties.Property("buckets tile the span", prop.ForAll(
		func(offset, length int) bool {
			span := calendar.DateRange{Start: base.AddDate(0, 0, offset), End: base.AddDate(0, 0, offset+length)}
			buckets := MonthBuckets(span)
			next := span.Start
			covered := 0
			for _, b := range buckets {
				if !b.FirstDay.Equal(next) || b.LastDay.Before(b.FirstDay) || b.LastDay.Month() != b.FirstDay.Month() {
					return false
				}
				covered += b.Days()
				next = b.LastDay.AddDate(0, 0, 1)
			}
			return covered == span.Len() && buckets[len(buckets)-1].LastDay.Equal(span.End)
		},
		gen.IntRange(0, 1500),
		gen.IntRange(0, 800),
	))

	properties.TestingRun(t)
}
