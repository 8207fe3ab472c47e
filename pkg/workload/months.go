package workload

import (
	"time"

	"github.com/klokku/workload/pkg/calendar"
)

// MonthBucket is the part of one calendar month that lies inside a span.
type MonthBucket struct {
	FirstDay time.Time
	LastDay  time.Time
}

func (m MonthBucket) Days() int {
	return calendar.DateRange{Start: m.FirstDay, End: m.LastDay}.Len()
}

// MonthBuckets splits the span at month boundaries, ascending.
func MonthBuckets(span calendar.DateRange) []MonthBucket {
	span = calendar.NewDateRange(span.Start, span.End)
	if span.IsEmpty() {
		return []MonthBucket{}
	}
	var buckets []MonthBucket
	for first := span.Start; !first.After(span.End); {
		monthStart := calendar.Date(first.Year(), first.Month(), 1)
		last := monthStart.AddDate(0, 1, -1)
		if last.After(span.End) {
			last = span.End
		}
		buckets = append(buckets, MonthBucket{FirstDay: first, LastDay: last})
		first = monthStart.AddDate(0, 1, 0)
	}
	return buckets
}
