package allocation

import (
	"time"

	"github.com/klokku/workload/pkg/calendar"
	"github.com/klokku/workload/pkg/task"
)

// Day is the share of one task's effort planned for one calendar day.
type Day struct {
	Date  time.Time
	Hours float64
	// Active is set when the date lies between the task's start and due dates.
	Active bool
	// NoEstimate marks active days of a task without a due date. Such days carry no hours.
	NoEstimate bool
	Holiday    bool
}

// Schedule holds one Day per date of a span, ascending.
type Schedule []Day

func (s Schedule) On(date time.Time) (Day, bool) {
	date = calendar.DateOf(date)
	for _, d := range s {
		if d.Date.Equal(date) {
			return d, true
		}
	}
	return Day{}, false
}

func (s Schedule) TotalHours() float64 {
	total := 0.0
	for _, d := range s {
		total += d.Hours
	}
	return total
}

// Allocate spreads the task's own remaining hours over the working days of span.
//
// Hours of a task due today or later are divided evenly between the working days from
// max(start, today) to the due date. Overdue hours, and hours of a task whose remaining window
// has no working day, all land on the first working day of the span not before today. That
// catch-up day may lie outside the task's active window. Days before today get nothing.
func Allocate(t task.Task, span calendar.DateRange, today time.Time, ownRemaining float64, days calendar.WorkingDaySet) Schedule {
	span = calendar.NewDateRange(span.Start, span.End)
	if span.IsEmpty() {
		return Schedule{}
	}
	today = calendar.DateOf(today)

	schedule := make(Schedule, 0, span.Len())
	for _, date := range span.Days() {
		schedule = append(schedule, Day{
			Date:    date,
			Active:  isActive(t, date),
			Holiday: !days.IsWorkingDay(date),
		})
	}

	if t.DueDate == nil {
		for i := range schedule {
			schedule[i].NoEstimate = schedule[i].Active
		}
		return schedule
	}
	if ownRemaining <= 0 {
		return schedule
	}

	due := calendar.DateOf(*t.DueDate)
	if !due.Before(today) {
		from := today
		if t.StartDate != nil && t.StartDate.After(from) {
			from = calendar.DateOf(*t.StartDate)
		}
		window := calendar.DateRange{Start: from, End: due}
		if working := days.CountWorkingDays(window); working > 0 {
			share := ownRemaining / float64(working)
			for i := range schedule {
				if window.Contains(schedule[i].Date) && !schedule[i].Holiday {
					schedule[i].Hours = share
				}
			}
			return schedule
		}
	}

	catchUp := calendar.DateRange{Start: later(today, span.Start), End: span.End}
	if day, ok := days.FirstWorkingDay(catchUp); ok {
		for i := range schedule {
			if schedule[i].Date.Equal(day) {
				schedule[i].Hours = ownRemaining
				break
			}
		}
	}
	return schedule
}

func isActive(t task.Task, date time.Time) bool {
	if t.StartDate != nil && date.Before(calendar.DateOf(*t.StartDate)) {
		return false
	}
	if t.DueDate != nil && date.After(calendar.DateOf(*t.DueDate)) {
		return false
	}
	return true
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
