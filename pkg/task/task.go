package task

import (
	"time"

	"github.com/klokku/workload/pkg/calendar"
	"github.com/klokku/workload/pkg/project"
	"github.com/klokku/workload/pkg/user"
)

type Task struct {
	Id             int
	Subject        string
	StartDate      *time.Time
	DueDate        *time.Time
	EstimatedHours float64
	// DoneRatio is the completion percentage, 0 to 100.
	DoneRatio   int
	Assignee    *user.User
	Project     project.Project
	ParentId    *int
	HasChildren bool
	Closed      bool
}

// IsOverdue reports whether the task is open and its due day lies before today. Both are
// compared as calendar days.
func (t Task) IsOverdue(today time.Time) bool {
	return !t.Closed && t.DueDate != nil && calendar.DateOf(*t.DueDate).Before(calendar.DateOf(today))
}

func (t Task) AssigneeId() int {
	if t.Assignee == nil {
		return 0
	}
	return t.Assignee.Id
}
