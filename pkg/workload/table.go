package workload

import (
	"sort"
	"time"

	"github.com/klokku/workload/pkg/allocation"
	"github.com/klokku/workload/pkg/calendar"
	"github.com/klokku/workload/pkg/load"
	"github.com/klokku/workload/pkg/project"
	"github.com/klokku/workload/pkg/task"
	"github.com/klokku/workload/pkg/user"
)

// DayTotal sums the hours planned for several tasks on one day.
type DayTotal struct {
	Date    time.Time
	Hours   float64
	Holiday bool
}

type DayLoad struct {
	DayTotal
	Band load.Band
}

type TaskWorkload struct {
	Task           task.Task
	RemainingHours float64
	// DelegatedHours is the remaining effort of the open leaves below a parent task.
	DelegatedHours float64
	Overdue        bool
	Schedule       allocation.Schedule
}

type ProjectWorkload struct {
	Project project.Project
	Tasks   []*TaskWorkload
	// Total holds the hours of the project's tasks that are not overdue.
	Total        []DayTotal
	OverdueHours float64
	OverdueCount int
}

type UserWorkload struct {
	User     user.User
	Projects []*ProjectWorkload
	// Total holds the hours of every task that is not overdue, visible or not.
	Total []DayTotal
	// Invisible holds the hours of tasks in projects the acting user may not see.
	Invisible    []DayTotal
	OverdueHours float64
	OverdueCount int
}

// Table is the workload of several users over a span, split by project and task.
type Table struct {
	Span  calendar.DateRange
	Today time.Time
	Users []*UserWorkload

	days calendar.WorkingDaySet
}

// BuildTable allocates the remaining hours of every assigned task over the span and groups
// the schedules by assignee and project. Tasks for which visible returns false only count
// towards their assignee's totals and invisible summary.
func BuildTable(tasks []task.Task, span calendar.DateRange, today time.Time, days calendar.WorkingDaySet, visible func(task.Task) bool) *Table {
	span = calendar.NewDateRange(span.Start, span.End)
	if visible == nil {
		visible = func(task.Task) bool { return true }
	}
	table := &Table{Span: span, Today: calendar.DateOf(today), days: days}
	for _, t := range tasks {
		if t.Assignee == nil {
			continue
		}
		remaining := task.OwnRemainingHours(t)
		schedule := allocation.Allocate(t, span, table.Today, remaining, days)
		overdue := t.IsOverdue(table.Today)

		uw := table.AddUser(*t.Assignee)
		if overdue {
			uw.OverdueHours += remaining
			uw.OverdueCount++
		} else {
			addSchedule(uw.Total, schedule)
		}

		if !visible(t) {
			if !overdue {
				addSchedule(uw.Invisible, schedule)
			}
			continue
		}

		pw := uw.addProject(t.Project, table)
		if overdue {
			pw.OverdueHours += remaining
			pw.OverdueCount++
		} else {
			addSchedule(pw.Total, schedule)
		}
		pw.Tasks = append(pw.Tasks, &TaskWorkload{
			Task:           t,
			RemainingHours: remaining,
			Overdue:        overdue,
			Schedule:       schedule,
		})
	}
	table.sort()
	return table
}

// AddUser returns the row of the user, adding an empty one when the user has none yet.
func (tb *Table) AddUser(u user.User) *UserWorkload {
	if uw, ok := tb.User(u.Id); ok {
		return uw
	}
	uw := &UserWorkload{
		User:      u,
		Total:     tb.emptyTotals(),
		Invisible: tb.emptyTotals(),
	}
	tb.Users = append(tb.Users, uw)
	return uw
}

// IncludeUsers adds an empty row for every user without tasks.
func (tb *Table) IncludeUsers(users []user.User) {
	for _, u := range users {
		tb.AddUser(u)
	}
	tb.sort()
}

func (tb *Table) User(id int) (*UserWorkload, bool) {
	for _, uw := range tb.Users {
		if uw.User.Id == id {
			return uw, true
		}
	}
	return nil, false
}

func (uw *UserWorkload) Project(id int) (*ProjectWorkload, bool) {
	for _, pw := range uw.Projects {
		if pw.Project.Id == id {
			return pw, true
		}
	}
	return nil, false
}

func (pw *ProjectWorkload) Task(id int) (*TaskWorkload, bool) {
	for _, tw := range pw.Tasks {
		if tw.Task.Id == id {
			return tw, true
		}
	}
	return nil, false
}

// Loads classifies the user's daily totals.
func (uw *UserWorkload) Loads(th load.Thresholds) []DayLoad {
	loads := make([]DayLoad, 0, len(uw.Total))
	for _, total := range uw.Total {
		loads = append(loads, DayLoad{DayTotal: total, Band: load.Classify(total.Hours, th)})
	}
	return loads
}

func (uw *UserWorkload) addProject(p project.Project, tb *Table) *ProjectWorkload {
	if pw, ok := uw.Project(p.Id); ok {
		return pw
	}
	pw := &ProjectWorkload{Project: p, Total: tb.emptyTotals()}
	uw.Projects = append(uw.Projects, pw)
	return pw
}

func (tb *Table) emptyTotals() []DayTotal {
	dates := tb.Span.Days()
	totals := make([]DayTotal, 0, len(dates))
	for _, date := range dates {
		totals = append(totals, DayTotal{Date: date, Holiday: !tb.days.IsWorkingDay(date)})
	}
	return totals
}

// addSchedule adds the hours of the schedule to totals of the same span.
func addSchedule(totals []DayTotal, schedule allocation.Schedule) {
	for i := range totals {
		if i < len(schedule) {
			totals[i].Hours += schedule[i].Hours
		}
	}
}

func (tb *Table) sort() {
	sort.SliceStable(tb.Users, func(i, j int) bool { return tb.Users[i].User.Id < tb.Users[j].User.Id })
	for _, uw := range tb.Users {
		sort.SliceStable(uw.Projects, func(i, j int) bool { return uw.Projects[i].Project.Id < uw.Projects[j].Project.Id })
		for _, pw := range uw.Projects {
			sort.SliceStable(pw.Tasks, func(i, j int) bool { return pw.Tasks[i].Task.Id < pw.Tasks[j].Task.Id })
		}
	}
}
