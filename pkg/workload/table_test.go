package workload

import (
	"testing"
	"time"

	"github.com/klokku/workload/pkg/calendar"
	"github.com/klokku/workload/pkg/load"
	"github.com/klokku/workload/pkg/project"
	"github.com/klokku/workload/pkg/task"
	"github.com/klokku/workload/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesdays, Saturdays and Sundays off.
var days = calendar.MustWorkingDaySet(calendar.Wednesday, calendar.Saturday, calendar.Sunday)

var anna = user.User{Id: 2, Uid: "anna-uid", Username: "anna", DisplayName: "Anna", Active: true}
var bob = user.User{Id: 3, Uid: "bob-uid", Username: "bob", DisplayName: "Bob", Active: true}
var ecookbook = project.Project{Id: 1, Name: "eCookbook", Public: true}
var secret = project.Project{Id: 5, Name: "Secret"}

func date(month time.Month, day int) time.Time {
	return calendar.Date(2013, month, day)
}

func ptr[T any](v T) *T {
	return &v
}

func allVisible(task.Task) bool {
	return true
}

func TestBuildTable_Structure(t *testing.T) {
	// given
	issue1 := task.Task{
		Id: 1, Subject: "first", Assignee: &anna, Project: ecookbook,
		StartDate: ptr(date(time.May, 31)), DueDate: ptr(date(time.June, 4)),
		EstimatedHours: 10, DoneRatio: 50,
	}
	issue2 := task.Task{
		Id: 2, Subject: "second", Assignee: &anna, Project: ecookbook,
		StartDate: ptr(date(time.June, 3)), DueDate: ptr(date(time.June, 6)),
		EstimatedHours: 30, DoneRatio: 50,
	}
	span := calendar.DateRange{Start: date(time.May, 25), End: date(time.June, 4)}

	// when
	table := BuildTable([]task.Task{issue2, issue1}, span, date(time.May, 31), days, allVisible)

	// then
	require.Len(t, table.Users, 1)
	uw, ok := table.User(anna.Id)
	require.True(t, ok)
	assert.Equal(t, 0.0, uw.OverdueHours)
	assert.Equal(t, 0, uw.OverdueCount)
	assert.Len(t, uw.Total, 11)
	assert.Len(t, uw.Invisible, 11)

	require.Len(t, uw.Projects, 1)
	pw, ok := uw.Project(ecookbook.Id)
	require.True(t, ok)
	require.Len(t, pw.Tasks, 2)
	assert.Equal(t, issue1.Id, pw.Tasks[0].Task.Id)
	assert.Equal(t, issue2.Id, pw.Tasks[1].Task.Id)

	tw, ok := pw.Task(issue2.Id)
	require.True(t, ok)
	assert.Equal(t, 15.0, tw.RemainingHours)
	assert.False(t, tw.Overdue)

	friday := uw.Total[6]
	assert.Equal(t, date(time.May, 31), friday.Date)
	assert.InDelta(t, 5.0/3, friday.Hours, 1e-9)
	monday := uw.Total[9]
	assert.Equal(t, date(time.June, 3), monday.Date)
	assert.InDelta(t, 5.0/3+5, monday.Hours, 1e-9)
	assert.True(t, uw.Total[8].Holiday)
	assert.Equal(t, uw.Total, pw.Total)
	for _, invisible := range uw.Invisible {
		assert.Zero(t, invisible.Hours)
	}
}

func TestBuildTable_OverdueTasks(t *testing.T) {
	overdue := task.Task{Id: 7, Assignee: &anna, Project: ecookbook, DueDate: ptr(date(time.May, 30)), EstimatedHours: 10}
	onTime := task.Task{Id: 8, Assignee: &anna, Project: ecookbook, DueDate: ptr(date(time.May, 31)), EstimatedHours: 4}
	span := calendar.DateRange{Start: date(time.May, 30), End: date(time.June, 3)}

	table := BuildTable([]task.Task{overdue, onTime}, span, date(time.May, 31), days, allVisible)

	uw, ok := table.User(anna.Id)
	require.True(t, ok)
	assert.Equal(t, 10.0, uw.OverdueHours)
	assert.Equal(t, 1, uw.OverdueCount)

	pw, _ := uw.Project(ecookbook.Id)
	assert.Equal(t, 10.0, pw.OverdueHours)
	assert.Equal(t, 1, pw.OverdueCount)

	// the catch-up hours of the overdue task stay out of the totals
	assert.Equal(t, 4.0, uw.Total[1].Hours)
	assert.Equal(t, 4.0, sumHours(uw.Total))

	tw, ok := pw.Task(overdue.Id)
	require.True(t, ok)
	assert.True(t, tw.Overdue)
	assert.Equal(t, 10.0, tw.Schedule.TotalHours())
}

func TestBuildTable_DueDateOutsideUTC(t *testing.T) {
	plusFive := time.FixedZone("UTC+5", 5*60*60)
	due := time.Date(2013, time.June, 4, 0, 0, 0, 0, plusFive)
	tsk := task.Task{Id: 9, Assignee: &anna, Project: ecookbook, DueDate: &due, EstimatedHours: 10}
	span := calendar.DateRange{Start: date(time.June, 3), End: date(time.June, 4)}

	table := BuildTable([]task.Task{tsk}, span, date(time.June, 4), days, allVisible)

	uw, ok := table.User(anna.Id)
	require.True(t, ok)
	assert.Zero(t, uw.OverdueCount)
	assert.Zero(t, uw.OverdueHours)
	assert.Equal(t, 0.0, uw.Total[0].Hours)
	assert.Equal(t, 10.0, uw.Total[1].Hours)
}

func TestBuildTable_InvisibleTasks(t *testing.T) {
	hidden := task.Task{Id: 3, Assignee: &anna, Project: secret, DueDate: ptr(date(time.June, 3)), EstimatedHours: 6}
	shown := task.Task{Id: 4, Assignee: &anna, Project: ecookbook, DueDate: ptr(date(time.June, 3)), EstimatedHours: 2}
	span := calendar.DateRange{Start: date(time.June, 3), End: date(time.June, 3)}
	visible := func(t task.Task) bool { return t.Project.Public }

	table := BuildTable([]task.Task{hidden, shown}, span, date(time.June, 3), days, visible)

	uw, _ := table.User(anna.Id)
	require.Len(t, uw.Projects, 1)
	assert.Equal(t, ecookbook, uw.Projects[0].Project)
	_, ok := uw.Project(secret.Id)
	assert.False(t, ok)
	assert.Equal(t, 6.0, uw.Invisible[0].Hours)
	assert.Equal(t, 8.0, uw.Total[0].Hours)
}

func TestBuildTable_SkipsUnassignedTasks(t *testing.T) {
	span := calendar.DateRange{Start: date(time.June, 3), End: date(time.June, 4)}

	table := BuildTable([]task.Task{{Id: 1, DueDate: ptr(date(time.June, 4)), EstimatedHours: 3}}, span, date(time.June, 3), days, nil)

	assert.Empty(t, table.Users)
}

func TestBuildTable_EmptySpan(t *testing.T) {
	span := calendar.DateRange{Start: date(time.June, 4), End: date(time.June, 3)}
	tsk := task.Task{Id: 1, Assignee: &anna, Project: ecookbook, DueDate: ptr(date(time.June, 4)), EstimatedHours: 3}

	table := BuildTable([]task.Task{tsk}, span, date(time.June, 3), days, allVisible)

	uw, ok := table.User(anna.Id)
	require.True(t, ok)
	assert.Empty(t, uw.Total)
	assert.Empty(t, uw.Projects[0].Tasks[0].Schedule)
}

func TestTable_IncludeUsers(t *testing.T) {
	span := calendar.DateRange{Start: date(time.June, 3), End: date(time.June, 4)}
	tsk := task.Task{Id: 1, Assignee: &bob, Project: ecookbook, DueDate: ptr(date(time.June, 4)), EstimatedHours: 3}
	table := BuildTable([]task.Task{tsk}, span, date(time.June, 3), days, allVisible)

	table.IncludeUsers([]user.User{bob, anna})

	require.Len(t, table.Users, 2)
	assert.Equal(t, anna, table.Users[0].User)
	assert.Equal(t, bob, table.Users[1].User)
	assert.Len(t, table.Users[0].Total, 2)
	assert.Empty(t, table.Users[0].Projects)
	assert.Len(t, table.Users[1].Projects, 1)
}

func TestUserWorkload_Loads(t *testing.T) {
	uw := &UserWorkload{Total: []DayTotal{
		{Date: date(time.June, 3), Hours: 0.05},
		{Date: date(time.June, 4), Hours: 3.5},
		{Date: date(time.June, 5), Hours: 6, Holiday: true},
		{Date: date(time.June, 6), Hours: 10.5},
	}}

	loads := uw.Loads(load.Thresholds{LowMin: 0.1, NormalMin: 5, HighMin: 7})

	require.Len(t, loads, 4)
	assert.Equal(t, load.None, loads[0].Band)
	assert.Equal(t, load.Low, loads[1].Band)
	assert.Equal(t, load.Normal, loads[2].Band)
	assert.True(t, loads[2].Holiday)
	assert.Equal(t, load.High, loads[3].Band)
}
