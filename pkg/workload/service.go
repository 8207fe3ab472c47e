package workload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klokku/workload/internal/utils"
	"github.com/klokku/workload/pkg/calendar"
	"github.com/klokku/workload/pkg/load"
	"github.com/klokku/workload/pkg/settings"
	"github.com/klokku/workload/pkg/task"
	"github.com/klokku/workload/pkg/user"
	log "github.com/sirupsen/logrus"
)

// MaxSpanDays is the longest span a workload can be computed for, two years.
const MaxSpanDays = 731

var ErrSpanTooLong = errors.New("span too long")

// checkSpan rejects spans longer than MaxSpanDays. Empty spans are fine.
func checkSpan(span calendar.DateRange) error {
	if span.Len() > MaxSpanDays {
		return fmt.Errorf("%w: %s has %d days, at most %d are allowed", ErrSpanTooLong, span, span.Len(), MaxSpanDays)
	}
	return nil
}

// Report is the workload table of a span together with what is needed to present it.
type Report struct {
	Table      *Table
	Months     []MonthBucket
	Thresholds load.Thresholds
}

// TaskTree is a task with the related tasks the acting user may see.
type TaskTree struct {
	task.Tree
	// DelegatedHours covers the whole subtree, hidden tasks included.
	DelegatedHours float64
}

type Service interface {
	GetWorkload(ctx context.Context, from time.Time, to time.Time) (Report, error)
	GetVisibleUsers(ctx context.Context) ([]user.User, error)
	GetTaskTree(ctx context.Context, taskId int) (TaskTree, error)
}

// VisibilityResolver is the part of visibility.Resolver the service relies on.
type VisibilityResolver interface {
	VisibleUsers(ctx context.Context, acting user.User) ([]user.User, error)
	CanSeeTask(ctx context.Context, acting user.User, t task.Task) (bool, error)
	TaskVisibility(ctx context.Context, acting user.User) (func(task.Task) bool, error)
}

type ServiceImpl struct {
	tasks    task.Repository
	resolver VisibilityResolver
	settings settings.Provider
	clock    utils.Clock
	location *time.Location
}

func NewService(tasks task.Repository, resolver VisibilityResolver, settings settings.Provider, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		tasks:    tasks,
		resolver: resolver,
		settings: settings,
		clock:    clock,
		location: time.Local,
	}
}

// GetWorkload builds the workload of every user the acting user of ctx may see.
func (s *ServiceImpl) GetWorkload(ctx context.Context, from time.Time, to time.Time) (Report, error) {
	acting := user.ActingUser(ctx)
	span := calendar.NewDateRange(from, to)
	if err := checkSpan(span); err != nil {
		return Report{}, err
	}
	today := utils.Today(s.clock, s.location)
	log.Debugf("Calculating workload of %s for user %d, today is %s", span, acting.Id, today.Format(time.DateOnly))

	users, err := s.resolver.VisibleUsers(ctx, acting)
	if err != nil {
		return Report{}, err
	}
	userIds := make([]int, 0, len(users))
	for _, u := range users {
		userIds = append(userIds, u.Id)
	}

	tasks, err := s.tasks.FindOpenTasksAssignedTo(ctx, userIds)
	if err != nil {
		return Report{}, fmt.Errorf("failed to get open tasks: %w", err)
	}
	log.Tracef("Open tasks of users %v: %d", userIds, len(tasks))

	visible, err := s.resolver.TaskVisibility(ctx, acting)
	if err != nil {
		return Report{}, err
	}

	table := BuildTable(tasks, span, today, s.settings.WorkingDaySet(ctx), visible)
	table.IncludeUsers(users)
	if err := s.addDelegatedHours(ctx, table); err != nil {
		return Report{}, err
	}

	return Report{
		Table:      table,
		Months:     MonthBuckets(span),
		Thresholds: s.settings.LoadThresholds(ctx),
	}, nil
}

func (s *ServiceImpl) addDelegatedHours(ctx context.Context, table *Table) error {
	for _, uw := range table.Users {
		for _, pw := range uw.Projects {
			for _, tw := range pw.Tasks {
				if !tw.Task.HasChildren {
					continue
				}
				tree, err := s.tasks.FindTree(ctx, tw.Task.Id)
				if err != nil {
					return fmt.Errorf("failed to get subtasks of task %d: %w", tw.Task.Id, err)
				}
				tw.DelegatedHours = task.RemainingHoursOf(tree)
			}
		}
	}
	return nil
}

// GetTaskTree returns the task with its ancestors and descendants. A task the acting user
// may not see is reported as task.ErrTaskNotFound; related tasks they may not see are left out.
func (s *ServiceImpl) GetTaskTree(ctx context.Context, taskId int) (TaskTree, error) {
	acting := user.ActingUser(ctx)
	tree, err := s.tasks.FindTree(ctx, taskId)
	if err != nil {
		return TaskTree{}, err
	}
	canSee, err := s.resolver.CanSeeTask(ctx, acting, tree.Root)
	if err != nil {
		return TaskTree{}, err
	}
	if !canSee {
		log.Debugf("task %d is not visible to user %d", taskId, acting.Id)
		return TaskTree{}, task.ErrTaskNotFound
	}

	visible, err := s.resolver.TaskVisibility(ctx, acting)
	if err != nil {
		return TaskTree{}, err
	}
	result := TaskTree{
		Tree:           task.Tree{Root: tree.Root},
		DelegatedHours: task.RemainingHoursOf(tree),
	}
	for _, a := range tree.Ancestors {
		if visible(a) {
			result.Ancestors = append(result.Ancestors, a)
		}
	}
	for _, d := range tree.Descendants {
		if visible(d) {
			result.Descendants = append(result.Descendants, d)
		}
	}
	return result, nil
}

func (s *ServiceImpl) GetVisibleUsers(ctx context.Context) ([]user.User, error) {
	return s.resolver.VisibleUsers(ctx, user.ActingUser(ctx))
}
