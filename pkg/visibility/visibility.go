package visibility

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/klokku/workload/pkg/project"
	"github.com/klokku/workload/pkg/task"
	"github.com/klokku/workload/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Resolver decides whose workload, and which tasks, the acting user may see.
type Resolver struct {
	users user.Directory
	auth  project.Authorization
}

func NewResolver(users user.Directory, auth project.Authorization) *Resolver {
	return &Resolver{users: users, auth: auth}
}

// VisibleUsers returns the users whose workload the acting user may see, ordered by id.
// Admins see every active user. Holders of project.ViewProjectWorkload see themselves and
// the members of the projects where they hold it. Everybody else sees only themselves and
// the anonymous user sees nobody.
func (r *Resolver) VisibleUsers(ctx context.Context, acting user.User) ([]user.User, error) {
	if acting.IsAnonymous() {
		return []user.User{}, nil
	}
	if acting.Admin {
		users, err := r.users.GetActiveUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active users: %w", err)
		}
		return users, nil
	}

	projectIds, err := r.auth.ProjectsWithPermission(ctx, acting.Id, project.ViewProjectWorkload)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve projects of user %d: %w", acting.Id, err)
	}
	if len(projectIds) == 0 {
		return []user.User{acting}, nil
	}
	log.Debugf("user %d may see workload of projects %v", acting.Id, projectIds)

	members, err := r.auth.Members(ctx, projectIds)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of projects %v: %w", projectIds, err)
	}
	visible := []user.User{acting}
	for _, m := range members {
		if m.Id != acting.Id {
			visible = append(visible, m)
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].Id < visible[j].Id })
	return visible, nil
}

// CanSeeTask reports whether the task may be listed to the acting user: admins see every
// task, others see tasks of public projects and of projects they are a member of.
func (r *Resolver) CanSeeTask(ctx context.Context, acting user.User, t task.Task) (bool, error) {
	if acting.Admin || t.Project.Public {
		return true, nil
	}
	if acting.IsAnonymous() {
		return false, nil
	}
	member, err := r.auth.IsMember(ctx, acting.Id, t.Project.Id)
	if err != nil {
		return false, fmt.Errorf("failed to check membership of user %d: %w", acting.Id, err)
	}
	return member, nil
}

// TaskVisibility resolves the memberships of the acting user once and returns a predicate
// that answers like CanSeeTask.
func (r *Resolver) TaskVisibility(ctx context.Context, acting user.User) (func(task.Task) bool, error) {
	if acting.Admin {
		return func(task.Task) bool { return true }, nil
	}
	var projectIds []int
	if !acting.IsAnonymous() {
		ids, err := r.auth.ProjectIdsOf(ctx, acting.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to list projects of user %d: %w", acting.Id, err)
		}
		projectIds = ids
	}
	return func(t task.Task) bool {
		return t.Project.Public || slices.Contains(projectIds, t.Project.Id)
	}, nil
}
