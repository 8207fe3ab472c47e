package project

import (
	"context"

	"github.com/klokku/workload/pkg/user"
)

// ViewProjectWorkload lets a member see the workload of everyone in the project.
const ViewProjectWorkload = "view_project_workload"

type Project struct {
	Id     int
	Name   string
	Public bool
}

type Authorization interface {
	// ProjectsWithPermission returns ids of projects where a role of the user grants the permission, ascending.
	ProjectsWithPermission(ctx context.Context, userId int, permission string) ([]int, error)
	// Members returns active members of any of the projects, deduplicated and ordered by id.
	Members(ctx context.Context, projectIds []int) ([]user.User, error)
	IsMember(ctx context.Context, userId int, projectId int) (bool, error)
	ProjectIdsOf(ctx context.Context, userId int) ([]int, error)
}
