package project

import (
	"context"
	"slices"
	"sort"

	"github.com/klokku/workload/pkg/user"
)

type membership struct {
	user        user.User
	projectId   int
	permissions []string
}

type AuthorizationStub struct {
	memberships []membership
	Err         error
}

func NewAuthorizationStub() *AuthorizationStub {
	return &AuthorizationStub{}
}

// AddMember makes the user a member of the project with a role granting the permissions.
func (s *AuthorizationStub) AddMember(u user.User, projectId int, permissions ...string) {
	s.memberships = append(s.memberships, membership{user: u, projectId: projectId, permissions: permissions})
}

func (s *AuthorizationStub) ProjectsWithPermission(ctx context.Context, userId int, permission string) ([]int, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	ids := []int{}
	for _, m := range s.memberships {
		if m.user.Id == userId && slices.Contains(m.permissions, permission) && !slices.Contains(ids, m.projectId) {
			ids = append(ids, m.projectId)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *AuthorizationStub) Members(ctx context.Context, projectIds []int) ([]user.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	byId := map[int]user.User{}
	for _, m := range s.memberships {
		if m.user.Active && slices.Contains(projectIds, m.projectId) {
			byId[m.user.Id] = m.user
		}
	}
	members := make([]user.User, 0, len(byId))
	for _, u := range byId {
		members = append(members, u)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Id < members[j].Id })
	return members, nil
}

func (s *AuthorizationStub) IsMember(ctx context.Context, userId int, projectId int) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	for _, m := range s.memberships {
		if m.user.Id == userId && m.projectId == projectId {
			return true, nil
		}
	}
	return false, nil
}

func (s *AuthorizationStub) ProjectIdsOf(ctx context.Context, userId int) ([]int, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	ids := []int{}
	for _, m := range s.memberships {
		if m.user.Id == userId && !slices.Contains(ids, m.projectId) {
			ids = append(ids, m.projectId)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *AuthorizationStub) Reset() {
	s.memberships = nil
	s.Err = nil
}
