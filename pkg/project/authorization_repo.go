package project

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/workload/pkg/user"
	log "github.com/sirupsen/logrus"
)

type AuthorizationImpl struct {
	db *pgxpool.Pool
}

func NewAuthorization(db *pgxpool.Pool) *AuthorizationImpl {
	return &AuthorizationImpl{db: db}
}

func (a *AuthorizationImpl) ProjectsWithPermission(ctx context.Context, userId int, permission string) ([]int, error) {
	query := `SELECT DISTINCT m.project_id
			  FROM memberships m
			  JOIN roles r ON r.id = m.role_id
			  WHERE m.user_id = $1 AND $2 = ANY(r.permissions)
			  ORDER BY m.project_id`
	rows, err := a.db.Query(ctx, query, userId, permission)
	if err != nil {
		err := fmt.Errorf("could not query projects with permission %s: %w", permission, err)
		log.Error(err)
		return nil, err
	}
	return collectIds(rows)
}

func (a *AuthorizationImpl) Members(ctx context.Context, projectIds []int) ([]user.User, error) {
	if len(projectIds) == 0 {
		return []user.User{}, nil
	}
	query := `SELECT DISTINCT u.id, u.uid, u.username, u.display_name, u.admin, u.active
			  FROM users u
			  JOIN memberships m ON m.user_id = u.id
			  WHERE m.project_id = ANY($1) AND u.active
			  ORDER BY u.id`
	rows, err := a.db.Query(ctx, query, projectIds)
	if err != nil {
		err := fmt.Errorf("could not query project members: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	members := make([]user.User, 0, 10)
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.Id, &u.Uid, &u.Username, &u.DisplayName, &u.Admin, &u.Active); err != nil {
			log.Errorf("error scanning member row: %v", err)
			return nil, err
		}
		members = append(members, u)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over rows: %v", err)
		return nil, err
	}
	return members, nil
}

func (a *AuthorizationImpl) IsMember(ctx context.Context, userId int, projectId int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM memberships WHERE user_id = $1 AND project_id = $2)`
	var member bool
	if err := a.db.QueryRow(ctx, query, userId, projectId).Scan(&member); err != nil {
		log.Errorf("failed to check membership: %v", err)
		return false, err
	}
	return member, nil
}

func (a *AuthorizationImpl) ProjectIdsOf(ctx context.Context, userId int) ([]int, error) {
	query := `SELECT DISTINCT project_id FROM memberships WHERE user_id = $1 ORDER BY project_id`
	rows, err := a.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query projects of user %d: %w", userId, err)
		log.Error(err)
		return nil, err
	}
	return collectIds(rows)
}

func collectIds(rows pgx.Rows) ([]int, error) {
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		log.Errorf("error collecting project ids: %v", err)
		return nil, err
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}
