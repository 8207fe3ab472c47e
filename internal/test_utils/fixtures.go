package test_utils

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/workload/pkg/user"
	"github.com/stretchr/testify/require"
)

// Truncate empties every table and restarts the id sequences.
func Truncate(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	_, err := db.Exec(context.Background(), `TRUNCATE tasks, memberships, roles, projects, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

func InsertUser(t *testing.T, db *pgxpool.Pool, username string, admin bool, active bool) user.User {
	t.Helper()
	u := user.User{
		Uid:         uuid.NewString(),
		Username:    username,
		DisplayName: username,
		Admin:       admin,
		Active:      active,
	}
	err := db.QueryRow(context.Background(),
		`INSERT INTO users (uid, username, display_name, admin, active) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		u.Uid, u.Username, u.DisplayName, u.Admin, u.Active,
	).Scan(&u.Id)
	require.NoError(t, err)
	return u
}

func InsertProject(t *testing.T, db *pgxpool.Pool, name string, public bool) int {
	t.Helper()
	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO projects (name, public) VALUES ($1, $2) RETURNING id`, name, public,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func InsertRole(t *testing.T, db *pgxpool.Pool, name string, permissions ...string) int {
	t.Helper()
	if permissions == nil {
		permissions = []string{}
	}
	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO roles (name, permissions) VALUES ($1, $2) RETURNING id`, name, permissions,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func InsertMembership(t *testing.T, db *pgxpool.Pool, userId int, projectId int, roleId int) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO memberships (user_id, project_id, role_id) VALUES ($1, $2, $3)`, userId, projectId, roleId,
	)
	require.NoError(t, err)
}

type TaskRow struct {
	Subject        string
	ProjectId      int
	ParentId       *int
	AssigneeId     *int
	StartDate      *time.Time
	DueDate        *time.Time
	EstimatedHours *float64
	DoneRatio      int
	Closed         bool
}

func InsertTask(t *testing.T, db *pgxpool.Pool, row TaskRow) int {
	t.Helper()
	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO tasks (subject, project_id, parent_id, assignee_id, start_date, due_date, estimated_hours, done_ratio, closed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		row.Subject, row.ProjectId, row.ParentId, row.AssigneeId, row.StartDate, row.DueDate, row.EstimatedHours, row.DoneRatio, row.Closed,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
