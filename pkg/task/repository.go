package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/workload/pkg/calendar"
	"github.com/klokku/workload/pkg/user"
	log "github.com/sirupsen/logrus"
)

var ErrTaskNotFound = errors.New("task not found")

type Repository interface {
	// FindOpenTasksAssignedTo returns open tasks assigned to any of the users, ordered by assignee, project and id.
	FindOpenTasksAssignedTo(ctx context.Context, userIds []int) ([]Task, error)
	FindTree(ctx context.Context, taskId int) (Tree, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const taskColumns = `t.id, t.subject, t.start_date, t.due_date, t.estimated_hours, t.done_ratio, t.parent_id,
		EXISTS (SELECT 1 FROM tasks c WHERE c.parent_id = t.id) AS has_children, t.closed,
		p.id, p.name, p.public,
		u.id, u.uid, u.username, u.display_name, u.admin, u.active`

const taskJoins = `JOIN projects p ON p.id = t.project_id
		LEFT JOIN users u ON u.id = t.assignee_id`

func (r *RepositoryImpl) FindOpenTasksAssignedTo(ctx context.Context, userIds []int) ([]Task, error) {
	if len(userIds) == 0 {
		return []Task{}, nil
	}
	query := `SELECT ` + taskColumns + `
		FROM tasks t ` + taskJoins + `
		WHERE NOT t.closed AND t.assignee_id = ANY($1)
		ORDER BY t.assignee_id, p.id, t.id`
	rows, err := r.db.Query(ctx, query, userIds)
	if err != nil {
		err := fmt.Errorf("could not query open tasks: %w", err)
		log.Error(err)
		return nil, err
	}
	return collectTasks(rows)
}

func (r *RepositoryImpl) FindTree(ctx context.Context, taskId int) (Tree, error) {
	rootQuery := `SELECT ` + taskColumns + ` FROM tasks t ` + taskJoins + ` WHERE t.id = $1`
	root, err := scanTask(r.db.QueryRow(ctx, rootQuery, taskId))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("task %d not found", taskId)
		return Tree{}, ErrTaskNotFound
	} else if err != nil {
		log.Errorf("failed to get task %d: %v", taskId, err)
		return Tree{}, err
	}

	ancestorsQuery := `WITH RECURSIVE ancestors(id, depth) AS (
			SELECT parent_id, 1 FROM tasks WHERE id = $1 AND parent_id IS NOT NULL
			UNION ALL
			SELECT t.parent_id, a.depth + 1 FROM tasks t JOIN ancestors a ON t.id = a.id WHERE t.parent_id IS NOT NULL
		)
		SELECT ` + taskColumns + `
		FROM ancestors a JOIN tasks t ON t.id = a.id ` + taskJoins + `
		ORDER BY a.depth`
	rows, err := r.db.Query(ctx, ancestorsQuery, taskId)
	if err != nil {
		err := fmt.Errorf("could not query ancestors of task %d: %w", taskId, err)
		log.Error(err)
		return Tree{}, err
	}
	ancestors, err := collectTasks(rows)
	if err != nil {
		return Tree{}, err
	}

	descendantsQuery := `WITH RECURSIVE descendants(id, depth) AS (
			SELECT id, 1 FROM tasks WHERE parent_id = $1
			UNION ALL
			SELECT t.id, d.depth + 1 FROM tasks t JOIN descendants d ON t.parent_id = d.id
		)
		SELECT ` + taskColumns + `
		FROM descendants d JOIN tasks t ON t.id = d.id ` + taskJoins + `
		ORDER BY d.depth, t.id`
	rows, err = r.db.Query(ctx, descendantsQuery, taskId)
	if err != nil {
		err := fmt.Errorf("could not query descendants of task %d: %w", taskId, err)
		log.Error(err)
		return Tree{}, err
	}
	descendants, err := collectTasks(rows)
	if err != nil {
		return Tree{}, err
	}

	return Tree{Root: root, Ancestors: ancestors, Descendants: descendants}, nil
}

func collectTasks(rows pgx.Rows) ([]Task, error) {
	defer rows.Close()
	tasks := make([]Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			log.Errorf("error scanning task row: %v", err)
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over rows: %v", err)
		return nil, err
	}
	return tasks, nil
}

func scanTask(row pgx.Row) (Task, error) {
	var (
		t              Task
		startDate      *time.Time
		dueDate        *time.Time
		estimatedHours *float64
		assigneeId     *int
		assigneeUid    *string
		username       *string
		displayName    *string
		admin          *bool
		active         *bool
	)
	err := row.Scan(
		&t.Id, &t.Subject, &startDate, &dueDate, &estimatedHours, &t.DoneRatio, &t.ParentId,
		&t.HasChildren, &t.Closed,
		&t.Project.Id, &t.Project.Name, &t.Project.Public,
		&assigneeId, &assigneeUid, &username, &displayName, &admin, &active,
	)
	if err != nil {
		return Task{}, err
	}
	if startDate != nil {
		d := calendar.DateOf(*startDate)
		t.StartDate = &d
	}
	if dueDate != nil {
		d := calendar.DateOf(*dueDate)
		t.DueDate = &d
	}
	if estimatedHours != nil {
		t.EstimatedHours = *estimatedHours
	}
	if assigneeId != nil {
		t.Assignee = &user.User{
			Id:          *assigneeId,
			Uid:         *assigneeUid,
			Username:    *username,
			DisplayName: *displayName,
			Admin:       *admin,
			Active:      *active,
		}
	}
	return t, nil
}
