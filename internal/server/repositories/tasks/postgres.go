// Package tasks provides the PostgreSQL-backed repository for owner-scoped
// task persistence. Every statement here carries a user_id predicate; a task
// of another owner is indistinguishable from a missing one.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// sortColumns is the allow-list of ORDER BY targets. Anything else falls back
// to the store-default order.
var sortColumns = map[string]struct{}{
	"created_at":  {},
	"updated_at":  {},
	"description": {},
	"completed":   {},
}

// PostgresRepository implements task storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new task row for its owner.
func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`INSERT INTO tasks (user_id, description, completed)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, task.UserID, task.Description, task.Completed).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// GetByOwner fetches one task by id, constrained to ownerID.
func (r *PostgresRepository) GetByOwner(ctx context.Context, ownerID string, id string) (*models.Task, error) {
	query :=
		`SELECT id, user_id, description, completed, created_at, updated_at FROM tasks
		 WHERE id = $1 AND user_id = $2
		 `

	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).
		Scan(&task.ID, &task.UserID, &task.Description, &task.Completed, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// ListByOwner returns the owner's tasks, optionally filtered by completion and
// sorted by a validated column, with limit/offset paging. Without an explicit
// sort the order is created_at then id, which is stable for a fixed data set.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, q ListQuery) ([]*models.Task, error) {

	var sb strings.Builder
	sb.WriteString(`SELECT id, user_id, description, completed, created_at, updated_at FROM tasks WHERE user_id = $1`)
	args := []any{ownerID}

	if q.Completed != nil {
		args = append(args, *q.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}

	if _, ok := sortColumns[q.SortColumn]; ok {
		direction := "ASC"
		if q.SortDesc {
			direction = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s, id", q.SortColumn, direction)
	} else {
		sb.WriteString(" ORDER BY created_at, id")
	}

	args = append(args, q.Limit)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	args = append(args, q.Offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		var item models.Task
		if err := rows.Scan(&item.ID, &item.UserID, &item.Description, &item.Completed, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update persists the allow-listed fields of an existing task. The owner
// predicate makes a foreign task look absent.
func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`UPDATE tasks SET description = $1, completed = $2, updated_at = now()
		 WHERE id = $3 AND user_id = $4
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, task.Description, task.Completed, task.ID, task.UserID).
		Scan(&task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// Delete atomically removes the task and returns its prior state.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID string, id string) (*models.Task, error) {
	query :=
		`DELETE FROM tasks
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, description, completed, created_at, updated_at
		 `

	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).
		Scan(&task.ID, &task.UserID, &task.Description, &task.Completed, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// DeleteAllForOwner removes every task of the owner (account cascade).
func (r *PostgresRepository) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	query :=
		`DELETE FROM tasks
		 WHERE user_id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
