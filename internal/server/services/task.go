package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
)

// defaultListLimit caps a list response when the caller gives no usable limit.
const defaultListLimit = 10

// taskFields is the allow-list for task updates.
var taskFields = map[string]struct{}{
	"description": {},
	"completed":   {},
}

// sortFields maps external sort field names to storage columns.
var sortFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"completed":   "completed",
}

// ListOptions carries raw query parameters of a task list request. Limit and
// Skip stay strings here: junk values are normalized to defaults, never
// surfaced as errors.
type ListOptions struct {
	Completed *bool
	SortBy    string
	Limit     string
	Skip      string
}

// TaskService is the ownership-scoped task query engine. Every operation
// takes the authenticated owner id; no path reads or writes another owner's
// tasks.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService constructs a TaskService over the given repositories.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// List returns the owner's tasks filtered, sorted, and paginated per opts.
func (s *TaskService) List(ctx context.Context, ownerID string, opts ListOptions) ([]*models.Task, error) {
	query := tasks.ListQuery{
		Completed: opts.Completed,
		Limit:     parseListInt(opts.Limit, defaultListLimit),
		Offset:    parseListInt(opts.Skip, 0),
	}
	query.SortColumn, query.SortDesc = parseSortBy(opts.SortBy)

	result, err := s.repomanager.Tasks(s.db).ListByOwner(ctx, ownerID, query)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Create stores a new task for ownerID. The owner is always the caller; any
// owner supplied by the client is ignored upstream by the allow-list.
func (s *TaskService) Create(ctx context.Context, ownerID, description string, completed bool) (*models.Task, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description must be provided", common.ErrorValidation)
	}

	task := &models.Task{UserID: ownerID, Description: description, Completed: completed}
	task, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return task, nil
}

// Get fetches one task scoped to ownerID. A task owned by someone else is
// reported as not found, never as a permission problem.
func (s *TaskService) Get(ctx context.Context, ownerID, id string) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).GetByOwner(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return task, nil
}

// Update applies an allow-listed update to the owner's task. A disallowed key
// rejects the whole update with ErrorInvalidOperation before any mutation.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, updates map[string]any) (*models.Task, error) {
	for key := range updates {
		if _, ok := taskFields[key]; !ok {
			return nil, fmt.Errorf("%w: field %q is not updatable", common.ErrorInvalidOperation, key)
		}
	}

	task, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	for key, value := range updates {
		switch key {
		case "description":
			description, ok := value.(string)
			if !ok || strings.TrimSpace(description) == "" {
				return nil, fmt.Errorf("%w: description must be a non-empty string", common.ErrorValidation)
			}
			task.Description = description
		case "completed":
			completed, ok := value.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: completed must be a boolean", common.ErrorValidation)
			}
			task.Completed = completed
		}
	}

	task, err = s.repomanager.Tasks(s.db).Update(ctx, task)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return task, nil
}

// Delete removes the owner's task and returns its prior state.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).Delete(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return task, nil
}

// parseListInt turns a raw query value into a non-negative int, falling back
// to def for anything missing, non-numeric, or negative.
func parseListInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// parseSortBy splits a "field_asc" / "field_desc" value into a storage column
// and direction. Unknown fields or malformed values mean store-default order.
func parseSortBy(sortBy string) (column string, desc bool) {
	if sortBy == "" {
		return "", false
	}
	field, direction, _ := strings.Cut(sortBy, "_")
	col, ok := sortFields[field]
	if !ok {
		return "", false
	}
	return col, direction == "desc"
}
