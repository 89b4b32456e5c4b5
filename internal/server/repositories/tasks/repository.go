package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// ListQuery carries already-normalized list parameters: SortColumn is either
// empty (store-default order) or a validated column name.
type ListQuery struct {
	Completed  *bool
	SortColumn string
	SortDesc   bool
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByOwner(ctx context.Context, ownerID string, id string) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID string, q ListQuery) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, ownerID string, id string) (*models.Task, error)
	DeleteAllForOwner(ctx context.Context, ownerID string) error
}
