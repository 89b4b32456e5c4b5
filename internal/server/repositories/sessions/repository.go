package sessions

import "context"

type Repository interface {
	Create(ctx context.Context, userID string, token string) error
	Exists(ctx context.Context, userID string, token string) (bool, error)
	Delete(ctx context.Context, userID string, token string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
