// Package sessions provides the PostgreSQL-backed repository for the live
// session-token set. Each issued token is one row, so concurrent logins are
// plain inserts and never clobber each other.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
)

// PostgresRepository implements session storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends one session row for userID.
func (r *PostgresRepository) Create(ctx context.Context, userID string, token string) error {

	query :=
		`INSERT INTO sessions (user_id, token)
		 VALUES ($1, $2)
		 `

	_, err := r.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Exists reports whether the exact token is present in the user's live set.
func (r *PostgresRepository) Exists(ctx context.Context, userID string, token string) (bool, error) {
	query :=
		`SELECT 1 FROM sessions
		 WHERE user_id = $1 AND token = $2
		 LIMIT 1
		 `

	var one int
	err := r.db.QueryRowContext(ctx, query, userID, token).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return true, nil
}

// Delete removes the matching session row. Deleting an absent token is a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, userID string, token string) error {
	query :=
		`DELETE FROM sessions
		 WHERE user_id = $1 AND token = $2
		 `

	_, err := r.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// DeleteAllForUser clears the user's entire session set.
func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	query :=
		`DELETE FROM sessions
		 WHERE user_id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
