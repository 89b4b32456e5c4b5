package models

import "time"

// Task belongs to exactly one user; UserID is set by the server, never by
// the client.
type Task struct {
	ID          string
	UserID      string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
