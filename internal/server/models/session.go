package models

import "time"

// Session is one login of a user: a row per issued token. A user may hold
// any number of concurrently valid sessions.
type Session struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
}
