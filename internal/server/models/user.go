package models

import "time"

// User is a registered account. PasswordHash and AvatarKey never leave the
// server; external views are built by the transport layer.
type User struct {
	ID           string
	Name         string
	Email        string
	Age          int
	PasswordHash []byte
	AvatarKey    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
