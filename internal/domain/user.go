package domain

import "time"

// User represents a registered member of the marketplace.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
