package domain

import "time"

// User is a registered account. Every stored record belongs to exactly
// one user; queries never cross that boundary.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
