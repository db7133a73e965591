package domain

import "time"

// Idea is a captured concept or inspiration that is not yet actionable.
type Idea struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	Tags        []string
	CreatedAt   time.Time
}
