package domain

import "time"

// Note is captured information with no action intent. Title is optional;
// fallback notes store the raw text with no title or tags at all.
type Note struct {
	ID        int64
	UserID    int64
	Title     *string
	Content   string
	Tags      []string
	CreatedAt time.Time
}
