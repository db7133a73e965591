package domain

import "time"

// HistoryMessage is one line of a user's capture log. Seq grows
// monotonically per user; only the most recent window is retained.
type HistoryMessage struct {
	ID        int64
	UserID    int64
	Seq       int64
	Text      string
	CreatedAt time.Time
}
