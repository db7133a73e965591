package dto

import "time"

// StatusRequest is the JSON body for POST /tasks/:id/status.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SnoozeRequest is the JSON body for POST /tasks/:id/snooze. Days below 1
// (including omitted) snooze by one day.
type SnoozeRequest struct {
	Days int `json:"days"`
}

type SnoozeResponse struct {
	Deadline string `json:"deadline"`
}

// BulkDeleteRequest is the JSON body for DELETE /tasks|/ideas|/notes.
// Exactly one of All or Indices must be given; Indices are 1-based
// positions in the newest-first listing.
type BulkDeleteRequest struct {
	All     bool  `json:"all"`
	Indices []int `json:"indices"`
}

type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

type HistoryLine struct {
	Seq       int64     `json:"seq"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Items []HistoryLine `json:"items"`
}
