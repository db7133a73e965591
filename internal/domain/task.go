package domain

import (
	"math"
	"time"
)

// Status is the task lifecycle state. Tasks start pending.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDone     Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDone:
		return true
	}
	return false
}

// Filter narrows task listings by lifecycle state.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterDone   Filter = "done"
	FilterActive Filter = "active"
)

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterDone, FilterActive:
		return true
	}
	return false
}

// Task is a captured actionable item. Deadline keeps the ISO date string
// the classifier produced, verbatim; score fields stay nil until scoring ran.
type Task struct {
	ID               int64
	UserID           int64
	Title            string
	Description      *string
	Deadline         *string
	Tags             []string
	EstimatedMinutes *int
	Importance       *int
	Urgency          *int
	Reason           *string
	PriorityScore    *float64
	Status           Status
	CreatedAt        time.Time
}

// PriorityScore blends importance and urgency into the ranking score,
// rounded to two decimals. Inputs clamped to [1,5] keep the result in [1,5].
func PriorityScore(importance, urgency int) float64 {
	raw := float64(importance)*0.6 + float64(urgency)*0.4
	return math.Round(raw*100) / 100
}
