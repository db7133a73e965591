package dto

import "time"

type TaskResponse struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description"`
	Deadline         *string   `json:"deadline"`
	Tags             []string  `json:"tags"`
	EstimatedMinutes *int      `json:"estimated_minutes"`
	Importance       *int      `json:"importance"`
	Urgency          *int      `json:"urgency"`
	Reason           *string   `json:"reason"`
	PriorityScore    *float64  `json:"priority_score"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

type IdeaResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

type NoteResponse struct {
	ID        int64     `json:"id"`
	Title     *string   `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// ListTasksResponse is one page of tasks; More hints that another page
// probably exists.
type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
	More  bool           `json:"more"`
}

type ListIdeasResponse struct {
	Items []IdeaResponse `json:"items"`
	More  bool           `json:"more"`
}

type ListNotesResponse struct {
	Items []NoteResponse `json:"items"`
	More  bool           `json:"more"`
}

// SearchResponse groups matches by kind, each capped independently.
type SearchResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Ideas []IdeaResponse `json:"ideas"`
	Notes []NoteResponse `json:"notes"`
}
