package dto

// CaptureRequest is the JSON body for POST /captures: one free-form message.
type CaptureRequest struct {
	Text string `json:"text" binding:"required"`
}

// CaptureSummary is the short, render-ready digest of what was stored.
// Only the fields relevant to the stored kind are set.
type CaptureSummary struct {
	Title            *string  `json:"title"`
	Preview          string   `json:"preview"`
	Deadline         *string  `json:"deadline"`
	EstimatedMinutes *int     `json:"estimated_minutes"`
	PriorityScore    *float64 `json:"priority_score"`
}

// CaptureResponse reports the classification outcome. Exactly one of
// Task/Idea/Note is set, matching Kind. Fallback is true when the text was
// preserved as a note because classification failed.
type CaptureResponse struct {
	Kind     string         `json:"kind"`
	Fallback bool           `json:"fallback"`
	Summary  CaptureSummary `json:"summary"`
	Task     *TaskResponse  `json:"task,omitempty"`
	Idea     *IdeaResponse  `json:"idea,omitempty"`
	Note     *NoteResponse  `json:"note,omitempty"`
}
