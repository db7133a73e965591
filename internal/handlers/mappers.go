package handlers

import (
	dom "jotbot/internal/domain"
	"jotbot/internal/dto"
)

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Deadline:         t.Deadline,
		Tags:             t.Tags,
		EstimatedMinutes: t.EstimatedMinutes,
		Importance:       t.Importance,
		Urgency:          t.Urgency,
		Reason:           t.Reason,
		PriorityScore:    t.PriorityScore,
		Status:           string(t.Status),
		CreatedAt:        t.CreatedAt,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}

func ideaToResponse(i dom.Idea) dto.IdeaResponse {
	return dto.IdeaResponse{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Tags:        i.Tags,
		CreatedAt:   i.CreatedAt,
	}
}

func ideasToResponses(list []dom.Idea) []dto.IdeaResponse {
	out := make([]dto.IdeaResponse, len(list))
	for i := range list {
		out[i] = ideaToResponse(list[i])
	}
	return out
}

func noteToResponse(n dom.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      n.Tags,
		CreatedAt: n.CreatedAt,
	}
}

func notesToResponses(list []dom.Note) []dto.NoteResponse {
	out := make([]dto.NoteResponse, len(list))
	for i := range list {
		out[i] = noteToResponse(list[i])
	}
	return out
}
