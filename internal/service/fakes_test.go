package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"jotbot/internal/ai"
	"jotbot/internal/domain"

	"github.com/jackc/pgx/v5"
)

// In-memory repo fakes. Newest-first views iterate insertion order
// backwards, matching the SQL ordering.

type fakeTaskRepo struct {
	seq   int64
	tasks []domain.Task

	createErr   error
	analysisErr error

	topLimit        int
	agendaToday     string
	agendaThreshold float64
	agendaLimit     int
	searchQ         string
	searchLimit     int
}

func (f *fakeTaskRepo) Create(_ context.Context, t domain.Task) (domain.Task, error) {
	if f.createErr != nil {
		return domain.Task{}, f.createErr
	}
	f.seq++
	t.ID = f.seq
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeTaskRepo) UpdateAnalysis(_ context.Context, id int64, importance, urgency int, reason string, priorityScore float64) error {
	if f.analysisErr != nil {
		return f.analysisErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			imp, urg, rsn, p := importance, urgency, reason, priorityScore
			f.tasks[i].Importance = &imp
			f.tasks[i].Urgency = &urg
			f.tasks[i].Reason = &rsn
			f.tasks[i].PriorityScore = &p
			return nil
		}
	}
	return errors.New("no such task")
}

func (f *fakeTaskRepo) GetByID(_ context.Context, userID, id int64) (domain.Task, error) {
	for _, t := range f.tasks {
		if t.ID == id && t.UserID == userID {
			return t, nil
		}
	}
	return domain.Task{}, pgx.ErrNoRows
}

func (f *fakeTaskRepo) SetStatus(_ context.Context, userID, id int64, status domain.Status) (bool, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id && f.tasks[i].UserID == userID {
			f.tasks[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTaskRepo) UpdateDeadline(_ context.Context, userID, id int64, deadline string) (bool, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id && f.tasks[i].UserID == userID {
			d := deadline
			f.tasks[i].Deadline = &d
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTaskRepo) owned(userID int64) []domain.Task {
	var out []domain.Task
	for i := len(f.tasks) - 1; i >= 0; i-- {
		if f.tasks[i].UserID == userID {
			out = append(out, f.tasks[i])
		}
	}
	return out
}

func (f *fakeTaskRepo) List(_ context.Context, userID int64, filter domain.Filter, limit, offset int) ([]domain.Task, error) {
	var filtered []domain.Task
	for _, t := range f.owned(userID) {
		switch filter {
		case domain.FilterDone:
			if t.Status != domain.StatusDone {
				continue
			}
		case domain.FilterActive:
			if t.Status == domain.StatusDone {
				continue
			}
		}
		filtered = append(filtered, t)
	}
	if offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[offset:]
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (f *fakeTaskRepo) ListIDs(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for _, t := range f.owned(userID) {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func taskScore(t domain.Task) float64 {
	if t.PriorityScore == nil {
		return 0
	}
	return *t.PriorityScore
}

func (f *fakeTaskRepo) TopByPriority(_ context.Context, userID int64, limit int) ([]domain.Task, error) {
	f.topLimit = limit
	var open []domain.Task
	for _, t := range f.owned(userID) {
		if t.Status != domain.StatusDone {
			open = append(open, t)
		}
	}
	sort.SliceStable(open, func(i, j int) bool { return taskScore(open[i]) > taskScore(open[j]) })
	if len(open) > limit {
		open = open[:limit]
	}
	return open, nil
}

func (f *fakeTaskRepo) DueOrHighPriority(_ context.Context, userID int64, today string, threshold float64, limit int) ([]domain.Task, error) {
	f.agendaToday, f.agendaThreshold, f.agendaLimit = today, threshold, limit
	var out []domain.Task
	for _, t := range f.owned(userID) {
		if t.Status == domain.StatusDone {
			continue
		}
		due := t.Deadline != nil && *t.Deadline == today
		if due || taskScore(t) >= threshold {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return taskScore(out[i]) > taskScore(out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTaskRepo) Search(_ context.Context, userID int64, q string, limit int) ([]domain.Task, error) {
	f.searchQ, f.searchLimit = q, limit
	q = strings.ToLower(q)
	var out []domain.Task
	for _, t := range f.owned(userID) {
		hay := strings.ToLower(t.Title)
		if t.Description != nil {
			hay += " " + strings.ToLower(*t.Description)
		}
		hay += " " + strings.ToLower(strings.Join(t.Tags, ","))
		if strings.Contains(hay, q) {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) DeleteAll(_ context.Context, userID int64) (int64, error) {
	var kept []domain.Task
	var n int64
	for _, t := range f.tasks {
		if t.UserID == userID {
			n++
			continue
		}
		kept = append(kept, t)
	}
	f.tasks = kept
	return n, nil
}

func (f *fakeTaskRepo) DeleteByIDs(_ context.Context, userID int64, ids []int64) (int64, error) {
	drop := map[int64]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	var kept []domain.Task
	var n int64
	for _, t := range f.tasks {
		if t.UserID == userID && drop[t.ID] {
			n++
			continue
		}
		kept = append(kept, t)
	}
	f.tasks = kept
	return n, nil
}

type fakeIdeaRepo struct {
	seq       int64
	ideas     []domain.Idea
	createErr error
}

func (f *fakeIdeaRepo) Create(_ context.Context, i domain.Idea) (domain.Idea, error) {
	if f.createErr != nil {
		return domain.Idea{}, f.createErr
	}
	f.seq++
	i.ID = f.seq
	f.ideas = append(f.ideas, i)
	return i, nil
}

func (f *fakeIdeaRepo) owned(userID int64) []domain.Idea {
	var out []domain.Idea
	for i := len(f.ideas) - 1; i >= 0; i-- {
		if f.ideas[i].UserID == userID {
			out = append(out, f.ideas[i])
		}
	}
	return out
}

func (f *fakeIdeaRepo) List(_ context.Context, userID int64, limit, offset int) ([]domain.Idea, error) {
	list := f.owned(userID)
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeIdeaRepo) ListIDs(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for _, i := range f.owned(userID) {
		ids = append(ids, i.ID)
	}
	return ids, nil
}

func (f *fakeIdeaRepo) Search(_ context.Context, userID int64, q string, limit int) ([]domain.Idea, error) {
	q = strings.ToLower(q)
	var out []domain.Idea
	for _, i := range f.owned(userID) {
		hay := strings.ToLower(i.Title)
		if i.Description != nil {
			hay += " " + strings.ToLower(*i.Description)
		}
		hay += " " + strings.ToLower(strings.Join(i.Tags, ","))
		if strings.Contains(hay, q) {
			out = append(out, i)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeIdeaRepo) DeleteAll(_ context.Context, userID int64) (int64, error) {
	var kept []domain.Idea
	var n int64
	for _, i := range f.ideas {
		if i.UserID == userID {
			n++
			continue
		}
		kept = append(kept, i)
	}
	f.ideas = kept
	return n, nil
}

func (f *fakeIdeaRepo) DeleteByIDs(_ context.Context, userID int64, ids []int64) (int64, error) {
	drop := map[int64]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	var kept []domain.Idea
	var n int64
	for _, i := range f.ideas {
		if i.UserID == userID && drop[i.ID] {
			n++
			continue
		}
		kept = append(kept, i)
	}
	f.ideas = kept
	return n, nil
}

type fakeNoteRepo struct {
	seq       int64
	notes     []domain.Note
	createErr error
}

func (f *fakeNoteRepo) Create(_ context.Context, n domain.Note) (domain.Note, error) {
	if f.createErr != nil {
		return domain.Note{}, f.createErr
	}
	f.seq++
	n.ID = f.seq
	f.notes = append(f.notes, n)
	return n, nil
}

func (f *fakeNoteRepo) owned(userID int64) []domain.Note {
	var out []domain.Note
	for i := len(f.notes) - 1; i >= 0; i-- {
		if f.notes[i].UserID == userID {
			out = append(out, f.notes[i])
		}
	}
	return out
}

func (f *fakeNoteRepo) List(_ context.Context, userID int64, limit, offset int) ([]domain.Note, error) {
	list := f.owned(userID)
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeNoteRepo) ListIDs(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for _, n := range f.owned(userID) {
		ids = append(ids, n.ID)
	}
	return ids, nil
}

func (f *fakeNoteRepo) Search(_ context.Context, userID int64, q string, limit int) ([]domain.Note, error) {
	q = strings.ToLower(q)
	var out []domain.Note
	for _, n := range f.owned(userID) {
		hay := strings.ToLower(n.Content)
		if n.Title != nil {
			hay += " " + strings.ToLower(*n.Title)
		}
		hay += " " + strings.ToLower(strings.Join(n.Tags, ","))
		if strings.Contains(hay, q) {
			out = append(out, n)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeNoteRepo) DeleteAll(_ context.Context, userID int64) (int64, error) {
	var kept []domain.Note
	var n int64
	for _, nt := range f.notes {
		if nt.UserID == userID {
			n++
			continue
		}
		kept = append(kept, nt)
	}
	f.notes = kept
	return n, nil
}

func (f *fakeNoteRepo) DeleteByIDs(_ context.Context, userID int64, ids []int64) (int64, error) {
	drop := map[int64]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	var kept []domain.Note
	var n int64
	for _, nt := range f.notes {
		if nt.UserID == userID && drop[nt.ID] {
			n++
			continue
		}
		kept = append(kept, nt)
	}
	f.notes = kept
	return n, nil
}

type fakeHistoryRepo struct {
	entries   map[int64][]string
	keeps     []int
	lastLimit int
	appendErr error
}

func (f *fakeHistoryRepo) Append(_ context.Context, userID int64, text string, keep int) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if f.entries == nil {
		f.entries = map[int64][]string{}
	}
	f.keeps = append(f.keeps, keep)
	lines := append(f.entries[userID], text)
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	f.entries[userID] = lines
	return nil
}

func (f *fakeHistoryRepo) Recent(_ context.Context, userID int64, limit int) ([]domain.HistoryMessage, error) {
	f.lastLimit = limit
	lines := f.entries[userID]
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	out := make([]domain.HistoryMessage, 0, len(lines))
	for i, text := range lines {
		out = append(out, domain.HistoryMessage{UserID: userID, Seq: int64(i + 1), Text: text})
	}
	return out, nil
}

type fakeClassifier struct {
	cls   ai.Classification
	err   error
	texts []string
}

func (f *fakeClassifier) Classify(_ context.Context, text string) (ai.Classification, error) {
	f.texts = append(f.texts, text)
	return f.cls, f.err
}

type fakeScorer struct {
	score     ai.Score
	titles    []string
	details   []string
	deadlines []*string
}

func (f *fakeScorer) Score(_ context.Context, title, details string, deadline *string) ai.Score {
	f.titles = append(f.titles, title)
	f.details = append(f.details, details)
	f.deadlines = append(f.deadlines, deadline)
	if f.score == (ai.Score{}) {
		return ai.Score{Importance: 3, Urgency: 3, Reason: "scripted"}
	}
	return f.score
}
