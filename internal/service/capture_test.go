package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"jotbot/internal/ai"
	"jotbot/internal/domain"

	"go.uber.org/zap"
)

type captureEnv struct {
	svc        *CaptureService
	classifier *fakeClassifier
	scorer     *fakeScorer
	tasks      *fakeTaskRepo
	ideas      *fakeIdeaRepo
	notes      *fakeNoteRepo
	history    *fakeHistoryRepo
}

func newCaptureEnv() *captureEnv {
	e := &captureEnv{
		classifier: &fakeClassifier{},
		scorer:     &fakeScorer{},
		tasks:      &fakeTaskRepo{},
		ideas:      &fakeIdeaRepo{},
		notes:      &fakeNoteRepo{},
		history:    &fakeHistoryRepo{},
	}
	e.svc = NewCaptureService(e.classifier, e.scorer, e.tasks, e.ideas, e.notes, e.history,
		nil, zap.NewNop().Sugar(), 50)
	return e
}

func (e *captureEnv) stored() (tasks, ideas, notes int) {
	return len(e.tasks.tasks), len(e.ideas.ideas), len(e.notes.notes)
}

func TestProcessTextRejectsEmpty(t *testing.T) {
	e := newCaptureEnv()
	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := e.svc.ProcessText(context.Background(), 1, text); !errors.Is(err, ErrEmptyText) {
			t.Errorf("ProcessText(%q) err = %v, want ErrEmptyText", text, err)
		}
	}
	if tk, id, nt := e.stored(); tk+id+nt != 0 {
		t.Errorf("empty input must store nothing, got %d/%d/%d", tk, id, nt)
	}
	if len(e.history.keeps) != 0 {
		t.Error("empty input must not be logged")
	}
}

func TestProcessTextTask(t *testing.T) {
	e := newCaptureEnv()
	deadline := "2024-06-16"
	est := 90
	e.classifier.cls = ai.Classification{
		Type: domain.KindTask,
		Task: &ai.TaskFields{
			Title:            "Buy present",
			Details:          "for dad",
			Deadline:         &deadline,
			Tags:             []string{"family", "shopping"},
			EstimatedMinutes: &est,
		},
	}
	e.scorer.score = ai.Score{Importance: 5, Urgency: 4, Reason: "birthday is fixed"}

	res, err := e.svc.ProcessText(context.Background(), 7, "buy present by Sunday")
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	if res.Kind != domain.KindTask || res.Fallback || res.Task == nil {
		t.Fatalf("result = %+v", res)
	}

	task := *res.Task
	if task.UserID != 7 || task.Title != "Buy present" || task.Status != domain.StatusPending {
		t.Errorf("task = %+v", task)
	}
	if task.Description == nil || *task.Description != "for dad" {
		t.Errorf("description = %v", task.Description)
	}
	if task.Deadline == nil || *task.Deadline != deadline {
		t.Errorf("deadline = %v", task.Deadline)
	}
	if !reflect.DeepEqual(task.Tags, []string{"family", "shopping"}) {
		t.Errorf("tags = %v", task.Tags)
	}
	if task.EstimatedMinutes == nil || *task.EstimatedMinutes != 90 {
		t.Errorf("estimated_minutes = %v", task.EstimatedMinutes)
	}
	if task.Importance == nil || *task.Importance != 5 || task.Urgency == nil || *task.Urgency != 4 {
		t.Errorf("scores = %v/%v", task.Importance, task.Urgency)
	}
	if task.PriorityScore == nil || *task.PriorityScore != 4.6 {
		t.Errorf("priority = %v, want 4.6", task.PriorityScore)
	}
	if task.Reason == nil || *task.Reason != "birthday is fixed" {
		t.Errorf("reason = %v", task.Reason)
	}

	if tk, id, nt := e.stored(); tk != 1 || id != 0 || nt != 0 {
		t.Errorf("stored %d/%d/%d, want exactly one task", tk, id, nt)
	}
	if e.scorer.titles[0] != "Buy present" || e.scorer.details[0] != "for dad" {
		t.Errorf("scorer got %q / %q", e.scorer.titles[0], e.scorer.details[0])
	}
	if e.scorer.deadlines[0] == nil || *e.scorer.deadlines[0] != deadline {
		t.Errorf("scorer deadline = %v", e.scorer.deadlines[0])
	}
	if e.history.entries[7][0] != "buy present by Sunday" {
		t.Errorf("history = %v", e.history.entries[7])
	}
	if e.history.keeps[0] != 50 {
		t.Errorf("history keep = %d, want configured window", e.history.keeps[0])
	}
}

func TestProcessTextTaskUntitled(t *testing.T) {
	e := newCaptureEnv()
	e.classifier.cls = ai.Classification{Type: domain.KindTask, Task: &ai.TaskFields{}}

	long := strings.Repeat("a", 70)
	res, err := e.svc.ProcessText(context.Background(), 1, long)
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	wantTitle := strings.Repeat("a", 57) + "..."
	if res.Task.Title != wantTitle {
		t.Errorf("title = %q, want clipped text", res.Task.Title)
	}
	// With no details from the oracle, the scorer sees the original text.
	if e.scorer.details[0] != long {
		t.Errorf("scorer details = %q, want original text", e.scorer.details[0])
	}
	if e.scorer.titles[0] != wantTitle {
		t.Errorf("scorer title = %q", e.scorer.titles[0])
	}
}

func TestProcessTextIdea(t *testing.T) {
	e := newCaptureEnv()
	e.classifier.cls = ai.Classification{
		Type: domain.KindIdea,
		Idea: &ai.IdeaFields{Title: "Plant app", Details: "watering reminders", Tags: []string{"side-project"}},
	}

	res, err := e.svc.ProcessText(context.Background(), 3, "an app that reminds me to water plants")
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	if res.Kind != domain.KindIdea || res.Idea == nil || res.Fallback {
		t.Fatalf("result = %+v", res)
	}
	if res.Idea.Title != "Plant app" || res.Idea.Description == nil || *res.Idea.Description != "watering reminders" {
		t.Errorf("idea = %+v", res.Idea)
	}
	if len(e.scorer.titles) != 0 {
		t.Error("ideas must not be scored")
	}
	if tk, id, nt := e.stored(); tk != 0 || id != 1 || nt != 0 {
		t.Errorf("stored %d/%d/%d, want exactly one idea", tk, id, nt)
	}
}

func TestProcessTextNote(t *testing.T) {
	e := newCaptureEnv()
	title := "Standup"
	e.classifier.cls = ai.Classification{
		Type: domain.KindNote,
		Note: &ai.NoteFields{Title: &title, Content: "moved to 11am", Tags: []string{"work"}},
	}

	res, err := e.svc.ProcessText(context.Background(), 2, "standup moved to 11am")
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	if res.Kind != domain.KindNote || res.Note == nil || res.Fallback {
		t.Fatalf("result = %+v", res)
	}
	if res.Note.Title == nil || *res.Note.Title != "Standup" || res.Note.Content != "moved to 11am" {
		t.Errorf("note = %+v", res.Note)
	}
}

func TestProcessTextNoteEmptyContent(t *testing.T) {
	e := newCaptureEnv()
	e.classifier.cls = ai.Classification{Type: domain.KindNote, Note: &ai.NoteFields{}}

	res, err := e.svc.ProcessText(context.Background(), 2, "remember this")
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	if res.Note.Content != "remember this" {
		t.Errorf("content = %q, want original text", res.Note.Content)
	}
}

func TestProcessTextClassifierErrorFallsBack(t *testing.T) {
	e := newCaptureEnv()
	e.classifier.err = errors.New("oracle down")

	res, err := e.svc.ProcessText(context.Background(), 5, "  call the dentist tomorrow  ")
	if err != nil {
		t.Fatalf("classification failure must not fail the capture: %v", err)
	}
	if res.Kind != domain.KindNote || !res.Fallback || res.Note == nil {
		t.Fatalf("result = %+v, want fallback note", res)
	}
	if res.Note.Content != "call the dentist tomorrow" {
		t.Errorf("content = %q, want trimmed original text", res.Note.Content)
	}
	if res.Note.Title != nil || res.Note.Tags != nil {
		t.Errorf("fallback note must have no title and no tags: %+v", res.Note)
	}
	if tk, id, nt := e.stored(); tk != 0 || id != 0 || nt != 1 {
		t.Errorf("stored %d/%d/%d, want exactly one note", tk, id, nt)
	}
}

func TestProcessTextMissingSectionFallsBack(t *testing.T) {
	e := newCaptureEnv()
	e.classifier.cls = ai.Classification{Type: domain.KindTask} // valid type, nil section

	res, err := e.svc.ProcessText(context.Background(), 5, "hmm")
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	if res.Kind != domain.KindNote || !res.Fallback {
		t.Fatalf("result = %+v, want fallback note", res)
	}
	if tk, _, nt := e.stored(); tk != 0 || nt != 1 {
		t.Errorf("a task must not be stored from an empty section")
	}
}

func TestProcessTextHistoryFailureIsBestEffort(t *testing.T) {
	e := newCaptureEnv()
	e.history.appendErr = errors.New("history table gone")
	e.classifier.cls = ai.Classification{Type: domain.KindNote, Note: &ai.NoteFields{Content: "x"}}

	res, err := e.svc.ProcessText(context.Background(), 1, "x")
	if err != nil {
		t.Fatalf("history failure must not fail the capture: %v", err)
	}
	if res.Kind != domain.KindNote {
		t.Errorf("result = %+v", res)
	}
}

func TestProcessTextStorageFailureIsFatal(t *testing.T) {
	e := newCaptureEnv()
	e.classifier.cls = ai.Classification{Type: domain.KindTask, Task: &ai.TaskFields{Title: "x"}}
	e.tasks.createErr = errors.New("connection refused")

	if _, err := e.svc.ProcessText(context.Background(), 1, "x"); err == nil {
		t.Fatal("storage failure must surface as an error")
	}
	if _, _, nt := e.stored(); nt != 0 {
		t.Error("storage failures must not silently degrade to a note")
	}
}

func TestProcessTextAnalysisFailureIsFatal(t *testing.T) {
	e := newCaptureEnv()
	e.classifier.cls = ai.Classification{Type: domain.KindTask, Task: &ai.TaskFields{Title: "x"}}
	e.tasks.analysisErr = errors.New("connection reset")

	if _, err := e.svc.ProcessText(context.Background(), 1, "x"); err == nil {
		t.Fatal("persisting the score must be part of the capture")
	}
}
