package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"jotbot/internal/ai"
	"jotbot/internal/domain"

	"go.uber.org/zap"
)

// scriptedOracle feeds canned reply texts to the real classifier and scorer
// adapters, one per Complete call. An exhausted script reads as an outage.
type scriptedOracle struct {
	replies []string
	calls   int
}

func (o *scriptedOracle) Complete(_ context.Context, _, _ string) (ai.Envelope, error) {
	o.calls++
	if o.calls > len(o.replies) {
		return ai.Envelope{}, errors.New("oracle unavailable")
	}
	return ai.Envelope{OutputText: o.replies[o.calls-1]}, nil
}

func newPipelineEnv(oracle ai.Oracle) *captureEnv {
	log := zap.NewNop().Sugar()
	e := &captureEnv{
		tasks:   &fakeTaskRepo{},
		ideas:   &fakeIdeaRepo{},
		notes:   &fakeNoteRepo{},
		history: &fakeHistoryRepo{},
	}
	e.svc = NewCaptureService(
		ai.NewClassifier(oracle, log),
		ai.NewScorer(oracle, log),
		e.tasks, e.ideas, e.notes, e.history,
		nil, log, 50,
	)
	return e
}

func TestPipelineCaptureStoresScoredTask(t *testing.T) {
	oracle := &scriptedOracle{replies: []string{
		`{
			"type": "task",
			"task": {
				"title": "Buy groceries",
				"details": "milk, bread, eggs",
				"deadline": "2026-08-26",
				"tags": ["errands"],
				"estimated_minutes": 30
			}
		}`,
		`{"importance": 4, "urgency": 5, "reason": "needed by tomorrow"}`,
	}}
	e := newPipelineEnv(oracle)

	res, err := e.svc.ProcessText(context.Background(), 7, "  Buy groceries tomorrow  ")
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	if res.Kind != domain.KindTask || res.Fallback || res.Task == nil {
		t.Fatalf("result = %+v, want scored task", res)
	}
	if oracle.calls != 2 {
		t.Errorf("oracle calls = %d, want classify then score", oracle.calls)
	}

	task := *res.Task
	if task.Title != "Buy groceries" || task.Status != domain.StatusPending {
		t.Errorf("task = %+v", task)
	}
	if task.Deadline == nil || *task.Deadline != "2026-08-26" {
		t.Errorf("deadline = %v", task.Deadline)
	}
	if task.Importance == nil || *task.Importance != 4 || task.Urgency == nil || *task.Urgency != 5 {
		t.Errorf("scores = %v/%v", task.Importance, task.Urgency)
	}
	if task.PriorityScore == nil || *task.PriorityScore != 4.4 {
		t.Errorf("priority = %v, want 4.4", task.PriorityScore)
	}
	if *task.PriorityScore < 1 || *task.PriorityScore > 5 {
		t.Errorf("priority %v out of scale", *task.PriorityScore)
	}

	if len(e.tasks.tasks) != 1 {
		t.Fatalf("stored tasks = %d", len(e.tasks.tasks))
	}
	stored := e.tasks.tasks[0]
	if stored.PriorityScore == nil || *stored.PriorityScore != 4.4 {
		t.Errorf("stored priority = %v, analysis update not applied", stored.PriorityScore)
	}
	if got := e.history.entries[7]; len(got) != 1 || got[0] != "Buy groceries tomorrow" {
		t.Errorf("history = %v, want trimmed original text", got)
	}
}

func TestPipelineProseReplyBecomesNote(t *testing.T) {
	oracle := &scriptedOracle{replies: []string{"sure, I will remember that!"}}
	e := newPipelineEnv(oracle)

	res, err := e.svc.ProcessText(context.Background(), 3, "thinking about the garden")
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	if res.Kind != domain.KindNote || res.Note == nil {
		t.Fatalf("result = %+v, want note", res)
	}
	if res.Note.Content != "thinking about the garden" {
		t.Errorf("content = %q, want original text", res.Note.Content)
	}
	if oracle.calls != 1 {
		t.Errorf("oracle calls = %d, scorer must not run for notes", oracle.calls)
	}
}

func TestPipelineOracleOutageKeepsText(t *testing.T) {
	oracle := &scriptedOracle{}
	e := newPipelineEnv(oracle)

	res, err := e.svc.ProcessText(context.Background(), 3, "call the dentist")
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	if res.Kind != domain.KindNote || !res.Fallback || res.Note == nil {
		t.Fatalf("result = %+v, want fallback note", res)
	}
	if res.Note.Content != "call the dentist" {
		t.Errorf("content = %q", res.Note.Content)
	}
	if len(e.notes.notes) != 1 {
		t.Errorf("stored notes = %d", len(e.notes.notes))
	}
	if got := e.history.entries[3]; len(got) != 1 {
		t.Errorf("history = %v, capture log must survive outages", got)
	}
}

func TestPipelineScorerGarbageFallsBackToNeutral(t *testing.T) {
	oracle := &scriptedOracle{replies: []string{
		`{"type":"task","task":{"title":"Plan trip","details":"","deadline":null,"tags":[],"estimated_minutes":null}}`,
		"five out of five!!",
		"still not json",
	}}
	e := newPipelineEnv(oracle)

	res, err := e.svc.ProcessText(context.Background(), 1, "plan the trip")
	if err != nil {
		t.Fatalf("ProcessText: %v", err)
	}
	task := res.Task
	if task == nil {
		t.Fatalf("result = %+v, want task", res)
	}
	if task.Importance == nil || *task.Importance != 3 || task.Urgency == nil || *task.Urgency != 3 {
		t.Errorf("scores = %v/%v, want neutral defaults", task.Importance, task.Urgency)
	}
	if task.Reason == nil || !strings.Contains(*task.Reason, "fallback") {
		t.Errorf("reason = %v", task.Reason)
	}
	if task.PriorityScore == nil || *task.PriorityScore != 3 {
		t.Errorf("priority = %v, want 3", task.PriorityScore)
	}
	if oracle.calls != 3 {
		t.Errorf("oracle calls = %d, want classify plus two scoring attempts", oracle.calls)
	}
}
