package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jotbot/internal/ai"
	"jotbot/internal/cache"
	dom "jotbot/internal/domain"
	"jotbot/internal/repo"

	"go.uber.org/zap"
)

var ErrEmptyText = errors.New("text is required")

const titleMax = 60

// Classifier is satisfied by ai.Classifier.
type Classifier interface {
	Classify(ctx context.Context, text string) (ai.Classification, error)
}

// Scorer is satisfied by ai.Scorer.
type Scorer interface {
	Score(ctx context.Context, title, details string, deadline *string) ai.Score
}

// CaptureResult reports what ProcessText stored. Exactly one of Task, Idea
// and Note is set, matching Kind; Fallback marks text kept as a raw note.
type CaptureResult struct {
	Kind     dom.Kind
	Fallback bool
	Task     *dom.Task
	Idea     *dom.Idea
	Note     *dom.Note
}

// CaptureService turns free-form text into exactly one stored record.
type CaptureService struct {
	classifier Classifier
	scorer     Scorer
	tasks      repo.TaskRepo
	ideas      repo.IdeaRepo
	notes      repo.NoteRepo
	history    repo.HistoryRepo
	cache      *cache.ViewCache
	log        *zap.SugaredLogger
	keep       int
}

// NewCaptureService wires the capture pipeline. keep is the per-user history
// window; c may be nil to disable caching.
func NewCaptureService(
	classifier Classifier,
	scorer Scorer,
	tasks repo.TaskRepo,
	ideas repo.IdeaRepo,
	notes repo.NoteRepo,
	history repo.HistoryRepo,
	c *cache.ViewCache,
	log *zap.SugaredLogger,
	keep int,
) *CaptureService {
	return &CaptureService{
		classifier: classifier,
		scorer:     scorer,
		tasks:      tasks,
		ideas:      ideas,
		notes:      notes,
		history:    history,
		cache:      c,
		log:        log,
		keep:       keep,
	}
}

// ProcessText classifies one message and stores the result. Classification
// failures never lose the text; only storage failures become errors.
func (s *CaptureService) ProcessText(ctx context.Context, userID int64, text string) (CaptureResult, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return CaptureResult{}, ErrEmptyText
	}

	// History is best effort; a lost log line must not lose the capture.
	if err := s.history.Append(ctx, userID, clean, s.keep); err != nil {
		s.log.Warnw("history append failed", "user_id", userID, "error", err)
	}

	cls, err := s.classifier.Classify(ctx, clean)
	if err != nil {
		s.log.Warnw("classification failed, storing raw note", "user_id", userID, "error", err)
		return s.fallbackNote(ctx, userID, clean)
	}

	switch {
	case cls.Type == dom.KindTask && cls.Task != nil:
		return s.storeTask(ctx, userID, *cls.Task, clean)
	case cls.Type == dom.KindIdea && cls.Idea != nil:
		return s.storeIdea(ctx, userID, *cls.Idea, clean)
	case cls.Type == dom.KindNote && cls.Note != nil:
		return s.storeNote(ctx, userID, *cls.Note, clean)
	}

	s.log.Warnw("classification payload missing, storing raw note", "user_id", userID, "type", cls.Type)
	return s.fallbackNote(ctx, userID, clean)
}

func (s *CaptureService) storeTask(ctx context.Context, userID int64, f ai.TaskFields, original string) (CaptureResult, error) {
	title := f.Title
	if title == "" {
		title = dom.ClipText(original, titleMax)
	}
	task, err := s.tasks.Create(ctx, dom.Task{
		UserID:           userID,
		Title:            title,
		Description:      optional(f.Details),
		Deadline:         f.Deadline,
		Tags:             f.Tags,
		EstimatedMinutes: f.EstimatedMinutes,
		Status:           dom.StatusPending,
	})
	if err != nil {
		return CaptureResult{}, fmt.Errorf("store task: %w", err)
	}

	details := f.Details
	if details == "" {
		details = original
	}
	score := s.scorer.Score(ctx, title, details, f.Deadline)
	priority := dom.PriorityScore(score.Importance, score.Urgency)
	if err := s.tasks.UpdateAnalysis(ctx, task.ID, score.Importance, score.Urgency, score.Reason, priority); err != nil {
		return CaptureResult{}, fmt.Errorf("store task analysis: %w", err)
	}
	task.Importance = &score.Importance
	task.Urgency = &score.Urgency
	task.Reason = optional(score.Reason)
	task.PriorityScore = &priority

	s.invalidate(ctx, userID)
	return CaptureResult{Kind: dom.KindTask, Task: &task}, nil
}

func (s *CaptureService) storeIdea(ctx context.Context, userID int64, f ai.IdeaFields, original string) (CaptureResult, error) {
	title := f.Title
	if title == "" {
		title = dom.ClipText(original, titleMax)
	}
	idea, err := s.ideas.Create(ctx, dom.Idea{
		UserID:      userID,
		Title:       title,
		Description: optional(f.Details),
		Tags:        f.Tags,
	})
	if err != nil {
		return CaptureResult{}, fmt.Errorf("store idea: %w", err)
	}
	s.invalidate(ctx, userID)
	return CaptureResult{Kind: dom.KindIdea, Idea: &idea}, nil
}

func (s *CaptureService) storeNote(ctx context.Context, userID int64, f ai.NoteFields, original string) (CaptureResult, error) {
	content := f.Content
	if content == "" {
		content = original
	}
	note, err := s.notes.Create(ctx, dom.Note{
		UserID:  userID,
		Title:   f.Title,
		Content: content,
		Tags:    f.Tags,
	})
	if err != nil {
		return CaptureResult{}, fmt.Errorf("store note: %w", err)
	}
	s.invalidate(ctx, userID)
	return CaptureResult{Kind: dom.KindNote, Note: &note}, nil
}

// fallbackNote stores text verbatim with no title and no tags.
func (s *CaptureService) fallbackNote(ctx context.Context, userID int64, text string) (CaptureResult, error) {
	note, err := s.notes.Create(ctx, dom.Note{UserID: userID, Content: text})
	if err != nil {
		return CaptureResult{}, fmt.Errorf("store fallback note: %w", err)
	}
	s.invalidate(ctx, userID)
	return CaptureResult{Kind: dom.KindNote, Fallback: true, Note: &note}, nil
}

func (s *CaptureService) invalidate(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
