package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	dom "jotbot/internal/domain"

	"go.uber.org/zap"
)

// Classification is the oracle's verdict over one capture. Exactly the
// section matching Type is populated; a valid Type with a missing section
// is a contract violation the pipeline treats as a fallback.
type Classification struct {
	Type dom.Kind
	Task *TaskFields
	Idea *IdeaFields
	Note *NoteFields
}

// TaskFields is the normalized task section of a classification.
type TaskFields struct {
	Title            string
	Details          string
	Deadline         *string
	Tags             []string
	EstimatedMinutes *int
}

// IdeaFields is the normalized idea section.
type IdeaFields struct {
	Title   string
	Details string
	Tags    []string
}

// NoteFields is the normalized note section.
type NoteFields struct {
	Title   *string
	Content string
	Tags    []string
}

// InvalidTypeError reports a verdict outside {task, idea, note}: the oracle
// answered with parseable JSON but broke the schema contract.
type InvalidTypeError struct {
	Type string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid classification type %q", e.Type)
}

// Classifier wraps the classification oracle call: fixed prompt, strict
// JSON parsing, and a deterministic note fallback when the reply is not
// JSON at all.
type Classifier struct {
	oracle Oracle
	log    *zap.SugaredLogger
	now    func() time.Time
}

// NewClassifier returns a Classifier using the given oracle.
func NewClassifier(oracle Oracle, log *zap.SugaredLogger) *Classifier {
	return &Classifier{oracle: oracle, log: log, now: time.Now}
}

// Classify sends text to the oracle and returns the normalized verdict.
// A reply that is not valid JSON degrades to a note wrapping the original
// text rather than an error; an unknown verdict type is *InvalidTypeError.
func (c *Classifier) Classify(ctx context.Context, text string) (Classification, error) {
	clean := strings.TrimSpace(text)

	today := c.now().Format("2006-01-02")
	env, err := c.oracle.Complete(ctx, classifierPrompt(today), clean)
	if err != nil {
		return Classification{}, fmt.Errorf("classify: %w", err)
	}
	payload, ok := env.Text()
	if !ok {
		return Classification{}, fmt.Errorf("classify: %w", ErrEmptyResponse)
	}

	var raw rawClassification
	if err := json.Unmarshal([]byte(stripFences(payload)), &raw); err != nil {
		c.log.Warnw("classifier returned non-JSON, degrading to note", "error", err)
		return Classification{
			Type: dom.KindNote,
			Note: &NoteFields{Content: clean},
		}, nil
	}
	if !dom.Kind(raw.Type).Valid() {
		return Classification{}, &InvalidTypeError{Type: raw.Type}
	}
	return normalize(raw), nil
}

type rawClassification struct {
	Type string          `json:"type"`
	Task *rawTaskSection `json:"task"`
	Idea *rawIdeaSection `json:"idea"`
	Note *rawNoteSection `json:"note"`
}

type rawTaskSection struct {
	Title            string  `json:"title"`
	Details          string  `json:"details"`
	Description      string  `json:"description"`
	Deadline         *string `json:"deadline"`
	Tags             any     `json:"tags"`
	EstimatedMinutes any     `json:"estimated_minutes"`
}

type rawIdeaSection struct {
	Title       string `json:"title"`
	Details     string `json:"details"`
	Description string `json:"description"`
	Tags        any    `json:"tags"`
}

type rawNoteSection struct {
	Title   *string `json:"title"`
	Content string  `json:"content"`
	Tags    any     `json:"tags"`
}

func normalize(raw rawClassification) Classification {
	out := Classification{Type: dom.Kind(raw.Type)}
	switch out.Type {
	case dom.KindTask:
		out.Task = normalizeTask(raw.Task)
	case dom.KindIdea:
		out.Idea = normalizeIdea(raw.Idea)
	case dom.KindNote:
		out.Note = normalizeNote(raw.Note)
	}
	return out
}

func normalizeTask(s *rawTaskSection) *TaskFields {
	if s == nil {
		return nil
	}
	f := &TaskFields{
		Title:    strings.TrimSpace(s.Title),
		Details:  strings.TrimSpace(s.Details),
		Deadline: cleanOptional(s.Deadline),
		Tags:     dom.NormalizeTags(s.Tags),
	}
	if f.Details == "" {
		// Some replies say "description" instead of "details".
		f.Details = strings.TrimSpace(s.Description)
	}
	if n := toInt(s.EstimatedMinutes); n != nil && *n > 0 {
		f.EstimatedMinutes = n
	}
	return f
}

func normalizeIdea(s *rawIdeaSection) *IdeaFields {
	if s == nil {
		return nil
	}
	f := &IdeaFields{
		Title:   strings.TrimSpace(s.Title),
		Details: strings.TrimSpace(s.Details),
		Tags:    dom.NormalizeTags(s.Tags),
	}
	if f.Details == "" {
		f.Details = strings.TrimSpace(s.Description)
	}
	return f
}

func normalizeNote(s *rawNoteSection) *NoteFields {
	if s == nil {
		return nil
	}
	return &NoteFields{
		Title:   cleanOptional(s.Title),
		Content: strings.TrimSpace(s.Content),
		Tags:    dom.NormalizeTags(s.Tags),
	}
}

func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// toInt coerces a JSON value to an int: numbers truncate, numeric strings
// parse, everything else (including null) is nil.
func toInt(v any) *int {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		n := int(t)
		return &n
	case int:
		n := t
		return &n
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}
