package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	scoreAttempts = 2
	defaultReason = "No reason provided."
)

// fallbackScore stands in when both scoring attempts fail; the task stays
// rankable with neutral scores.
var fallbackScore = Score{Importance: 3, Urgency: 3, Reason: "ai_fallback"}

// Score is a task rating on the 1..5 scale.
type Score struct {
	Importance int
	Urgency    int
	Reason     string
}

// Scorer rates a task's importance and urgency. It never fails from the
// caller's point of view: one retry, then fixed neutral defaults.
type Scorer struct {
	oracle Oracle
	log    *zap.SugaredLogger
}

// NewScorer returns a Scorer using the given oracle.
func NewScorer(oracle Oracle, log *zap.SugaredLogger) *Scorer {
	return &Scorer{oracle: oracle, log: log}
}

// Score rates the task described by title, details and deadline. Out-of-range
// values clamp to [1,5], non-numeric ones become 3, a missing reason gets a
// fixed placeholder.
func (s *Scorer) Score(ctx context.Context, title, details string, deadline *string) Score {
	payload, err := json.Marshal(scoreRequest{Title: title, Details: details, Deadline: deadline})
	if err != nil {
		return fallbackScore
	}

	var lastErr error
	for attempt := 1; attempt <= scoreAttempts; attempt++ {
		parsed, err := s.attempt(ctx, string(payload))
		if err == nil {
			return parsed
		}
		lastErr = err
		s.log.Warnw("task scoring attempt failed", "attempt", attempt, "error", err)
	}
	s.log.Errorw("task scoring failed, using fallback", "error", lastErr)
	return fallbackScore
}

func (s *Scorer) attempt(ctx context.Context, payload string) (Score, error) {
	env, err := s.oracle.Complete(ctx, scorerPrompt, payload)
	if err != nil {
		return Score{}, err
	}
	text, ok := env.Text()
	if !ok {
		return Score{}, ErrEmptyResponse
	}
	var raw rawScore
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return Score{}, fmt.Errorf("parse score: %w", err)
	}
	out := Score{
		Importance: clampScore(raw.Importance),
		Urgency:    clampScore(raw.Urgency),
		Reason:     strings.TrimSpace(raw.Reason),
	}
	if out.Reason == "" {
		out.Reason = defaultReason
	}
	return out, nil
}

type scoreRequest struct {
	Title    string  `json:"title"`
	Details  string  `json:"details"`
	Deadline *string `json:"deadline"`
}

type rawScore struct {
	Importance any    `json:"importance"`
	Urgency    any    `json:"urgency"`
	Reason     string `json:"reason"`
}

// clampScore forces a score value onto the 1..5 scale; anything that is not
// a number counts as the neutral 3.
func clampScore(v any) int {
	n := toInt(v)
	if n == nil {
		return 3
	}
	if *n < 1 {
		return 1
	}
	if *n > 5 {
		return 5
	}
	return *n
}
