package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"jotbot/internal/cache"
	dom "jotbot/internal/domain"
	"jotbot/internal/repo"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	maxSuggestions = 5
	// DefaultAgendaThreshold is the score from which a task counts as high
	// priority in the agenda view.
	DefaultAgendaThreshold = 4.0

	dateLayout = "2006-01-02"
)

var ErrInvalidStatus = errors.New("invalid status")

// TaskService ranks tasks and moves them through their lifecycle.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.ViewCache
	log   *zap.SugaredLogger
	sf    singleflight.Group
	now   func() time.Time
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.ViewCache, log *zap.SugaredLogger) *TaskService {
	return &TaskService{repo: r, cache: c, log: log, now: time.Now}
}

// TopTasks returns the user's highest-priority unfinished tasks, limit
// clamped to [1,5]. Unscored tasks rank below scored ones.
func (s *TaskService) TopTasks(ctx context.Context, userID int64, limit int) ([]dom.Task, error) {
	limit = clampLimit(limit, maxSuggestions)
	key := cache.Key(userID, "top", strconv.Itoa(limit))
	return withCache(ctx, s.cache, &s.sf, key, func() ([]dom.Task, error) {
		return s.repo.TopByPriority(ctx, userID, limit)
	})
}

// Agenda returns unfinished tasks due today or scoring at least threshold.
// A zero threshold means the default; anything else clamps to [1,5].
func (s *TaskService) Agenda(ctx context.Context, userID int64, limit int, threshold float64) ([]dom.Task, error) {
	limit = clampLimit(limit, maxSuggestions)
	threshold = clampThreshold(threshold)
	today := s.now().Format(dateLayout)

	key := cache.Key(userID, "agenda", today,
		strconv.FormatFloat(threshold, 'f', -1, 64), strconv.Itoa(limit))
	return withCache(ctx, s.cache, &s.sf, key, func() ([]dom.Task, error) {
		return s.repo.DueOrHighPriority(ctx, userID, today, threshold, limit)
	})
}

// SetStatus moves a task to the given lifecycle state. The bool is false
// when the task does not exist or belongs to another user.
func (s *TaskService) SetStatus(ctx context.Context, userID, taskID int64, status dom.Status) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	ok, err := s.repo.SetStatus(ctx, userID, taskID, status)
	if err != nil {
		return false, err
	}
	if ok {
		s.invalidate(ctx, userID)
	}
	return ok, nil
}

// Snooze pushes a task's deadline days forward (minimum 1). A missing or
// unparsable stored deadline rebases on today; nil means no such task.
func (s *TaskService) Snooze(ctx context.Context, userID, taskID int64, days int) (*string, error) {
	if days < 1 {
		days = 1
	}
	task, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	base := s.now()
	if task.Deadline != nil {
		if parsed, err := time.Parse(dateLayout, strings.TrimSpace(*task.Deadline)); err == nil {
			base = parsed
		} else {
			s.log.Warnw("unparsable deadline, snoozing from today",
				"task_id", taskID, "deadline", *task.Deadline)
		}
	}
	next := base.AddDate(0, 0, days).Format(dateLayout)

	ok, err := s.repo.UpdateDeadline(ctx, userID, taskID, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	s.invalidate(ctx, userID)
	return &next, nil
}

func (s *TaskService) invalidate(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}

func clampThreshold(threshold float64) float64 {
	if threshold == 0 {
		return DefaultAgendaThreshold
	}
	if threshold < 1 {
		return 1
	}
	if threshold > 5 {
		return 5
	}
	return threshold
}
