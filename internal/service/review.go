package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"jotbot/internal/cache"
	dom "jotbot/internal/domain"
	"jotbot/internal/repo"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	pageSize        = 10
	maxSearchHits   = 10
	maxHistoryLines = 50
)

var (
	ErrInvalidFilter = errors.New("invalid filter")
	ErrUnknownKind   = errors.New("unknown record kind")
)

// IndexRangeError rejects a bulk delete whose 1-based indices fall outside
// the user's current list; nothing is deleted when it is returned.
type IndexRangeError struct {
	Invalid []int
	Max     int
}

func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("indices out of range (1..%d): %v", e.Max, e.Invalid)
}

// ReviewService lists, searches and deletes stored records across kinds.
type ReviewService struct {
	tasks   repo.TaskRepo
	ideas   repo.IdeaRepo
	notes   repo.NoteRepo
	history repo.HistoryRepo
	cache   *cache.ViewCache
	log     *zap.SugaredLogger
	sf      singleflight.Group
}

// NewReviewService creates a ReviewService. If c is nil, caching is disabled.
func NewReviewService(tasks repo.TaskRepo, ideas repo.IdeaRepo, notes repo.NoteRepo, history repo.HistoryRepo, c *cache.ViewCache, log *zap.SugaredLogger) *ReviewService {
	return &ReviewService{tasks: tasks, ideas: ideas, notes: notes, history: history, cache: c, log: log}
}

// ListTasks returns one page of the user's tasks, newest first. More is set
// when the page came back full, so a following page probably exists.
func (s *ReviewService) ListTasks(ctx context.Context, userID int64, filter dom.Filter, page int) (dom.TaskPage, error) {
	if filter == "" {
		filter = dom.FilterAll
	}
	if !filter.Valid() {
		return dom.TaskPage{}, ErrInvalidFilter
	}
	page = normalizePage(page)

	key := cache.Key(userID, "list", "task", string(filter), strconv.Itoa(page))
	return withCache(ctx, s.cache, &s.sf, key, func() (dom.TaskPage, error) {
		items, err := s.tasks.List(ctx, userID, filter, pageSize, (page-1)*pageSize)
		if err != nil {
			return dom.TaskPage{}, err
		}
		return dom.TaskPage{Items: items, More: len(items) == pageSize}, nil
	})
}

// Ideas have no lifecycle, so only the "all" filter is accepted.
func (s *ReviewService) ListIdeas(ctx context.Context, userID int64, filter dom.Filter, page int) (dom.IdeaPage, error) {
	if err := requireAllFilter(filter); err != nil {
		return dom.IdeaPage{}, err
	}
	page = normalizePage(page)

	key := cache.Key(userID, "list", "idea", strconv.Itoa(page))
	return withCache(ctx, s.cache, &s.sf, key, func() (dom.IdeaPage, error) {
		items, err := s.ideas.List(ctx, userID, pageSize, (page-1)*pageSize)
		if err != nil {
			return dom.IdeaPage{}, err
		}
		return dom.IdeaPage{Items: items, More: len(items) == pageSize}, nil
	})
}

func (s *ReviewService) ListNotes(ctx context.Context, userID int64, filter dom.Filter, page int) (dom.NotePage, error) {
	if err := requireAllFilter(filter); err != nil {
		return dom.NotePage{}, err
	}
	page = normalizePage(page)

	key := cache.Key(userID, "list", "note", strconv.Itoa(page))
	return withCache(ctx, s.cache, &s.sf, key, func() (dom.NotePage, error) {
		items, err := s.notes.List(ctx, userID, pageSize, (page-1)*pageSize)
		if err != nil {
			return dom.NotePage{}, err
		}
		return dom.NotePage{Items: items, More: len(items) == pageSize}, nil
	})
}

// Search finds records whose title, body or tags contain q, newest first,
// up to limit matches per kind (clamped to [1,10]).
func (s *ReviewService) Search(ctx context.Context, userID int64, q string, limit int) (dom.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return dom.SearchResult{}, nil
	}
	limit = clampLimit(limit, maxSearchHits)

	key := cache.Key(userID, "search", strings.ToLower(q), strconv.Itoa(limit))
	return withCache(ctx, s.cache, &s.sf, key, func() (dom.SearchResult, error) {
		tasks, err := s.tasks.Search(ctx, userID, q, limit)
		if err != nil {
			return dom.SearchResult{}, err
		}
		ideas, err := s.ideas.Search(ctx, userID, q, limit)
		if err != nil {
			return dom.SearchResult{}, err
		}
		notes, err := s.notes.Search(ctx, userID, q, limit)
		if err != nil {
			return dom.SearchResult{}, err
		}
		return dom.SearchResult{Tasks: tasks, Ideas: ideas, Notes: notes}, nil
	})
}

func (s *ReviewService) DeleteAll(ctx context.Context, userID int64, kind dom.Kind) (int64, error) {
	var (
		n   int64
		err error
	)
	switch kind {
	case dom.KindTask:
		n, err = s.tasks.DeleteAll(ctx, userID)
	case dom.KindIdea:
		n, err = s.ideas.DeleteAll(ctx, userID)
	case dom.KindNote:
		n, err = s.notes.DeleteAll(ctx, userID)
	default:
		return 0, ErrUnknownKind
	}
	if err != nil {
		return 0, err
	}
	s.log.Infow("cleared records", "user_id", userID, "kind", kind, "deleted", n)
	s.invalidate(ctx, userID)
	return n, nil
}

// DeleteByIndices removes records by their 1-based position in the user's
// newest-first list. One bad index rejects the whole call before any delete.
func (s *ReviewService) DeleteByIndices(ctx context.Context, userID int64, kind dom.Kind, indices []int) (int64, error) {
	if len(indices) == 0 {
		return 0, nil
	}

	var (
		ids []int64
		err error
	)
	switch kind {
	case dom.KindTask:
		ids, err = s.tasks.ListIDs(ctx, userID)
	case dom.KindIdea:
		ids, err = s.ideas.ListIDs(ctx, userID)
	case dom.KindNote:
		ids, err = s.notes.ListIDs(ctx, userID)
	default:
		return 0, ErrUnknownKind
	}
	if err != nil {
		return 0, err
	}

	var invalid []int
	for _, idx := range indices {
		if idx < 1 || idx > len(ids) {
			invalid = append(invalid, idx)
		}
	}
	if len(invalid) > 0 {
		return 0, &IndexRangeError{Invalid: invalid, Max: len(ids)}
	}

	targets := make([]int64, 0, len(indices))
	for _, idx := range indices {
		targets = append(targets, ids[idx-1])
	}

	var n int64
	switch kind {
	case dom.KindTask:
		n, err = s.tasks.DeleteByIDs(ctx, userID, targets)
	case dom.KindIdea:
		n, err = s.ideas.DeleteByIDs(ctx, userID, targets)
	case dom.KindNote:
		n, err = s.notes.DeleteByIDs(ctx, userID, targets)
	}
	if err != nil {
		return 0, err
	}
	s.log.Infow("deleted records by index", "user_id", userID, "kind", kind, "deleted", n)
	s.invalidate(ctx, userID)
	return n, nil
}

// History returns the user's most recent captured texts, oldest first.
func (s *ReviewService) History(ctx context.Context, userID int64, limit int) ([]dom.HistoryMessage, error) {
	return s.history.Recent(ctx, userID, clampLimit(limit, maxHistoryLines))
}

func (s *ReviewService) invalidate(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}

func requireAllFilter(filter dom.Filter) error {
	if filter != "" && filter != dom.FilterAll {
		return ErrInvalidFilter
	}
	return nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
