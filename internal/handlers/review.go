package handlers

import (
	"errors"
	"net/http"

	"jotbot/internal/auth"
	dom "jotbot/internal/domain"
	"jotbot/internal/dto"
	"jotbot/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewHandler serves listing, search, bulk deletion and the capture log.
type ReviewHandler struct {
	svc *service.ReviewService
}

// NewReviewHandler returns a new ReviewHandler.
func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// ListTasks godoc
// @Summary      List tasks, one page at a time
// @Tags         review
// @Produce      json
// @Security     CookieAuth
// @Param        filter  query     string  false  "all | done | active (default all)"
// @Param        page    query     int     false  "Page number, 1-based"
// @Success      200     {object}  dto.ListTasksResponse
// @Failure      400     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /tasks [get]
func (h *ReviewHandler) ListTasks(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	filter := dom.Filter(c.Query("filter"))
	page := queryInt(c, "page", 1)

	res, err := h.svc.ListTasks(c.Request.Context(), userID, filter, page)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "filter must be all, done or active"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(res.Items), More: res.More})
}

// ListIdeas godoc
// @Summary      List ideas, one page at a time
// @Tags         review
// @Produce      json
// @Security     CookieAuth
// @Param        page  query     int  false  "Page number, 1-based"
// @Success      200   {object}  dto.ListIdeasResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /ideas [get]
func (h *ReviewHandler) ListIdeas(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	filter := dom.Filter(c.Query("filter"))
	page := queryInt(c, "page", 1)

	res, err := h.svc.ListIdeas(c.Request.Context(), userID, filter, page)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ideas have no status filter"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListIdeasResponse{Items: ideasToResponses(res.Items), More: res.More})
}

// ListNotes godoc
// @Summary      List notes, one page at a time
// @Tags         review
// @Produce      json
// @Security     CookieAuth
// @Param        page  query     int  false  "Page number, 1-based"
// @Success      200   {object}  dto.ListNotesResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /notes [get]
func (h *ReviewHandler) ListNotes(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	filter := dom.Filter(c.Query("filter"))
	page := queryInt(c, "page", 1)

	res, err := h.svc.ListNotes(c.Request.Context(), userID, filter, page)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "notes have no status filter"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListNotesResponse{Items: notesToResponses(res.Items), More: res.More})
}

// Search godoc
// @Summary      Search tasks, ideas and notes
// @Tags         review
// @Produce      json
// @Security     CookieAuth
// @Param        q      query     string  true   "Substring to look for"
// @Param        limit  query     int     false  "Max hits per kind (1-10, default 10)"
// @Success      200    {object}  dto.SearchResponse
// @Failure      500    {object}  map[string]string
// @Router       /search [get]
func (h *ReviewHandler) Search(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	q := c.Query("q")
	limit := queryInt(c, "limit", 10)

	res, err := h.svc.Search(c.Request.Context(), userID, q, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.SearchResponse{
		Tasks: tasksToResponses(res.Tasks),
		Ideas: ideasToResponses(res.Ideas),
		Notes: notesToResponses(res.Notes),
	})
}

// DeleteTasks godoc
// @Summary      Delete tasks in bulk
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.BulkDeleteRequest  true  "all=true, or 1-based indices into the newest-first list"
// @Success      200   {object}  dto.DeleteResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks [delete]
func (h *ReviewHandler) DeleteTasks(c *gin.Context) {
	h.bulkDelete(c, dom.KindTask)
}

// DeleteIdeas godoc
// @Summary      Delete ideas in bulk
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.BulkDeleteRequest  true  "all=true, or 1-based indices into the newest-first list"
// @Success      200   {object}  dto.DeleteResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /ideas [delete]
func (h *ReviewHandler) DeleteIdeas(c *gin.Context) {
	h.bulkDelete(c, dom.KindIdea)
}

// DeleteNotes godoc
// @Summary      Delete notes in bulk
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.BulkDeleteRequest  true  "all=true, or 1-based indices into the newest-first list"
// @Success      200   {object}  dto.DeleteResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /notes [delete]
func (h *ReviewHandler) DeleteNotes(c *gin.Context) {
	h.bulkDelete(c, dom.KindNote)
}

func (h *ReviewHandler) bulkDelete(c *gin.Context, kind dom.Kind) {
	userID := auth.UserIDFromContext(c)
	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.All == (len(req.Indices) > 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide either all=true or indices, not both"})
		return
	}

	var (
		n   int64
		err error
	)
	if req.All {
		n, err = h.svc.DeleteAll(c.Request.Context(), userID, kind)
	} else {
		n, err = h.svc.DeleteByIndices(c.Request.Context(), userID, kind, req.Indices)
	}
	if err != nil {
		var ire *service.IndexRangeError
		if errors.As(err, &ire) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ire.Error(), "invalid": ire.Invalid, "max": ire.Max})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{Deleted: n})
}

// History godoc
// @Summary      Recent captured texts, oldest first
// @Tags         review
// @Produce      json
// @Security     CookieAuth
// @Param        limit  query     int  false  "Max lines (1-50, default 5)"
// @Success      200    {object}  dto.HistoryResponse
// @Failure      500    {object}  map[string]string
// @Router       /history [get]
func (h *ReviewHandler) History(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	limit := queryInt(c, "limit", 5)

	lines, err := h.svc.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]dto.HistoryLine, len(lines))
	for i, m := range lines {
		items[i] = dto.HistoryLine{Seq: m.Seq, Text: m.Text, CreatedAt: m.CreatedAt}
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{Items: items})
}
