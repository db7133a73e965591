package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"jotbot/internal/auth"
	dom "jotbot/internal/domain"
	"jotbot/internal/dto"
	"jotbot/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskHandler serves task ranking and lifecycle operations.
type TaskHandler struct {
	svc *service.TaskService
}

// NewTaskHandler returns a new TaskHandler.
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Top godoc
// @Summary      Highest-priority unfinished tasks
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        limit  query     int  false  "Max results (1-5, default 5)"
// @Success      200    {array}   dto.TaskResponse
// @Failure      500    {object}  map[string]string
// @Router       /tasks/top [get]
func (h *TaskHandler) Top(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	limit := queryInt(c, "limit", 5)

	list, err := h.svc.TopTasks(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasksToResponses(list))
}

// Agenda godoc
// @Summary      Tasks due today or above the priority threshold
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        limit      query     int     false  "Max results (1-5, default 5)"
// @Param        threshold  query     number  false  "Priority threshold (1-5, default 4.0)"
// @Success      200        {array}   dto.TaskResponse
// @Failure      500        {object}  map[string]string
// @Router       /tasks/agenda [get]
func (h *TaskHandler) Agenda(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	limit := queryInt(c, "limit", 5)
	threshold := queryFloat(c, "threshold", 0)

	list, err := h.svc.Agenda(c.Request.Context(), userID, limit, threshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasksToResponses(list))
}

// SetStatus godoc
// @Summary      Move a task to pending, accepted or done
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.StatusRequest  true  "New status"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/{id}/status [post]
func (h *TaskHandler) SetStatus(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changed, err := h.svc.SetStatus(c.Request.Context(), userID, id, dom.Status(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending, accepted or done"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !changed {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Snooze godoc
// @Summary      Push a task's deadline forward
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.SnoozeRequest  true  "Days to push (min 1)"
// @Success      200   {object}  dto.SnoozeResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/{id}/snooze [post]
func (h *TaskHandler) Snooze(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SnoozeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deadline, err := h.svc.Snooze(c.Request.Context(), userID, id, req.Days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if deadline == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, dto.SnoozeResponse{Deadline: *deadline})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func queryFloat(c *gin.Context, name string, def float64) float64 {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return f
}
