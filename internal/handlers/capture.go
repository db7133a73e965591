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

// CaptureHandler accepts free-form text and reports what the pipeline
// stored. The public route takes the owner from the session; the internal
// route takes it from the path, for gateways that authenticate upstream.
type CaptureHandler struct {
	captures *service.CaptureService
	users    *service.UserService
}

// NewCaptureHandler returns a new CaptureHandler.
func NewCaptureHandler(captures *service.CaptureService, users *service.UserService) *CaptureHandler {
	return &CaptureHandler{captures: captures, users: users}
}

// Capture godoc
// @Summary      Capture free-form text as a task, idea or note
// @Tags         captures
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CaptureRequest  true  "Text to capture"
// @Success      201   {object}  dto.CaptureResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /captures [post]
func (h *CaptureHandler) Capture(c *gin.Context) {
	h.capture(c, auth.UserIDFromContext(c))
}

// InternalCapture stores text on behalf of a known user. Chat gateways call
// it with the shared internal token; the user must already exist.
func (h *CaptureHandler) InternalCapture(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	if _, err := h.users.GetByID(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "capture failed"})
		return
	}
	h.capture(c, userID)
}

func (h *CaptureHandler) capture(c *gin.Context, userID int64) {
	var req dto.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.captures.ProcessText(c.Request.Context(), userID, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrEmptyText) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "capture failed"})
		return
	}

	c.JSON(http.StatusCreated, captureToResponse(res))
}

func captureToResponse(res service.CaptureResult) dto.CaptureResponse {
	out := dto.CaptureResponse{Kind: string(res.Kind), Fallback: res.Fallback}
	switch {
	case res.Task != nil:
		t := taskToResponse(*res.Task)
		out.Task = &t
		out.Summary = dto.CaptureSummary{
			Title:            &t.Title,
			Preview:          t.Title,
			Deadline:         t.Deadline,
			EstimatedMinutes: t.EstimatedMinutes,
			PriorityScore:    t.PriorityScore,
		}
	case res.Idea != nil:
		i := ideaToResponse(*res.Idea)
		out.Idea = &i
		out.Summary = dto.CaptureSummary{Title: &i.Title, Preview: i.Title}
	case res.Note != nil:
		n := noteToResponse(*res.Note)
		out.Note = &n
		out.Summary = dto.CaptureSummary{Title: n.Title, Preview: dom.ClipText(n.Content, 60)}
	}
	return out
}
