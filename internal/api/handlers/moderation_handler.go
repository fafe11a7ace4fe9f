package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aegisproj/aegis/backend/internal/api/middleware"
	"github.com/aegisproj/aegis/backend/internal/models"
	"github.com/aegisproj/aegis/backend/internal/moderation"
	"github.com/aegisproj/aegis/backend/internal/services"
)

// ModerationHandler exposes the engine, hooks and review workflow.
type ModerationHandler struct {
	engine  *moderation.Engine
	hooks   *moderation.Hooks
	service *services.ModerationService
}

func NewModerationHandler(engine *moderation.Engine, hooks *moderation.Hooks, service *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{engine: engine, hooks: hooks, service: service}
}

type evaluateRequest struct {
	ID       string                 `json:"id"`
	Type     models.ContentType     `json:"type" binding:"required"`
	Text     string                 `json:"text"`
	Author   models.Author          `json:"author"`
	Metadata models.ContentMetadata `json:"metadata"`
}

func (r evaluateRequest) toItem(actor models.Author) models.ContentItem {
	author := r.Author
	if author.ID == "" {
		author = actor
	}
	return models.ContentItem{
		ID:        r.ID,
		Type:      r.Type,
		Text:      r.Text,
		Author:    author,
		Metadata:  r.Metadata,
		CreatedAt: time.Now(),
	}
}

// Evaluate runs the engine once and persists the verdict.
func (h *ModerationHandler) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.engine.Evaluate(req.toItem(middleware.GetActor(c)))
	if err := h.service.Save(&result); err != nil {
		// Persistence failure never blocks the decision.
		middleware.GetRequestLogger(c).WithError(err).Warn("failed to persist moderation result")
	}
	c.JSON(http.StatusOK, result)
}

// Hook dispatches to a named content-creation hook.
func (h *ModerationHandler) Hook(c *gin.Context) {
	kind := c.Param("kind")
	actor := middleware.GetActor(c)

	switch kind {
	case "post", "comment", "lesson":
		var req evaluateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		item := req.toItem(actor)
		var outcome moderation.HookOutcome
		switch kind {
		case "post":
			outcome = h.hooks.CheckPost(item)
		case "comment":
			outcome = h.hooks.CheckComment(item)
		default:
			outcome = h.hooks.CheckLesson(item)
		}
		h.persist(c, outcome.Result)
		c.JSON(http.StatusOK, outcome)

	case "profile":
		var req struct {
			Author models.Author     `json:"author"`
			Fields map[string]string `json:"fields" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		author := req.Author
		if author.ID == "" {
			author = actor
		}
		outcome := h.hooks.CheckProfileUpdate(author, req.Fields)
		for _, result := range outcome.Results {
			r := result
			h.persist(c, &r)
		}
		c.JSON(http.StatusOK, outcome)

	case "bulk":
		var req struct {
			Items []evaluateRequest `json:"items" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		items := make([]models.ContentItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, it.toItem(actor))
		}
		c.JSON(http.StatusOK, h.hooks.CheckBulkImport(items))

	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown hook: " + kind})
	}
}

func (h *ModerationHandler) persist(c *gin.Context, result *models.ModerationResult) {
	if result == nil {
		return
	}
	if err := h.service.Save(result); err != nil {
		middleware.GetRequestLogger(c).WithError(err).Warn("failed to persist moderation result")
	}
}

// GetResult returns one persisted verdict.
func (h *ModerationHandler) GetResult(c *gin.Context) {
	result, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrResultNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "moderation result not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load moderation result"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListResults returns persisted verdicts, optionally filtered by status.
func (h *ModerationHandler) ListResults(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	results, err := h.service.List(models.ModerationStatus(c.Query("status")), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list moderation results"})
		return
	}
	c.JSON(http.StatusOK, results)
}

// Review applies a one-shot human decision.
func (h *ModerationHandler) Review(c *gin.Context) {
	var req struct {
		Decision   string `json:"decision" binding:"required"`
		ReviewerID string `json:"reviewer_id"`
		Note       string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ReviewerID == "" {
		req.ReviewerID = middleware.GetActor(c).ID
	}

	result, err := h.service.Review(c.Param("id"), req.Decision, req.ReviewerID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrResultNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "moderation result not found"})
		case errors.Is(err, services.ErrReviewFinal):
			c.JSON(http.StatusConflict, gin.H{"error": "moderation result already reviewed"})
		case errors.Is(err, services.ErrInvalidDecision):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to review moderation result"})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
