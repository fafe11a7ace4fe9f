package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aegisproj/aegis/backend/internal/api/middleware"
	"github.com/aegisproj/aegis/backend/internal/audit"
	"github.com/aegisproj/aegis/backend/internal/models"
)

// ActivityHandler exposes the audit ledger: logging, filtered querying,
// statistics, export, and raised security alerts.
type ActivityHandler struct {
	ledger  *audit.Ledger
	watcher *audit.PatternWatcher
}

func NewActivityHandler(ledger *audit.Ledger, watcher *audit.PatternWatcher) *ActivityHandler {
	return &ActivityHandler{ledger: ledger, watcher: watcher}
}

type logRequest struct {
	Action     string                  `json:"action" binding:"required"`
	Resource   string                  `json:"resource" binding:"required"`
	ResourceID string                  `json:"resource_id"`
	Details    map[string]any          `json:"details"`
	Severity   models.ActivitySeverity `json:"severity"`
	Category   models.ActivityCategory `json:"category"`
	Success    *bool                   `json:"success"`
	DurationMS int64                   `json:"duration_ms"`
	Changes    *models.ChangeSet       `json:"changes"`
	SessionID  string                  `json:"session_id"`
}

// Log appends one activity entry. Actor identity comes from the attribution
// middleware; id and timestamp are assigned by the ledger.
func (h *ActivityHandler) Log(c *gin.Context) {
	var req logRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.GetActor(c)
	success := true
	if req.Success != nil {
		success = *req.Success
	}
	category := req.Category
	if category == "" {
		category = models.CategorySystem
	}

	id := h.ledger.Append(models.ActivityEntry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		ActorEmail: actor.Email,
		ActorRole:  actor.Role,
		Action:     req.Action,
		Resource:   req.Resource,
		ResourceID: req.ResourceID,
		Details:    req.Details,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		SessionID:  req.SessionID,
		Severity:   req.Severity,
		Category:   category,
		Success:    success,
		Duration:   time.Duration(req.DurationMS) * time.Millisecond,
		Changes:    req.Changes,
	})
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Query returns filtered, paginated entries, newest first.
func (h *ActivityHandler) Query(c *gin.Context) {
	var filters audit.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filters.Limit <= 0 || filters.Limit > 500 {
		filters.Limit = 100
	}
	entries := h.ledger.Query(filters)
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
		"offset":  filters.Offset,
		"limit":   filters.Limit,
	})
}

// Stats returns the aggregate projection over an optional date range.
func (h *ActivityHandler) Stats(c *gin.Context) {
	dateFrom, err := timeQuery(c, "date_from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_from"})
		return
	}
	dateTo, err := timeQuery(c, "date_to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_to"})
		return
	}
	c.JSON(http.StatusOK, h.ledger.Stats(dateFrom, dateTo))
}

// Export streams the filtered ledger slice as CSV or JSON.
func (h *ActivityHandler) Export(c *gin.Context) {
	var filters audit.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format := c.DefaultQuery("format", "csv")
	data, err := h.ledger.Export(format, filters)
	if err != nil {
		if errors.Is(err, audit.ErrUnknownFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	contentType := "text/csv"
	if format == "json" {
		contentType = "application/json"
	}
	filename := fmt.Sprintf("activities-%s.%s", time.Now().Format("20060102-150405"), format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// Alerts returns raised security-pattern alerts, newest first.
func (h *ActivityHandler) Alerts(c *gin.Context) {
	alerts := h.watcher.Alerts()
	if limit := intQuery(c, "limit", 0); limit > 0 && limit < len(alerts) {
		alerts = alerts[:limit]
	}
	c.JSON(http.StatusOK, alerts)
}

func timeQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparsable time %q", raw)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}
