package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisproj/aegis/backend/internal/audit"
	"github.com/aegisproj/aegis/backend/internal/models"
)

func setupActivityRouter(t *testing.T) (*gin.Engine, *audit.Ledger) {
	gin.SetMode(gin.TestMode)
	ledger := audit.NewLedger(100)
	watcher := audit.NewPatternWatcher(ledger, nil)
	handler := NewActivityHandler(ledger, watcher)

	router := gin.New()
	router.POST("/activities", handler.Log)
	router.GET("/activities", handler.Query)
	router.GET("/activities/stats", handler.Stats)
	router.GET("/activities/export", handler.Export)
	router.GET("/alerts", handler.Alerts)
	return router, ledger
}

func TestActivityHandler_Log(t *testing.T) {
	router, ledger := setupActivityRouter(t)

	w := postJSON(router, "/activities", map[string]any{
		"action":   "user.login",
		"resource": "session",
		"severity": "info",
		"category": "auth",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, 1, ledger.Len())
}

func TestActivityHandler_Log_MissingAction(t *testing.T) {
	router, _ := setupActivityRouter(t)

	w := postJSON(router, "/activities", map[string]any{"resource": "session"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityHandler_Query_Filtered(t *testing.T) {
	router, ledger := setupActivityRouter(t)
	ledger.Append(models.ActivityEntry{ActorID: "u1", Action: "user.login", Resource: "session", Success: true})
	ledger.Append(models.ActivityEntry{ActorID: "u2", Action: "course.update", Resource: "course", Success: true})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/activities?actor_id=u1", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries []models.ActivityEntry `json:"entries"`
		Count   int                    `json:"count"`
		Limit   int                    `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "user.login", resp.Entries[0].Action)
	assert.Equal(t, 100, resp.Limit)
}

func TestActivityHandler_Stats(t *testing.T) {
	router, ledger := setupActivityRouter(t)
	ledger.Append(models.ActivityEntry{ActorID: "u1", Action: "user.login", Resource: "session", Success: true})
	ledger.Append(models.ActivityEntry{ActorID: "u1", Action: "user.login", Resource: "session", Success: false})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/activities/stats", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stats audit.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, 1, stats.UniqueActors)
}

func TestActivityHandler_Stats_BadDate(t *testing.T) {
	router, _ := setupActivityRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/activities/stats?date_from=not-a-date", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityHandler_Export_CSV(t *testing.T) {
	router, ledger := setupActivityRouter(t)
	ledger.Append(models.ActivityEntry{ActorID: "u1", Action: "user.login", Resource: "session", Success: true})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/activities/export?format=csv", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "timestamp,actor_id"))
}

func TestActivityHandler_Export_UnknownFormat(t *testing.T) {
	router, _ := setupActivityRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/activities/export?format=xml", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityHandler_Alerts(t *testing.T) {
	router, ledger := setupActivityRouter(t)

	// Five failed logins inside the window trip the brute-force pattern.
	for i := 0; i < 5; i++ {
		ledger.Append(models.ActivityEntry{
			ActorID:  "u1",
			Action:   "user.login",
			Resource: "session",
			Success:  false,
			Category: models.CategoryAuth,
		})
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/alerts", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var alerts []models.SecurityAlert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.NotEmpty(t, alerts)

	patterns := make([]string, 0, len(alerts))
	for _, a := range alerts {
		patterns = append(patterns, a.Pattern)
	}
	assert.Contains(t, patterns, "multiple failed logins")
}
