package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisproj/aegis/backend/internal/models"
	"github.com/aegisproj/aegis/backend/internal/moderation"
)

func setupConfigRouter(t *testing.T) (*gin.Engine, *moderation.Engine) {
	gin.SetMode(gin.TestMode)
	engine := moderation.NewEngine(moderation.NewConfigStore(models.DefaultModerationConfig()), nil, nil, nil)
	handler := NewConfigHandler(engine)

	router := gin.New()
	router.GET("/config", handler.Get)
	router.PUT("/config", handler.Update)
	return router, engine
}

func putJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestConfigHandler_Get(t *testing.T) {
	router, _ := setupConfigRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/config", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var cfg models.ModerationConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 0.7, cfg.Thresholds.Spam)
}

func TestConfigHandler_Update_Partial(t *testing.T) {
	router, engine := setupConfigRouter(t)

	w := putJSON(router, "/config", map[string]any{
		"strict_mode": true,
		"thresholds":  map[string]float64{"spam": 0.9},
		"blacklist":   []string{"cheapmeds"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	cfg := engine.Config()
	assert.True(t, cfg.StrictMode)
	assert.Equal(t, 0.9, cfg.Thresholds.Spam)
	assert.Equal(t, []string{"cheapmeds"}, cfg.Blacklist)
	// Untouched fields keep their prior values.
	assert.Equal(t, 0.6, cfg.Thresholds.Profanity)
}

func TestConfigHandler_Update_InvalidThreshold(t *testing.T) {
	router, engine := setupConfigRouter(t)

	w := putJSON(router, "/config", map[string]any{
		"thresholds": map[string]float64{"spam": 1.5},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The prior config stays in effect.
	assert.Equal(t, 0.7, engine.Config().Thresholds.Spam)
}
