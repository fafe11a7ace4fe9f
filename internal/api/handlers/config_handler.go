package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aegisproj/aegis/backend/internal/models"
	"github.com/aegisproj/aegis/backend/internal/moderation"
)

// ConfigHandler reads and atomically updates the moderation config.
type ConfigHandler struct {
	engine *moderation.Engine
}

func NewConfigHandler(engine *moderation.Engine) *ConfigHandler {
	return &ConfigHandler{engine: engine}
}

// configPatch applies partial updates; nil fields keep their current value.
type configPatch struct {
	Enabled    *bool     `json:"enabled"`
	AutoAction *bool     `json:"auto_action"`
	StrictMode *bool     `json:"strict_mode"`
	FailClosed *bool     `json:"fail_closed"`
	Thresholds *struct {
		Spam       *float64 `json:"spam"`
		Profanity  *float64 `json:"profanity"`
		Harassment *float64 `json:"harassment"`
		Overall    *float64 `json:"overall"`
	} `json:"thresholds"`
	Blacklist  *[]string `json:"blacklist"`
	Trusted    *[]string `json:"trusted_users"`
	ExemptRole *[]string `json:"exempt_roles"`
}

// Get returns the current config snapshot.
func (h *ConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Config())
}

// Update merges a partial config onto the current value, validates, and
// publishes it atomically. Invalid thresholds leave the prior config intact.
func (h *ConfigHandler) Update(c *gin.Context) {
	var patch configPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := h.engine.Config()
	applyPatch(&cfg, patch)

	if err := h.engine.UpdateConfig(cfg); err != nil {
		if errors.Is(err, models.ErrInvalidThreshold) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update config"})
		return
	}
	c.JSON(http.StatusOK, h.engine.Config())
}

func applyPatch(cfg *models.ModerationConfig, patch configPatch) {
	if patch.Enabled != nil {
		cfg.Enabled = *patch.Enabled
	}
	if patch.AutoAction != nil {
		cfg.AutoAction = *patch.AutoAction
	}
	if patch.StrictMode != nil {
		cfg.StrictMode = *patch.StrictMode
	}
	if patch.FailClosed != nil {
		cfg.FailClosed = *patch.FailClosed
	}
	if patch.Thresholds != nil {
		if patch.Thresholds.Spam != nil {
			cfg.Thresholds.Spam = *patch.Thresholds.Spam
		}
		if patch.Thresholds.Profanity != nil {
			cfg.Thresholds.Profanity = *patch.Thresholds.Profanity
		}
		if patch.Thresholds.Harassment != nil {
			cfg.Thresholds.Harassment = *patch.Thresholds.Harassment
		}
		if patch.Thresholds.Overall != nil {
			cfg.Thresholds.Overall = *patch.Thresholds.Overall
		}
	}
	if patch.Blacklist != nil {
		cfg.Blacklist = *patch.Blacklist
	}
	if patch.Trusted != nil {
		cfg.Trusted = *patch.Trusted
	}
	if patch.ExemptRole != nil {
		cfg.ExemptRole = *patch.ExemptRole
	}
}
