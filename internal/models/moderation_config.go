package models

import (
	"errors"
	"fmt"
)

// ErrInvalidThreshold is returned when a config update carries a threshold
// outside [0,1]. The prior config stays in effect.
var ErrInvalidThreshold = errors.New("moderation threshold must be between 0 and 1")

// ModerationThresholds holds per-dimension trigger levels, each in [0,1].
type ModerationThresholds struct {
	Spam       float64 `json:"spam"`
	Profanity  float64 `json:"profanity"`
	Harassment float64 `json:"harassment"`
	Overall    float64 `json:"overall"`
}

// ModerationConfig is the engine's tunable state. Values are treated as
// immutable once published; updates build a new value and swap a single
// reference so concurrent evaluations never see a partial update.
type ModerationConfig struct {
	Enabled    bool                 `json:"enabled"`
	AutoAction bool                 `json:"auto_action"`
	StrictMode bool                 `json:"strict_mode"`
	// FailClosed flips the detector-error policy: instead of contributing
	// nothing, a failing detector forces the item into the review queue.
	FailClosed bool                 `json:"fail_closed"`
	Thresholds ModerationThresholds `json:"thresholds"`
	Blacklist  []string             `json:"blacklist"`
	Trusted    []string             `json:"trusted_users"`
	ExemptRole []string             `json:"exempt_roles"`
}

// DefaultModerationConfig mirrors a sensible production baseline.
func DefaultModerationConfig() ModerationConfig {
	return ModerationConfig{
		Enabled:    true,
		AutoAction: true,
		Thresholds: ModerationThresholds{
			Spam:       0.7,
			Profanity:  0.6,
			Harassment: 0.5,
			Overall:    0.65,
		},
		ExemptRole: []string{"admin", "moderator"},
	}
}

// Validate rejects thresholds outside [0,1].
func (c ModerationConfig) Validate() error {
	for name, v := range map[string]float64{
		"spam":       c.Thresholds.Spam,
		"profanity":  c.Thresholds.Profanity,
		"harassment": c.Thresholds.Harassment,
		"overall":    c.Thresholds.Overall,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidThreshold, name, v)
		}
	}
	return nil
}

// IsTrusted reports whether the author or role is exempt from scoring.
func (c ModerationConfig) IsTrusted(authorID, role string) bool {
	for _, id := range c.Trusted {
		if id != "" && id == authorID {
			return true
		}
	}
	for _, r := range c.ExemptRole {
		if r != "" && r == role {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can build a modified config without
// touching the published value.
func (c ModerationConfig) Clone() ModerationConfig {
	out := c
	out.Blacklist = append([]string(nil), c.Blacklist...)
	out.Trusted = append([]string(nil), c.Trusted...)
	out.ExemptRole = append([]string(nil), c.ExemptRole...)
	return out
}
