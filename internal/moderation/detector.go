package moderation

import (
	"github.com/aegisproj/aegis/backend/internal/models"
	"github.com/aegisproj/aegis/backend/internal/util"
)

// Detector scores one risk dimension of a content item. Implementations are
// stateless and pure: the same item and config always produce the same flags.
type Detector interface {
	Name() string
	Detect(item models.ContentItem, cfg models.ModerationConfig) []models.ModerationFlag
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// severityForScore maps a detector score onto the shared severity bands.
func severityForScore(score float64) models.FlagSeverity {
	switch {
	case score > 0.9:
		return models.SeverityCritical
	case score > 0.8:
		return models.SeverityHigh
	case score > 0.5:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// capEvidence bounds the snippet list so flags never carry whole payloads.
func capEvidence(evidence []string) []string {
	if len(evidence) > models.MaxEvidencePerFlag {
		return evidence[:models.MaxEvidencePerFlag]
	}
	return evidence
}

// truncate bounds one evidence snippet and strips control characters so it
// is safe for logs and exports.
func truncate(s string, n int) string {
	return util.Truncate(util.SanitizeForLog(s), n)
}

// effectiveThreshold applies strict mode, which tightens every trigger level
// by 20%.
func effectiveThreshold(threshold float64, cfg models.ModerationConfig) float64 {
	if cfg.StrictMode {
		return threshold * 0.8
	}
	return threshold
}
