package moderation

import (
	"fmt"
	"strings"

	"github.com/aegisproj/aegis/backend/internal/models"
)

// Resolve maps (flags, overallScore) onto one action. The checks form an
// ordered priority list: allow, then delete, then hide, then flag. The order
// is load-bearing and must not be reordered; delete outranks hide outranks
// flag.
func Resolve(flags []models.ModerationFlag, score float64, cfg models.ModerationConfig) models.ModerationAction {
	if score < effectiveThreshold(cfg.Thresholds.Overall, cfg) {
		return models.ModerationAction{
			Kind:      models.ActionAllow,
			Reason:    "passed checks",
			Automatic: true,
		}
	}

	critical := flagTypesAt(flags, models.SeverityCritical)
	if len(critical) > 0 || score > 0.9 {
		reason := fmt.Sprintf("risk score %.2f", score)
		if len(critical) > 0 {
			reason = "critical flags: " + strings.Join(critical, ", ")
		}
		return models.ModerationAction{
			Kind:      models.ActionDelete,
			Reason:    reason,
			Automatic: cfg.AutoAction,
		}
	}

	// The rule counts flags, not distinct types: two high flags of the same
	// type (e.g. two phishing links) still hide. The deduplicated type list
	// is only for the reason string.
	high := flagTypesAt(flags, models.SeverityHigh)
	if countAt(flags, models.SeverityHigh) > 1 || score > 0.8 {
		reason := fmt.Sprintf("risk score %.2f", score)
		if len(high) > 0 {
			reason = "high severity flags: " + strings.Join(high, ", ")
		}
		return models.ModerationAction{
			Kind:      models.ActionHide,
			Reason:    reason,
			Automatic: cfg.AutoAction,
		}
	}

	// Queueing for review is always safe, so it never waits on the
	// auto-action switch.
	return models.ModerationAction{
		Kind:      models.ActionFlag,
		Reason:    fmt.Sprintf("queued for review, risk score %.2f", score),
		Automatic: true,
	}
}

func countAt(flags []models.ModerationFlag, sev models.FlagSeverity) int {
	n := 0
	for _, f := range flags {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

func flagTypesAt(flags []models.ModerationFlag, sev models.FlagSeverity) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, f := range flags {
		if f.Severity != sev {
			continue
		}
		t := string(f.Type)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
