package moderation

import (
	"github.com/aegisproj/aegis/backend/internal/models"
)

const maxSeverityWeight = 4

// OverallScore aggregates flags into a single risk value in [0,1]:
// sum(confidence * severityWeight) / (flagCount * maxWeight). Higher
// confidence and higher severity both push the score up, while a pile of
// weak flags averages down rather than dominating one strong flag. That
// dilution also means an extra low-severity flag can slightly lower the
// score; see the scorer tests, which pin this down on purpose.
func OverallScore(flags []models.ModerationFlag) float64 {
	if len(flags) == 0 {
		return 0
	}
	var sum float64
	for _, f := range flags {
		sum += f.Confidence * float64(f.Severity.Weight())
	}
	return clamp01(sum / (float64(len(flags)) * maxSeverityWeight))
}

// OverallConfidence averages per-flag confidence and adds up to +0.1 for
// corroboration: five or more independent flags max out the bonus.
func OverallConfidence(flags []models.ModerationFlag) float64 {
	if len(flags) == 0 {
		return 0
	}
	var sum float64
	for _, f := range flags {
		sum += f.Confidence
	}
	avg := sum / float64(len(flags))
	bonus := float64(len(flags)) / 5
	if bonus > 1 {
		bonus = 1
	}
	return clamp01(avg + bonus*0.1)
}
