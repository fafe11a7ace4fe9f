package moderation

import (
	"fmt"
	"regexp"

	"github.com/aegisproj/aegis/backend/internal/models"
)

// Threat, self-harm and insult families each add +0.25.
var harassmentPatterns = []spamPattern{
	{"threat", regexp.MustCompile(`(?i)\b(i('| a|wi)ll (kill|hurt|find|destroy|beat) you|you('re| are) (dead|finished)|watch your back)\b`)},
	{"self-harm", regexp.MustCompile(`(?i)\b(kill yourself|kys|go die|end your life|no one would miss you)\b`)},
	{"insult", regexp.MustCompile(`(?i)\b(idiot|stupid|moron|loser|pathetic|worthless|dumb)\b`)},
}

// Personal-attack phrasing adds a heavier +0.3.
var personalAttackPatterns = []spamPattern{
	{"personal attack", regexp.MustCompile(`(?i)\byou('re| are)( (a|an|so|such a))? (idiot|stupid|moron|loser|pathetic|worthless|disgusting|trash|garbage)\b`)},
	{"dismissive", regexp.MustCompile(`(?i)\b(nobody (cares|asked)( about)?( you)?|shut up|get lost|you don't belong here)\b`)},
}

// HarassmentDetector scores threats, self-harm bait and personal attacks.
type HarassmentDetector struct{}

func NewHarassmentDetector() *HarassmentDetector { return &HarassmentDetector{} }

func (d *HarassmentDetector) Name() string { return "harassment" }

func (d *HarassmentDetector) Detect(item models.ContentItem, cfg models.ModerationConfig) []models.ModerationFlag {
	score, evidence := d.score(item.Text)
	if score <= effectiveThreshold(cfg.Thresholds.Harassment, cfg) {
		return nil
	}
	return []models.ModerationFlag{{
		Type:        models.FlagTypeHarassment,
		Severity:    severityForScore(score),
		Description: "content contains harassing language",
		Confidence:  score,
		Evidence:    capEvidence(evidence),
	}}
}

func (d *HarassmentDetector) score(text string) (float64, []string) {
	var score float64
	var evidence []string

	for _, p := range harassmentPatterns {
		if m := p.re.FindString(text); m != "" {
			score += 0.25
			evidence = append(evidence, fmt.Sprintf("%s: %q", p.name, truncate(m, 60)))
		}
	}
	for _, p := range personalAttackPatterns {
		if m := p.re.FindString(text); m != "" {
			score += 0.3
			evidence = append(evidence, fmt.Sprintf("%s: %q", p.name, truncate(m, 60)))
		}
	}

	return clamp01(score), evidence
}
