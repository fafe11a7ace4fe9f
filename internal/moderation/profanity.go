package moderation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aegisproj/aegis/backend/internal/models"
)

// profanityTerms is deliberately short; deployments extend coverage through
// the config blacklist, which the spam detector also scans.
var profanityTerms = []string{
	"fuck", "shit", "bitch", "asshole", "bastard", "dick", "cunt", "piss",
	"slut", "whore", "damn",
}

var profanityRes = buildWordRes(profanityTerms)

// censoredRe matches profanity written with symbol substitutions, e.g. f*ck
// or s#it. Letters interleaved with symbol characters inside a word.
var censoredRe = regexp.MustCompile(`\b\p{L}+[*#@$!%]+\p{L}+\b`)

func buildWordRes(terms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(terms))
	for _, t := range terms {
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(t)+`\b`))
	}
	return out
}

// ProfanityDetector scores explicit and symbol-censored profanity.
type ProfanityDetector struct{}

func NewProfanityDetector() *ProfanityDetector { return &ProfanityDetector{} }

func (d *ProfanityDetector) Name() string { return "profanity" }

func (d *ProfanityDetector) Detect(item models.ContentItem, cfg models.ModerationConfig) []models.ModerationFlag {
	score, evidence := d.score(item.Text)
	if score <= effectiveThreshold(cfg.Thresholds.Profanity, cfg) {
		return nil
	}
	return []models.ModerationFlag{{
		Type:        models.FlagTypeProfanity,
		Severity:    severityForScore(score),
		Description: "content contains profanity",
		Confidence:  score,
		Evidence:    capEvidence(evidence),
	}}
}

func (d *ProfanityDetector) score(text string) (float64, []string) {
	var score float64
	var evidence []string

	for i, re := range profanityRes {
		if re.MatchString(text) {
			score += 0.2
			evidence = append(evidence, fmt.Sprintf("term: %q", profanityTerms[i]))
		}
	}

	for _, loc := range censoredRe.FindAllStringIndex(text, -1) {
		tok := text[loc[0]:loc[1]]
		// "user@example" directly ahead of a dot is an address, not censoring.
		if strings.Contains(tok, "@") && strings.HasPrefix(text[loc[1]:], ".") {
			continue
		}
		score += 0.15
		evidence = append(evidence, fmt.Sprintf("censored term: %q", tok))
	}

	return clamp01(score), evidence
}
