package moderation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aegisproj/aegis/backend/internal/models"
)

// spamPattern is one named regex family contributing a fixed increment.
type spamPattern struct {
	name string
	re   *regexp.Regexp
}

var spamPatterns = []spamPattern{
	{"promotional phrasing", regexp.MustCompile(`(?i)\b(buy now|limited time|act now|click here|free money|earn cash|work from home|guaranteed income|risk[- ]free|double your)\b`)},
	{"excessive links", regexp.MustCompile(`(?i)(https?://\S+\s*){4,}`)},
	{"excessive capitalization", regexp.MustCompile(`[A-Z]{12,}`)},
	{"long numeric run", regexp.MustCompile(`\d{10,}`)},
}

// repetitionRunLength is the shortest run of one repeated rune that counts
// as a spam signal. RE2 has no backreferences, so runs are found by a scan.
const repetitionRunLength = 8

var wordRe = regexp.MustCompile(`[\p{L}\p{N}']+`)

// SpamDetector scores promotional, repetitive and link-heavy content.
type SpamDetector struct{}

func NewSpamDetector() *SpamDetector { return &SpamDetector{} }

func (d *SpamDetector) Name() string { return "spam" }

func (d *SpamDetector) Detect(item models.ContentItem, cfg models.ModerationConfig) []models.ModerationFlag {
	score, evidence := d.score(item, cfg)
	if score <= effectiveThreshold(cfg.Thresholds.Spam, cfg) {
		return nil
	}
	return []models.ModerationFlag{{
		Type:        models.FlagTypeSpam,
		Severity:    severityForScore(score),
		Description: "content matches spam signals",
		Confidence:  score,
		Evidence:    capEvidence(evidence),
	}}
}

func (d *SpamDetector) score(item models.ContentItem, cfg models.ModerationConfig) (float64, []string) {
	text := item.Text
	var score float64
	var evidence []string

	// Each matched signal family contributes a fixed +0.2.
	for _, p := range spamPatterns {
		if m := p.re.FindString(text); m != "" {
			score += 0.2
			evidence = append(evidence, fmt.Sprintf("%s: %q", p.name, truncate(m, 60)))
		}
	}

	if run := longestRuneRun(text); run >= repetitionRunLength {
		score += 0.2
		evidence = append(evidence, fmt.Sprintf("character repeated %d times", run))
	}

	lower := strings.ToLower(text)
	for _, term := range cfg.Blacklist {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if n := strings.Count(lower, term); n > 0 {
			score += 0.3 * float64(n)
			evidence = append(evidence, fmt.Sprintf("blacklisted term %q x%d", term, n))
		}
	}

	// Link-count penalty: +0.1 per link above 3, capped at +0.5.
	if n := len(item.Metadata.LinkURLs); n > 3 {
		penalty := 0.1 * float64(n-3)
		if penalty > 0.5 {
			penalty = 0.5
		}
		score += penalty
		evidence = append(evidence, fmt.Sprintf("%d links attached", n))
	}

	words := wordRe.FindAllString(lower, -1)
	if len(words) >= 10 {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		if float64(len(unique))/float64(len(words)) < 0.3 {
			score += 0.3
			evidence = append(evidence, "heavy word repetition")
		}
	}

	// Gibberish signal: long text with almost no word tokens.
	if len(text) > 80 && float64(len(words)) < float64(len(text))/40 {
		score += 0.2
		evidence = append(evidence, "low word density")
	}

	return clamp01(score), evidence
}

// longestRuneRun returns the length of the longest run of a single repeated
// rune in s.
func longestRuneRun(s string) int {
	var prev rune
	cur, longest := 0, 0
	for _, r := range s {
		if r == prev {
			cur++
		} else {
			prev, cur = r, 1
		}
		if cur > longest {
			longest = cur
		}
	}
	return longest
}
