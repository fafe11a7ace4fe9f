package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aegisproj/aegis/backend/internal/models"
)

func TestResolve_BelowThresholdAlwaysAllows(t *testing.T) {
	cfg := testConfig()
	// Even severe flags cannot override a score under the overall threshold;
	// the allow check runs first.
	flags := []models.ModerationFlag{{Severity: models.SeverityHigh, Confidence: 0.9}}

	action := Resolve(flags, cfg.Thresholds.Overall-0.01, cfg)
	assert.Equal(t, models.ActionAllow, action.Kind)
	assert.Equal(t, "passed checks", action.Reason)
	assert.True(t, action.Automatic)
}

func TestResolve_CriticalFlagDeletes(t *testing.T) {
	cfg := testConfig()
	flags := []models.ModerationFlag{
		{Type: models.FlagTypeHarassment, Severity: models.SeverityCritical, Confidence: 0.9},
	}

	action := Resolve(flags, 0.7, cfg)
	assert.Equal(t, models.ActionDelete, action.Kind)
	assert.Contains(t, action.Reason, "harassment")
	assert.True(t, action.Automatic)
}

func TestResolve_VeryHighScoreDeletes(t *testing.T) {
	cfg := testConfig()
	action := Resolve(nil, 0.91, cfg)
	assert.Equal(t, models.ActionDelete, action.Kind)
}

func TestResolve_MultipleHighFlagsHide(t *testing.T) {
	cfg := testConfig()
	flags := []models.ModerationFlag{
		{Type: models.FlagTypeSpam, Severity: models.SeverityHigh, Confidence: 0.8},
		{Type: models.FlagTypeProfanity, Severity: models.SeverityHigh, Confidence: 0.8},
	}

	action := Resolve(flags, 0.7, cfg)
	assert.Equal(t, models.ActionHide, action.Kind)
	assert.Contains(t, action.Reason, "spam")
	assert.Contains(t, action.Reason, "profanity")
}

// Two high flags of the same type still count as two: a second phishing
// link must not collapse into one flag and fall through to the review queue.
func TestResolve_RepeatedHighTypeHides(t *testing.T) {
	cfg := testConfig()
	flags := []models.ModerationFlag{
		{Type: models.FlagTypeSpam, Severity: models.SeverityHigh, Confidence: 0.8},
		{Type: models.FlagTypeSpam, Severity: models.SeverityHigh, Confidence: 0.8},
	}

	action := Resolve(flags, 0.6, cfg)
	assert.Equal(t, models.ActionHide, action.Kind)
	assert.Contains(t, action.Reason, "spam")
}

func TestResolve_HighScoreHides(t *testing.T) {
	cfg := testConfig()
	action := Resolve(nil, 0.81, cfg)
	assert.Equal(t, models.ActionHide, action.Kind)
}

func TestResolve_MiddlingScoreFlags(t *testing.T) {
	cfg := testConfig()
	flags := []models.ModerationFlag{{Type: models.FlagTypeSpam, Severity: models.SeverityMedium, Confidence: 0.7}}

	action := Resolve(flags, 0.7, cfg)
	assert.Equal(t, models.ActionFlag, action.Kind)
}

// Flagging queues content for review, which is always safe, so it never
// waits on the auto-action switch. Delete and hide do.
func TestResolve_AutomaticFollowsConfig(t *testing.T) {
	cfg := testConfig()
	cfg.AutoAction = false

	del := Resolve([]models.ModerationFlag{{Severity: models.SeverityCritical}}, 0.7, cfg)
	assert.Equal(t, models.ActionDelete, del.Kind)
	assert.False(t, del.Automatic)

	hide := Resolve(nil, 0.81, cfg)
	assert.Equal(t, models.ActionHide, hide.Kind)
	assert.False(t, hide.Automatic)

	flag := Resolve(nil, 0.7, cfg)
	assert.Equal(t, models.ActionFlag, flag.Kind)
	assert.True(t, flag.Automatic)
}

// Delete outranks hide outranks flag: a critical flag wins even when the
// hide condition also holds.
func TestResolve_OrderEncodesPriority(t *testing.T) {
	cfg := testConfig()
	flags := []models.ModerationFlag{
		{Type: models.FlagTypeViolence, Severity: models.SeverityCritical, Confidence: 0.9},
		{Type: models.FlagTypeSpam, Severity: models.SeverityHigh, Confidence: 0.8},
		{Type: models.FlagTypeProfanity, Severity: models.SeverityHigh, Confidence: 0.8},
	}
	action := Resolve(flags, 0.85, cfg)
	assert.Equal(t, models.ActionDelete, action.Kind)
}
