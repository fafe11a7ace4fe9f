package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisproj/aegis/backend/internal/models"
)

func testConfig() models.ModerationConfig {
	return models.DefaultModerationConfig()
}

func TestSpamDetector_CleanText(t *testing.T) {
	d := NewSpamDetector()
	flags := d.Detect(models.ContentItem{Text: "A thoughtful answer about goroutine scheduling internals."}, testConfig())
	assert.Empty(t, flags)
}

func TestSpamDetector_PromotionalText(t *testing.T) {
	d := NewSpamDetector()
	cfg := testConfig()

	// Four signals: promotional phrasing, character repetition, an
	// all-caps run and a long numeric run.
	item := models.ContentItem{
		Text: "BUY NOW!!!!!!!!!! LIMITEDTIMEOFFER guaranteed income, click here to double your money 1234567890123",
	}
	flags := d.Detect(item, cfg)
	require.Len(t, flags, 1)
	assert.Equal(t, models.FlagTypeSpam, flags[0].Type)
	assert.Greater(t, flags[0].Confidence, cfg.Thresholds.Spam)
	assert.LessOrEqual(t, len(flags[0].Evidence), models.MaxEvidencePerFlag)
}

func TestSpamDetector_CharacterRepetition(t *testing.T) {
	d := NewSpamDetector()
	cfg := testConfig()

	short, _ := d.score(models.ContentItem{Text: "wheeeeee that was fun"}, cfg)
	assert.Equal(t, 0.0, short)

	long, evidence := d.score(models.ContentItem{Text: "wheeeeeeeee that was fun"}, cfg)
	assert.InDelta(t, 0.2, long, 1e-9)
	require.Len(t, evidence, 1)
	assert.Contains(t, evidence[0], "repeated")

	assert.Equal(t, 3, longestRuneRun("aaabb"))
	assert.Equal(t, 0, longestRuneRun(""))
	// Runs count runes, not bytes.
	assert.Equal(t, 8, longestRuneRun("éééééééé"))
}

func TestSpamDetector_BlacklistAndLinks(t *testing.T) {
	d := NewSpamDetector()
	cfg := testConfig()
	cfg.Blacklist = []string{"cheapmeds"}

	item := models.ContentItem{
		Text: "cheapmeds here, cheapmeds there, get your cheapmeds today",
		Metadata: models.ContentMetadata{
			LinkURLs: []string{
				"https://a.example/1", "https://a.example/2", "https://a.example/3",
				"https://a.example/4", "https://a.example/5",
			},
		},
	}
	score, _ := d.score(item, cfg)
	// Three blacklist occurrences plus the link-count penalty push past 0.8.
	assert.GreaterOrEqual(t, score, 0.8)
	assert.LessOrEqual(t, score, 1.0)
}

func TestSpamDetector_WordRepetition(t *testing.T) {
	d := NewSpamDetector()
	text := strings.Repeat("win money ", 30)
	score, evidence := d.score(models.ContentItem{Text: text}, testConfig())
	assert.Greater(t, score, 0.0)
	assert.NotEmpty(t, evidence)
}

func TestProfanityDetector(t *testing.T) {
	d := NewProfanityDetector()
	cfg := testConfig()

	t.Run("clean", func(t *testing.T) {
		assert.Empty(t, d.Detect(models.ContentItem{Text: "what a lovely morning"}, cfg))
	})

	t.Run("explicit terms", func(t *testing.T) {
		flags := d.Detect(models.ContentItem{Text: "this shit is a damn bitch of a fuck-up, you asshole"}, cfg)
		require.Len(t, flags, 1)
		assert.Equal(t, models.FlagTypeProfanity, flags[0].Type)
	})

	t.Run("censored shapes", func(t *testing.T) {
		score, _ := d.score("f*ck this sh#t and b!tch too, every d@mn day, a$$hole behavior")
		assert.Greater(t, score, 0.0)
	})

	t.Run("email addresses are not censoring", func(t *testing.T) {
		score, _ := d.score("reach me at support@example.com for details")
		assert.Equal(t, 0.0, score)

		// An @-substituted word with no domain suffix still counts.
		score, evidence := d.score("every d@mn day")
		assert.InDelta(t, 0.15, score, 1e-9)
		require.Len(t, evidence, 1)
	})

	t.Run("word boundaries", func(t *testing.T) {
		// "class" and "assess" must not match embedded terms.
		score, _ := d.score("the class will assess the assignment scope")
		assert.Equal(t, 0.0, score)
	})
}

func TestHarassmentDetector(t *testing.T) {
	d := NewHarassmentDetector()
	cfg := testConfig()

	t.Run("clean", func(t *testing.T) {
		assert.Empty(t, d.Detect(models.ContentItem{Text: "I disagree with your conclusion"}, cfg))
	})

	t.Run("threat and attack", func(t *testing.T) {
		flags := d.Detect(models.ContentItem{Text: "you are an idiot and I will find you, nobody asked"}, cfg)
		require.Len(t, flags, 1)
		assert.Equal(t, models.FlagTypeHarassment, flags[0].Type)
		assert.Greater(t, flags[0].Confidence, cfg.Thresholds.Harassment)
	})
}

func TestLinkSafetyDetector(t *testing.T) {
	d := NewLinkSafetyDetector()
	cfg := testConfig()

	t.Run("shortener", func(t *testing.T) {
		item := models.ContentItem{Metadata: models.ContentMetadata{LinkURLs: []string{"https://bit.ly/xyz"}}}
		flags := d.Detect(item, cfg)
		require.Len(t, flags, 1)
		assert.Equal(t, models.FlagTypeSpam, flags[0].Type)
		assert.Equal(t, models.SeverityMedium, flags[0].Severity)
		assert.InDelta(t, 0.7, flags[0].Confidence, 1e-9)
	})

	t.Run("phishing heuristic", func(t *testing.T) {
		item := models.ContentItem{Metadata: models.ContentMetadata{LinkURLs: []string{"https://secure-login-verify.example.com/account"}}}
		flags := d.Detect(item, cfg)
		require.Len(t, flags, 1)
		assert.Equal(t, models.SeverityHigh, flags[0].Severity)
		assert.InDelta(t, 0.8, flags[0].Confidence, 1e-9)
	})

	t.Run("unparsable", func(t *testing.T) {
		item := models.ContentItem{Metadata: models.ContentMetadata{LinkURLs: []string{"::not a url::"}}}
		flags := d.Detect(item, cfg)
		require.Len(t, flags, 1)
		assert.Equal(t, models.FlagTypeInappropriate, flags[0].Type)
		assert.Equal(t, models.SeverityLow, flags[0].Severity)
	})

	t.Run("ordinary domain", func(t *testing.T) {
		item := models.ContentItem{Metadata: models.ContentMetadata{LinkURLs: []string{"https://go.dev/blog"}}}
		assert.Empty(t, d.Detect(item, cfg))
	})
}

type fixedClassifier struct{ score float64 }

func (f fixedClassifier) Score(string) (float64, error) { return f.score, nil }

func TestMediaDetector(t *testing.T) {
	cfg := testConfig()

	t.Run("noop default", func(t *testing.T) {
		d := NewMediaDetector(nil)
		item := models.ContentItem{Metadata: models.ContentMetadata{ImageURLs: []string{"https://img.example/a.png"}}}
		assert.Empty(t, d.Detect(item, cfg))
	})

	t.Run("unsafe score", func(t *testing.T) {
		d := NewMediaDetector(fixedClassifier{score: 0.95})
		item := models.ContentItem{Metadata: models.ContentMetadata{ImageURLs: []string{"https://img.example/a.png"}}}
		flags := d.Detect(item, cfg)
		require.Len(t, flags, 1)
		assert.Equal(t, models.FlagTypeAdultContent, flags[0].Type)
		assert.Equal(t, models.SeverityCritical, flags[0].Severity)
	})
}

func TestSeverityForScore(t *testing.T) {
	assert.Equal(t, models.SeverityCritical, severityForScore(0.95))
	assert.Equal(t, models.SeverityHigh, severityForScore(0.85))
	assert.Equal(t, models.SeverityMedium, severityForScore(0.6))
	assert.Equal(t, models.SeverityLow, severityForScore(0.3))
}
