package moderation

import (
	"fmt"

	"github.com/aegisproj/aegis/backend/internal/models"
)

// MediaClassifier scores one image URL for unsafe content. Real semantic
// classification is an external dependency; the engine only consumes the
// score. Implementations must be deterministic for the same URL so that
// evaluation stays reproducible.
type MediaClassifier interface {
	Score(url string) (float64, error)
}

// NoopMediaClassifier is the default: it scores nothing. A deployment that
// wants image screening plugs in a real classifier.
type NoopMediaClassifier struct{}

func (NoopMediaClassifier) Score(string) (float64, error) { return 0, nil }

// MediaDetector runs the configured classifier over attached images and
// attachments and raises adult-content flags above the spam threshold band.
type MediaDetector struct {
	classifier MediaClassifier
}

func NewMediaDetector(classifier MediaClassifier) *MediaDetector {
	if classifier == nil {
		classifier = NoopMediaClassifier{}
	}
	return &MediaDetector{classifier: classifier}
}

func (d *MediaDetector) Name() string { return "media_safety" }

func (d *MediaDetector) Detect(item models.ContentItem, cfg models.ModerationConfig) []models.ModerationFlag {
	urls := append(append([]string(nil), item.Metadata.ImageURLs...), item.Metadata.AttachmentURLs...)
	var flags []models.ModerationFlag
	for _, u := range urls {
		score, err := d.classifier.Score(u)
		if err != nil {
			// Classifier failure degrades to a low-severity flag, not an error.
			flags = append(flags, models.ModerationFlag{
				Type:        models.FlagTypeInappropriate,
				Severity:    models.SeverityLow,
				Description: "media could not be classified",
				Confidence:  0.5,
				Evidence:    []string{truncate(u, 60)},
			})
			continue
		}
		if score > effectiveThreshold(cfg.Thresholds.Spam, cfg) {
			flags = append(flags, models.ModerationFlag{
				Type:        models.FlagTypeAdultContent,
				Severity:    severityForScore(score),
				Description: fmt.Sprintf("media scored %.2f by classifier", score),
				Confidence:  score,
				Evidence:    []string{truncate(u, 60)},
			})
		}
	}
	return flags
}
