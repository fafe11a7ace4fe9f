package moderation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aegisproj/aegis/backend/internal/logger"
	"github.com/aegisproj/aegis/backend/internal/metrics"
	"github.com/aegisproj/aegis/backend/internal/models"
)

// ActivityRecorder receives one audit record per evaluation. Implemented by
// the audit ledger; failures must be swallowed by the implementation.
type ActivityRecorder interface {
	Record(entry models.ActivityEntry)
}

// Notifier receives decision notifications for non-allow actions. Delivery
// (desktop, chat, persistence) is the implementation's problem.
type Notifier interface {
	Notify(event, priority, title, message string)
}

// Engine orchestrates detectors, the risk scorer and the action resolver
// into one immutable decision per content item.
type Engine struct {
	store     *ConfigStore
	detectors []Detector
	recorder  ActivityRecorder
	notifier  Notifier
}

// NewEngine builds an engine with the standard detector set. A nil classifier
// falls back to the no-op media classifier; recorder and notifier may be nil.
func NewEngine(store *ConfigStore, classifier MediaClassifier, recorder ActivityRecorder, notifier Notifier) *Engine {
	return &Engine{
		store: store,
		detectors: []Detector{
			NewSpamDetector(),
			NewProfanityDetector(),
			NewHarassmentDetector(),
			NewLinkSafetyDetector(),
			NewMediaDetector(classifier),
		},
		recorder: recorder,
		notifier: notifier,
	}
}

// Detectors returns the registered detector set, in evaluation order.
func (e *Engine) Detectors() []Detector {
	return append([]Detector(nil), e.detectors...)
}

// Config returns the current config snapshot.
func (e *Engine) Config() models.ModerationConfig {
	return e.store.Get()
}

// UpdateConfig validates and atomically publishes a new config.
func (e *Engine) UpdateConfig(cfg models.ModerationConfig) error {
	return e.store.Set(cfg)
}

// Evaluate scores a content item and resolves an action. It never returns an
// error: detector failures are isolated (fail-open by default), and the audit
// append plus notification dispatch are fire-and-forget side effects whose
// failures are logged, never raised.
func (e *Engine) Evaluate(item models.ContentItem) models.ModerationResult {
	cfg := e.store.Get()
	metrics.IncEvaluation()

	if !cfg.Enabled || cfg.IsTrusted(item.Author.ID, item.Author.Role) {
		result := e.bypassResult(item, cfg)
		e.record(item, result)
		return result
	}

	var flags []models.ModerationFlag
	detectorFailed := false
	for _, d := range e.detectors {
		fs, err := e.runDetector(d, item, cfg)
		if err != nil {
			detectorFailed = true
			logger.WithFields(map[string]interface{}{
				"detector":   d.Name(),
				"content_id": item.ID,
			}).WithError(err).Warn("detector failed, continuing without its flags")
			continue
		}
		flags = append(flags, fs...)
	}

	score := OverallScore(flags)
	confidence := OverallConfidence(flags)
	action := Resolve(flags, score, cfg)

	// Fail-closed mode: a broken detector means the item cannot be fully
	// scored, so it goes to the review queue instead of sailing through.
	if detectorFailed && cfg.FailClosed && action.Kind == models.ActionAllow {
		action = models.ModerationAction{
			Kind:      models.ActionFlag,
			Reason:    "detector failure, queued for review",
			Automatic: true,
		}
	}

	result := models.ModerationResult{
		ID:          uuid.New().String(),
		ContentID:   item.ID,
		ContentType: item.Type,
		Score:       score,
		Flags:       flags,
		Action:      action,
		Confidence:  confidence,
		Status:      statusForAction(action.Kind),
		CreatedAt:   time.Now(),
	}

	switch action.Kind {
	case models.ActionFlag:
		metrics.IncFlagged()
	case models.ActionHide, models.ActionDelete, models.ActionBanUser:
		metrics.IncBlocked()
	}

	e.record(item, result)
	e.notify(item, result)
	return result
}

// runDetector isolates one detector call so a panic inside a regex family or
// classifier never blocks content creation.
func (e *Engine) runDetector(d Detector, item models.ContentItem, cfg models.ModerationConfig) (flags []models.ModerationFlag, err error) {
	defer func() {
		if r := recover(); r != nil {
			flags = nil
			err = fmt.Errorf("detector %s panicked: %v", d.Name(), r)
		}
	}()
	return d.Detect(item, cfg), nil
}

func (e *Engine) bypassResult(item models.ContentItem, cfg models.ModerationConfig) models.ModerationResult {
	reason := "moderation disabled"
	if cfg.Enabled {
		reason = "trusted author"
	}
	return models.ModerationResult{
		ID:          uuid.New().String(),
		ContentID:   item.ID,
		ContentType: item.Type,
		Score:       0,
		Action:      models.ModerationAction{Kind: models.ActionAllow, Reason: reason, Automatic: true},
		Confidence:  1.0,
		Status:      models.StatusApproved,
		CreatedAt:   time.Now(),
	}
}

func statusForAction(kind models.ActionKind) models.ModerationStatus {
	switch kind {
	case models.ActionAllow:
		return models.StatusApproved
	case models.ActionFlag:
		return models.StatusFlagged
	case models.ActionHide:
		// Hidden content awaits review; only delete is final.
		return models.StatusPending
	default:
		return models.StatusRejected
	}
}

func (e *Engine) record(item models.ContentItem, result models.ModerationResult) {
	if e.recorder == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Log().Warnf("moderation audit append failed: %v", r)
		}
	}()
	e.recorder.Record(models.ActivityEntry{
		Timestamp:  result.CreatedAt,
		ActorID:    item.Author.ID,
		ActorName:  item.Author.Name,
		ActorEmail: item.Author.Email,
		ActorRole:  item.Author.Role,
		Action:     "moderation." + string(result.Action.Kind),
		Resource:   string(item.Type),
		ResourceID: item.ID,
		Details: map[string]any{
			"score":      result.Score,
			"confidence": result.Confidence,
			"flags":      len(result.Flags),
			"reason":     result.Action.Reason,
		},
		IPAddress: item.Metadata.IPAddress,
		UserAgent: item.Metadata.UserAgent,
		Severity:  severityForDecision(result),
		Category:  models.CategoryContent,
		Success:   !result.Action.Kind.Blocks(),
	})
}

func (e *Engine) notify(item models.ContentItem, result models.ModerationResult) {
	if e.notifier == nil || result.Action.Kind == models.ActionAllow {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Log().Warnf("moderation notify failed: %v", r)
		}
	}()
	priority := "normal"
	if result.Action.Kind.Blocks() {
		priority = "high"
	}
	e.notifier.Notify("moderation", priority,
		fmt.Sprintf("Content %s: %s", result.Action.Kind, item.ID),
		fmt.Sprintf("%s by %s scored %.2f: %s", item.Type, item.Author.ID, result.Score, result.Action.Reason))
}

func severityForDecision(result models.ModerationResult) models.ActivitySeverity {
	switch result.Action.Kind {
	case models.ActionDelete, models.ActionBanUser:
		return models.ActivityCritical
	case models.ActionHide:
		return models.ActivityWarning
	case models.ActionFlag:
		return models.ActivityWarning
	default:
		return models.ActivityInfo
	}
}
