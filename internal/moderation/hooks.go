package moderation

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aegisproj/aegis/backend/internal/models"
)

// HookOutcome is a decision translated for a content-creation call site.
type HookOutcome struct {
	Allowed bool                     `json:"allowed"`
	Reason  string                   `json:"reason,omitempty"`
	Result  *models.ModerationResult `json:"result,omitempty"`
}

// ProfileOutcome reports a field-scoped profile update decision. Offending
// fields are listed individually; the rest of the update proceeds.
type ProfileOutcome struct {
	Allowed       bool                               `json:"allowed"`
	BlockedFields []string                           `json:"blocked_fields,omitempty"`
	Results       map[string]models.ModerationResult `json:"results,omitempty"`
}

// BulkItemOutcome is the decision for one item of a bulk import.
type BulkItemOutcome struct {
	ContentID string `json:"content_id"`
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason,omitempty"`
}

// BulkOutcome aggregates per-item decisions; one bad item never fails the batch.
type BulkOutcome struct {
	Items   []BulkItemOutcome `json:"items"`
	Allowed int               `json:"allowed"`
	Blocked int               `json:"blocked"`
}

// Hooks wraps content-creation call sites around the engine and translates
// actions into allow/block outcomes. Flagged content always publishes; only
// hide and delete block the author.
type Hooks struct {
	engine *Engine
}

func NewHooks(engine *Engine) *Hooks {
	return &Hooks{engine: engine}
}

// CheckPost evaluates a new post.
func (h *Hooks) CheckPost(item models.ContentItem) HookOutcome {
	item.Type = models.ContentTypePost
	return h.check(item)
}

// CheckComment evaluates a new comment.
func (h *Hooks) CheckComment(item models.ContentItem) HookOutcome {
	item.Type = models.ContentTypeComment
	return h.check(item)
}

// CheckLesson evaluates a lesson body update.
func (h *Hooks) CheckLesson(item models.ContentItem) HookOutcome {
	item.Type = models.ContentTypeLesson
	return h.check(item)
}

func (h *Hooks) check(item models.ContentItem) HookOutcome {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	result := h.engine.Evaluate(item)

	out := HookOutcome{Result: &result}
	switch result.Action.Kind {
	case models.ActionAllow:
		out.Allowed = true
	case models.ActionFlag:
		// Published but queued for review; flagging never blocks the author.
		out.Allowed = true
	case models.ActionHide:
		out.Reason = result.Action.Reason
	default:
		out.Reason = "content rejected: " + result.Action.Reason
	}
	return out
}

// CheckProfileUpdate evaluates each text field independently. The update as a
// whole is blocked only when a field draws a delete or scores above 0.8;
// otherwise offending fields are reported blocked while the rest proceed.
func (h *Hooks) CheckProfileUpdate(author models.Author, fields map[string]string) ProfileOutcome {
	out := ProfileOutcome{
		Allowed: true,
		Results: make(map[string]models.ModerationResult, len(fields)),
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		text := fields[name]
		if text == "" {
			continue
		}
		result := h.engine.Evaluate(models.ContentItem{
			ID:        uuid.New().String(),
			Type:      models.ContentTypeProfile,
			Text:      text,
			Author:    author,
			CreatedAt: time.Now(),
		})
		out.Results[name] = result

		if result.Action.Kind == models.ActionDelete || result.Score > 0.8 {
			out.Allowed = false
			out.BlockedFields = append(out.BlockedFields, name)
		} else if result.Action.Kind.Blocks() {
			out.BlockedFields = append(out.BlockedFields, name)
		}
	}
	return out
}

// CheckBulkImport evaluates items independently and returns per-item
// decisions plus aggregate counts.
func (h *Hooks) CheckBulkImport(items []models.ContentItem) BulkOutcome {
	out := BulkOutcome{Items: make([]BulkItemOutcome, 0, len(items))}
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		outcome := h.check(item)
		out.Items = append(out.Items, BulkItemOutcome{
			ContentID: outcome.Result.ContentID,
			Allowed:   outcome.Allowed,
			Reason:    outcome.Reason,
		})
		if outcome.Allowed {
			out.Allowed++
		} else {
			out.Blocked++
		}
	}
	return out
}
