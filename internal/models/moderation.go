package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FlagType names the risk dimension a detector scored.
type FlagType string

const (
	FlagTypeSpam          FlagType = "spam"
	FlagTypeProfanity     FlagType = "profanity"
	FlagTypeHarassment    FlagType = "harassment"
	FlagTypeInappropriate FlagType = "inappropriate"
	FlagTypeCopyright     FlagType = "copyright"
	FlagTypeViolence      FlagType = "violence"
	FlagTypeHateSpeech    FlagType = "hate_speech"
	FlagTypeAdultContent  FlagType = "adult_content"
)

// FlagSeverity is totally ordered: low < medium < high < critical.
type FlagSeverity string

const (
	SeverityLow      FlagSeverity = "low"
	SeverityMedium   FlagSeverity = "medium"
	SeverityHigh     FlagSeverity = "high"
	SeverityCritical FlagSeverity = "critical"
)

// Weight maps severities onto 1..4 for score aggregation.
func (s FlagSeverity) Weight() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

// MaxEvidencePerFlag bounds how many snippets a detector may attach,
// so flags never leak entire payloads into logs or exports.
const MaxEvidencePerFlag = 3

// ModerationFlag is a single detector's finding about a content item.
type ModerationFlag struct {
	Type        FlagType     `json:"type"`
	Severity    FlagSeverity `json:"severity"`
	Description string       `json:"description"`
	Confidence  float64      `json:"confidence"`
	Evidence    []string     `json:"evidence,omitempty"`
}

// ActionKind is the engine's verdict for a content item.
type ActionKind string

const (
	ActionAllow   ActionKind = "allow"
	ActionFlag    ActionKind = "flag"
	ActionHide    ActionKind = "hide"
	ActionDelete  ActionKind = "delete"
	ActionBanUser ActionKind = "ban_user"
)

// Blocks reports whether the action rejects content from publication.
// Flagged content is still published, just queued for review.
func (a ActionKind) Blocks() bool {
	return a == ActionHide || a == ActionDelete || a == ActionBanUser
}

// ModerationAction bundles the chosen verdict with its reason.
type ModerationAction struct {
	Kind      ActionKind `json:"kind"`
	Reason    string     `json:"reason"`
	Automatic bool       `json:"automatic"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ModerationStatus tracks the human-review lifecycle of a result.
// Transitions are monotone: pending/flagged move to approved/rejected
// exactly once and never back.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
	StatusFlagged  ModerationStatus = "flagged"
)

// Final reports whether a status can no longer change.
func (s ModerationStatus) Final() bool {
	return s == StatusApproved || s == StatusRejected
}

// ModerationResult is the engine's immutable verdict for one ContentItem.
// ReviewedBy/ReviewNote are set at most once by a human reviewer.
type ModerationResult struct {
	ID          string           `json:"id" gorm:"primaryKey"`
	ContentID   string           `json:"content_id" gorm:"index"`
	ContentType ContentType      `json:"content_type"`
	Score       float64          `json:"score"`
	Flags       []ModerationFlag `json:"flags" gorm:"-"`
	FlagsJSON   string           `json:"-" gorm:"column:flags;type:text"`
	Action      ModerationAction `json:"action" gorm:"embedded;embeddedPrefix:action_"`
	Confidence  float64          `json:"confidence"`
	Status      ModerationStatus `json:"status" gorm:"index"`
	ReviewedBy  string           `json:"reviewed_by,omitempty"`
	ReviewNote  string           `json:"review_note,omitempty"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (r *ModerationResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return r.BeforeSave(tx)
}

// BeforeSave serializes the flag list into the text column.
func (r *ModerationResult) BeforeSave(tx *gorm.DB) error {
	if len(r.Flags) == 0 {
		r.FlagsJSON = "[]"
		return nil
	}
	raw, err := json.Marshal(r.Flags)
	if err != nil {
		return err
	}
	r.FlagsJSON = string(raw)
	return nil
}

// AfterFind restores the flag list from the text column.
func (r *ModerationResult) AfterFind(tx *gorm.DB) error {
	if r.FlagsJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(r.FlagsJSON), &r.Flags)
}
