package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivitySeverity grades how serious an audit record is.
type ActivitySeverity string

const (
	ActivityInfo     ActivitySeverity = "info"
	ActivityWarning  ActivitySeverity = "warning"
	ActivityError    ActivitySeverity = "error"
	ActivityCritical ActivitySeverity = "critical"
)

// ActivityCategory groups audit records by subsystem.
type ActivityCategory string

const (
	CategoryAuth           ActivityCategory = "auth"
	CategoryUserManagement ActivityCategory = "user_management"
	CategoryContent        ActivityCategory = "content"
	CategorySystem         ActivityCategory = "system"
	CategorySecurity       ActivityCategory = "security"
	CategoryData           ActivityCategory = "data"
)

// ChangeSet captures a before/after pair for entries that mutate state.
type ChangeSet struct {
	Before map[string]any `json:"before,omitempty"`
	After  map[string]any `json:"after,omitempty"`
}

// ActivityEntry is one append-only audit record. Entries are never mutated
// after creation; the ledger evicts oldest-first once capacity is reached.
type ActivityEntry struct {
	ID         string           `json:"id"`
	Seq        uint64           `json:"seq"`
	Timestamp  time.Time        `json:"timestamp"`
	ActorID    string           `json:"actor_id"`
	ActorName  string           `json:"actor_name,omitempty"`
	ActorEmail string           `json:"actor_email,omitempty"`
	ActorRole  string           `json:"actor_role,omitempty"`
	Action     string           `json:"action"`
	Resource   string           `json:"resource"`
	ResourceID string           `json:"resource_id,omitempty"`
	Details    map[string]any   `json:"details,omitempty"`
	IPAddress  string           `json:"ip_address,omitempty"`
	UserAgent  string           `json:"user_agent,omitempty"`
	SessionID  string           `json:"session_id,omitempty"`
	Severity   ActivitySeverity `json:"severity"`
	Category   ActivityCategory `json:"category"`
	Success    bool             `json:"success"`
	Duration   time.Duration    `json:"duration,omitempty"`
	Changes    *ChangeSet       `json:"changes,omitempty"`
}

// ActivityRecord is the durable gorm mirror of an ActivityEntry. The details
// map and change set are stored as JSON text so the store stays portable
// across SQL backends.
type ActivityRecord struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UUID        string    `json:"uuid" gorm:"uniqueIndex"`
	Seq         uint64    `json:"seq" gorm:"index"`
	Timestamp   time.Time `json:"timestamp" gorm:"index"`
	ActorID     string    `json:"actor_id" gorm:"index"`
	ActorName   string    `json:"actor_name"`
	ActorEmail  string    `json:"actor_email"`
	ActorRole   string    `json:"actor_role"`
	Action      string    `json:"action" gorm:"index"`
	Resource    string    `json:"resource"`
	ResourceID  string    `json:"resource_id"`
	DetailsJSON string    `json:"details" gorm:"column:details;type:text"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	SessionID   string    `json:"session_id"`
	Severity    string    `json:"severity"`
	Category    string    `json:"category" gorm:"index"`
	Success     bool      `json:"success"`
	DurationMS  int64     `json:"duration_ms"`
	ChangesJSON string    `json:"changes" gorm:"column:changes;type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *ActivityRecord) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.New().String()
	}
	return nil
}

// NewActivityRecord converts a ledger entry into its durable mirror.
func NewActivityRecord(e ActivityEntry) ActivityRecord {
	rec := ActivityRecord{
		UUID:       e.ID,
		Seq:        e.Seq,
		Timestamp:  e.Timestamp,
		ActorID:    e.ActorID,
		ActorName:  e.ActorName,
		ActorEmail: e.ActorEmail,
		ActorRole:  e.ActorRole,
		Action:     e.Action,
		Resource:   e.Resource,
		ResourceID: e.ResourceID,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		SessionID:  e.SessionID,
		Severity:   string(e.Severity),
		Category:   string(e.Category),
		Success:    e.Success,
		DurationMS: e.Duration.Milliseconds(),
	}
	if len(e.Details) > 0 {
		if raw, err := json.Marshal(e.Details); err == nil {
			rec.DetailsJSON = string(raw)
		}
	}
	if e.Changes != nil {
		if raw, err := json.Marshal(e.Changes); err == nil {
			rec.ChangesJSON = string(raw)
		}
	}
	return rec
}
