package models

import (
	"time"
)

// SecurityAlert records a security-pattern match raised while inspecting the
// activity stream. Delivery is the notifier's job; this is the audit trace.
type SecurityAlert struct {
	ID        string           `json:"id"`
	Pattern   string           `json:"pattern"`
	Severity  ActivitySeverity `json:"severity"`
	Message   string           `json:"message"`
	ActorID   string           `json:"actor_id"`
	Action    string           `json:"action"`
	EntryID   string           `json:"entry_id"`
	Timestamp time.Time        `json:"timestamp"`
}
