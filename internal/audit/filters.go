package audit

import (
	"strings"
	"time"

	"github.com/aegisproj/aegis/backend/internal/models"
)

// Filters describes an activity query. All set filters are conjunctive;
// zero values mean "no constraint". The date range is inclusive.
type Filters struct {
	ActorID  string                  `json:"actor_id,omitempty" form:"actor_id"`
	Action   string                  `json:"action,omitempty" form:"action"`
	Resource string                  `json:"resource,omitempty" form:"resource"`
	Category models.ActivityCategory `json:"category,omitempty" form:"category"`
	Severity models.ActivitySeverity `json:"severity,omitempty" form:"severity"`
	Success  *bool                   `json:"success,omitempty" form:"success"`
	DateFrom *time.Time              `json:"date_from,omitempty" form:"date_from" time_format:"2006-01-02T15:04:05Z07:00"`
	DateTo   *time.Time              `json:"date_to,omitempty" form:"date_to" time_format:"2006-01-02T15:04:05Z07:00"`
	Offset   int                     `json:"offset,omitempty" form:"offset"`
	Limit    int                     `json:"limit,omitempty" form:"limit"`
}

// Matches reports whether an entry passes every set filter. Action and
// resource match as case-insensitive substrings.
func (f Filters) Matches(e models.ActivityEntry) bool {
	if f.ActorID != "" && e.ActorID != f.ActorID {
		return false
	}
	if f.Action != "" && !strings.Contains(strings.ToLower(e.Action), strings.ToLower(f.Action)) {
		return false
	}
	if f.Resource != "" && !strings.Contains(strings.ToLower(e.Resource), strings.ToLower(f.Resource)) {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Severity != "" && e.Severity != f.Severity {
		return false
	}
	if f.Success != nil && e.Success != *f.Success {
		return false
	}
	if f.DateFrom != nil && e.Timestamp.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && e.Timestamp.After(*f.DateTo) {
		return false
	}
	return true
}
