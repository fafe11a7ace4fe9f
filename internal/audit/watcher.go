package audit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aegisproj/aegis/backend/internal/metrics"
	"github.com/aegisproj/aegis/backend/internal/models"
)

const (
	failedLoginThreshold = 5
	failedLoginWindow    = 15 * time.Minute
	bulkAccessThreshold  = 1000
	businessHourStart    = 6
	businessHourEnd      = 22
	maxStoredAlerts      = 1000
)

var adminRoles = map[string]struct{}{
	"admin":       {},
	"superadmin":  {},
	"super_admin": {},
	"owner":       {},
	"root":        {},
}

// AlertSink receives raised alerts; delivery is the notifier's problem.
type AlertSink func(alert models.SecurityAlert)

// PatternWatcher inspects each newly appended ledger entry against a small
// rule set and raises alerts for suspicious behavior sequences. It watches
// the activity stream, not content risk.
type PatternWatcher struct {
	ledger *Ledger
	sink   AlertSink

	mu     sync.RWMutex
	alerts []models.SecurityAlert
}

// NewPatternWatcher wires a watcher onto a ledger. The sink may be nil.
func NewPatternWatcher(ledger *Ledger, sink AlertSink) *PatternWatcher {
	w := &PatternWatcher{ledger: ledger, sink: sink}
	ledger.Subscribe(w.Inspect)
	return w
}

// Alerts returns raised alerts, newest first.
func (w *PatternWatcher) Alerts() []models.SecurityAlert {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]models.SecurityAlert, len(w.alerts))
	copy(out, w.alerts)
	return out
}

// Inspect runs every pattern against one new entry.
func (w *PatternWatcher) Inspect(entry models.ActivityEntry) {
	w.checkFailedLogins(entry)
	w.checkPrivilegeEscalation(entry)
	w.checkBulkDataAccess(entry)
	w.checkOffHoursAccess(entry)
}

// checkFailedLogins raises a warning once the same actor accumulates 5 failed
// login actions inside the trailing 15 minutes.
func (w *PatternWatcher) checkFailedLogins(entry models.ActivityEntry) {
	if entry.Success || !strings.Contains(strings.ToLower(entry.Action), "login") {
		return
	}
	cutoff := entry.Timestamp.Add(-failedLoginWindow)
	count := 0
	for _, e := range w.ledger.Snapshot() {
		if e.Success || e.ActorID != entry.ActorID {
			continue
		}
		if !strings.Contains(strings.ToLower(e.Action), "login") {
			continue
		}
		if e.Timestamp.Before(cutoff) {
			continue
		}
		count++
	}
	if count >= failedLoginThreshold {
		w.raise(entry, "multiple failed logins", models.ActivityWarning,
			fmt.Sprintf("%d failed logins by %s within %s", count, entry.ActorID, failedLoginWindow))
	}
}

// checkPrivilegeEscalation flags role changes that move a non-admin role
// into an admin-equivalent one.
func (w *PatternWatcher) checkPrivilegeEscalation(entry models.ActivityEntry) {
	if entry.Action != "role_change" {
		return
	}
	oldRole := detailString(entry.Details, "old_role")
	newRole := detailString(entry.Details, "new_role")
	if _, wasAdmin := adminRoles[strings.ToLower(oldRole)]; wasAdmin {
		return
	}
	if _, nowAdmin := adminRoles[strings.ToLower(newRole)]; !nowAdmin {
		return
	}
	w.raise(entry, "privilege escalation", models.ActivityCritical,
		fmt.Sprintf("%s moved from %q to admin role %q", entry.ActorID, oldRole, newRole))
}

// checkBulkDataAccess flags data-category entries touching over 1,000 records.
func (w *PatternWatcher) checkBulkDataAccess(entry models.ActivityEntry) {
	if entry.Category != models.CategoryData {
		return
	}
	count, ok := detailNumber(entry.Details, "record_count")
	if !ok || count <= bulkAccessThreshold {
		return
	}
	w.raise(entry, "bulk data access", models.ActivityWarning,
		fmt.Sprintf("%s accessed %d records via %s", entry.ActorID, count, entry.Action))
}

// checkOffHoursAccess flags activity outside 06:00-22:00 local time.
func (w *PatternWatcher) checkOffHoursAccess(entry models.ActivityEntry) {
	hour := entry.Timestamp.Local().Hour()
	if hour >= businessHourStart && hour < businessHourEnd {
		return
	}
	w.raise(entry, "off-hours access", models.ActivityInfo,
		fmt.Sprintf("%s performed %s at %02d:00 local", entry.ActorID, entry.Action, hour))
}

func (w *PatternWatcher) raise(entry models.ActivityEntry, pattern string, severity models.ActivitySeverity, message string) {
	alert := models.SecurityAlert{
		ID:        uuid.New().String(),
		Pattern:   pattern,
		Severity:  severity,
		Message:   message,
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		EntryID:   entry.ID,
		Timestamp: entry.Timestamp,
	}

	w.mu.Lock()
	w.alerts = append([]models.SecurityAlert{alert}, w.alerts...)
	if len(w.alerts) > maxStoredAlerts {
		w.alerts = w.alerts[:maxStoredAlerts]
	}
	w.mu.Unlock()

	metrics.IncSecurityAlert()
	if w.sink != nil {
		w.sink(alert)
	}
}

func detailString(details map[string]any, key string) string {
	if details == nil {
		return ""
	}
	if v, ok := details[key].(string); ok {
		return v
	}
	return ""
}

func detailNumber(details map[string]any, key string) (int, bool) {
	if details == nil {
		return 0, false
	}
	switch v := details[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
