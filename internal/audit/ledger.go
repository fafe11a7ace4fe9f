package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aegisproj/aegis/backend/internal/metrics"
	"github.com/aegisproj/aegis/backend/internal/models"
)

// DefaultCapacity bounds the in-memory ledger; the durable mirror keeps the
// long tail.
const DefaultCapacity = 10000

// Listener is invoked synchronously after each append with the stored entry.
// Used by the pattern watcher and the durable mirror; a panicking listener is
// isolated so it can never block the append.
type Listener func(entry models.ActivityEntry)

// Ledger is the append-only, capacity-bounded activity store. Appends are
// serialized behind a mutex; reads copy a snapshot so a concurrent append
// never produces a torn read. Entries are held newest-first.
type Ledger struct {
	mu        sync.RWMutex
	entries   []models.ActivityEntry
	capacity  int
	seq       uint64
	listeners []Listener
}

func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{capacity: capacity}
}

// Subscribe registers a listener for future appends. Not safe to call
// concurrently with Append; wire listeners at startup.
func (l *Ledger) Subscribe(fn Listener) {
	l.listeners = append(l.listeners, fn)
}

// Append stores an entry, assigning its id, sequence number and timestamp
// when missing, and evicts the oldest entry once capacity is exceeded.
// Returns the assigned id.
func (l *Ledger) Append(entry models.ActivityEntry) string {
	l.mu.Lock()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Severity == "" {
		entry.Severity = models.ActivityInfo
	}
	l.seq++
	entry.Seq = l.seq

	// Newest first.
	l.entries = append([]models.ActivityEntry{entry}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
		metrics.IncLedgerEviction()
	}
	l.mu.Unlock()

	for _, fn := range l.listeners {
		l.fire(fn, entry)
	}
	return entry.ID
}

func (l *Ledger) fire(fn Listener, entry models.ActivityEntry) {
	defer func() {
		_ = recover()
	}()
	fn(entry)
}

// Record implements moderation.ActivityRecorder.
func (l *Ledger) Record(entry models.ActivityEntry) {
	l.Append(entry)
}

// Len returns the number of stored entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Snapshot copies the current entries, newest first.
func (l *Ledger) Snapshot() []models.ActivityEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.ActivityEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Query filters the ledger conjunctively and applies offset/limit pagination
// after filtering. Results are newest first.
func (l *Ledger) Query(f Filters) []models.ActivityEntry {
	snapshot := l.Snapshot()

	matched := make([]models.ActivityEntry, 0, len(snapshot))
	for _, e := range snapshot {
		if f.Matches(e) {
			matched = append(matched, e)
		}
	}

	if f.Offset >= len(matched) {
		return []models.ActivityEntry{}
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched
}
