package audit

import (
	"sort"
	"time"

	"github.com/aegisproj/aegis/backend/internal/models"
)

const topN = 10

// FrequencyCount pairs a label with how often it occurred.
type FrequencyCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Statistics is a derived, recomputed-on-demand aggregate over a ledger
// slice. It is a read-only projection; computing it never mutates the ledger.
type Statistics struct {
	Total         int              `json:"total"`
	UniqueActors  int              `json:"unique_actors"`
	Failures      int              `json:"failures"`
	Critical      int              `json:"critical"`
	TopActions    []FrequencyCount `json:"top_actions"`
	TopActors     []FrequencyCount `json:"top_actors"`
	HourHistogram [24]int          `json:"hour_histogram"`
	DayHistogram  map[string]int   `json:"day_histogram"`
}

// Stats aggregates the optionally date-filtered ledger in a single pass.
func (l *Ledger) Stats(dateFrom, dateTo *time.Time) Statistics {
	stats := Statistics{DayHistogram: make(map[string]int)}
	actions := make(map[string]int)
	actors := make(map[string]int)

	for _, e := range l.Snapshot() {
		if dateFrom != nil && e.Timestamp.Before(*dateFrom) {
			continue
		}
		if dateTo != nil && e.Timestamp.After(*dateTo) {
			continue
		}

		stats.Total++
		actions[e.Action]++
		if e.ActorID != "" {
			actors[e.ActorID]++
		}
		if !e.Success {
			stats.Failures++
		}
		if e.Severity == models.ActivityCritical {
			stats.Critical++
		}
		local := e.Timestamp.Local()
		stats.HourHistogram[local.Hour()]++
		stats.DayHistogram[local.Format("2006-01-02")]++
	}

	stats.UniqueActors = len(actors)
	stats.TopActions = topCounts(actions)
	stats.TopActors = topCounts(actors)
	return stats
}

// topCounts sorts a frequency map descending and truncates to the top 10.
// Ties break alphabetically so the output is deterministic.
func topCounts(m map[string]int) []FrequencyCount {
	out := make([]FrequencyCount, 0, len(m))
	for name, count := range m {
		out = append(out, FrequencyCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
