package audit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aegisproj/aegis/backend/internal/models"
)

// ErrUnknownFormat is returned for export formats other than csv and json.
var ErrUnknownFormat = errors.New("unknown export format")

// exportColumns fixes the tabular column order; external consumers depend on it.
var exportColumns = []string{
	"timestamp", "actor_id", "actor_name", "actor_email", "actor_role",
	"action", "resource", "resource_id", "success", "severity", "category",
	"ip_address", "user_agent", "duration_ms", "details",
}

// Export serializes the filtered ledger slice. "csv" produces a delimited
// table with details embedded as JSON; "json" produces the full entries.
func (l *Ledger) Export(format string, f Filters) ([]byte, error) {
	entries := l.Query(f)
	switch format {
	case "csv":
		return exportCSV(entries)
	case "json":
		return json.MarshalIndent(entries, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func exportCSV(entries []models.ActivityEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}
	for _, e := range entries {
		details := ""
		if len(e.Details) > 0 {
			raw, err := json.Marshal(e.Details)
			if err != nil {
				return nil, fmt.Errorf("serialize details for %s: %w", e.ID, err)
			}
			details = string(raw)
		}
		row := []string{
			e.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			e.ActorID,
			e.ActorName,
			e.ActorEmail,
			e.ActorRole,
			e.Action,
			e.Resource,
			e.ResourceID,
			strconv.FormatBool(e.Success),
			string(e.Severity),
			string(e.Category),
			e.IPAddress,
			e.UserAgent,
			strconv.FormatInt(e.Duration.Milliseconds(), 10),
			details,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
