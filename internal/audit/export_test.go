package audit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisproj/aegis/backend/internal/models"
)

func exportLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger := NewLedger(100)
	ledger.Append(models.ActivityEntry{
		ActorID:    "alice",
		ActorName:  "Alice Zhang",
		ActorEmail: "alice@example.com",
		ActorRole:  "moderator",
		Action:     "review_content",
		Resource:   "post",
		ResourceID: "post-42",
		Details:    map[string]any{"decision": "approve", "note": "looks, fine"},
		IPAddress:  "203.0.113.9",
		UserAgent:  `Mozilla/5.0 "quoted" agent`,
		Severity:   models.ActivityInfo,
		Category:   models.CategoryContent,
		Success:    true,
		Duration:   250 * time.Millisecond,
		Timestamp:  time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	})
	ledger.Append(models.ActivityEntry{
		ActorID:   "bob",
		Action:    "login",
		Resource:  "session",
		Severity:  models.ActivityWarning,
		Category:  models.CategoryAuth,
		Success:   false,
		Timestamp: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
	})
	return ledger
}

func TestExport_CSVRoundTrips(t *testing.T) {
	ledger := exportLedger(t)

	data, err := ledger.Export("csv", Filters{})
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 entries

	header := rows[0]
	assert.Equal(t, exportColumns, header)
	for _, row := range rows[1:] {
		assert.Len(t, row, len(exportColumns))
	}

	// Newest first: bob's failed login leads.
	assert.Equal(t, "bob", rows[1][1])
	assert.Equal(t, "false", rows[1][8])

	alice := rows[2]
	assert.Equal(t, "alice", alice[1])
	assert.Equal(t, "Alice Zhang", alice[2])
	assert.Equal(t, "alice@example.com", alice[3])
	assert.Equal(t, "moderator", alice[4])
	assert.Equal(t, "review_content", alice[5])
	assert.Equal(t, "post", alice[6])
	assert.Equal(t, "post-42", alice[7])
	assert.Equal(t, "true", alice[8])
	assert.Equal(t, "info", alice[9])
	assert.Equal(t, "content", alice[10])
	assert.Equal(t, "203.0.113.9", alice[11])
	assert.Equal(t, `Mozilla/5.0 "quoted" agent`, alice[12])
	assert.Equal(t, "250", alice[13])

	// Details survive as embedded JSON.
	var details map[string]any
	require.NoError(t, json.Unmarshal([]byte(alice[14]), &details))
	assert.Equal(t, "approve", details["decision"])
	assert.Equal(t, "looks, fine", details["note"])
}

func TestExport_JSONContainsEveryField(t *testing.T) {
	ledger := exportLedger(t)

	data, err := ledger.Export("json", Filters{})
	require.NoError(t, err)

	var entries []models.ActivityEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "bob", entries[0].ActorID)
	assert.Equal(t, "alice", entries[1].ActorID)
	assert.Equal(t, "approve", entries[1].Details["decision"])
}

func TestExport_RespectsFilters(t *testing.T) {
	ledger := exportLedger(t)

	data, err := ledger.Export("csv", Filters{ActorID: "bob"})
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "bob", rows[1][1])
}

func TestExport_UnknownFormat(t *testing.T) {
	ledger := exportLedger(t)

	_, err := ledger.Export("xml", Filters{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
