package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aegisproj/aegis/backend/internal/audit"
	"github.com/aegisproj/aegis/backend/internal/models"
)

func setupActivityTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	db.AutoMigrate(&models.ActivityRecord{})
	return db
}

func TestActivityStore_MirrorsLedgerAppends(t *testing.T) {
	store := NewActivityStore(setupActivityTestDB(t))

	ledger := audit.NewLedger(100)
	ledger.Subscribe(store.Mirror)

	ledger.Append(models.ActivityEntry{
		ActorID:  "alice",
		Action:   "create_post",
		Resource: "post",
		Details:  map[string]any{"length": 240},
		Severity: models.ActivityInfo,
		Category: models.CategoryContent,
		Success:  true,
	})

	records, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].ActorID)
	assert.Equal(t, "create_post", records[0].Action)
	assert.Contains(t, records[0].DetailsJSON, "240")
	assert.NotEmpty(t, records[0].UUID)
}

func TestActivityStore_Count(t *testing.T) {
	store := NewActivityStore(setupActivityTestDB(t))

	for i := 0; i < 3; i++ {
		store.Mirror(models.ActivityEntry{
			ID: "", ActorID: "a", Action: "x", Resource: "r",
			Timestamp: time.Now(), Severity: models.ActivityInfo,
			Category: models.CategorySystem, Success: true,
		})
	}

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestActivityStore_PruneRespectsRetention(t *testing.T) {
	store := NewActivityStore(setupActivityTestDB(t))

	now := time.Now()
	store.Mirror(models.ActivityEntry{ActorID: "old", Action: "x", Resource: "r", Timestamp: now.AddDate(0, 0, -100), Severity: models.ActivityInfo, Category: models.CategorySystem})
	store.Mirror(models.ActivityEntry{ActorID: "fresh", Action: "x", Resource: "r", Timestamp: now, Severity: models.ActivityInfo, Category: models.CategorySystem})

	deleted, err := store.Prune(90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	records, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fresh", records[0].ActorID)
}

func TestActivityStore_PruneDisabled(t *testing.T) {
	store := NewActivityStore(setupActivityTestDB(t))
	store.Mirror(models.ActivityEntry{ActorID: "a", Action: "x", Resource: "r", Timestamp: time.Now().AddDate(-1, 0, 0), Severity: models.ActivityInfo, Category: models.CategorySystem})

	deleted, err := store.Prune(0)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
