package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/aegisproj/aegis/backend/internal/logger"
	"github.com/aegisproj/aegis/backend/internal/models"
)

// ActivityStore is the durable, append-only mirror of the in-memory ledger.
// It subscribes to ledger appends and keeps the long tail the ledger evicts.
// Any SQL backend gorm supports can stand in without changing the contract.
type ActivityStore struct {
	db *gorm.DB
}

func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Mirror persists one ledger entry. Shaped as an audit.Listener: persistence
// failures are logged as warnings and never surface to the content operation
// that produced the entry.
func (s *ActivityStore) Mirror(entry models.ActivityEntry) {
	rec := models.NewActivityRecord(entry)
	if err := s.db.Create(&rec).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"entry_id": entry.ID,
		}).WithError(err).Warn("failed to persist activity entry")
	}
}

// Recent returns the newest persisted records, for backfill and debugging.
func (s *ActivityStore) Recent(limit int) ([]models.ActivityRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []models.ActivityRecord
	err := s.db.Order("timestamp desc").Limit(limit).Find(&records).Error
	return records, err
}

// Count returns the number of persisted records.
func (s *ActivityStore) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.ActivityRecord{}).Count(&n).Error
	return n, err
}

// Prune deletes records older than the retention window. Run from the cron
// schedule in main.
func (s *ActivityStore) Prune(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res := s.db.Where("timestamp < ?", cutoff).Delete(&models.ActivityRecord{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		logger.WithFields(map[string]interface{}{
			"deleted": res.RowsAffected,
			"cutoff":  cutoff.Format(time.RFC3339),
		}).Info("pruned activity records")
	}
	return res.RowsAffected, nil
}
