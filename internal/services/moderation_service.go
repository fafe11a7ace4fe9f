package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aegisproj/aegis/backend/internal/models"
)

var (
	ErrResultNotFound = errors.New("moderation result not found")
	// ErrReviewFinal is returned when a second review is attempted; the
	// pending/flagged to approved/rejected transition happens exactly once.
	ErrReviewFinal     = errors.New("moderation result already reviewed")
	ErrInvalidDecision = errors.New("review decision must be approve or reject")
)

// ModerationService persists engine verdicts and owns the one-shot human
// review transition.
type ModerationService struct {
	db *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// Save persists a result so the review workflow survives restarts.
func (s *ModerationService) Save(result *models.ModerationResult) error {
	return s.db.Create(result).Error
}

// Get looks up one result by id.
func (s *ModerationService) Get(id string) (*models.ModerationResult, error) {
	var result models.ModerationResult
	if err := s.db.Where("id = ?", id).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return &result, nil
}

// List returns results, optionally filtered by status, newest first.
func (s *ModerationService) List(status models.ModerationStatus, limit int) ([]models.ModerationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	query := s.db.Order("created_at desc").Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var results []models.ModerationResult
	err := query.Find(&results).Error
	return results, err
}

// Review applies a one-shot, irreversible human decision to a pending or
// flagged result.
func (s *ModerationService) Review(id, decision, reviewerID, note string) (*models.ModerationResult, error) {
	var status models.ModerationStatus
	switch decision {
	case "approve":
		status = models.StatusApproved
	case "reject":
		status = models.StatusRejected
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}

	result, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if result.Status.Final() {
		return nil, ErrReviewFinal
	}

	now := time.Now()
	result.Status = status
	result.ReviewedBy = reviewerID
	result.ReviewNote = note
	result.ReviewedAt = &now
	if err := s.db.Save(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
