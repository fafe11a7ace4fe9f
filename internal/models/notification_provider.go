package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationProvider is one external delivery target (shoutrrr URL or
// custom webhook) with per-event-type preferences.
type NotificationProvider struct {
	ID      string `gorm:"primaryKey" json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"` // discord, slack, gotify, telegram, generic, webhook
	URL     string `json:"url"`  // The shoutrrr URL or webhook URL
	Enabled bool   `json:"enabled"`

	// Notification preferences
	NotifyModeration bool `json:"notify_moderation" gorm:"default:true"` // hide/delete decisions
	NotifyReview     bool `json:"notify_review" gorm:"default:true"`     // items queued for review
	NotifySecurity   bool `json:"notify_security" gorm:"default:true"`   // security pattern alerts
	NotifySystem     bool `json:"notify_system" gorm:"default:false"`    // startup, retention, errors

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *NotificationProvider) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}
