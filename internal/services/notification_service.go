package services

import (
	"fmt"
	"regexp"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/aegisproj/aegis/backend/internal/logger"
	"github.com/aegisproj/aegis/backend/internal/models"
)

// NotificationService owns the internal notification feed and external
// delivery through shoutrrr providers. External sends are fire-and-forget;
// failures are logged, never returned to the caller.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

var discordWebhookRegex = regexp.MustCompile(`^https://discord(?:app)?\.com/api/webhooks/(\d+)/([a-zA-Z0-9_-]+)`)

// normalizeURL rewrites well-known raw webhook URLs into shoutrrr form.
func normalizeURL(serviceType, rawURL string) string {
	if serviceType == "discord" {
		matches := discordWebhookRegex.FindStringSubmatch(rawURL)
		if len(matches) == 3 {
			return fmt.Sprintf("discord://%s@%s", matches[2], matches[1])
		}
	}
	return rawURL
}

// Internal notifications (DB feed)

func (s *NotificationService) Create(nType models.NotificationType, priority, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		Type:     nType,
		Priority: priority,
		Title:    title,
		Message:  message,
		Read:     false,
	}
	result := s.DB.Create(notification)
	return notification, result.Error
}

func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

func (s *NotificationService) MarkAsRead(id string) error {
	return s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (s *NotificationService) MarkAllAsRead() error {
	return s.DB.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error
}

// Notify implements moderation.Notifier: it records the event in the internal
// feed and fans out to enabled external providers. Used for moderation
// decisions and security pattern alerts alike.
func (s *NotificationService) Notify(event, priority, title, message string) {
	nType := models.NotificationTypeInfo
	if priority == "high" {
		nType = models.NotificationTypeWarning
	}
	if _, err := s.Create(nType, priority, title, message); err != nil {
		logger.Log().WithError(err).Warn("failed to persist notification")
	}
	s.SendExternal(event, title, message)
}

// SendExternal dispatches to every enabled provider whose preferences match
// the event type. Each send runs in its own goroutine.
func (s *NotificationService) SendExternal(eventType, title, message string) {
	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Warn("failed to fetch notification providers")
		return
	}

	for _, provider := range providers {
		if !providerWantsEvent(provider, eventType) {
			continue
		}

		go func(p models.NotificationProvider) {
			url := normalizeURL(p.Type, p.URL)
			msg := fmt.Sprintf("%s\n\n%s", title, message)
			if err := shoutrrr.Send(url, msg); err != nil {
				logger.WithFields(map[string]interface{}{
					"provider": p.Name,
				}).WithError(err).Warn("failed to send external notification")
			}
		}(provider)
	}
}

func providerWantsEvent(p models.NotificationProvider, eventType string) bool {
	switch eventType {
	case "moderation":
		return p.NotifyModeration
	case "review":
		return p.NotifyReview
	case "security":
		return p.NotifySecurity
	case "system":
		return p.NotifySystem
	default:
		return true
	}
}
