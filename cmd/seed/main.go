package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aegisproj/aegis/backend/internal/models"
)

// Seeds a local database with demo notification providers and activity
// records for manual testing of the query, stats and export endpoints.
func main() {
	db, err := gorm.Open(sqlite.Open("./data/aegis.db"), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.ActivityRecord{},
		&models.ModerationResult{},
		&models.Notification{},
		&models.NotificationProvider{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	providers := []models.NotificationProvider{
		{
			ID:               uuid.NewString(),
			Name:             "Ops Gotify",
			Type:             "gotify",
			URL:              "gotify://gotify.local/AzyoeNS.D4iNLF",
			Enabled:          false,
			NotifyModeration: true,
			NotifySecurity:   true,
		},
	}
	for _, p := range providers {
		if err := db.Where("name = ?", p.Name).FirstOrCreate(&p).Error; err != nil {
			log.Printf("seed provider %s: %v", p.Name, err)
		}
	}

	now := time.Now()
	actions := []struct {
		actor, action, resource string
		category                models.ActivityCategory
		success                 bool
	}{
		{"user-1", "login", "session", models.CategoryAuth, true},
		{"user-2", "login", "session", models.CategoryAuth, false},
		{"user-1", "create_post", "post", models.CategoryContent, true},
		{"admin-1", "export_report", "report", models.CategoryData, true},
	}
	for i, a := range actions {
		rec := models.NewActivityRecord(models.ActivityEntry{
			ID:        uuid.NewString(),
			Seq:       uint64(i + 1),
			Timestamp: now.Add(-time.Duration(i) * time.Hour),
			ActorID:   a.actor,
			Action:    a.action,
			Resource:  a.resource,
			Severity:  models.ActivityInfo,
			Category:  a.category,
			Success:   a.success,
		})
		if err := db.Create(&rec).Error; err != nil {
			log.Printf("seed activity: %v", err)
		}
	}

	fmt.Println("✓ Seed data created")
}
