package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/aegisproj/aegis/backend/internal/api/handlers"
	"github.com/aegisproj/aegis/backend/internal/api/middleware"
	"github.com/aegisproj/aegis/backend/internal/audit"
	"github.com/aegisproj/aegis/backend/internal/config"
	"github.com/aegisproj/aegis/backend/internal/metrics"
	"github.com/aegisproj/aegis/backend/internal/models"
	"github.com/aegisproj/aegis/backend/internal/moderation"
	"github.com/aegisproj/aegis/backend/internal/services"
)

// Deps bundles the shared engine pieces so main and the tests wire the same
// graph that the routes serve.
type Deps struct {
	Ledger  *audit.Ledger
	Watcher *audit.PatternWatcher
	Engine  *moderation.Engine
	Hooks   *moderation.Hooks
	Store   *services.ActivityStore
}

// Build constructs the moderation/audit dependency graph on top of the DB.
func Build(db *gorm.DB, cfg config.Config) *Deps {
	notifier := services.NewNotificationService(db)
	store := services.NewActivityStore(db)

	ledger := audit.NewLedger(cfg.LedgerSize)
	ledger.Subscribe(store.Mirror)

	watcher := audit.NewPatternWatcher(ledger, func(alert models.SecurityAlert) {
		notifier.Notify("security", "high",
			fmt.Sprintf("Security alert: %s", alert.Pattern), alert.Message)
	})

	configStore := moderation.NewConfigStore(models.DefaultModerationConfig())
	engine := moderation.NewEngine(configStore, nil, ledger, notifier)

	return &Deps{
		Ledger:  ledger,
		Watcher: watcher,
		Engine:  engine,
		Hooks:   moderation.NewHooks(engine),
		Store:   store,
	}
}

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) (*Deps, error) {
	if err := db.AutoMigrate(
		&models.ActivityRecord{},
		&models.ModerationResult{},
		&models.Notification{},
		&models.NotificationProvider{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	deps := Build(db, cfg)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/api/v1/health", handlers.HealthHandler)

	api := router.Group("/api/v1")
	api.Use(middleware.ActorAttribution(cfg.ActorSecret))

	moderationHandler := handlers.NewModerationHandler(deps.Engine, deps.Hooks, services.NewModerationService(db))
	configHandler := handlers.NewConfigHandler(deps.Engine)
	activityHandler := handlers.NewActivityHandler(deps.Ledger, deps.Watcher)
	notificationHandler := handlers.NewNotificationHandler(services.NewNotificationService(db))

	mod := api.Group("/moderation")
	{
		mod.POST("/evaluate", moderationHandler.Evaluate)
		mod.POST("/hooks/:kind", moderationHandler.Hook)
		mod.GET("/results", moderationHandler.ListResults)
		mod.GET("/results/:id", moderationHandler.GetResult)
		mod.POST("/results/:id/review", moderationHandler.Review)
		mod.GET("/config", configHandler.Get)
		mod.PUT("/config", configHandler.Update)
	}

	activities := api.Group("/activities")
	{
		activities.POST("", activityHandler.Log)
		activities.GET("", activityHandler.Query)
		activities.GET("/stats", activityHandler.Stats)
		activities.GET("/export", activityHandler.Export)
	}

	api.GET("/alerts", activityHandler.Alerts)

	notifications := api.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("/:id/read", notificationHandler.MarkAsRead)
		notifications.POST("/read-all", notificationHandler.MarkAllAsRead)
	}

	return deps, nil
}
