package router

import (
	"github.com/Abdurahmanit/GroupProject/content-service/internal/handler"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SetupCronRoutes mounts the maintenance triggers behind the scheduler secret.
func SetupCronRoutes(r chi.Router, h *handler.CronHandler, cronSecret string, logger *zap.Logger) {
	r.Group(func(cron chi.Router) {
		cron.Use(middleware.CronAuth(cronSecret, logger))

		cron.Get("/api/update-features", h.UpdateFeatures)
		cron.Post("/api/update-features", h.SetFeatures)
		cron.Get("/api/cron/update-features", h.UpdateFeatures)
		cron.Post("/api/cron", h.RunIngest)
		cron.Get("/api/automation", h.RunIngest)
		cron.Post("/api/migrate-features", h.MigrateFeatures)
	})
}
