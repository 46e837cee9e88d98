package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
	"go.uber.org/zap"
)

// CronHandler serves the scheduler-triggered maintenance jobs.
type CronHandler struct {
	features FeatureService
	ingest   IngestService
	logger   *zap.Logger
	now      func() time.Time
}

func NewCronHandler(features FeatureService, ingest IngestService, logger *zap.Logger) *CronHandler {
	return &CronHandler{
		features: features,
		ingest:   ingest,
		logger:   logger.Named("CronHTTPHandler"),
		now:      time.Now,
	}
}

func (h *CronHandler) failed(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, zap.Error(err))
	respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   message,
		"details": err.Error(),
	})
}

// UpdateFeatures recomputes the time- and popularity-driven flags.
func (h *CronHandler) UpdateFeatures(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	res, err := h.features.Refresh(r.Context(), now)
	if err != nil {
		h.failed(w, "Failed to update features", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"message":          "Features updated successfully",
		"timestamp":        entity.FormatTimestamp(now),
		"scanned":          res.Scanned,
		"updated":          res.Updated,
		"best_of_week_set": res.BestOfWeekSet,
		"breaking_set":     res.BreakingSet,
		"breaking_cleared": res.BreakingCleared,
	})
}

type setFeaturesRequest struct {
	ID       string          `json:"id"`
	Features map[string]bool `json:"features"`
}

func (h *CronHandler) SetFeatures(w http.ResponseWriter, r *http.Request) {
	var req setFeaturesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	flags, err := h.features.SetFeatures(r.Context(), req.ID, req.Features)
	if err != nil {
		writeError(w, err, "Failed to update features", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Features updated successfully",
		"id":       req.ID,
		"features": flags,
	})
}

func (h *CronHandler) RunIngest(w http.ResponseWriter, r *http.Request) {
	res, err := h.ingest.Run(r.Context())
	if err != nil {
		h.failed(w, "Cron job failed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cron job completed successfully",
		"data":    res,
	})
}

// MigrateFeatures rewrites every flag bag onto canonical keys. ?dry_run=true only counts.
func (h *CronHandler) MigrateFeatures(w http.ResponseWriter, r *http.Request) {
	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))
	batchSize, _ := strconv.Atoi(r.URL.Query().Get("batch_size"))

	res, err := h.features.Migrate(r.Context(), usecase.MigrateInput{DryRun: dryRun, BatchSize: batchSize})
	if err != nil {
		h.failed(w, "Feature migration failed", err)
		return
	}
	message := "Feature migration completed"
	if dryRun {
		message = "Feature migration dry run completed"
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"message":        message,
		"migrated_count": res.Migrated,
		"scanned":        res.Scanned,
		"dry_run":        res.DryRun,
		"timestamp":      entity.FormatTimestamp(h.now()),
	})
}
