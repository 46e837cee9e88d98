package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
	"go.uber.org/zap"
)

type DebugHandler struct {
	debug  DebugService
	logger *zap.Logger
}

func NewDebugHandler(debug DebugService, logger *zap.Logger) *DebugHandler {
	return &DebugHandler{debug: debug, logger: logger.Named("DebugHTTPHandler")}
}

func (h *DebugHandler) Dump(w http.ResponseWriter, r *http.Request) {
	res, err := h.debug.Dump(r.Context(), parseIntQueryParam(r, "limit", usecase.DefaultDebugLimit))
	if err != nil {
		writeError(w, err, "Failed to read documents", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (h *DebugHandler) Content(w http.ResponseWriter, r *http.Request) {
	res, err := h.debug.Content(r.Context(), parseIntQueryParam(r, "limit", usecase.DefaultDebugLimit))
	if err != nil {
		writeError(w, err, "Failed to read documents", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}
