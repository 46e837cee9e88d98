package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BookmarkHandler serves the signed-in reader's bookmarks and reading history.
type BookmarkHandler struct {
	bookmarks BookmarkService
	history   HistoryService
	logger    *zap.Logger
}

func NewBookmarkHandler(bookmarks BookmarkService, history HistoryService, logger *zap.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarks: bookmarks,
		history:   history,
		logger:    logger.Named("BookmarkHTTPHandler"),
	}
}

type articleRefRequest struct {
	ArticleID string `json:"article_id"`
}

func (h *BookmarkHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	items, err := h.bookmarks.ListBookmarks(r.Context(), middleware.UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err, "Failed to list bookmarks", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"bookmarks": items})
}

func (h *BookmarkHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	var req articleRefRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.bookmarks.AddBookmark(r.Context(), middleware.UserIDFrom(r.Context()), req.ArticleID); err != nil {
		writeError(w, err, "Failed to add bookmark", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"article_id": req.ArticleID})
}

func (h *BookmarkHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	if err := h.bookmarks.RemoveBookmark(r.Context(), middleware.UserIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err, "Failed to remove bookmark", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookmarkHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQueryParam(r, "limit", usecase.DefaultHistoryLimit)
	items, err := h.history.ListHistory(r.Context(), middleware.UserIDFrom(r.Context()), limit)
	if err != nil {
		writeError(w, err, "Failed to list history", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"history": items})
}

func (h *BookmarkHandler) RecordRead(w http.ResponseWriter, r *http.Request) {
	var req articleRefRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.history.RecordRead(r.Context(), middleware.UserIDFrom(r.Context()), req.ArticleID); err != nil {
		writeError(w, err, "Failed to record reading history", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
