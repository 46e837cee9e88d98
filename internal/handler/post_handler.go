package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
	"go.uber.org/zap"
)

type PostHandler struct {
	posts  PostService
	logger *zap.Logger
}

func NewPostHandler(posts PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger.Named("PostHTTPHandler")}
}

type createPostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	ImageURL string   `json:"image_url"`
	Tags     []string `json:"tags"`
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("Invalid request body for CreatePost", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.posts.CreatePost(r.Context(), usecase.CreatePostInput{
		UserID:   middleware.UserIDFrom(r.Context()),
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		ImageURL: req.ImageURL,
		Tags:     req.Tags,
	})
	if err != nil {
		writeError(w, err, "Failed to create post", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{"post": item})
}
