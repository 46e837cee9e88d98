package handler

import (
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultArticlesLimit = 10

// ContentHandler serves the public read-only feeds.
type ContentHandler struct {
	feeds     FeedService
	catalogue *entity.Catalogue
	sections  map[string]bool
	logger    *zap.Logger
}

func NewContentHandler(feeds FeedService, catalogue *entity.Catalogue, sections map[string]bool, logger *zap.Logger) *ContentHandler {
	if catalogue == nil {
		catalogue = entity.Categories()
	}
	return &ContentHandler{
		feeds:     feeds,
		catalogue: catalogue,
		sections:  sections,
		logger:    logger.Named("ContentHTTPHandler"),
	}
}

// ListArticles serves the latest content, optionally narrowed by ?category= or ?categories=a,b.
func (h *ContentHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQueryParam(r, "limit", defaultArticlesLimit)
	query := r.URL.Query()

	if raw := query.Get("categories"); raw != "" {
		var categories []string
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				categories = append(categories, c)
			}
		}
		items := h.feeds.FetchByCategories(r.Context(), categories, limit)
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"articles": items})
		return
	}

	var (
		items []*entity.FeedItem
		err   error
	)
	if category := strings.TrimSpace(query.Get("category")); category != "" {
		items, err = h.feeds.FetchByCategory(r.Context(), category, limit)
	} else {
		items, err = h.feeds.FetchAllContent(r.Context(), limit)
	}
	if err != nil {
		writeError(w, err, "Failed to fetch articles", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"articles": items})
}

func (h *ContentHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.feeds.FetchSingleArticle(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to fetch article", h.logger)
		return
	}
	related := h.feeds.RelatedArticles(r.Context(), item, usecase.DefaultRelatedLimit)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"article": item,
		"related": related,
	})
}

func (h *ContentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	items, err := h.feeds.FetchAllContent(r.Context(), parseIntQueryParam(r, "limit", usecase.DefaultAllContentLimit))
	if err != nil {
		writeError(w, err, "Failed to fetch posts", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"posts": items})
}

func (h *ContentHandler) Breaking(w http.ResponseWriter, r *http.Request) {
	items := h.feeds.FetchBreakingNews(r.Context(), parseIntQueryParam(r, "limit", usecase.DefaultBreakingLimit))
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"articles": items})
}

func (h *ContentHandler) Trending(w http.ResponseWriter, r *http.Request) {
	items := h.feeds.FetchTrendingNews(r.Context(), parseIntQueryParam(r, "limit", usecase.DefaultTrendingLimit))
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"articles": items})
}

func (h *ContentHandler) Home(w http.ResponseWriter, r *http.Request) {
	items := h.feeds.FetchHomeFeed(r.Context(), parseIntQueryParam(r, "limit", usecase.DefaultHomeLimit))
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"articles": items})
}

func (h *ContentHandler) BestOfWeek(w http.ResponseWriter, r *http.Request) {
	items := h.feeds.FetchBestOfWeek(r.Context(), parseIntQueryParam(r, "limit", usecase.DefaultBestOfWeekLimit))
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"articles": items})
}

// ListCategories returns the catalogue, or only the home page picks with ?home=true.
func (h *ContentHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.catalogue.All()
	if r.URL.Query().Get("home") == "true" {
		categories = h.catalogue.HomePage()
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (h *ContentHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	category, ok := h.catalogue.BySlug(slug)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Category not found")
		return
	}
	items, err := h.feeds.FetchByCategory(r.Context(), category.Name, parseIntQueryParam(r, "limit", usecase.DefaultCategoryLimit))
	if err != nil {
		writeError(w, err, "Failed to fetch category", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"articles": items,
	})
}

func (h *ContentHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	items, err := h.feeds.SearchArticles(r.Context(), term, parseIntQueryParam(r, "limit", usecase.DefaultSearchLimit))
	if err != nil {
		writeError(w, err, "Failed to search articles", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"query":    term,
		"articles": items,
	})
}

// Features lists the site section toggles.
func (h *ContentHandler) Features(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"features": h.sections})
}
