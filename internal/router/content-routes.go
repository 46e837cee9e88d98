package router

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupContentRoutes mounts the public feeds and the authenticated post submission.
func SetupContentRoutes(r chi.Router, h Handlers, sections map[string]bool, jwtAuth func(http.Handler) http.Handler) {
	section := func(name string) func(http.Handler) http.Handler {
		return middleware.RequireSection(sections, name)
	}

	r.Get("/api/features", h.Content.Features)

	r.Group(func(articles chi.Router) {
		articles.Use(section("articles"))
		articles.Get("/api/articles", h.Content.ListArticles)
		articles.Get("/api/articles/{id}", h.Content.GetArticle)
		articles.Get("/api/posts", h.Content.ListPosts)
		articles.With(jwtAuth).Post("/api/posts", h.Post.CreatePost)
	})

	r.With(section("breaking")).Get("/api/feeds/breaking", h.Content.Breaking)
	r.With(section("trending")).Get("/api/feeds/trending", h.Content.Trending)
	r.With(section("home")).Get("/api/feeds/home", h.Content.Home)
	r.With(section("home")).Get("/api/feeds/best-of-week", h.Content.BestOfWeek)

	r.With(section("categories")).Get("/api/categories", h.Content.ListCategories)
	r.With(section("categories")).Get("/api/categories/{slug}", h.Content.GetCategory)
	r.With(section("search")).Get("/api/search", h.Content.Search)
}
