package router

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupUserRoutes mounts auth, profile, bookmark and history routes.
func SetupUserRoutes(r chi.Router, h Handlers, sections map[string]bool, jwtAuth func(http.Handler) http.Handler) {
	r.Post("/api/auth/register", h.User.Register)
	r.Post("/api/auth/login", h.User.Login)

	r.Group(func(authRouter chi.Router) {
		authRouter.Use(jwtAuth)

		authRouter.Post("/api/auth/logout", h.User.Logout)

		authRouter.Group(func(profile chi.Router) {
			profile.Use(middleware.RequireSection(sections, "profile"))
			profile.Get("/api/profile", h.User.GetProfile)
			profile.Put("/api/profile", h.User.UpdateProfile)
			profile.Post("/api/profile/password", h.User.ChangePassword)
			profile.Get("/api/history", h.Bookmark.ListHistory)
			profile.Post("/api/history", h.Bookmark.RecordRead)
		})

		authRouter.Group(func(bookmarks chi.Router) {
			bookmarks.Use(middleware.RequireSection(sections, "bookmarks"))
			bookmarks.Get("/api/bookmarks", h.Bookmark.ListBookmarks)
			bookmarks.Post("/api/bookmarks", h.Bookmark.AddBookmark)
			bookmarks.Delete("/api/bookmarks/{id}", h.Bookmark.RemoveBookmark)
		})
	})
}
