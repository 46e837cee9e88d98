package router

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/handler"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router mounts. Debug may be nil.
type Handlers struct {
	Content  *handler.ContentHandler
	Post     *handler.PostHandler
	User     *handler.UserHandler
	Bookmark *handler.BookmarkHandler
	Cron     *handler.CronHandler
	Debug    *handler.DebugHandler
	Proxy    *handler.ProxyHandler
}

type Options struct {
	ServiceName  string
	Sections     map[string]bool
	CronSecret   string
	DebugEnabled bool
	Tokens       middleware.TokenParser
	Metrics      *metrics.MetricsManager
	Logger       *zap.Logger
}

func NewRouter(h Handlers, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.ServiceName != "" {
		r.Use(middleware.Tracing(opts.ServiceName))
	}
	r.Use(middleware.Logger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	jwtAuth := middleware.JWTAuth(opts.Tokens, opts.Logger)
	SetupContentRoutes(r, h, opts.Sections, jwtAuth)
	SetupUserRoutes(r, h, opts.Sections, jwtAuth)
	SetupCronRoutes(r, h.Cron, opts.CronSecret, opts.Logger)
	r.Get("/api/proxy-image", h.Proxy.ProxyImage)

	if opts.DebugEnabled && h.Debug != nil {
		r.Get("/api/debug", h.Debug.Dump)
		r.Get("/api/debug-content", h.Debug.Content)
	}
	return r
}
