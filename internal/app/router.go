package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"qforge/internal/app/observability"
	"qforge/internal/editor"
	"qforge/internal/generate"
)

func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	collector := observability.NewCollector()
	r.Use(collector.Middleware)

	content := generate.NewClient(cfg.GenAPIBaseURL, cfg.GenAPIToken,
		time.Duration(cfg.GenTimeoutMinutes)*time.Minute)
	editorSvc := editor.NewService(content, time.Duration(cfg.EditQuiescenceMS)*time.Millisecond)
	editorHandler := editor.NewHandler(editorSvc, content)

	limiter := NewIPRateLimiter(cfg.RateLimitPerMin, time.Minute)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", collector.MetricsHandler)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(AuthGuard(cfg.AuthToken))
		api.Use(RateLimitMiddleware(limiter))
		editorHandler.Routes(api)
	})

	return r
}
