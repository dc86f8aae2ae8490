package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"listinha/internal/audit"
	"listinha/internal/gateway"
	"listinha/internal/handler"
	"listinha/internal/middleware"
	"listinha/internal/session"
)

type Server struct {
	db          *sql.DB
	api         *handler.Handler
	sessions    *session.Manager
	rateLimiter *middleware.RateLimiter
	rateLimit   int
	logger      *slog.Logger
}

func New(db *sql.DB, auditPub *audit.Publisher, rateLimitPerMinute int, logger *slog.Logger) *Server {
	store := gateway.NewSQLiteStore(db)
	sessions := session.NewManager(store, auditPub, logger.With("component", "session"))

	return &Server{
		db:          db,
		api:         handler.New(sessions, logger.With("component", "api")),
		sessions:    sessions,
		rateLimiter: middleware.NewRateLimiter(),
		rateLimit:   rateLimitPerMinute,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.api.Health)

	mux.HandleFunc("GET /api/view", s.api.View)
	mux.HandleFunc("GET /api/analytics", s.api.Analytics)

	mux.HandleFunc("POST /api/session/name", s.rateLimitedHandler(s.api.SetName))
	mux.HandleFunc("PUT /api/prefs", s.api.UpdatePrefs)
	mux.HandleFunc("POST /api/period/prev", s.api.PrevMonth)
	mux.HandleFunc("POST /api/period/next", s.api.NextMonth)
	mux.HandleFunc("POST /api/filters", s.api.SetFilters)

	mux.HandleFunc("POST /api/items", s.api.SubmitItem)
	mux.HandleFunc("PATCH /api/items/{id}", s.api.PatchItem)
	mux.HandleFunc("POST /api/items/{id}/toggle", s.api.ToggleItem)
	mux.HandleFunc("DELETE /api/items/{id}", s.api.DeleteItem)

	mux.HandleFunc("POST /api/bulk/zero-prices", s.rateLimitedHandler(s.api.ZeroPrices))
	mux.HandleFunc("POST /api/bulk/delete-month", s.rateLimitedHandler(s.api.DeleteMonth))
	mux.HandleFunc("POST /api/bulk/restore-month", s.rateLimitedHandler(s.api.RestoreMonth))
	mux.HandleFunc("POST /api/bulk/copy-next", s.rateLimitedHandler(s.api.CopyToNextMonth))
	mux.HandleFunc("GET /api/bulk/soft-deleted-count", s.api.SoftDeletedCount)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, s.rateLimit, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
