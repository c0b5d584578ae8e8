// Package server exposes the study log over a JSON HTTP API.
package server

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"go.uber.org/zap"

	"github.com/at-ishikawa/studylog/internal/coach"
	"github.com/at-ishikawa/studylog/internal/config"
	"github.com/at-ishikawa/studylog/internal/metrics"
	"github.com/at-ishikawa/studylog/internal/studylog"
)

type Server struct {
	repo             studylog.Repository
	validator        *studylog.Validator
	coach            *coach.Coach
	metrics          *metrics.Metrics
	logger           *zap.Logger
	allowedOrigins   []string
	recentWindowDays int
	adviceLimiter    *rate.Limiter
	now              func() time.Time
}

// New wires the handlers. A zero advice rate disables the advice limiter.
func New(
	cfg *config.Config,
	repo studylog.Repository,
	validator *studylog.Validator,
	coach *coach.Coach,
	metrics *metrics.Metrics,
	logger *zap.Logger,
) *Server {
	var limiter *rate.Limiter
	if n := cfg.Server.AdviceRatePerMinute; n > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}

	return &Server{
		repo:             repo,
		validator:        validator,
		coach:            coach,
		metrics:          metrics,
		logger:           logger,
		allowedOrigins:   cfg.Server.CORS.AllowedOrigins,
		recentWindowDays: cfg.Progress.RecentWindowDays,
		adviceLimiter:    limiter,
		now:              time.Now,
	}
}

// Handler returns the API with its middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/entries", s.listEntries)
	mux.HandleFunc("POST /api/entries", s.createEntry)
	mux.HandleFunc("DELETE /api/entries", s.clearEntries)
	mux.HandleFunc("GET /api/categories", s.listCategories)
	mux.HandleFunc("GET /api/progress/time", s.progressTime)
	mux.HandleFunc("GET /api/progress/recent", s.progressRecent)
	mux.HandleFunc("GET /api/progress/scores", s.progressScores)
	mux.Handle("GET /api/advice", s.rateLimit(http.HandlerFunc(s.advice)))
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.Handle("GET /metrics", s.metrics.Handler())

	var h http.Handler = mux
	h = corsMiddleware(h, s.allowedOrigins)
	h = s.metricsMiddleware(h)
	h = s.loggingMiddleware(h)
	h = requestIDMiddleware(h)
	return h
}
