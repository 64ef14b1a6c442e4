package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"lcgrants/internal/cache"
	"lcgrants/internal/core"
	"lcgrants/internal/dataset"
	applog "lcgrants/internal/log"
	"lcgrants/internal/middleware/ratelimit"
	"lcgrants/internal/middleware/security"
	"lcgrants/internal/middleware/trace"
	"lcgrants/internal/session"
	appweb "lcgrants/web"
)

// ServerConfig carries everything the dashboard server needs.
type ServerConfig struct {
	Addr            string
	Dataset         *dataset.Dataset
	Sessions        *session.Store
	Categories      core.CategoryTable
	RateLimitPerMin int
	Logger          *applog.Logger
	// Caches is optional; when set /metrics reports its entry counts.
	Caches *cache.Manager
	// Ready is an optional readiness probe of the dataset source.
	Ready func(ctx context.Context) error
}

// Server is the dashboard HTTP server.
type Server struct {
	http.Server

	templates  *template.Template
	ds         *dataset.Dataset
	sessions   *session.Store
	categories core.CategoryTable
	caches     *cache.Manager
	ready      func(ctx context.Context) error

	logger      *applog.Logger
	structured  *applog.StructuredLogger
	rateLimiter *ratelimit.Limiter
	detector    *security.Detector
	tracer      *trace.Middleware
	started     time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Dataset == nil || cfg.Sessions == nil {
		return nil, errors.New("server requires a dataset and a session store")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed parsing templates: %w", err)
	}

	detector := security.NewDetector()
	s := &Server{
		templates:   tmpl,
		ds:          cfg.Dataset,
		sessions:    cfg.Sessions,
		categories:  cfg.Categories,
		caches:      cfg.Caches,
		ready:       cfg.Ready,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		structured:  applog.NewStructuredLogger(logger),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMin}),
		detector:    detector,
		tracer:      trace.NewMiddleware(logger, detector.ExtractClientIP),
		started:     time.Now(),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.detector.Middleware(s.tracer.Middleware(headers.Middleware(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	dynamic := func(h http.HandlerFunc) http.Handler { return security.NoStore(h) }
	limited := func(h http.HandlerFunc) http.Handler {
		return security.NoStore(s.rateLimiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit)(h))
	}

	mux.Handle("GET /{$}", dynamic(s.handleIndex))
	mux.Handle("POST /filters", limited(s.handleUpdateFilters))
	mux.Handle("POST /filters/reset", limited(s.handleResetFilters))

	mux.Handle("GET /ui/filters", dynamic(s.handleFiltersPartial))
	mux.Handle("GET /ui/summary", dynamic(s.handleSummary))
	mux.Handle("GET /ui/charts/yearly", dynamic(s.handleYearlyChart))
	mux.Handle("GET /ui/charts/totals", dynamic(s.handleTotalsChart))
	mux.Handle("GET /ui/charts/categories", dynamic(s.handleCategoryChart))
	mux.Handle("GET /ui/charts/organisations", dynamic(s.handleOrgChart))
	mux.Handle("GET /ui/grid", dynamic(s.handleGrid))
	mux.Handle("GET /ui/detail", dynamic(s.handleDetail))
	mux.Handle("GET /ui/sources", dynamic(s.handleSources))

	mux.Handle("GET /api/map.geojson", dynamic(s.handleMapGeoJSON))
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please slow down.").
		TriggerErrorNotification("Too many requests. Please slow down.").
		Write(w)
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
