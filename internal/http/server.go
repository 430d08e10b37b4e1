package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	applog "txdash/internal/log"
	"txdash/internal/middleware/ratelimit"
	"txdash/internal/middleware/security"
	"txdash/internal/middleware/trace"
	"txdash/internal/services"
	appweb "txdash/web"
)

// Options configures the server. Zero values get defaults.
type Options struct {
	Addr               string
	RateLimitPerMinute int
	TrustedProxies     []string
	Logger             *applog.Logger

	// Templates and Static default to the embedded web assets.
	Templates fs.FS
	Static    fs.FS
}

type Server struct {
	http.Server
	templates *template.Template
	dashboard *services.DashboardService
	logger    *applog.Logger
	events    *applog.StructuredLogger

	rateLimiter     *ratelimit.Limiter
	clientIP        *security.ClientIPResolver
	traceMiddleware *trace.Middleware
	appMetrics      *appMetrics

	shutdownOnce sync.Once
}

type appMetrics struct {
	uptime         time.Time
	pageViews      atomic.Int64
	partialRenders atomic.Int64
	apiRequests    atomic.Int64
	renderErrors   atomic.Int64
}

var templateFuncs = template.FuncMap{
	"formatAmount": formatAmount,
}

// NewServer configures routes, middleware and templates. A template parse
// failure is logged and leaves the page routes answering 500.
func NewServer(opts Options, dashboard *services.DashboardService) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	resolver, err := security.NewClientIPResolver(opts.TrustedProxies...)
	if err != nil {
		logger.Warn("Invalid trusted proxies, using defaults", "error", err)
		resolver, _ = security.NewClientIPResolver()
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		dashboard: dashboard,
		logger:    logger,
		events:    applog.NewStructuredLogger(logger),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		clientIP:        resolver,
		traceMiddleware: trace.NewMiddleware(resolver.ClientIP, logger),
		appMetrics:      &appMetrics{uptime: time.Now()},
	}

	templates := opts.Templates
	if templates == nil {
		templates = appweb.TemplatesFS
	}
	t, err := template.New("").Funcs(templateFuncs).ParseFS(templates, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates",
			"error", err,
			applog.FieldComponent, applog.ComponentTemplate)
	} else {
		s.templates = t
	}

	static := opts.Static
	if static == nil {
		if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
			static = sub
		} else {
			logger.Warn("Failed to mount embedded static FS", "error", err)
		}
	}
	if static != nil {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(static)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(fileServer))
	}

	limit := s.rateLimiter.Middleware(resolver.ClientIP, s.handleRateLimited)

	mux.Handle("/", limit(http.HandlerFunc(s.handleDashboard)))
	mux.Handle("/ui/transactions", limit(http.HandlerFunc(s.handleTransactionsTable)))
	mux.Handle("/api/transactions", limit(http.HandlerFunc(s.handleTransactionsAPI)))
	mux.Handle("/api/customers", limit(http.HandlerFunc(s.handleCustomersAPI)))
	mux.Handle("/api/daily-totals", limit(http.HandlerFunc(s.handleDailyTotalsAPI)))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	var handler http.Handler = mux
	handler = applog.RequestIDMiddleware(trace.RequestIDFromRequest)(handler)
	handler = applog.Middleware(logger)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	s.Handler = handler

	return s
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.clientIP.ClientIP(r),
		applog.FieldPath, r.URL.Path,
		applog.FieldComponent, applog.ComponentRateLimit)
	ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w)
}

// Shutdown stops the rate limiter and drains the HTTP server. Only the
// first call has an effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
