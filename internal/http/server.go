package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"slices"
	"sync"
	"time"

	"crimedash/internal/dashboard"
	"crimedash/internal/dataset"
	applog "crimedash/internal/log"
	"crimedash/internal/middleware/ratelimit"
	"crimedash/internal/middleware/security"
	"crimedash/internal/middleware/trace"
	"crimedash/internal/storage"
	appweb "crimedash/web"
)

// Server wraps http.Server with the dashboard's routes and the
// resources they share. The dataset is read-only after construction.
type Server struct {
	http.Server

	dataset   *dataset.Dataset
	defaults  dashboard.Defaults
	templates *template.Template
	logger    *applog.Logger
	metrics   *Metrics
	limiter   *ratelimit.Limiter
	detector  *security.Detector

	// lastImport is set when the dataset was served from the SQLite store.
	lastImport *storage.Import

	shutdownOnce sync.Once
}

// Option customizes a Server.
type Option func(*serverOptions)

type serverOptions struct {
	logger       *applog.Logger
	rateLimit    ratelimit.Config
	headers      security.HeadersConfig
	proxies      []string
	lastImport   *storage.Import
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// WithLogger sets the base logger; the server scopes it to the http component.
func WithLogger(l *applog.Logger) Option {
	return func(o *serverOptions) { o.logger = l }
}

// WithRateLimit sets the per-IP budget applied to /api/ routes.
func WithRateLimit(cfg ratelimit.Config) Option {
	return func(o *serverOptions) { o.rateLimit = cfg }
}

// WithHeaders replaces the default security headers.
func WithHeaders(cfg security.HeadersConfig) Option {
	return func(o *serverOptions) { o.headers = cfg }
}

// WithTrustedProxies adds CIDRs whose forwarding headers are honoured.
func WithTrustedProxies(cidrs ...string) Option {
	return func(o *serverOptions) { o.proxies = append(o.proxies, cidrs...) }
}

// WithLastImport reports imp on /readyz.
func WithLastImport(imp storage.Import) Option {
	return func(o *serverOptions) { o.lastImport = &imp }
}

// NewServer configures routes and templates, returning a ready-to-run server.
// Call Shutdown to stop background goroutines even if ListenAndServe was
// never called.
func NewServer(addr string, ds *dataset.Dataset, defaults dashboard.Defaults, opts ...Option) *Server {
	o := serverOptions{
		rateLimit:    ratelimit.DefaultConfig(),
		headers:      security.DefaultHeadersConfig(),
		readTimeout:  15 * time.Second,
		writeTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		dataset:  ds,
		defaults: defaults,
		logger:   o.logger.WithComponent(applog.ComponentHTTP),
		metrics:  NewMetrics(),
		limiter:  ratelimit.NewLimiter(o.rateLimit),
		detector: security.NewDetector(),

		lastImport: o.lastImport,
	}
	for _, cidr := range o.proxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			s.logger.Warn("Ignoring trusted proxy", "cidr", cidr, applog.FieldError, err)
		}
	}
	s.metrics.TrackLimiter(s.limiter)
	if ds != nil {
		s.metrics.SetDatasetRows(ds.Len())
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	api := func(h http.HandlerFunc) http.Handler {
		limited := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited)
		return limited(security.APIHeaders(applog.ComponentMiddleware(applog.ComponentDashboard)(h)))
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /api/options", api(s.handleOptions))
	mux.Handle("GET /api/summary", api(s.handleSummary))
	mux.Handle("GET /api/tabs/{tab}", api(s.handleTab))
	mux.Handle("GET /api/render", api(s.handleRender))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.metrics.Handler())

	headers := security.NewHeadersMiddleware(o.headers)
	tracer := trace.NewMiddleware(s.logger, s.detector.ExtractClientIP, s.metrics.ObserveRequest)

	var handler http.Handler = mux
	handler = s.detector.Middleware(s.onSuspicious)(handler)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       o.readTimeout,
		WriteTimeout:      o.writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

var templateFuncs = template.FuncMap{
	"has": func(list []string, v string) bool { return slices.Contains(list, v) },
}

// Metrics exposes the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) onRateLimited(r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
}

func (s *Server) onSuspicious(r *http.Request, reason string) {
	s.metrics.Suspicious(reason)
	applog.FromContext(r.Context()).WithComponent(applog.ComponentSecurity).WarnContext(r.Context(), "Suspicious request",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path,
		"reason", reason)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	// Ensure shutdown logic runs only once
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
