// Package trace assigns request ids and logs the start and end of every
// HTTP request.
package trace

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	applog "crimedash/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	// HeaderRequestID is read from incoming requests and echoed on responses.
	HeaderRequestID = "X-Request-ID"
)

// Observer receives the outcome of each request. route is the matched mux
// pattern, or "unmatched".
type Observer func(route string, status int, elapsed time.Duration)

// Middleware handles request tracing and logging
type Middleware struct {
	extractIP func(*http.Request) string
	logger    *applog.Logger
	observe   Observer
}

// NewMiddleware creates a new trace middleware. observe may be nil.
func NewMiddleware(logger *applog.Logger, extractIP func(*http.Request) string, observe Observer) *Middleware {
	return &Middleware{extractIP: extractIP, logger: logger, observe: observe}
}

// Middleware returns HTTP middleware for request tracing
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := requestIDFrom(r)
		w.Header().Set(HeaderRequestID, requestID)
		r = r.WithContext(context.WithValue(r.Context(), RequestIDKey, requestID))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// inner is the request the mux sees; it carries the matched pattern
		// once next returns.
		var inner *http.Request
		serve := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner = r
			applog.NewStructuredLogger(applog.FromContext(r.Context())).LogHTTPStart(r.Context(), r, clientIP)
			next.ServeHTTP(w, r)
		})
		applog.Middleware(m.logger)(applog.RequestIDMiddleware(requestIDOf)(serve)).ServeHTTP(rw, r)

		elapsed := time.Since(start)
		applog.NewStructuredLogger(applog.FromContext(inner.Context())).
			LogHTTPEnd(inner.Context(), inner, rw.statusCode, elapsed.Milliseconds(), clientIP)

		if m.observe != nil {
			route := inner.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.observe(route, rw.statusCode, elapsed)
		}
	})
}

func requestIDOf(r *http.Request) string { return GetRequestID(r.Context()) }

// requestIDFrom keeps a well-formed incoming id so traces can be joined
// across a proxy; anything else gets a fresh UUID.
func requestIDFrom(r *http.Request) string {
	if id := r.Header.Get(HeaderRequestID); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	return GenerateRequestID()
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return uuid.NewString()
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
