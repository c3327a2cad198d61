// Package api serves snapshots, event scans and a live websocket feed over
// HTTP.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/litescript/ls-galilean/internal/config"
	"github.com/litescript/ls-galilean/internal/events"
	"github.com/litescript/ls-galilean/internal/export"
	"github.com/litescript/ls-galilean/internal/logging"
	"github.com/litescript/ls-galilean/internal/metrics"
	"github.com/litescript/ls-galilean/internal/version"
)

// Options configures the server.
type Options struct {
	Addr            string
	RateLimit       float64 // requests per second per IP
	RateBurst       int
	MaxScanHours    int
	StreamInterval  time.Duration
	MaxStreamsPerIP int
	Scan            events.Options
	RedSpot         export.Feature
	Now             func() time.Time // defaults to time.Now
}

// OptionsFromConfig builds server options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Addr:            cfg.Server.Addr,
		RateLimit:       cfg.Server.RateLimit,
		RateBurst:       cfg.Server.RateBurst,
		MaxScanHours:    cfg.Server.MaxScanHours,
		StreamInterval:  cfg.StreamInterval(),
		MaxStreamsPerIP: 4,
		Scan:            cfg.ScanOptions(),
		RedSpot:         export.Feature{LongitudeDeg: cfg.RedSpot.Longitude, System: cfg.RedSpotSystem()},
	}
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *logging.Logger
	opts       Options
	streams    *streamLimiter

	done     chan struct{}
	doneOnce sync.Once
}

// NewServer creates a configured HTTP server.
func NewServer(opts Options, logger *logging.Logger) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxStreamsPerIP <= 0 {
		opts.MaxStreamsPerIP = 4
	}
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = 5 * time.Second
	}

	s := &Server{
		logger:  logger.With("component", "api"),
		opts:    opts,
		streams: newStreamLimiter(opts.MaxStreamsPerIP),
		done:    make(chan struct{}),
	}

	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/stream", s.handleStream)

	// Build middleware chain: metrics -> logging -> rate limit -> mux.
	limiter := NewIPRateLimiter(rate.Limit(opts.RateLimit), opts.RateBurst)
	var handler http.Handler = mux
	handler = limiter.Middleware(handler)
	handler = loggingMiddleware(s.logger)(handler)
	handler = metrics.Middleware(handler)
	s.handler = handler

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// HTTPServer returns the underlying *http.Server for external control.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.closeStreams()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, ends open streams and waits for
// in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeStreams()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) closeStreams() {
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// probePath returns true for health probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the middleware.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("api: underlying ResponseWriter is not a Hijacker")
	}
	sr.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

func loggingMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			l := logger.With(
				"method", r.Method,
				"path", r.URL.Path,
				"status", sr.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", clientIP(r),
			)
			if probePath(r.URL.Path) {
				l.Debug("request")
				return
			}
			l.Info("request")
		})
	}
}
