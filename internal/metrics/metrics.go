// Package metrics exposes Prometheus metrics for the HTTP API and the event
// scanner.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-galilean/internal/events"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lsgalilean_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lsgalilean_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	scanSamplesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lsgalilean_scan_samples_total",
			Help: "Total number of instants evaluated by event scans.",
		},
	)

	scanEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lsgalilean_scan_events_total",
			Help: "Total number of moon events reported by scans.",
		},
		[]string{"kind"},
	)

	scanDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lsgalilean_scan_duration_seconds",
			Help:    "Event scan duration in seconds.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	streamClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lsgalilean_stream_clients",
			Help: "Number of connected websocket stream clients.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(scanSamplesTotal)
	prometheus.MustRegister(scanEventsTotal)
	prometheus.MustRegister(scanDurationSeconds)
	prometheus.MustRegister(streamClients)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the middleware.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: underlying ResponseWriter is not a Hijacker")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(r.URL.Path, r.Method).Observe(duration)
	})
}

// ScanRecorder records scanner statistics. It satisfies events.Recorder.
type ScanRecorder struct{}

var _ events.Recorder = ScanRecorder{}

// RecordScan implements events.Recorder.
func (ScanRecorder) RecordScan(samples int, evs []events.Event, elapsed time.Duration) {
	scanSamplesTotal.Add(float64(samples))
	for _, e := range evs {
		scanEventsTotal.WithLabelValues(e.Kind.String()).Inc()
	}
	scanDurationSeconds.Observe(elapsed.Seconds())
}

// StreamOpened counts a new websocket client.
func StreamOpened() { streamClients.Inc() }

// StreamClosed counts a disconnected websocket client.
func StreamClosed() { streamClients.Dec() }
