package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-galilean/internal/astro"
	"github.com/litescript/ls-galilean/internal/ephem"
	"github.com/litescript/ls-galilean/internal/events"
	"github.com/litescript/ls-galilean/internal/export"
	"github.com/litescript/ls-galilean/internal/metrics"
)

const (
	defaultScanHours = 24
	// Upper bound on samples per scan request.
	maxScanSamples = 500_000
)

// parseTimeParam reads an optional timestamp query parameter; empty or
// "now" means the current time.
func (s *Server) parseTimeParam(r *http.Request, name string) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" || strings.EqualFold(v, "now") {
		return s.opts.Now().UTC(), nil
	}
	return astro.ParseTime(v)
}

// GET /api/v1/snapshot?t=2024-01-02T13:45:00Z
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	t, err := s.parseTimeParam(r, "t")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, export.System(ephem.Compute(t), s.opts.RedSpot))
}

// GET /api/v1/events?start=2024-01-01&hours=48&interval=1m
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	start, err := s.parseTimeParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hours := defaultScanHours
	if v := r.URL.Query().Get("hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid hours parameter, must be a non-negative integer")
			return
		}
		hours = n
	}
	if hours > s.opts.MaxScanHours {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("hours exceeds the limit of %d", s.opts.MaxScanHours))
		return
	}

	opts := s.opts.Scan
	if v := r.URL.Query().Get("interval"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid interval parameter, want a duration such as 30s or 1m")
			return
		}
		opts.Interval = d
	}
	if opts.Interval > 0 && (time.Duration(hours)*time.Hour+opts.Lookback)/opts.Interval > maxScanSamples {
		writeError(w, http.StatusBadRequest, "scan too fine: increase interval or reduce hours")
		return
	}

	scanner, err := events.NewScanner(opts, metrics.ScanRecorder{})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.NewString()
	span := time.Duration(hours) * time.Hour
	evs, err := scanner.Scan(r.Context(), start, span)
	switch {
	case errors.Is(err, events.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.With("scan_id", id).Warn("scan aborted: %v", err)
		writeError(w, http.StatusServiceUnavailable, "scan aborted")
		return
	}

	s.logger.With("scan_id", id).Debug("scanned %d hours from %s: %d events", hours, start.Format(time.RFC3339), len(evs))

	out := export.Events(start, span, opts.Interval, evs)
	out.ScanID = id
	writeJSON(w, http.StatusOK, out)
}
