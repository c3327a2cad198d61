// Package state provides thread-safe state management for the live view.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-galilean/internal/ephem"
	"github.com/litescript/ls-galilean/internal/events"
)

// ScanResult is a completed upcoming-events scan.
type ScanResult struct {
	Start    time.Time
	End      time.Time
	Events   []events.Event
	Err      error
	Duration time.Duration // wall time the scan took
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Clock: displayed time = wall time + offset
	wall   func() time.Time
	offset time.Duration

	// Current state
	current      ephem.Snapshot
	observations [ephem.NumMoons]ephem.Observation
	lastUpdate   time.Time
	hasData      bool

	// Live transitions between successive updates
	tracker *events.Tracker

	// Event log (ring buffer)
	events       []events.Event
	maxEvents    int
	eventWriteAt int

	// Cached upcoming-events scan
	scan    *ScanResult
	pending bool

	// Configuration
	refreshInterval time.Duration
	scanWindow      time.Duration
	rescanAfter     time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents       int
	RefreshInterval time.Duration
	ScanWindow      time.Duration // how far ahead upcoming events are scanned
	RescanAfter     time.Duration // age at which a cached scan is stale

	SuppressEclipsedReappearance bool
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:                    50,
		RefreshInterval:              time.Second,
		ScanWindow:                   48 * time.Hour,
		RescanAfter:                  time.Hour,
		SuppressEclipsedReappearance: true,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	rescan := cfg.RescanAfter
	if rescan <= 0 {
		rescan = time.Hour
	}
	return &Manager{
		wall:            time.Now,
		tracker:         events.NewTracker(cfg.SuppressEclipsedReappearance),
		maxEvents:       maxEvents,
		events:          make([]events.Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		scanWindow:      cfg.ScanWindow,
		rescanAfter:     rescan,
	}
}

// RefreshInterval returns the configured update interval.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// ScanWindow returns how far ahead upcoming events are scanned.
func (m *Manager) ScanWindow() time.Duration {
	return m.scanWindow
}

// HasData reports whether Update has run at least once.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasData
}

// Now returns the displayed time.
func (m *Manager) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wall().Add(m.offset)
}

// SetTime moves the displayed clock to t; it keeps advancing with wall
// time from there. Live tracking and the cached scan restart.
func (m *Manager) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.offset = t.Sub(m.wall())
	m.tracker.Reset()
	m.scan = nil
	m.pending = false
}

// ResetTime returns the displayed clock to wall time.
func (m *Manager) ResetTime() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.offset == 0 {
		return
	}
	m.offset = 0
	m.tracker.Reset()
	m.scan = nil
	m.pending = false
}

// Simulated reports whether the displayed clock differs from wall time.
func (m *Manager) Simulated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.offset != 0
}

// Tick updates the state at the displayed time.
func (m *Manager) Tick() []events.Event {
	return m.Update(m.Now())
}

// Update computes the system at t and returns any live transitions since the
// previous update.
func (m *Manager) Update(t time.Time) []events.Event {
	snap := ephem.Compute(t)
	obs := ephem.ObserveAll(snap)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Going backwards would report transitions in reverse.
	if m.hasData && t.Before(m.current.Time) {
		m.tracker.Reset()
	}

	m.current = snap
	m.observations = obs
	m.lastUpdate = m.wall()
	m.hasData = true

	evs := m.tracker.Step(t, obs)
	for _, e := range evs {
		m.addEvent(e)
	}
	return evs
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e events.Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// NeedsScan reports whether the upcoming-events scan should be recomputed
// for displayed time now. It returns false while a scan is in flight.
func (m *Manager) NeedsScan(now time.Time) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.pending {
		return false
	}
	if m.scan == nil || m.scan.Err != nil {
		return true
	}
	return now.Before(m.scan.Start) || now.Sub(m.scan.Start) >= m.rescanAfter
}

// BeginScan marks a scan as in flight. It returns false if one already is.
func (m *Manager) BeginScan() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending {
		return false
	}
	m.pending = true
	return true
}

// SetScan stores a completed scan.
func (m *Manager) SetScan(r ScanResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	evs := make([]events.Event, len(r.Events))
	copy(evs, r.Events)
	r.Events = evs
	m.scan = &r
	m.pending = false
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	System       ephem.Snapshot
	Observations [ephem.NumMoons]ephem.Observation
	LastUpdate   time.Time
	HasData      bool
	Simulated    bool
	Events       []events.Event // live transitions, oldest first
	Scan         *ScanResult    // nil until the first scan completes
	Scanning     bool
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var scan *ScanResult
	if m.scan != nil {
		cp := *m.scan
		cp.Events = make([]events.Event, len(m.scan.Events))
		copy(cp.Events, m.scan.Events)
		scan = &cp
	}

	return Snapshot{
		System:       m.current,
		Observations: m.observations,
		LastUpdate:   m.lastUpdate,
		HasData:      m.hasData,
		Simulated:    m.offset != 0,
		Events:       m.getEventsOrdered(),
		Scan:         scan,
		Scanning:     m.pending,
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []events.Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]events.Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]events.Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []events.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}
