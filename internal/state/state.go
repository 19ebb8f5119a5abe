// Package state provides thread-safe state management for the application.
package state

import (
	"errors"
	"sync"
	"time"

	"github.com/litescript/ls-retrograde/internal/bodies"
	"github.com/litescript/ls-retrograde/internal/logging"
	"github.com/litescript/ls-retrograde/internal/retro"
)

// ErrNoSelection is returned when no observer/target pair has been selected.
var ErrNoSelection = errors.New("no selection")

// Key identifies a computed series.
type Key struct {
	Observer bodies.Body
	Target   bodies.Body
	Window   retro.Window
	Detector retro.Config
}

// Selection is the pair and window currently on display.
type Selection struct {
	Observer bodies.Body
	Target   bodies.Body
	Window   retro.Window
}

// Stats reports cache activity.
type Stats struct {
	Entries     int
	Hits        int
	Misses      int
	Evictions   int
	LastCompute time.Duration
}

type cacheEntry struct {
	series   *retro.Series
	lastUsed uint64
}

// Manager caches computed series and holds the current selection.
type Manager struct {
	mu sync.RWMutex

	// Cache
	entries    map[Key]*cacheEntry
	maxEntries int
	clock      uint64

	// Counters
	hits        int
	misses      int
	evictions   int
	lastCompute time.Duration

	// Selection
	selection    Selection
	hasSelection bool

	detector retro.Config
	log      *logging.Logger
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEntries int
	Detector   retro.Config
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEntries: 32, // A few dozen pairs is plenty for interactive browsing
		Detector:   retro.DefaultConfig(),
	}
}

// NewManager creates a new state manager. A nil logger discards output.
func NewManager(cfg Config, log *logging.Logger) *Manager {
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 32
	}
	if log == nil {
		log = logging.Discard()
	}
	detector := cfg.Detector
	if detector == (retro.Config{}) {
		detector = retro.DefaultConfig()
	}
	return &Manager{
		entries:    make(map[Key]*cacheEntry),
		maxEntries: maxEntries,
		detector:   detector,
		log:        log,
	}
}

// Detector returns the detection limits used for new computations.
func (m *Manager) Detector() retro.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.detector
}

// Series returns the series for the pair and window, computing it on a miss.
// The returned series is shared and must not be modified.
func (m *Manager) Series(observer, target bodies.Body, w retro.Window) *retro.Series {
	m.mu.Lock()
	key := Key{Observer: observer, Target: target, Window: w, Detector: m.detector}
	if e, ok := m.entries[key]; ok {
		m.clock++
		e.lastUsed = m.clock
		m.hits++
		m.mu.Unlock()
		m.log.Debug("hit %s/%s start=%.1f len=%.1f", observer.Name, target.Name, w.StartDay, w.LengthDays)
		return e.series
	}
	m.misses++
	detector := m.detector
	m.mu.Unlock()

	// Compute outside the lock; a concurrent miss on the same key computes twice.
	began := time.Now()
	s := retro.Compute(observer.Elements, target.Elements, w, detector)
	elapsed := time.Since(began)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastCompute = elapsed
	if e, ok := m.entries[key]; ok {
		return e.series
	}
	m.evictLocked()
	m.clock++
	m.entries[key] = &cacheEntry{series: s, lastUsed: m.clock}

	m.log.Debug("miss %s/%s start=%.1f len=%.1f: %d samples, %d events in %v",
		observer.Name, target.Name, w.StartDay, w.LengthDays, s.Len(), len(s.Events), elapsed)
	return s
}

// evictLocked drops least recently used entries until one slot is free.
func (m *Manager) evictLocked() {
	for len(m.entries) >= m.maxEntries {
		var oldest Key
		var oldestUse uint64
		first := true
		for k, e := range m.entries {
			if first || e.lastUsed < oldestUse {
				oldest, oldestUse, first = k, e.lastUsed, false
			}
		}
		delete(m.entries, oldest)
		m.evictions++
	}
}

// Select sets the current selection.
func (m *Manager) Select(observer, target bodies.Body, w retro.Window) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection = Selection{Observer: observer, Target: target, Window: w}
	m.hasSelection = true
}

// Selection returns the current selection.
func (m *Manager) Selection() (Selection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasSelection {
		return Selection{}, ErrNoSelection
	}
	return m.selection, nil
}

// HasSelection returns true once a pair has been selected.
func (m *Manager) HasSelection() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasSelection
}

// Current returns the series for the current selection.
func (m *Manager) Current() (*retro.Series, error) {
	sel, err := m.Selection()
	if err != nil {
		return nil, err
	}
	return m.Series(sel.Observer, sel.Target, sel.Window), nil
}

// Stats returns a snapshot of cache counters.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Entries:     len(m.entries),
		Hits:        m.hits,
		Misses:      m.misses,
		Evictions:   m.evictions,
		LastCompute: m.lastCompute,
	}
}

// Reset drops every cached series. The selection is kept.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[Key]*cacheEntry)
	m.log.Debug("cache cleared")
}
