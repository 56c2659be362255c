package session

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultTTL is how long an idle session is kept before the sweeper
// evicts it.
const DefaultTTL = 2 * time.Hour

// Entry pairs a live orchestrator with its inactivity debouncer.
type Entry struct {
	Orchestrator *Orchestrator
	Debouncer    *Debouncer
}

// Registry holds all live sessions in memory, keyed by session id.
// Sessions are independent; the registry lock only guards the map.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	ttl     time.Duration
	logger  *slog.Logger
	done    chan struct{}
	once    sync.Once
}

// NewRegistry creates an empty registry.
func NewRegistry(ttl time.Duration, logger *slog.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		entries: make(map[string]*Entry),
		ttl:     ttl,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Put registers a live session.
func (r *Registry) Put(id string, e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = e
}

// Get returns the entry for a session id, or nil.
func (r *Registry) Get(id string) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[id]
}

// Delete removes a session and cancels its pending hint.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	e := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if e != nil {
		e.Debouncer.Cancel()
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// StartSweeper evicts sessions idle longer than the TTL. It runs until
// Close is called.
func (r *Registry) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.done:
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
}

func (r *Registry) sweep() {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Entry
	for id, e := range r.entries {
		if e.Orchestrator.LastActive().Before(cutoff) {
			expired = append(expired, e)
			delete(r.entries, id)
			r.logger.Info("evicted idle session", "session", id)
		}
	}
	r.mu.Unlock()

	for _, e := range expired {
		e.Debouncer.Cancel()
	}
}

// Close stops the sweeper.
func (r *Registry) Close() {
	r.once.Do(func() { close(r.done) })
}
