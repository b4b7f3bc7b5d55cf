package builder

import (
	"context"
	"sync"
	"time"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/snapshot"
)

const (
	DefaultMaxSessions = 10000
	DefaultIdleTTL     = 30 * time.Minute

	sweepEvery = time.Minute
)

// Limits bound the registry. Zero values take the defaults.
type Limits struct {
	MaxSessions int
	IdleTTL     time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.MaxSessions <= 0 {
		l.MaxSessions = DefaultMaxSessions
	}
	if l.IdleTTL <= 0 {
		l.IdleTTL = DefaultIdleTTL
	}
	return l
}

type registryEntry struct {
	session  *Session
	lastUsed time.Time
}

// Registry keeps one Session per principal, restored lazily from that principal's snapshot.
// Idle sessions are closed after Limits.IdleTTL and the least recently used one is closed
// when MaxSessions is reached. A closed session is reloaded from its snapshot on next use.
type Registry struct {
	snapshotDir string
	deps        *Deps
	limits      Limits

	mu        sync.Mutex
	sessions  map[string]*registryEntry
	lastSweep time.Time
}

// NewRegistry builds a registry with default limits. An empty snapshotDir keeps snapshots
// in memory only, so evicted sessions start over.
func NewRegistry(snapshotDir string, deps *Deps) *Registry {
	return NewRegistryWithLimits(snapshotDir, deps, Limits{})
}

func NewRegistryWithLimits(snapshotDir string, deps *Deps, limits Limits) *Registry {
	if deps == nil {
		deps = &Deps{}
	}
	return &Registry{
		snapshotDir: snapshotDir,
		deps:        deps,
		limits:      limits.withDefaults(),
		sessions:    make(map[string]*registryEntry),
	}
}

// Get returns principal's session, creating it on first use. The snapshot is read even if
// ctx is already cancelled so a dropped request never caches defaults over saved data.
func (r *Registry) Get(ctx context.Context, principal string) *Session {
	now := r.deps.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked(now)
	if e, ok := r.sessions[principal]; ok {
		e.lastUsed = now
		return e.session
	}
	for len(r.sessions) >= r.limits.MaxSessions {
		r.evictOldestLocked()
	}

	var kv snapshot.KV
	if r.snapshotDir != "" {
		kv = snapshot.NewFileKV(r.snapshotDir, principal)
	} else {
		kv = snapshot.NewMemoryKV()
	}
	s, errs := NewSession(context.WithoutCancel(ctx), principal, kv, r.deps)
	for _, err := range errs {
		telemetry.Warn("snapshot.restore_failed", map[string]any{
			"user_id": principal,
			"err":     err,
		})
	}
	r.sessions[principal] = &registryEntry{session: s, lastUsed: now}
	return s
}

func (r *Registry) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < sweepEvery {
		return
	}
	r.lastSweep = now
	for key, e := range r.sessions {
		if now.Sub(e.lastUsed) >= r.limits.IdleTTL {
			r.closeLocked(key, e, "idle")
		}
	}
}

func (r *Registry) evictOldestLocked() {
	var (
		oldestKey string
		oldest    *registryEntry
	)
	for key, e := range r.sessions {
		if oldest == nil || e.lastUsed.Before(oldest.lastUsed) {
			oldestKey, oldest = key, e
		}
	}
	if oldest != nil {
		r.closeLocked(oldestKey, oldest, "capacity")
	}
}

func (r *Registry) closeLocked(key string, e *registryEntry, reason string) {
	e.session.Close()
	delete(r.sessions, key)
	telemetry.Info("session.evicted", map[string]any{
		"user_id": key,
		"reason":  reason,
	})
}

// Len reports how many sessions are loaded.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops every session's pending rescoring.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, e := range r.sessions {
		e.session.Close()
		delete(r.sessions, key)
	}
}
