// Package connectivity makes the online/offline state an explicit input to
// the repositories instead of scattered branching. A probe is sampled once
// at the start of each operation, so a single call never mixes remote and
// cache results mid-flight.
package connectivity

import (
	"context"
	"sync"
	"time"
)

// Probe answers the single question the repositories need: can the remote
// be reached right now?
type Probe interface {
	Online(ctx context.Context) bool
}

// Static is a fixed connectivity state. Useful in tests and for forcing
// offline mode.
type Static bool

func (s Static) Online(context.Context) bool { return bool(s) }

// Func adapts a plain function to a Probe. The remote client's health check
// plugs in here.
type Func func(ctx context.Context) bool

func (f Func) Online(ctx context.Context) bool { return f(ctx) }

// Monitor caches the result of an underlying probe for an interval, so a
// burst of repository calls does not hammer the health endpoint. The cached
// state also gives the UI a stable online/offline indicator.
type Monitor struct {
	probe    Probe
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	lastCheck time.Time
	online    bool
}

// NewMonitor wraps probe, re-checking at most once per interval.
func NewMonitor(probe Probe, interval time.Duration) *Monitor {
	return &Monitor{probe: probe, interval: interval, now: time.Now}
}

// Online returns the cached connectivity state, refreshing it when the
// interval has elapsed.
func (m *Monitor) Online(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.lastCheck.IsZero() || now.Sub(m.lastCheck) >= m.interval {
		m.online = m.probe.Online(ctx)
		m.lastCheck = now
	}
	return m.online
}

// Refresh forces an immediate re-check, bypassing the cache. Called on
// explicit "sync now" actions and reconnect events.
func (m *Monitor) Refresh(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.online = m.probe.Online(ctx)
	m.lastCheck = m.now()
	return m.online
}
