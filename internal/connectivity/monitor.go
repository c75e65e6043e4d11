// Package connectivity tracks whether the backend is reachable.
package connectivity

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/debounce"
)

// Monitor holds two views of reachability: the raw signal, updated on every
// event, and a debounced one that only settles after a quiet period so the
// offline banner does not flicker.
type Monitor struct {
	logger    zerolog.Logger
	debouncer *debounce.Debouncer

	mu        sync.RWMutex
	online    bool
	banner    bool
	listeners []func(online bool)
}

func NewMonitor(interval time.Duration, logger zerolog.Logger) *Monitor {
	return &Monitor{
		logger:    logger,
		debouncer: debounce.New(interval),
		online:    true,
		banner:    true,
	}
}

// SetOnline records a reachability event.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	changed := m.online != online
	m.online = online
	m.mu.Unlock()

	if changed {
		m.logger.Info().Bool("online", online).Msg("Connectivity changed")
	}

	m.debouncer.Trigger(func() { m.settle(online) })
}

func (m *Monitor) settle(online bool) {
	m.mu.Lock()
	if m.banner == online {
		m.mu.Unlock()
		return
	}
	m.banner = online
	listeners := make([]func(bool), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(online)
	}
}

// Online is the raw signal.
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Banner is the debounced signal.
func (m *Monitor) Banner() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.banner
}

// Subscribe registers fn to be called whenever the debounced state flips.
func (m *Monitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Monitor) Stop() {
	m.debouncer.Stop()
}
