// Package netwatch turns periodic reachability probes of the API host into
// online/offline events.
package netwatch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Prober checks whether the remote host answers.
type Prober interface {
	Ping(ctx context.Context) error
}

// Config holds monitor settings.
type Config struct {
	Interval time.Duration
	// Timeout bounds a single probe.
	Timeout time.Duration
}

// Monitor probes on an interval and reports changes of reachability.
type Monitor struct {
	cfg      Config
	prober   Prober
	onChange func(ctx context.Context, online bool)
	logger   *slog.Logger

	mu      sync.RWMutex
	online  bool
	checked bool

	stopOnce sync.Once
	stopCh   chan struct{}
	stopped  chan struct{}
}

// New creates a monitor. onChange runs on the monitor goroutine for the
// first probe result and for every change after that.
func New(cfg Config, prober Prober, onChange func(ctx context.Context, online bool), logger *slog.Logger) *Monitor {
	if cfg.Interval == 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		cfg:      cfg,
		prober:   prober,
		onChange: onChange,
		logger:   logger.With("component", "netwatch"),
		stopCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Check runs one probe and reports the result if it differs from the last.
func (m *Monitor) Check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	err := m.prober.Ping(probeCtx)
	cancel()
	online := err == nil

	m.mu.Lock()
	changed := !m.checked || m.online != online
	m.online = online
	m.checked = true
	m.mu.Unlock()

	if !changed {
		return online
	}
	if online {
		m.logger.Info("remote reachable")
	} else {
		m.logger.Warn("remote unreachable", "error", err)
	}
	if m.onChange != nil {
		m.onChange(ctx, online)
	}
	return online
}

// Online returns the result of the last probe. Before the first probe it
// reports false.
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Start probes once and then keeps probing in the background until Stop
// is called or ctx is done.
func (m *Monitor) Start(ctx context.Context) {
	m.Check(ctx)

	go func() {
		defer close(m.stopped)
		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Check(ctx)
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the background goroutine and waits for it to exit. It must
// only be called after Start.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	<-m.stopped
}
