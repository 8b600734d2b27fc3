// Package worker pumps events off the match runner's channel and into the
// dispatcher. It is the only consumer of the runner channel, so event order
// is preserved end to end.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/openfootball/matchsim/internal/channel"
	"github.com/openfootball/matchsim/internal/dispatcher"
	"github.com/openfootball/matchsim/internal/logging"
	"github.com/openfootball/matchsim/internal/storage"
	"github.com/openfootball/matchsim/pkg/streaming"
)

// drainTimeout bounds the pre-export flush of the async buffers.
const drainTimeout = 30 * time.Second

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	LogManager *logging.SlogManager
	Dispatcher *dispatcher.Dispatcher
	Events     channel.Receiver[dispatcher.Event]
}

// Manager manages the event pump goroutine
type Manager struct {
	deps    Dependencies
	backend storage.Backend

	mu        sync.Mutex
	isRunning bool
	done      chan struct{}
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	return &Manager{
		deps:    deps,
		backend: backend,
		done:    make(chan struct{}),
	}
}

// Start launches the pump goroutine. It runs until the event channel is
// closed; Wait blocks until the last event has been dispatched.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.isRunning {
		m.mu.Unlock()
		return
	}
	m.isRunning = true
	m.mu.Unlock()

	go func() {
		defer close(m.done)

		logger := m.deps.LogManager.Logger()
		for e := range m.deps.Events.Receive() {
			// end_match triggers the replay export, so every buffered
			// record must be stored before it goes through.
			if e.Kind == streaming.TypeEndMatch {
				ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
				if err := m.deps.Dispatcher.Drain(ctx); err != nil {
					logger.Error("drain before end_match failed", "error", err)
				}
				cancel()
			}
			if _, err := m.deps.Dispatcher.Dispatch(e); err != nil {
				logger.Error("dispatch failed", "kind", e.Kind, "tick", e.Tick, "error", err)
			}
		}
		logger.Debug("event channel closed, pump exiting")
	}()
}

// Wait blocks until the pump has drained the channel and exited.
func (m *Manager) Wait() {
	m.mu.Lock()
	running := m.isRunning
	m.mu.Unlock()
	if !running {
		return
	}
	<-m.done
}

// Pending returns the number of events sitting in the runner channel.
func (m *Manager) Pending() int {
	return m.deps.Events.Len()
}

// DBWriteDurationProvider is an optional interface that backends can implement
// to expose their last DB write duration for monitoring.
type DBWriteDurationProvider interface {
	GetLastDBWriteDuration() time.Duration
}

// GetLastDBWriteDuration returns the duration of the last DB write cycle.
// Returns 0 if the backend doesn't support this metric.
func (m *Manager) GetLastDBWriteDuration() time.Duration {
	if p, ok := m.backend.(DBWriteDurationProvider); ok {
		return p.GetLastDBWriteDuration()
	}
	return 0
}
