// Package alarms provides the named delayed/repeating wake facility the
// scheduler arms reminders with. Delivery is at least once; there is no
// ordering guarantee across different names.
package alarms

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
)

// Options configure a named wake event: fire once after InitialDelay, then
// every Period if Period is positive.
type Options struct {
	InitialDelay time.Duration
	Period       time.Duration
}

// Registry registers and cancels named wake events.
type Registry interface {
	Schedule(name string, opts Options) error
	Cancel(name string) error
}

// Handler is invoked with the alarm's name each time it fires.
type Handler func(name string)

// Manager is an in-process Registry driven by clock timers. Scheduling a
// name that already exists replaces the previous registration; cancelling
// an unknown name is a no-op.
type Manager struct {
	clock   clock.Clock
	handler Handler

	mu     sync.Mutex
	alarms map[string]chan struct{}
}

func NewManager(clk clock.Clock, handler Handler) *Manager {
	return &Manager{
		clock:   clk,
		handler: handler,
		alarms:  make(map[string]chan struct{}),
	}
}

func (m *Manager) Schedule(name string, opts Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelLocked(name)

	done := make(chan struct{})
	m.alarms[name] = done
	// The timer starts before Schedule returns so that a clock advance
	// right after registration cannot slip past the alarm.
	timer := m.clock.Timer(opts.InitialDelay)
	go m.run(name, opts, timer, done)

	logrus.WithFields(logrus.Fields{
		"alarm":  name,
		"delay":  opts.InitialDelay,
		"period": opts.Period,
	}).Debug("Alarm scheduled")
	return nil
}

func (m *Manager) Cancel(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelLocked(name)
	return nil
}

// Stop cancels every registered alarm. Used on shutdown.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name := range m.alarms {
		m.cancelLocked(name)
	}
}

func (m *Manager) cancelLocked(name string) {
	if done, ok := m.alarms[name]; ok {
		close(done)
		delete(m.alarms, name)
	}
}

func (m *Manager) run(name string, opts Options, timer *clock.Timer, done chan struct{}) {
	defer timer.Stop()

	for {
		select {
		case <-done:
			return
		case <-timer.C:
		}

		m.handler(name)

		if opts.Period <= 0 {
			// One-shot: drop the registration unless it was replaced
			// while the handler ran.
			m.mu.Lock()
			if current, ok := m.alarms[name]; ok && current == done {
				delete(m.alarms, name)
			}
			m.mu.Unlock()
			return
		}
		timer.Reset(opts.Period)
	}
}
