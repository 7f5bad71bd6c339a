// Package link tracks the wireless link state machine:
// ADVERTISING -> CONNECTED -> DISCONNECTED -> ADVERTISING. The device
// always returns to advertising after a disconnect; there is no
// terminal state.
package link

import (
	"time"

	"github.com/sweeney/ring-mouse/internal/logger"
	"github.com/sweeney/ring-mouse/internal/transport"
)

// State is the current link state.
type State int

const (
	Advertising State = iota
	Connected
	Disconnected
)

func (s State) String() string {
	switch s {
	case Advertising:
		return "ADVERTISING"
	case Connected:
		return "CONNECTED"
	case Disconnected:
		return "DISCONNECTED"
	}
	return "UNKNOWN"
}

// Monitor consumes transport notifications and exposes the link state
// to the dispatcher. Notifications arrive asynchronously on the
// transport's channel and are drained only in Refresh, at the start of
// a tick, so the whole tick sees one consistent state.
type Monitor struct {
	transport transport.Transport

	state       State
	transitions int
	lastChange  time.Time
	connects    int
	disconnects int
}

// NewMonitor creates a Monitor in the ADVERTISING state.
func NewMonitor(t transport.Transport) *Monitor {
	return &Monitor{transport: t, state: Advertising}
}

// Start begins advertising. An error is not fatal; the monitor
// re-advertises after the next observed disconnect.
func (m *Monitor) Start() error {
	return m.transport.Advertise()
}

// Refresh drains pending link notifications and applies them. Returns
// the transitions that occurred, oldest first, for telemetry; nil on a
// quiet tick. After observing a disconnect the monitor automatically
// restarts advertising.
func (m *Monitor) Refresh(now time.Time) []State {
	var changes []State
	for {
		select {
		case ev := <-m.transport.Events():
			switch ev {
			case transport.EventConnected:
				m.setState(Connected, now)
				m.connects++
			case transport.EventDisconnected:
				m.setState(Disconnected, now)
				m.disconnects++
			}
			changes = append(changes, m.state)
		default:
			if m.state == Disconnected {
				if err := m.transport.Advertise(); err != nil {
					logger.Warn().Err(err).Msg("restart advertising")
				} else {
					m.setState(Advertising, now)
					changes = append(changes, m.state)
				}
			}
			return changes
		}
	}
}

func (m *Monitor) setState(s State, now time.Time) {
	if m.state == s {
		return
	}
	logger.Info().Str("from", m.state.String()).Str("to", s.String()).Msg("link state")
	m.state = s
	m.transitions++
	m.lastChange = now
}

// State returns the current link state.
func (m *Monitor) State() State {
	return m.state
}

// Transitions returns the number of state changes since startup.
func (m *Monitor) Transitions() int {
	return m.transitions
}

// LastChange returns the time of the most recent state change.
func (m *Monitor) LastChange() time.Time {
	return m.lastChange
}

// Connects returns the number of CONNECTED notifications observed.
func (m *Monitor) Connects() int {
	return m.connects
}

// Disconnects returns the number of DISCONNECTED notifications observed.
func (m *Monitor) Disconnects() int {
	return m.disconnects
}
