// Package status provides a thread-safe status tracker for the
// ring-mouse daemon. It is read by the diagnostics HTTP handlers, the
// heartbeat publisher, and the telemetry store.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/ring-mouse/internal/button"
	"github.com/sweeney/ring-mouse/internal/link"
	"github.com/sweeney/ring-mouse/internal/power"
)

// Config contains daemon configuration for display.
type Config struct {
	Profile    string
	DeviceName string
	TickMs     int64
	SettleMs   int64
	WheelStep  int
	Transport  string
	Endpoint   string // serial device or broker address
	HTTPAddr   string
	Heartbeat  string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Link            link.State
	Battery         power.Status
	Pressed         [button.NumLines]bool
	Baselined       bool
	Counts          button.Counts
	ReportsFlushed  int
	ReportsFailed   int
	LinkTransitions int
	StartTime       time.Time
	Now             time.Time
	Config          Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Battery:   power.Status{Percent: -1},
		},
	}
}

// Update sets the loop-owned state. Called from the control loop on
// every tick.
func (t *Tracker) Update(linkState link.State, pressed [button.NumLines]bool, baselined bool, counts button.Counts, flushed, failed, transitions int) {
	t.mu.Lock()
	t.snap.Link = linkState
	t.snap.Pressed = pressed
	t.snap.Baselined = baselined
	t.snap.Counts = counts
	t.snap.ReportsFlushed = flushed
	t.snap.ReportsFailed = failed
	t.snap.LinkTransitions = transitions
	t.mu.Unlock()
}

// SetBattery sets the latest battery status.
func (t *Tracker) SetBattery(st power.Status) {
	t.mu.Lock()
	t.snap.Battery = st
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
