// Package power samples the battery fuel gauge at a slow cadence,
// independent of the input tick rate.
package power

import "time"

// Status is a battery snapshot.
type Status struct {
	// Percent is the remaining capacity, 0-100. -1 means unknown
	// (no successful read yet).
	Percent int
	// Voltage is the cell voltage in volts.
	Voltage float64
	// Charging reports whether the charger is active.
	Charging bool
}

// Gauge reads the battery state.
type Gauge interface {
	ReadStatus() (Status, error)
	Close() error
}

// Monitor polls the gauge at its own interval and keeps the last-known
// status between samples and across read errors (stale-but-safe).
type Monitor struct {
	gauge    Gauge
	interval time.Duration

	last       Status
	lastSample time.Time
	samples    int
	failures   int
}

// NewMonitor creates a Monitor. A nil gauge disables sampling; the
// status stays unknown.
func NewMonitor(gauge Gauge, interval time.Duration) *Monitor {
	return &Monitor{
		gauge:    gauge,
		interval: interval,
		last:     Status{Percent: -1},
	}
}

// Poll samples the gauge if the interval has elapsed; otherwise it
// returns the last status. The bool reports whether a fresh sample was
// taken. A failed read keeps the previous value.
func (m *Monitor) Poll(now time.Time) (Status, bool) {
	if m.gauge == nil {
		return m.last, false
	}
	if !m.lastSample.IsZero() && now.Sub(m.lastSample) < m.interval {
		return m.last, false
	}
	m.lastSample = now

	st, err := m.gauge.ReadStatus()
	if err != nil {
		m.failures++
		return m.last, false
	}
	m.samples++
	m.last = st
	return st, true
}

// Last returns the last-known status without sampling.
func (m *Monitor) Last() Status {
	return m.last
}

// Failures returns the number of failed gauge reads.
func (m *Monitor) Failures() int {
	return m.failures
}
