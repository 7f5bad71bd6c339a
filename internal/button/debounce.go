package button

import "time"

// Debouncer filters raw samples of a single line into stable edges.
// A transition is accepted only after the raw level has held for the
// settle duration; bounce inside the window restarts the clock.
type Debouncer struct {
	settle time.Duration

	// Current stable (debounced) level.
	stable bool
	// Candidate level during the settle window.
	pending    bool
	hasPending bool
	// Time the candidate level was first observed.
	pendingSince time.Time
	// Whether the first stable classification has happened.
	baselined bool
}

// NewDebouncer creates a Debouncer with the given settle duration.
func NewDebouncer(settle time.Duration) *Debouncer {
	return &Debouncer{settle: settle}
}

// Sample takes a raw pressed level and returns (edge, true) when a
// stable transition is detected. Must be called at a bounded, roughly
// periodic interval. The first stable classification after startup
// baselines the line and emits no edge.
func (d *Debouncer) Sample(pressed bool, now time.Time) (Edge, bool) {
	if !d.baselined {
		if !d.hasPending || d.pending != pressed {
			// Start (or restart) observing.
			d.pending = pressed
			d.hasPending = true
			d.pendingSince = now
			return 0, false
		}
		if now.Sub(d.pendingSince) >= d.settle {
			d.stable = pressed
			d.baselined = true
			d.hasPending = false
		}
		return 0, false
	}

	if pressed == d.stable {
		// No change from stable level, clear any pending candidate.
		d.hasPending = false
		return 0, false
	}

	if !d.hasPending || d.pending != pressed {
		d.pending = pressed
		d.hasPending = true
		d.pendingSince = now
		return 0, false
	}

	if now.Sub(d.pendingSince) >= d.settle {
		d.stable = pressed
		d.hasPending = false
		if pressed {
			return Down, true
		}
		return Up, true
	}

	return 0, false
}

// Baselined returns whether the first stable classification has happened.
func (d *Debouncer) Baselined() bool {
	return d.baselined
}

// Pressed returns the current stable level.
func (d *Debouncer) Pressed() bool {
	return d.stable
}
