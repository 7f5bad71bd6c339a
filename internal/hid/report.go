// Package hid models the mouse report state for the ring: two button
// flags plus an accumulated wheel delta, flushed to the host as a
// boot-protocol style report.
package hid

// Button bitmask positions in Report.Buttons.
const (
	ButtonLeft  uint8 = 1 << 0
	ButtonRight uint8 = 1 << 1
)

// Wheel delta bounds of the report (8-bit signed, boot mouse range).
const (
	WheelMin = -127
	WheelMax = 127
)

// Report is the wire form of a mouse update.
type Report struct {
	// Buttons bitfield: bit 0=Left, 1=Right.
	Buttons uint8
	// Wheel is the vertical scroll delta, positive = up.
	Wheel int8
}

// State accumulates the current mouse state between flushes.
// Written by the Translator, read and cleared by the Dispatcher.
// Button flags persist across flushes (held state); the wheel delta is
// consumed by a successful flush.
type State struct {
	LeftDown  bool
	RightDown bool
	// PendingWheel is the accumulated wheel delta, saturated to
	// [WheelMin, WheelMax]. Coalesces while the link is down.
	PendingWheel int

	dirty bool
}

// Dirty reports whether the state has changed since the last flush.
func (s *State) Dirty() bool {
	return s.dirty
}

// SetButton updates a button flag. Redundant updates are no-ops and do
// not mark the state dirty.
func (s *State) SetButton(mask uint8, down bool) {
	switch mask {
	case ButtonLeft:
		if s.LeftDown == down {
			return
		}
		s.LeftDown = down
	case ButtonRight:
		if s.RightDown == down {
			return
		}
		s.RightDown = down
	default:
		return
	}
	s.dirty = true
}

// AddWheel accumulates a wheel delta, saturating at the report bounds.
// Accumulation beyond a bound is a no-op and does not mark the state dirty.
func (s *State) AddWheel(delta int) {
	next := s.PendingWheel + delta
	if next > WheelMax {
		next = WheelMax
	} else if next < WheelMin {
		next = WheelMin
	}
	if next == s.PendingWheel {
		return
	}
	s.PendingWheel = next
	s.dirty = true
}

// Report builds the wire report from the current state.
func (s *State) Report() Report {
	var r Report
	if s.LeftDown {
		r.Buttons |= ButtonLeft
	}
	if s.RightDown {
		r.Buttons |= ButtonRight
	}
	r.Wheel = int8(s.PendingWheel)
	return r
}

// Flushed records a successful send: the wheel delta is consumed, the
// button flags persist, and the dirty flag clears.
func (s *State) Flushed() {
	s.PendingWheel = 0
	s.dirty = false
}
