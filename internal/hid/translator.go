package hid

import (
	"time"

	"github.com/sweeney/ring-mouse/internal/button"
)

// WheelPolicy controls how wheel button presses become scroll steps.
// The default (Repeat false) emits one discrete step per press. When
// Repeat is enabled, a held wheel button re-emits the step after the
// initial interval and then at an interval that shrinks by Accel per
// repeat down to Min, the accelerating scroll of the production rings.
type WheelPolicy struct {
	// Step is the wheel delta per click (>= 1).
	Step int
	// Repeat enables auto-repeat while a wheel button is held.
	Repeat  bool
	Initial time.Duration
	Accel   time.Duration
	Min     time.Duration
}

// DefaultWheelPolicy is a single discrete step per press, no auto-repeat.
func DefaultWheelPolicy() WheelPolicy {
	return WheelPolicy{Step: 1}
}

const noLine = button.Line(-1)

// Translator maps debounced button events onto the mouse report state.
type Translator struct {
	state  *State
	policy WheelPolicy

	// Held wheel button, noLine when neither is held.
	held       button.Line
	interval   time.Duration
	nextRepeat time.Time
}

// NewTranslator creates a Translator writing to the given state.
func NewTranslator(state *State, policy WheelPolicy) *Translator {
	return &Translator{state: state, policy: policy, held: noLine}
}

// Apply translates one button event into a state mutation.
func (t *Translator) Apply(ev button.Event) {
	switch ev.Line {
	case button.Left:
		t.state.SetButton(ButtonLeft, ev.Edge == button.Down)
	case button.Right:
		t.state.SetButton(ButtonRight, ev.Edge == button.Down)
	case button.WheelUp:
		t.wheelEdge(ev, t.policy.Step)
	case button.WheelDown:
		t.wheelEdge(ev, -t.policy.Step)
	}
}

// wheelEdge handles a wheel button transition. Only the DOWN edge
// produces a delta; the wheel is discrete clicks, not held motion.
func (t *Translator) wheelEdge(ev button.Event, delta int) {
	if ev.Edge == button.Up {
		if t.held == ev.Line {
			t.held = noLine
		}
		return
	}

	t.state.AddWheel(delta)
	// Pressing either wheel button resets the repeat cadence.
	t.held = ev.Line
	t.interval = t.policy.Initial
	t.nextRepeat = ev.Time.Add(t.policy.Initial)
}

// Tick re-emits the wheel step while a wheel button remains held, when
// auto-repeat is enabled. Called once per loop tick.
func (t *Translator) Tick(now time.Time) {
	if !t.policy.Repeat || t.held == noLine {
		return
	}
	if now.Before(t.nextRepeat) {
		return
	}

	if t.held == button.WheelUp {
		t.state.AddWheel(t.policy.Step)
	} else {
		t.state.AddWheel(-t.policy.Step)
	}

	t.interval -= t.policy.Accel
	if t.interval < t.policy.Min {
		t.interval = t.policy.Min
	}
	t.nextRepeat = now.Add(t.interval)
}
