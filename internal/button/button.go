// Package button reads the four ring buttons and turns raw line levels
// into debounced press/release events. This package has NO hardware
// dependencies in its logic; time is always injectable via time.Time
// parameters, and the lines are read through the Reader interface.
package button

import "time"

// Line identifies one of the four physical buttons.
type Line int

const (
	Left Line = iota
	Right
	WheelUp
	WheelDown

	// NumLines is the number of physical buttons on the ring.
	NumLines = 4
)

func (l Line) String() string {
	switch l {
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case WheelUp:
		return "WHEEL_UP"
	case WheelDown:
		return "WHEEL_DOWN"
	}
	return "UNKNOWN"
}

// Edge is a stable transition of a line.
type Edge int

const (
	// Down means the button became pressed.
	Down Edge = iota
	// Up means the button became released.
	Up
)

func (e Edge) String() string {
	if e == Down {
		return "DOWN"
	}
	return "UP"
}

// Event is a debounced transition on one line.
type Event struct {
	Line Line
	Edge Edge
	Time time.Time
}

// Levels holds one logical sample per line, indexed by Line.
// true = pressed (raw active-low levels are inverted by the Reader).
type Levels [NumLines]bool

// Reader reads the button lines.
type Reader interface {
	// Read returns the logical pressed state of all four lines.
	Read() (Levels, error)

	// Close releases line resources.
	Close() error
}

// Counts tracks debounced presses and releases per line since startup.
type Counts struct {
	Presses  [NumLines]int
	Releases [NumLines]int
}
