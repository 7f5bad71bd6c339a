package button

import (
	"fmt"
	"time"
)

// Sampler polls the four lines once per tick and emits debounced events
// in fixed line order (LEFT, RIGHT, WHEEL_UP, WHEEL_DOWN), so that
// simultaneous presses produce a deterministic ordering.
type Sampler struct {
	reader Reader
	lines  [NumLines]Debouncer

	// Last successfully read levels, held across read errors.
	last     Levels
	haveLast bool

	// Event buffer reused every tick to avoid steady-state allocation.
	events []Event

	counts Counts
}

// NewSampler creates a Sampler reading through the given Reader.
func NewSampler(reader Reader, settle time.Duration) *Sampler {
	s := &Sampler{
		reader: reader,
		events: make([]Event, 0, NumLines),
	}
	for i := range s.lines {
		s.lines[i] = Debouncer{settle: settle}
	}
	return s
}

// Tick reads the lines once and returns any stable edges, at most one
// per line. The returned slice is reused on the next call. A read error
// holds every line's last-known raw level for this tick and is returned
// for logging only; the events produced from held levels are still valid.
func (s *Sampler) Tick(now time.Time) ([]Event, error) {
	levels, err := s.reader.Read()
	if err != nil {
		if !s.haveLast {
			return nil, fmt.Errorf("read lines: %w", err)
		}
		levels = s.last
	} else {
		s.last = levels
		s.haveLast = true
	}

	s.events = s.events[:0]
	for i := range s.lines {
		edge, ok := s.lines[i].Sample(levels[i], now)
		if !ok {
			continue
		}
		s.events = append(s.events, Event{Line: Line(i), Edge: edge, Time: now})
		if edge == Down {
			s.counts.Presses[i]++
		} else {
			s.counts.Releases[i]++
		}
	}

	if err != nil {
		return s.events, fmt.Errorf("read lines: %w", err)
	}
	return s.events, nil
}

// Baselined returns whether all four lines have classified a stable level.
func (s *Sampler) Baselined() bool {
	for i := range s.lines {
		if !s.lines[i].Baselined() {
			return false
		}
	}
	return true
}

// Pressed returns the current stable level of a line.
func (s *Sampler) Pressed(l Line) bool {
	return s.lines[l].Pressed()
}

// Counts returns a copy of the per-line event counts.
func (s *Sampler) Counts() Counts {
	return s.counts
}
