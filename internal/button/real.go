//go:build linux

package button

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Pins maps lines to GPIO offsets, indexed by Line.
type Pins [NumLines]int

// RealReader reads the button lines through the Linux GPIO character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines [NumLines]*gpiocdev.Line
}

// NewRealReader requests the four button lines as inputs with pull-ups.
// The buttons are active-low (pressing pulls the line to ground), so
// Read inverts the raw values to logical pressed.
func NewRealReader(chipName string, pins Pins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	r := &RealReader{chip: chip}
	for i, pin := range pins {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", Line(i), pin, err)
		}
		r.lines[i] = line
	}
	return r, nil
}

// Read returns the logical pressed state of all four lines.
// Raw active-low: raw 0 = pressed, raw 1 = released.
func (r *RealReader) Read() (Levels, error) {
	var levels Levels
	for i, line := range r.lines {
		raw, err := line.Value()
		if err != nil {
			return Levels{}, fmt.Errorf("read %s: %w", Line(i), err)
		}
		levels[i] = raw == 0
	}
	return levels, nil
}

// Close releases the lines and the chip.
func (r *RealReader) Close() error {
	var errs []error
	for i, line := range r.lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", Line(i), err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
