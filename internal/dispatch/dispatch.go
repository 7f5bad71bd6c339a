// Package dispatch flushes pending mouse state to the transport.
package dispatch

import (
	"fmt"

	"github.com/sweeney/ring-mouse/internal/hid"
	"github.com/sweeney/ring-mouse/internal/link"
)

// Sender is the sending half of the transport.
type Sender interface {
	Send(r hid.Report) error
}

// Dispatcher sends a report whenever the state is dirty and the link is
// up. While the link is down the state keeps accumulating (button flags
// track the physical truth, wheel deltas coalesce), so reconnection
// flushes one coalesced report. A send failure keeps all accumulated
// state and is retried on the next tick, never fatal.
type Dispatcher struct {
	state  *hid.State
	sender Sender

	flushed int
	failed  int
}

// New creates a Dispatcher flushing the given state.
func New(state *hid.State, sender Sender) *Dispatcher {
	return &Dispatcher{state: state, sender: sender}
}

// Flush sends the pending report if due. Returns the send error, if
// any, for logging; the caller does not need to act on it.
func (d *Dispatcher) Flush(linkState link.State) error {
	if !d.state.Dirty() || linkState != link.Connected {
		return nil
	}

	r := d.state.Report()
	if err := d.sender.Send(r); err != nil {
		d.failed++
		return fmt.Errorf("send report: %w", err)
	}

	d.state.Flushed()
	d.flushed++
	return nil
}

// Flushed returns the number of reports successfully sent.
func (d *Dispatcher) Flushed() int {
	return d.flushed
}

// Failed returns the number of failed send attempts.
func (d *Dispatcher) Failed() int {
	return d.failed
}
