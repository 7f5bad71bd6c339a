// Package transport delivers HID reports over the wireless link.
// The real path is a BLE radio co-processor on a UART; an MQTT bridge
// exists for development against a host-side agent. Both surface link
// changes as events on a buffered channel, consumed by the link monitor
// once per tick.
package transport

import (
	"errors"
	"time"

	"github.com/sweeney/ring-mouse/internal/hid"
)

// Event is an asynchronous link notification from the radio.
type Event int

const (
	EventConnected Event = iota
	EventDisconnected
)

func (e Event) String() string {
	if e == EventConnected {
		return "CONNECTED"
	}
	return "DISCONNECTED"
}

// Transport sends reports to the host over the wireless link.
type Transport interface {
	// Advertise makes the device connectable. Safe to call again after
	// a disconnect.
	Advertise() error

	// Send delivers one report. Failures are transient; the caller
	// retries on the next tick.
	Send(r hid.Report) error

	// Events returns the link notification channel. The channel is
	// buffered; when it overflows the oldest notification is dropped.
	Events() <-chan Event

	// Close shuts the transport down.
	Close() error
}

// SystemPublisher publishes daemon lifecycle events (STARTUP, SHUTDOWN,
// HEARTBEAT). Only the MQTT transport implements it; callers check with
// a type assertion.
type SystemPublisher interface {
	PublishSystem(event SystemEvent) error
}

// SystemEvent is a lifecycle event to publish.
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g. "SIGTERM" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, used directly
	Retained   bool
}

// ErrNak is returned by the serial transport when the radio rejects a
// command.
var ErrNak = errors.New("radio rejected command")

// ErrAckTimeout is returned when the radio does not answer in time.
var ErrAckTimeout = errors.New("radio ack timeout")
