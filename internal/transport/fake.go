package transport

import "github.com/sweeney/ring-mouse/internal/hid"

// Fake records sent reports for test assertions and lets tests inject
// link events.
type Fake struct {
	// Reports contains all reports passed to Send, in order.
	Reports []hid.Report

	// SystemEvents contains all system events passed to PublishSystem.
	SystemEvents []SystemEvent

	// AdvertiseCalls counts calls to Advertise.
	AdvertiseCalls int

	// SendError, if set, will be returned by Send.
	SendError error

	// AdvertiseError, if set, will be returned by Advertise.
	AdvertiseError error

	// Closed tracks if Close was called.
	Closed bool

	events chan Event
}

// NewFake creates a Fake with a buffered event channel.
func NewFake() *Fake {
	return &Fake{events: make(chan Event, eventBuffer)}
}

// Advertise counts the call.
func (f *Fake) Advertise() error {
	f.AdvertiseCalls++
	return f.AdvertiseError
}

// Send records the report.
func (f *Fake) Send(r hid.Report) error {
	if f.SendError != nil {
		return f.SendError
	}
	f.Reports = append(f.Reports, r)
	return nil
}

// PublishSystem records the system event.
func (f *Fake) PublishSystem(event SystemEvent) error {
	f.SystemEvents = append(f.SystemEvents, event)
	return nil
}

// Events returns the link notification channel.
func (f *Fake) Events() <-chan Event {
	return f.events
}

// Close marks the transport as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// Connect injects a CONNECTED notification, as the radio would on a
// host link-up.
func (f *Fake) Connect() {
	f.events <- EventConnected
}

// Disconnect injects a DISCONNECTED notification.
func (f *Fake) Disconnect() {
	f.events <- EventDisconnected
}
