package power

import "errors"

// FakeGauge is a test double that returns scripted statuses.
type FakeGauge struct {
	// Statuses contains scripted values to return.
	// Each call to ReadStatus() consumes the next one.
	Statuses []Status

	// index tracks current position in Statuses
	index int

	// ReadError, if set, will be returned by ReadStatus()
	ReadError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeGauge creates a FakeGauge with the given statuses.
func NewFakeGauge(statuses []Status) *FakeGauge {
	return &FakeGauge{Statuses: statuses}
}

// ReadStatus returns the next scripted status.
// If statuses are exhausted, returns the last one repeatedly.
func (f *FakeGauge) ReadStatus() (Status, error) {
	if f.ReadError != nil {
		return Status{}, f.ReadError
	}

	if len(f.Statuses) == 0 {
		return Status{}, errors.New("no statuses configured")
	}

	st := f.Statuses[f.index]
	if f.index < len(f.Statuses)-1 {
		f.index++
	}
	return st, nil
}

// Close marks the gauge as closed.
func (f *FakeGauge) Close() error {
	f.Closed = true
	return nil
}
