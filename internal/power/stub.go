//go:build !linux

package power

import "errors"

// MAX17048 is not available on non-Linux platforms.
type MAX17048 struct{}

// OpenMAX17048 returns an error on non-Linux platforms.
func OpenMAX17048(busName, gpioChip string, chargePin int) (*MAX17048, error) {
	return nil, errors.New("power: not supported on this platform (requires Linux)")
}

// ReadStatus is not implemented on non-Linux platforms.
func (g *MAX17048) ReadStatus() (Status, error) {
	return Status{}, errors.New("power: not supported")
}

// Close is not implemented on non-Linux platforms.
func (g *MAX17048) Close() error {
	return nil
}
