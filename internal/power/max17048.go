//go:build linux

package power

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// MAX17048 fuel gauge registers.
const (
	gaugeAddr = 0x36
	regVCell  = 0x02 // cell voltage, 78.125 uV/LSB
	regSOC    = 0x04 // state of charge, high byte is integer percent
)

// MAX17048 reads the battery through a MAX17048-compatible I2C fuel
// gauge, plus an optional charger STAT line on a GPIO.
type MAX17048 struct {
	bus i2c.BusCloser
	dev i2c.Dev

	// Charger STAT input, active-low. nil when not configured.
	chargeChip *gpiocdev.Chip
	chargeLine *gpiocdev.Line
}

// OpenMAX17048 opens the gauge on the named I2C bus. chargePin < 0
// disables charge sensing.
func OpenMAX17048(busName, gpioChip string, chargePin int) (*MAX17048, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %s: %w", busName, err)
	}

	g := &MAX17048{
		bus: bus,
		dev: i2c.Dev{Addr: gaugeAddr, Bus: bus},
	}

	if chargePin >= 0 {
		chip, err := gpiocdev.NewChip(gpioChip)
		if err != nil {
			bus.Close()
			return nil, fmt.Errorf("open gpio chip %s: %w", gpioChip, err)
		}
		line, err := chip.RequestLine(chargePin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			chip.Close()
			bus.Close()
			return nil, fmt.Errorf("request charge pin %d: %w", chargePin, err)
		}
		g.chargeChip = chip
		g.chargeLine = line
	}

	return g, nil
}

// ReadStatus reads a battery snapshot from the gauge. When the SOC
// register is implausible the percent is derived from the voltage via
// the discharge curve.
func (g *MAX17048) ReadStatus() (Status, error) {
	var buf [2]byte

	if err := g.dev.Tx([]byte{regVCell}, buf[:]); err != nil {
		return Status{}, fmt.Errorf("read vcell: %w", err)
	}
	raw := uint16(buf[0])<<8 | uint16(buf[1])
	st := Status{Voltage: float64(raw) * 78.125e-6}

	if err := g.dev.Tx([]byte{regSOC}, buf[:]); err != nil {
		return Status{}, fmt.Errorf("read soc: %w", err)
	}
	soc := int(buf[0])
	if soc > 100 {
		// The gauge reports above 100 near full charge; values far out
		// of range mean the model has not converged yet.
		if soc > 110 {
			soc = PercentFromVoltage(st.Voltage)
		} else {
			soc = 100
		}
	}
	st.Percent = soc

	if g.chargeLine != nil {
		v, err := g.chargeLine.Value()
		if err != nil {
			return Status{}, fmt.Errorf("read charge pin: %w", err)
		}
		st.Charging = v == 0
	}

	return st, nil
}

// Close releases the bus and the charge line.
func (g *MAX17048) Close() error {
	var errs []error
	if g.chargeLine != nil {
		if err := g.chargeLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close charge pin: %w", err))
		}
	}
	if g.chargeChip != nil {
		if err := g.chargeChip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if err := g.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
