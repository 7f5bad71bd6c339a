package transport

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/sweeney/ring-mouse/internal/hid"
)

// Radio protocol bytes. Commands go to the co-processor, which answers
// ack/nak and emits unsolicited link events.
const (
	cmdAdvertise = 0xA1
	cmdReport    = 0x52

	ackByte = 0x06
	nakByte = 0x15

	evConnected    = 0xC1
	evDisconnected = 0xC0
)

const eventBuffer = 16

// Serial drives the BLE radio co-processor over a UART. A reader
// goroutine demultiplexes acks from unsolicited link events; commands
// wait for their ack with a short deadline.
type Serial struct {
	port       io.ReadWriteCloser
	ackTimeout time.Duration

	events chan Event
	acks   chan byte

	// writeMu serializes command/ack exchanges.
	writeMu sync.Mutex
}

// OpenSerial opens the radio UART and starts the reader.
func OpenSerial(device string, baud int, ackTimeout time.Duration) (*Serial, error) {
	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open radio %s: %w", device, err)
	}
	return NewSerial(port, ackTimeout), nil
}

// NewSerial wraps an already-open port. Split out from OpenSerial so
// tests can drive the protocol over an in-memory pipe.
func NewSerial(port io.ReadWriteCloser, ackTimeout time.Duration) *Serial {
	s := &Serial{
		port:       port,
		ackTimeout: ackTimeout,
		events:     make(chan Event, eventBuffer),
		acks:       make(chan byte, 1),
	}
	go s.readLoop()
	return s
}

// readLoop reads single protocol bytes until the port closes.
func (s *Serial) readLoop() {
	var buf [1]byte
	for {
		if _, err := io.ReadFull(s.port, buf[:]); err != nil {
			return
		}
		switch buf[0] {
		case evConnected:
			s.pushEvent(EventConnected)
		case evDisconnected:
			s.pushEvent(EventDisconnected)
		case ackByte, nakByte:
			select {
			case s.acks <- buf[0]:
			default:
				// Unsolicited ack with no command in flight; drop.
			}
		default:
			// Unknown byte from the radio; ignore.
		}
	}
}

// pushEvent enqueues a link event, dropping the oldest on overflow.
func (s *Serial) pushEvent(e Event) {
	for {
		select {
		case s.events <- e:
			return
		default:
			select {
			case <-s.events:
			default:
			}
		}
	}
}

// command writes a frame and waits for the radio's ack.
func (s *Serial) command(frame []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// Discard a stale ack from a previously timed-out command.
	select {
	case <-s.acks:
	default:
	}

	if _, err := s.port.Write(frame); err != nil {
		return fmt.Errorf("write radio: %w", err)
	}

	timer := time.NewTimer(s.ackTimeout)
	defer timer.Stop()
	select {
	case b := <-s.acks:
		if b == nakByte {
			return ErrNak
		}
		return nil
	case <-timer.C:
		return ErrAckTimeout
	}
}

// Advertise tells the radio to start advertising.
func (s *Serial) Advertise() error {
	frame := [1]byte{cmdAdvertise}
	return s.command(frame[:])
}

// Send delivers one report to the radio.
func (s *Serial) Send(r hid.Report) error {
	frame := [3]byte{cmdReport, r.Buttons, byte(r.Wheel)}
	return s.command(frame[:])
}

// Events returns the link notification channel.
func (s *Serial) Events() <-chan Event {
	return s.events
}

// Close closes the UART, stopping the reader.
func (s *Serial) Close() error {
	return s.port.Close()
}
