package link

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/ring-mouse/internal/transport"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestMonitorInitialState(t *testing.T) {
	m := NewMonitor(transport.NewFake())
	if m.State() != Advertising {
		t.Errorf("initial state: got %s, want ADVERTISING", m.State())
	}
}

func TestMonitorStartAdvertises(t *testing.T) {
	tr := transport.NewFake()
	m := NewMonitor(tr)

	if err := m.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if tr.AdvertiseCalls != 1 {
		t.Errorf("advertise calls: got %d, want 1", tr.AdvertiseCalls)
	}
}

func TestMonitorConnect(t *testing.T) {
	tr := transport.NewFake()
	m := NewMonitor(tr)

	tr.Connect()

	// Events are consumed only at Refresh, never between ticks.
	if m.State() != Advertising {
		t.Fatalf("before refresh: got %s, want ADVERTISING", m.State())
	}

	changes := m.Refresh(t0)
	if m.State() != Connected {
		t.Errorf("after refresh: got %s, want CONNECTED", m.State())
	}
	if len(changes) != 1 || changes[0] != Connected {
		t.Errorf("changes: got %v, want [CONNECTED]", changes)
	}
	if m.Transitions() != 1 {
		t.Errorf("transitions: got %d, want 1", m.Transitions())
	}
	if !m.LastChange().Equal(t0) {
		t.Errorf("last change: got %v, want %v", m.LastChange(), t0)
	}
}

func TestMonitorDisconnectReAdvertises(t *testing.T) {
	tr := transport.NewFake()
	m := NewMonitor(tr)

	tr.Connect()
	m.Refresh(t0)

	tr.Disconnect()
	changes := m.Refresh(t0.Add(time.Second))

	// The device always returns to advertising after a disconnect.
	if m.State() != Advertising {
		t.Errorf("after disconnect: got %s, want ADVERTISING", m.State())
	}
	if tr.AdvertiseCalls != 1 {
		t.Errorf("advertise calls: got %d, want 1", tr.AdvertiseCalls)
	}
	want := []State{Disconnected, Advertising}
	if len(changes) != len(want) {
		t.Fatalf("changes: got %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d: got %s, want %s", i, changes[i], want[i])
		}
	}
}

func TestMonitorAdvertiseFailureRetries(t *testing.T) {
	tr := transport.NewFake()
	m := NewMonitor(tr)

	tr.Connect()
	m.Refresh(t0)

	tr.AdvertiseError = errors.New("radio busy")
	tr.Disconnect()
	m.Refresh(t0.Add(time.Second))
	if m.State() != Disconnected {
		t.Fatalf("with failing advertise: got %s, want DISCONNECTED", m.State())
	}

	// The next tick retries and succeeds.
	tr.AdvertiseError = nil
	m.Refresh(t0.Add(2 * time.Second))
	if m.State() != Advertising {
		t.Errorf("after retry: got %s, want ADVERTISING", m.State())
	}
}

func TestMonitorQuietRefresh(t *testing.T) {
	tr := transport.NewFake()
	m := NewMonitor(tr)

	if changes := m.Refresh(t0); changes != nil {
		t.Errorf("quiet refresh: got %v, want nil", changes)
	}
	if m.Transitions() != 0 {
		t.Errorf("transitions: got %d, want 0", m.Transitions())
	}
}

func TestMonitorCoalescesBurst(t *testing.T) {
	// A connect/disconnect burst between ticks drains in order at the
	// next Refresh; the final state wins.
	tr := transport.NewFake()
	m := NewMonitor(tr)

	tr.Connect()
	tr.Disconnect()
	tr.Connect()

	m.Refresh(t0)
	if m.State() != Connected {
		t.Errorf("after burst: got %s, want CONNECTED", m.State())
	}
	if m.Connects() != 2 || m.Disconnects() != 1 {
		t.Errorf("counts: connects=%d disconnects=%d, want 2/1", m.Connects(), m.Disconnects())
	}
}
