package power

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestMonitorCadence(t *testing.T) {
	gauge := NewFakeGauge([]Status{
		{Percent: 80, Voltage: 4.06},
		{Percent: 79, Voltage: 4.05},
	})
	m := NewMonitor(gauge, time.Second)

	st, fresh := m.Poll(t0)
	if !fresh {
		t.Fatal("first poll must sample")
	}
	if st.Percent != 80 {
		t.Errorf("percent: got %d, want 80", st.Percent)
	}

	// Within the interval: no sample, same status.
	st, fresh = m.Poll(t0.Add(500 * time.Millisecond))
	if fresh {
		t.Error("poll inside interval must not sample")
	}
	if st.Percent != 80 {
		t.Errorf("percent: got %d, want 80", st.Percent)
	}

	st, fresh = m.Poll(t0.Add(time.Second))
	if !fresh {
		t.Error("poll after interval must sample")
	}
	if st.Percent != 79 {
		t.Errorf("percent: got %d, want 79", st.Percent)
	}
}

func TestMonitorStaleOnError(t *testing.T) {
	gauge := NewFakeGauge([]Status{{Percent: 60, Voltage: 3.92, Charging: true}})
	m := NewMonitor(gauge, time.Second)

	m.Poll(t0)
	gauge.ReadError = errors.New("i2c timeout")

	st, fresh := m.Poll(t0.Add(time.Second))
	if fresh {
		t.Error("failed read must not count as fresh")
	}
	if st.Percent != 60 || !st.Charging {
		t.Errorf("stale status: got %+v, want last-known-good", st)
	}
	if m.Failures() != 1 {
		t.Errorf("failures: got %d, want 1", m.Failures())
	}
}

func TestMonitorUnknownBeforeFirstRead(t *testing.T) {
	gauge := NewFakeGauge(nil)
	gauge.ReadError = errors.New("i2c timeout")
	m := NewMonitor(gauge, time.Second)

	st, _ := m.Poll(t0)
	if st.Percent != -1 {
		t.Errorf("percent before any read: got %d, want -1", st.Percent)
	}
}

func TestMonitorNilGauge(t *testing.T) {
	m := NewMonitor(nil, time.Second)

	st, fresh := m.Poll(t0)
	if fresh {
		t.Error("nil gauge must never sample")
	}
	if st.Percent != -1 {
		t.Errorf("percent: got %d, want -1", st.Percent)
	}
}

func TestPercentFromVoltage(t *testing.T) {
	tests := []struct {
		volts float64
		want  int
	}{
		{4.30, 100},
		{4.20, 100},
		{4.06, 80},
		{3.85, 50},
		{3.815, 45}, // halfway between the 40 and 50 entries
		{3.50, 0},
		{3.20, 0},
	}
	for _, tt := range tests {
		if got := PercentFromVoltage(tt.volts); got != tt.want {
			t.Errorf("PercentFromVoltage(%.3f): got %d, want %d", tt.volts, got, tt.want)
		}
	}
}
