package dispatch

import (
	"testing"

	"github.com/sweeney/ring-mouse/internal/hid"
	"github.com/sweeney/ring-mouse/internal/link"
	"github.com/sweeney/ring-mouse/internal/transport"
)

func TestFlushCleanStateSendsNothing(t *testing.T) {
	tr := transport.NewFake()
	d := New(&hid.State{}, tr)

	if err := d.Flush(link.Connected); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(tr.Reports) != 0 {
		t.Errorf("reports: got %d, want 0", len(tr.Reports))
	}
}

func TestFlushGatedOnLinkState(t *testing.T) {
	for _, st := range []link.State{link.Advertising, link.Disconnected} {
		state := &hid.State{}
		state.SetButton(hid.ButtonLeft, true)
		tr := transport.NewFake()
		d := New(state, tr)

		if err := d.Flush(st); err != nil {
			t.Fatalf("%s: flush: %v", st, err)
		}
		if len(tr.Reports) != 0 {
			t.Errorf("%s: report sent while link down", st)
		}
		if !state.Dirty() {
			t.Errorf("%s: state must stay dirty for later flush", st)
		}
	}
}

func TestFlushSendsAndConsumesWheel(t *testing.T) {
	state := &hid.State{}
	state.SetButton(hid.ButtonLeft, true)
	state.AddWheel(3)
	tr := transport.NewFake()
	d := New(state, tr)

	if err := d.Flush(link.Connected); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(tr.Reports) != 1 {
		t.Fatalf("reports: got %d, want 1", len(tr.Reports))
	}
	r := tr.Reports[0]
	if r.Buttons != hid.ButtonLeft {
		t.Errorf("buttons: got %#02x, want %#02x", r.Buttons, hid.ButtonLeft)
	}
	if r.Wheel != 3 {
		t.Errorf("wheel: got %d, want 3", r.Wheel)
	}
	if state.PendingWheel != 0 {
		t.Errorf("pending wheel: got %d, want 0", state.PendingWheel)
	}
	if !state.LeftDown {
		t.Error("button flag must persist after flush")
	}
	if d.Flushed() != 1 {
		t.Errorf("flushed count: got %d, want 1", d.Flushed())
	}
}

func TestOfflineWheelCoalescing(t *testing.T) {
	// N wheel presses while disconnected collapse into one report with
	// the summed delta on reconnect.
	state := &hid.State{}
	tr := transport.NewFake()
	d := New(state, tr)

	for i := 0; i < 5; i++ {
		state.AddWheel(1)
		if err := d.Flush(link.Disconnected); err != nil {
			t.Fatalf("offline flush %d: %v", i, err)
		}
	}
	if len(tr.Reports) != 0 {
		t.Fatalf("offline reports: got %d, want 0", len(tr.Reports))
	}

	if err := d.Flush(link.Connected); err != nil {
		t.Fatalf("reconnect flush: %v", err)
	}
	if len(tr.Reports) != 1 {
		t.Fatalf("reports: got %d, want 1", len(tr.Reports))
	}
	if tr.Reports[0].Wheel != 5 {
		t.Errorf("coalesced wheel: got %d, want 5", tr.Reports[0].Wheel)
	}
	if state.PendingWheel != 0 {
		t.Errorf("pending wheel after flush: got %d, want 0", state.PendingWheel)
	}
}

func TestSendFailureKeepsStateAndRetries(t *testing.T) {
	state := &hid.State{}
	state.SetButton(hid.ButtonRight, true)
	state.AddWheel(-2)
	tr := transport.NewFake()
	tr.SendError = transport.ErrAckTimeout
	d := New(state, tr)

	if err := d.Flush(link.Connected); err == nil {
		t.Fatal("expected send error")
	}
	if !state.Dirty() {
		t.Fatal("state must stay dirty after a failed send")
	}
	if state.PendingWheel != -2 {
		t.Errorf("pending wheel: got %d, want -2", state.PendingWheel)
	}
	if d.Failed() != 1 {
		t.Errorf("failed count: got %d, want 1", d.Failed())
	}

	// Next tick: transport recovered, the accumulated report goes out.
	tr.SendError = nil
	if err := d.Flush(link.Connected); err != nil {
		t.Fatalf("retry flush: %v", err)
	}
	if len(tr.Reports) != 1 {
		t.Fatalf("reports: got %d, want 1", len(tr.Reports))
	}
	if tr.Reports[0].Wheel != -2 || tr.Reports[0].Buttons != hid.ButtonRight {
		t.Errorf("retried report: got %+v", tr.Reports[0])
	}
}

func TestHeldButtonFlushedOnceOnReconnect(t *testing.T) {
	// A button held across a disconnect produces exactly one report at
	// reconnection.
	state := &hid.State{}
	state.SetButton(hid.ButtonLeft, true)
	tr := transport.NewFake()
	d := New(state, tr)

	for i := 0; i < 10; i++ {
		d.Flush(link.Disconnected)
	}
	d.Flush(link.Connected)
	d.Flush(link.Connected) // clean now, no duplicate

	if len(tr.Reports) != 1 {
		t.Fatalf("reports: got %d, want 1", len(tr.Reports))
	}
	r := tr.Reports[0]
	if r.Buttons != hid.ButtonLeft || r.Wheel != 0 {
		t.Errorf("report: got %+v, want left held, wheel 0", r)
	}
}
