package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/ring-mouse/internal/button"
	"github.com/sweeney/ring-mouse/internal/link"
	"github.com/sweeney/ring-mouse/internal/power"
	"github.com/sweeney/ring-mouse/internal/status"
)

func startServer(t *testing.T) (*Server, *status.Tracker, string) {
	t.Helper()

	tracker := status.NewTracker(time.Now(), status.Config{
		Profile:    "right",
		DeviceName: "Right Mouse Ring",
		TickMs:     10,
		SettleMs:   25,
		WheelStep:  1,
		Transport:  "mqtt",
		Endpoint:   "tcp://localhost:1883",
		Heartbeat:  "1m0s",
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := New(ln.Addr().String(), tracker)
	go srv.Serve(ln)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	return srv, tracker, "http://" + ln.Addr().String()
}

func get(t *testing.T, url string) (int, string, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
}

func TestIndexPage(t *testing.T) {
	_, tracker, base := startServer(t)

	var pressed [button.NumLines]bool
	pressed[button.Right] = true
	tracker.Update(link.Connected, pressed, true, button.Counts{}, 12, 0, 1)
	tracker.SetBattery(power.Status{Percent: 73, Voltage: 3.93})

	code, ctype, body := get(t, base+"/")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if !strings.HasPrefix(ctype, "text/html") {
		t.Errorf("content type: got %q", ctype)
	}
	if !strings.Contains(body, "Right Mouse Ring") {
		t.Error("page does not contain device name")
	}
	if !strings.Contains(body, "CONNECTED") {
		t.Error("page does not contain link state")
	}
	if !strings.Contains(body, "73%") {
		t.Error("page does not contain battery percent")
	}
}

func TestIndexJSON(t *testing.T) {
	_, tracker, base := startServer(t)

	tracker.Update(link.Disconnected, [button.NumLines]bool{}, true, button.Counts{}, 3, 2, 4)

	code, ctype, body := get(t, base+"/index.json")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if !strings.HasPrefix(ctype, "application/json") {
		t.Errorf("content type: got %q", ctype)
	}

	var out status.StatusJSON
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Status.Link != "DISCONNECTED" {
		t.Errorf("link: got %q, want DISCONNECTED", out.Status.Link)
	}
	if out.Status.ReportsFailed != 2 {
		t.Errorf("reports_failed: got %d, want 2", out.Status.ReportsFailed)
	}
	if out.Status.Config.DeviceName != "Right Mouse Ring" {
		t.Errorf("device name: got %q", out.Status.Config.DeviceName)
	}
}

func TestNotFound(t *testing.T) {
	_, _, base := startServer(t)

	code, _, _ := get(t, base+"/no-such-page")
	if code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", code)
	}
}
