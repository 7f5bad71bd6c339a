package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event           string      `json:"event,omitempty"`
	Reason          string      `json:"reason,omitempty"`
	Link            string      `json:"link"`
	Ready           bool        `json:"ready"`
	Buttons         ButtonsJSON `json:"buttons"`
	Battery         BatteryJSON `json:"battery"`
	ReportsFlushed  int         `json:"reports_flushed"`
	ReportsFailed   int         `json:"reports_failed"`
	LinkTransitions int         `json:"link_transitions"`
	UptimeSeconds   int64       `json:"uptime_seconds"`
	StartTime       string      `json:"start_time"`
	Timestamp       string      `json:"timestamp"`
	Counts          CountsJSON  `json:"event_counts"`
	Config          ConfigJSON  `json:"config"`
}

// ButtonsJSON is the JSON representation of the held button state.
type ButtonsJSON struct {
	Left      bool `json:"left"`
	Right     bool `json:"right"`
	WheelUp   bool `json:"wheel_up"`
	WheelDown bool `json:"wheel_down"`
}

// BatteryJSON is the JSON representation of the battery status.
type BatteryJSON struct {
	Percent  int     `json:"percent"`
	Voltage  float64 `json:"voltage"`
	Charging bool    `json:"charging"`
}

// CountsJSON is the JSON representation of per-line event counts.
type CountsJSON struct {
	LeftPresses      int `json:"left_presses"`
	RightPresses     int `json:"right_presses"`
	WheelUpPresses   int `json:"wheel_up_presses"`
	WheelDownPresses int `json:"wheel_down_presses"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Profile    string `json:"profile"`
	DeviceName string `json:"device_name"`
	TickMs     int64  `json:"tick_ms"`
	SettleMs   int64  `json:"settle_ms"`
	WheelStep  int    `json:"wheel_step"`
	Transport  string `json:"transport"`
	Endpoint   string `json:"endpoint"`
	HTTPAddr   string `json:"http_addr,omitempty"`
	Heartbeat  string `json:"heartbeat"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Link:  snap.Link.String(),
		Ready: snap.Baselined,
		Buttons: ButtonsJSON{
			Left:      snap.Pressed[0],
			Right:     snap.Pressed[1],
			WheelUp:   snap.Pressed[2],
			WheelDown: snap.Pressed[3],
		},
		Battery: BatteryJSON{
			Percent:  snap.Battery.Percent,
			Voltage:  snap.Battery.Voltage,
			Charging: snap.Battery.Charging,
		},
		ReportsFlushed:  snap.ReportsFlushed,
		ReportsFailed:   snap.ReportsFailed,
		LinkTransitions: snap.LinkTransitions,
		UptimeSeconds:   int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:       snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:       snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			LeftPresses:      snap.Counts.Presses[0],
			RightPresses:     snap.Counts.Presses[1],
			WheelUpPresses:   snap.Counts.Presses[2],
			WheelDownPresses: snap.Counts.Presses[3],
		},
		Config: ConfigJSON{
			Profile:    snap.Config.Profile,
			DeviceName: snap.Config.DeviceName,
			TickMs:     snap.Config.TickMs,
			SettleMs:   snap.Config.SettleMs,
			WheelStep:  snap.Config.WheelStep,
			Transport:  snap.Config.Transport,
			Endpoint:   snap.Config.Endpoint,
			HTTPAddr:   snap.Config.HTTPAddr,
			Heartbeat:  snap.Config.Heartbeat,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
