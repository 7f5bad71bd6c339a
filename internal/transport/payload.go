package transport

import (
	"encoding/json"
	"time"

	"github.com/sweeney/ring-mouse/internal/hid"
)

// ReportPayload is the MQTT message payload for a mouse report.
type ReportPayload struct {
	Report ReportInner `json:"report"`
}

// ReportInner contains the report details.
type ReportInner struct {
	Timestamp string `json:"timestamp"`
	Left      bool   `json:"left"`
	Right     bool   `json:"right"`
	Wheel     int    `json:"wheel"`
}

// FormatReportPayload creates the JSON payload for a mouse report.
func FormatReportPayload(r hid.Report, ts time.Time) ([]byte, error) {
	payload := ReportPayload{
		Report: ReportInner{
			Timestamp: ts.UTC().Format(time.RFC3339),
			Left:      r.Buttons&hid.ButtonLeft != 0,
			Right:     r.Buttons&hid.ButtonRight != 0,
			Wheel:     int(r.Wheel),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message payload for simple system events
// that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full
// status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
