package transport

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/ring-mouse/internal/hid"
	"github.com/sweeney/ring-mouse/internal/logger"
)

// Topic suffixes under the configured prefix.
const (
	topicReports = "/reports"
	topicSystem  = "/system"
)

// bufferCapacity bounds the offline system-event buffer.
const bufferCapacity = 64

// MQTT bridges reports to a host-side agent over an MQTT broker. It is
// the development transport: "advertising" means the auto-reconnecting
// client is (re)connecting. System lifecycle events are buffered while
// the broker is unreachable and drained in order on reconnect.
type MQTT struct {
	client paho.Client
	prefix string
	events chan Event

	mu      sync.Mutex
	pending *systemQueue
	started bool

	now func() time.Time
}

// NewMQTT creates the bridge. The client does not connect until
// Advertise is called.
func NewMQTT(broker, clientID, topicPrefix string) *MQTT {
	m := &MQTT{
		prefix:  topicPrefix,
		events:  make(chan Event, eventBuffer),
		pending: newSystemQueue(bufferCapacity),
		now:     time.Now,
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			m.pushEvent(EventConnected)
			m.drainPending()
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Warn().Err(err).Msg("broker connection lost")
			m.pushEvent(EventDisconnected)
		})

	m.client = paho.NewClient(opts)
	return m
}

// Advertise starts the client. The connect proceeds in the background;
// the monitor learns the outcome through the event channel. Calling it
// again while the client is already running is a no-op; paho's
// auto-reconnect owns the retry.
func (m *MQTT) Advertise() error {
	m.mu.Lock()
	started := m.started
	m.started = true
	m.mu.Unlock()
	if started {
		return nil
	}
	m.client.Connect()
	return nil
}

// Send publishes one report as JSON, QoS 0.
func (m *MQTT) Send(r hid.Report) error {
	payload, err := FormatReportPayload(r, m.now())
	if err != nil {
		return fmt.Errorf("format report: %w", err)
	}

	token := m.client.Publish(m.prefix+topicReports, 0, false, payload)
	if !token.WaitTimeout(time.Second) {
		return fmt.Errorf("publish report: timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}

// PublishSystem sends a system lifecycle event, QoS 1. While the broker
// is unreachable the event is queued and replayed on reconnect.
func (m *MQTT) PublishSystem(event SystemEvent) error {
	if !m.client.IsConnectionOpen() {
		m.mu.Lock()
		m.pending.push(event)
		m.mu.Unlock()
		return nil
	}

	return m.publishEvent(event)
}

func (m *MQTT) publishEvent(ev SystemEvent) error {
	payload, err := FormatSystemPayload(ev)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	token := m.client.Publish(m.prefix+topicSystem, 1, ev.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system: timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// drainPending replays queued system events after a reconnect.
func (m *MQTT) drainPending() {
	m.mu.Lock()
	events := m.pending.drainAll()
	m.mu.Unlock()

	for _, ev := range events {
		if err := m.publishEvent(ev); err != nil {
			logger.Warn().Err(err).Str("event", ev.Event).Msg("replay queued event")
		}
	}
	if len(events) > 0 {
		logger.Info().Int("count", len(events)).Msg("replayed queued events")
	}
}

// pushEvent enqueues a link event, dropping the oldest on overflow.
func (m *MQTT) pushEvent(e Event) {
	for {
		select {
		case m.events <- e:
			return
		default:
			select {
			case <-m.events:
			default:
			}
		}
	}
}

// Events returns the link notification channel.
func (m *MQTT) Events() <-chan Event {
	return m.events
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	m.client.Disconnect(1000) // milliseconds
	return nil
}
