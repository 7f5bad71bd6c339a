// Command ring-mouse reads the ring's four buttons and reports them to
// the host as a wireless mouse.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/ring-mouse/internal/button"
	"github.com/sweeney/ring-mouse/internal/config"
	"github.com/sweeney/ring-mouse/internal/dispatch"
	"github.com/sweeney/ring-mouse/internal/hid"
	"github.com/sweeney/ring-mouse/internal/link"
	"github.com/sweeney/ring-mouse/internal/logger"
	"github.com/sweeney/ring-mouse/internal/power"
	"github.com/sweeney/ring-mouse/internal/status"
	"github.com/sweeney/ring-mouse/internal/telemetry"
	"github.com/sweeney/ring-mouse/internal/transport"
	"github.com/sweeney/ring-mouse/internal/web"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		logger.Fatal().Err(err).Msg("fatal")
	}
}

func run(cfg *config.Config) error {
	reader, err := button.NewRealReader(cfg.GPIOChip, cfg.Pins())
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer reader.Close()

	// The gauge is not critical: without it the battery status simply
	// stays unknown.
	var gauge power.Gauge
	if g, err := power.OpenMAX17048(cfg.I2CBus, cfg.GPIOChip, cfg.ChargePin); err != nil {
		logger.Warn().Err(err).Msg("battery gauge unavailable")
	} else {
		gauge = g
		defer g.Close()
	}

	var tr transport.Transport
	switch cfg.Transport {
	case "serial":
		tr, err = transport.OpenSerial(cfg.SerialDevice, cfg.SerialBaud, cfg.SerialAckTimeout)
		if err != nil {
			return fmt.Errorf("init transport: %w", err)
		}
	case "mqtt":
		tr = transport.NewMQTT(cfg.Broker, cfg.ClientID, cfg.TopicPrefix)
	}
	defer tr.Close()

	endpoint := cfg.SerialDevice
	if cfg.Transport == "mqtt" {
		endpoint = cfg.Broker
	}
	tracker := status.NewTracker(time.Now(), status.Config{
		Profile:    cfg.Profile,
		DeviceName: cfg.DeviceName,
		TickMs:     cfg.TickInterval.Milliseconds(),
		SettleMs:   cfg.DebounceSettle.Milliseconds(),
		WheelStep:  cfg.WheelStep,
		Transport:  cfg.Transport,
		Endpoint:   endpoint,
		HTTPAddr:   cfg.HTTPAddr,
		Heartbeat:  cfg.Heartbeat.String(),
	})

	var store *telemetry.Store
	if cfg.Telemetry {
		store, err = telemetry.Open(cfg.Database)
		if err != nil {
			logger.Error().Err(err).Msg("telemetry disabled")
			store = nil
		} else {
			defer store.Close()
		}
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("http server")
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("diagnostics server listening")
	}

	state := &hid.State{}
	l := &loop{
		sampler: button.NewSampler(reader, cfg.DebounceSettle),
		translator: hid.NewTranslator(state, hid.WheelPolicy{
			Step:    cfg.WheelStep,
			Repeat:  cfg.WheelRepeat,
			Initial: cfg.WheelRepeatInitial,
			Accel:   cfg.WheelRepeatAccel,
			Min:     cfg.WheelRepeatMin,
		}),
		monitor:    link.NewMonitor(tr),
		dispatcher: dispatch.New(state, tr),
		power:      power.NewMonitor(gauge, cfg.PowerInterval),
		tracker:    tracker,
		store:      store,
		heartbeat:  cfg.Heartbeat,
	}
	if sp, ok := tr.(transport.SystemPublisher); ok {
		l.system = sp
	}

	snap := tracker.Snapshot()
	l.publishSystem(transport.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	})

	if err := l.monitor.Start(); err != nil {
		logger.Warn().Err(err).Msg("start advertising")
	}

	logger.Info().
		Str("profile", cfg.Profile).
		Dur("tick", cfg.TickInterval).
		Dur("debounce", cfg.DebounceSettle).
		Str("transport", cfg.Transport).
		Msg("started")

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(l, time.Now, ticker.C, sigCh)
}

// loop bundles the per-tick collaborators of the control loop.
type loop struct {
	sampler    *button.Sampler
	translator *hid.Translator
	monitor    *link.Monitor
	dispatcher *dispatch.Dispatcher
	power      *power.Monitor
	tracker    *status.Tracker
	system     transport.SystemPublisher // nil unless the transport publishes lifecycle events
	store      *telemetry.Store          // nil when telemetry is off

	heartbeat     time.Duration
	lastHeartbeat time.Time
}

// runLoop is the single-threaded cooperative scheduler: one tick runs
// sampler, translator, link refresh, dispatcher, and power monitor in
// that fixed order. The ticker and signal channels are injected for
// testability.
func runLoop(l *loop, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	l.lastHeartbeat = now()

	for {
		select {
		case s := <-sig:
			name := "UNKNOWN"
			if s == syscall.SIGINT {
				name = "SIGINT"
			} else if s == syscall.SIGTERM {
				name = "SIGTERM"
			}
			logger.Info().Str("signal", name).Msg("shutting down")

			snap := l.tracker.Snapshot()
			l.publishSystem(transport.SystemEvent{
				Timestamp:  snap.Now,
				Event:      "SHUTDOWN",
				Reason:     name,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", name),
			})
			return nil

		case <-tick:
			l.tick(now())
		}
	}
}

// tick runs one iteration of the control loop.
func (l *loop) tick(t time.Time) {
	events, err := l.sampler.Tick(t)
	if err != nil {
		// Transient read anomaly: the sampler held last-known levels.
		logger.Warn().Err(err).Msg("button read")
	}
	for _, ev := range events {
		logger.Debug().Stringer("line", ev.Line).Stringer("edge", ev.Edge).Msg("button")
		l.translator.Apply(ev)
	}
	l.translator.Tick(t)

	for _, st := range l.monitor.Refresh(t) {
		if l.store != nil {
			if err := l.store.RecordLinkEvent(t, st); err != nil {
				logger.Warn().Err(err).Msg("telemetry")
			}
		}
	}

	if err := l.dispatcher.Flush(l.monitor.State()); err != nil {
		// Retried next tick with accumulated state; never fatal.
		logger.Warn().Err(err).Msg("flush report")
	}

	if st, fresh := l.power.Poll(t); fresh {
		l.tracker.SetBattery(st)
		logger.Debug().
			Int("percent", st.Percent).
			Float64("voltage", st.Voltage).
			Bool("charging", st.Charging).
			Msg("battery")
		if l.store != nil {
			if err := l.store.RecordBattery(t, st); err != nil {
				logger.Warn().Err(err).Msg("telemetry")
			}
		}
	}

	var pressed [button.NumLines]bool
	for i := range pressed {
		pressed[i] = l.sampler.Pressed(button.Line(i))
	}
	l.tracker.Update(
		l.monitor.State(), pressed, l.sampler.Baselined(), l.sampler.Counts(),
		l.dispatcher.Flushed(), l.dispatcher.Failed(), l.monitor.Transitions(),
	)

	if l.heartbeat > 0 && l.sampler.Baselined() && t.Sub(l.lastHeartbeat) >= l.heartbeat {
		l.lastHeartbeat = t
		snap := l.tracker.Snapshot()
		logger.Info().
			Stringer("link", snap.Link).
			Int("flushed", snap.ReportsFlushed).
			Int("failed", snap.ReportsFailed).
			Msg("heartbeat")
		l.publishSystem(transport.SystemEvent{
			Timestamp:  t,
			Event:      "HEARTBEAT",
			RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
		})
		if l.store != nil {
			if err := l.store.RecordCounters(t, snap.Counts, snap.ReportsFlushed, snap.ReportsFailed); err != nil {
				logger.Warn().Err(err).Msg("telemetry")
			}
		}
	}
}

func (l *loop) publishSystem(ev transport.SystemEvent) {
	if l.system == nil {
		return
	}
	if err := l.system.PublishSystem(ev); err != nil {
		logger.Warn().Err(err).Str("event", ev.Event).Msg("publish system event")
	}
}
