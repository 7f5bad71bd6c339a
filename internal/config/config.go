// Package config loads the daemon configuration from a TOML file,
// RING_MOUSE_* environment variables, and command-line flags, in
// ascending precedence. Validation fails fast before the control loop
// starts: a bad config means a misconfigured device, not a runtime
// condition.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sweeney/ring-mouse/internal/button"
)

// DefaultPath is consulted when no --config flag or env var is given.
const DefaultPath = "/etc/ring-mouse.toml"

// Config holds the full daemon configuration.
type Config struct {
	// Profile selects the per-hand pin preset: "left" or "right".
	Profile    string `mapstructure:"profile"`
	DeviceName string `mapstructure:"device_name"`

	TickInterval   time.Duration `mapstructure:"tick_interval"`
	DebounceSettle time.Duration `mapstructure:"debounce_settle"`

	WheelStep          int           `mapstructure:"wheel_step"`
	WheelRepeat        bool          `mapstructure:"wheel_repeat"`
	WheelRepeatInitial time.Duration `mapstructure:"wheel_repeat_initial"`
	WheelRepeatAccel   time.Duration `mapstructure:"wheel_repeat_accel"`
	WheelRepeatMin     time.Duration `mapstructure:"wheel_repeat_min"`

	GPIOChip     string `mapstructure:"gpio_chip"`
	PinLeft      int    `mapstructure:"pin_left"`
	PinRight     int    `mapstructure:"pin_right"`
	PinWheelUp   int    `mapstructure:"pin_wheel_up"`
	PinWheelDown int    `mapstructure:"pin_wheel_down"`

	Transport        string        `mapstructure:"transport"`
	SerialDevice     string        `mapstructure:"serial_device"`
	SerialBaud       int           `mapstructure:"serial_baud"`
	SerialAckTimeout time.Duration `mapstructure:"serial_ack_timeout"`
	Broker           string        `mapstructure:"broker"`
	ClientID         string        `mapstructure:"client_id"`
	TopicPrefix      string        `mapstructure:"topic_prefix"`

	PowerInterval time.Duration `mapstructure:"power_interval"`
	I2CBus        string        `mapstructure:"i2c_bus"`
	ChargePin     int           `mapstructure:"charge_pin"`

	Heartbeat time.Duration `mapstructure:"heartbeat"`
	HTTPAddr  string        `mapstructure:"http_addr"`
	Telemetry bool          `mapstructure:"telemetry"`
	Database  string        `mapstructure:"database"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFile   string        `mapstructure:"log_file"`
}

// Hand pin presets (left,right,wheel-up,wheel-down), matching the
// production left and right rings.
var profiles = map[string]struct {
	name                  string
	left, right, up, down int
}{
	"left":  {"Left Mouse Ring", 10, 7, 9, 8},
	"right": {"Right Mouse Ring", 0, 3, 2, 1},
}

// Load parses flags from args (without the program name), merges the
// config file and environment, applies the hand profile presets, and
// validates the result.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("ring-mouse", pflag.ContinueOnError)

	configPath := flags.String("config", "", "path to config file")
	flags.String("profile", "right", `hand profile: "left" or "right"`)
	flags.Duration("tick-interval", 10*time.Millisecond, "control loop tick interval")
	flags.Duration("debounce-settle", 25*time.Millisecond, "debounce settle duration")
	flags.Int("wheel-step", 1, "wheel delta per click")
	flags.Bool("wheel-repeat", false, "auto-repeat wheel while held")
	flags.String("transport", "serial", `wireless transport: "serial" or "mqtt"`)
	flags.String("serial-device", "/dev/ttyS1", "radio UART device")
	flags.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	flags.String("http-addr", "", "diagnostics HTTP address (empty disables)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Bool("telemetry", false, "record telemetry to SQLite")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RING_MOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path := *configPath
	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigFile(DefaultPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			// The default file is optional.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", DefaultPath, err)
			}
		}
	}

	// Flags override file and env.
	var ferr error
	flags.Visit(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil && ferr == nil {
			ferr = err
		}
	})
	if ferr != nil {
		return nil, fmt.Errorf("bind flags: %w", ferr)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyProfile(cfg, v)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("profile", "right")
	v.SetDefault("device_name", "")
	v.SetDefault("tick_interval", 10*time.Millisecond)
	v.SetDefault("debounce_settle", 25*time.Millisecond)
	v.SetDefault("wheel_step", 1)
	v.SetDefault("wheel_repeat", false)
	v.SetDefault("wheel_repeat_initial", 200*time.Millisecond)
	v.SetDefault("wheel_repeat_accel", 15*time.Millisecond)
	v.SetDefault("wheel_repeat_min", 10*time.Millisecond)
	v.SetDefault("gpio_chip", "gpiochip0")
	v.SetDefault("pin_left", -1)
	v.SetDefault("pin_right", -1)
	v.SetDefault("pin_wheel_up", -1)
	v.SetDefault("pin_wheel_down", -1)
	v.SetDefault("transport", "serial")
	v.SetDefault("serial_device", "/dev/ttyS1")
	v.SetDefault("serial_baud", 115200)
	v.SetDefault("serial_ack_timeout", 50*time.Millisecond)
	v.SetDefault("broker", "tcp://192.168.1.200:1883")
	v.SetDefault("client_id", "ring-mouse")
	v.SetDefault("topic_prefix", "input/ring-mouse")
	v.SetDefault("power_interval", time.Second)
	v.SetDefault("i2c_bus", "1")
	v.SetDefault("charge_pin", -1)
	v.SetDefault("heartbeat", time.Minute)
	v.SetDefault("http_addr", "")
	v.SetDefault("telemetry", false)
	v.SetDefault("database", "/var/lib/ring-mouse/telemetry.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// applyProfile fills pins and device name from the hand preset for any
// value not set explicitly.
func applyProfile(cfg *Config, v *viper.Viper) {
	p, ok := profiles[cfg.Profile]
	if !ok {
		return // Validate reports it
	}
	if cfg.PinLeft < 0 {
		cfg.PinLeft = p.left
	}
	if cfg.PinRight < 0 {
		cfg.PinRight = p.right
	}
	if cfg.PinWheelUp < 0 {
		cfg.PinWheelUp = p.up
	}
	if cfg.PinWheelDown < 0 {
		cfg.PinWheelDown = p.down
	}
	if cfg.DeviceName == "" {
		cfg.DeviceName = p.name
	}
}

// Validate checks the configuration, failing fast on anything that
// indicates a misconfigured device.
func (c *Config) Validate() error {
	if _, ok := profiles[c.Profile]; !ok {
		return fmt.Errorf("unknown profile %q (want left or right)", c.Profile)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %v", c.TickInterval)
	}
	if c.DebounceSettle <= 0 {
		return fmt.Errorf("debounce_settle must be positive, got %v", c.DebounceSettle)
	}
	if c.WheelStep < 1 || c.WheelStep > 127 {
		return fmt.Errorf("wheel_step must be in [1,127], got %d", c.WheelStep)
	}
	if c.WheelRepeat {
		if c.WheelRepeatInitial <= 0 || c.WheelRepeatAccel <= 0 || c.WheelRepeatMin <= 0 {
			return fmt.Errorf("wheel repeat intervals must be positive when wheel_repeat is enabled")
		}
	}

	pins := map[int]string{}
	for _, p := range []struct {
		name string
		pin  int
	}{
		{"pin_left", c.PinLeft},
		{"pin_right", c.PinRight},
		{"pin_wheel_up", c.PinWheelUp},
		{"pin_wheel_down", c.PinWheelDown},
	} {
		if p.pin < 0 {
			return fmt.Errorf("%s must be set", p.name)
		}
		if other, dup := pins[p.pin]; dup {
			return fmt.Errorf("%s and %s both use pin %d", other, p.name, p.pin)
		}
		pins[p.pin] = p.name
	}

	switch c.Transport {
	case "serial":
		if c.SerialDevice == "" {
			return fmt.Errorf("serial_device must be set")
		}
		if c.SerialBaud <= 0 {
			return fmt.Errorf("serial_baud must be positive, got %d", c.SerialBaud)
		}
		if c.SerialAckTimeout <= 0 {
			return fmt.Errorf("serial_ack_timeout must be positive, got %v", c.SerialAckTimeout)
		}
	case "mqtt":
		if c.Broker == "" {
			return fmt.Errorf("broker must be set")
		}
	default:
		return fmt.Errorf("unknown transport %q (want serial or mqtt)", c.Transport)
	}

	if c.PowerInterval <= 0 {
		return fmt.Errorf("power_interval must be positive, got %v", c.PowerInterval)
	}
	if c.Telemetry && c.Database == "" {
		return fmt.Errorf("database must be set when telemetry is enabled")
	}
	return nil
}

// Pins returns the configured GPIO offsets in line order.
func (c *Config) Pins() button.Pins {
	return button.Pins{c.PinLeft, c.PinRight, c.PinWheelUp, c.PinWheelDown}
}
