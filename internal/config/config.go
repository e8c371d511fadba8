package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultPath is read when the caller passes an empty path.
const DefaultPath = "config/config.json"

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Log     LogConfig
	Thermal ThermalConfig
	PDF     PDFConfig
	Print   PrintConfig
	Live    LiveConfig
	Receipt ReceiptConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// ThermalConfig selects the receipt printer.
// Interface is one of "", "auto", "tcp://host:port" or "file:///dev/usb/lp0".
type ThermalConfig struct {
	Interface     string
	DiscoveryPort int
	Timeout       time.Duration
	Settle        time.Duration
	LineWidth     int
}

type PDFConfig struct {
	TempDir       string
	CleanupDelay  time.Duration
	RenderTimeout time.Duration
	ChromePath    string
	NoSandbox     bool
}

type PrintConfig struct {
	CommandTimeout time.Duration
}

type LiveConfig struct {
	QueueSize int
	Buffer    int
	Heartbeat time.Duration
}

type ReceiptConfig struct {
	Currency string
}

// Load reads configuration.
// Priority (highest to lowest):
// 1. Environment variables with PRINTHUB_ prefix (e.g., PRINTHUB_THERMAL_INTERFACE)
// 2. The JSON file at path, if it exists
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	v.SetConfigType("json")
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix("PRINTHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Thermal: ThermalConfig{
			Interface:     v.GetString("thermal.interface"),
			DiscoveryPort: v.GetInt("thermal.discovery_port"),
			Timeout:       v.GetDuration("thermal.timeout"),
			Settle:        v.GetDuration("thermal.settle"),
			LineWidth:     v.GetInt("thermal.line_width"),
		},
		PDF: PDFConfig{
			TempDir:       v.GetString("pdf.temp_dir"),
			CleanupDelay:  v.GetDuration("pdf.cleanup_delay"),
			RenderTimeout: v.GetDuration("pdf.render_timeout"),
			ChromePath:    v.GetString("pdf.chrome_path"),
			NoSandbox:     v.GetBool("pdf.no_sandbox"),
		},
		Print: PrintConfig{
			CommandTimeout: v.GetDuration("print.command_timeout"),
		},
		Live: LiveConfig{
			QueueSize: v.GetInt("live.queue_size"),
			Buffer:    v.GetInt("live.buffer"),
			Heartbeat: v.GetDuration("live.heartbeat"),
		},
		Receipt: ReceiptConfig{
			Currency: v.GetString("receipt.currency"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "order-print-hub"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3001"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Thermal.DiscoveryPort == 0 {
		cfg.Thermal.DiscoveryPort = 9100
	}
	if cfg.Thermal.Timeout == 0 {
		cfg.Thermal.Timeout = 5 * time.Second
	}
	if cfg.Thermal.Settle == 0 {
		cfg.Thermal.Settle = 500 * time.Millisecond
	}
	if cfg.Thermal.LineWidth == 0 {
		cfg.Thermal.LineWidth = 48
	}
	if cfg.PDF.TempDir == "" {
		cfg.PDF.TempDir = "temp"
	}
	if cfg.PDF.CleanupDelay == 0 {
		cfg.PDF.CleanupDelay = 5 * time.Second
	}
	if cfg.PDF.RenderTimeout == 0 {
		cfg.PDF.RenderTimeout = 30 * time.Second
	}
	if cfg.Print.CommandTimeout == 0 {
		cfg.Print.CommandTimeout = 30 * time.Second
	}
	if cfg.Live.QueueSize == 0 {
		cfg.Live.QueueSize = 100
	}
	if cfg.Live.Buffer == 0 {
		cfg.Live.Buffer = 32
	}
	if cfg.Live.Heartbeat == 0 {
		cfg.Live.Heartbeat = 30 * time.Second
	}
	if cfg.Receipt.Currency == "" {
		cfg.Receipt.Currency = "$"
	}
}

func (c *Config) validate() error {
	iface := c.Thermal.Interface
	switch {
	case iface == "", iface == "auto":
	case strings.HasPrefix(iface, "tcp://"), strings.HasPrefix(iface, "file://"):
	default:
		return fmt.Errorf("thermal.interface %q must be empty, auto, tcp://host:port or file://path", iface)
	}
	if c.Thermal.DiscoveryPort < 1 || c.Thermal.DiscoveryPort > 65535 {
		return fmt.Errorf("thermal.discovery_port must be between 1 and 65535, got %d", c.Thermal.DiscoveryPort)
	}
	if c.Thermal.LineWidth < 16 {
		return fmt.Errorf("thermal.line_width must be at least 16, got %d", c.Thermal.LineWidth)
	}
	if c.Thermal.Timeout < 0 || c.Thermal.Settle < 0 {
		return fmt.Errorf("thermal timeouts cannot be negative")
	}
	if c.PDF.CleanupDelay < 0 || c.PDF.RenderTimeout < 0 || c.Print.CommandTimeout < 0 {
		return fmt.Errorf("pdf and print timeouts cannot be negative")
	}
	if c.Live.QueueSize < 0 || c.Live.Buffer < 0 {
		return fmt.Errorf("live.queue_size and live.buffer cannot be negative")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.App.Port
}
