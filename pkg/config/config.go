// Package config loads lattice runtime settings from YAML files and
// LATTICE_* environment variables.
package config

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	lerrors "github.com/odvcencio/lattice/pkg/errors"
	"github.com/odvcencio/lattice/pkg/logging"
)

// Backend names accepted by ui.backend.
const (
	BackendTcell = "tcell"
	BackendSim   = "sim"
)

// Default configuration values exported for documentation and validation
const (
	DefaultTickRate  = 50 * time.Millisecond
	DefaultMaxFPS    = 60
	DefaultBackend   = BackendTcell
	DefaultSimWidth  = 80
	DefaultSimHeight = 24
	DefaultLogLevel  = "info"
	DefaultLogFormat = string(logging.FormatJSON)
)

// Config represents the complete lattice configuration
type Config struct {
	UI        UIConfig        `yaml:"ui"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// UIConfig controls the frame driver and its backend.
type UIConfig struct {
	TickRate  time.Duration `yaml:"tick_rate"`
	MaxFPS    int           `yaml:"max_fps"`    // caps event-driven redraws; 0 is unlimited
	Backend   string        `yaml:"backend"`    // tcell or sim
	SimWidth  int           `yaml:"sim_width"`  // sim backend only
	SimHeight int           `yaml:"sim_height"` // sim backend only
}

// LoggingConfig controls the structured logger. An empty File discards
// logs, since stderr belongs to the terminal UI.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
	File   string `yaml:"file"`
}

// TelemetryConfig controls the metrics endpoint and frame tracing.
type TelemetryConfig struct {
	MetricsAddr string `yaml:"metrics_addr"` // empty disables the endpoint
	Tracing     bool   `yaml:"tracing"`
	TraceFile   string `yaml:"trace_file"` // required when tracing is on
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			TickRate:  DefaultTickRate,
			MaxFPS:    DefaultMaxFPS,
			Backend:   DefaultBackend,
			SimWidth:  DefaultSimWidth,
			SimHeight: DefaultSimHeight,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultPaths returns the config files Load reads when no path is given,
// lowest precedence first: ~/.lattice/config.yaml then
// ./.lattice/config.yaml.
func DefaultPaths() []string {
	var paths []string
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		paths = append(paths, filepath.Join(home, ".lattice", "config.yaml"))
	}
	return append(paths, filepath.Join(".", ".lattice", "config.yaml"))
}

// Load builds a validated config: defaults, then path (or DefaultPaths
// when path is empty), then environment overrides. Missing files are
// skipped.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	paths := DefaultPaths()
	if path != "" {
		paths = []string{path}
	}
	for _, p := range paths {
		if err := loadAndMerge(cfg, p); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.Logging.File = expandHomeDir(cfg.Logging.File)
	cfg.Telemetry.TraceFile = expandHomeDir(cfg.Telemetry.TraceFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies LATTICE_* environment variables.
func applyEnvOverrides(cfg *Config) error {
	if v, ok, err := envDuration("LATTICE_TICK_RATE"); err != nil {
		return err
	} else if ok {
		cfg.UI.TickRate = v
	}
	if v, ok, err := envInt("LATTICE_MAX_FPS"); err != nil {
		return err
	} else if ok {
		cfg.UI.MaxFPS = v
	}
	if v := strings.TrimSpace(os.Getenv("LATTICE_BACKEND")); v != "" {
		cfg.UI.Backend = strings.ToLower(v)
	}
	if v, ok, err := envInt("LATTICE_SIM_WIDTH"); err != nil {
		return err
	} else if ok {
		cfg.UI.SimWidth = v
	}
	if v, ok, err := envInt("LATTICE_SIM_HEIGHT"); err != nil {
		return err
	} else if ok {
		cfg.UI.SimHeight = v
	}

	if v := strings.TrimSpace(os.Getenv("LATTICE_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("LATTICE_LOG_FORMAT")); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("LATTICE_LOG_FILE")); v != "" {
		cfg.Logging.File = v
	}

	if v, ok := os.LookupEnv("LATTICE_METRICS_ADDR"); ok {
		cfg.Telemetry.MetricsAddr = strings.TrimSpace(v)
	}
	if val, ok := envBool("LATTICE_TRACING"); ok {
		cfg.Telemetry.Tracing = val
	}
	if v := strings.TrimSpace(os.Getenv("LATTICE_TRACE_FILE")); v != "" {
		cfg.Telemetry.TraceFile = v
	}
	return nil
}

func invalid(field string, value any, reason string) error {
	return lerrors.New(lerrors.ErrCodeConfigInvalid, "invalid "+field+": "+reason).
		WithContext("field", field).
		WithContext("value", value)
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.UI.TickRate <= 0 {
		return invalid("ui.tick_rate", c.UI.TickRate, "must be positive")
	}
	if c.UI.MaxFPS < 0 {
		return invalid("ui.max_fps", c.UI.MaxFPS, "must not be negative")
	}
	switch c.UI.Backend {
	case BackendTcell:
	case BackendSim:
		if c.UI.SimWidth <= 0 || c.UI.SimHeight <= 0 {
			return invalid("ui.sim_width/ui.sim_height",
				[2]int{c.UI.SimWidth, c.UI.SimHeight}, "sim screen must be at least 1x1")
		}
	default:
		return invalid("ui.backend", c.UI.Backend, "must be tcell or sim")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level", c.Logging.Level, "must be debug, info, warn or error")
	}
	switch logging.Format(c.Logging.Format) {
	case logging.FormatJSON, logging.FormatText:
	default:
		return invalid("logging.format", c.Logging.Format, "must be json or text")
	}

	if addr := c.Telemetry.MetricsAddr; addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return invalid("telemetry.metrics_addr", addr, "must be host:port")
		}
	}
	if c.Telemetry.Tracing && strings.TrimSpace(c.Telemetry.TraceFile) == "" {
		return invalid("telemetry.trace_file", c.Telemetry.TraceFile, "required when tracing is enabled")
	}
	return nil
}
