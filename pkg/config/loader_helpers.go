package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	lerrors "github.com/odvcencio/lattice/pkg/errors"
)

// loadAndMerge loads a YAML file and merges it into the config. A missing
// file is not an error.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return lerrors.Wrap(err, lerrors.ErrCodeConfigLoad, "reading config file").WithContext("path", path)
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return lerrors.Wrap(err, lerrors.ErrCodeConfigParse, "parsing YAML").WithContext("path", path)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return lerrors.Wrap(err, lerrors.ErrCodeConfigParse, "parsing YAML").WithContext("path", path)
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base. Zero values leave base alone
// except for fields raw shows were written explicitly.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if override.UI.TickRate != 0 {
		base.UI.TickRate = override.UI.TickRate
	}
	if fieldSet(raw, "ui", "max_fps") {
		base.UI.MaxFPS = override.UI.MaxFPS
	}
	if override.UI.Backend != "" {
		base.UI.Backend = strings.ToLower(override.UI.Backend)
	}
	if override.UI.SimWidth != 0 {
		base.UI.SimWidth = override.UI.SimWidth
	}
	if override.UI.SimHeight != 0 {
		base.UI.SimHeight = override.UI.SimHeight
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = strings.ToLower(override.Logging.Format)
	}
	if fieldSet(raw, "logging", "file") {
		base.Logging.File = override.Logging.File
	}

	if fieldSet(raw, "telemetry", "metrics_addr") {
		base.Telemetry.MetricsAddr = override.Telemetry.MetricsAddr
	}
	if fieldSet(raw, "telemetry", "tracing") {
		base.Telemetry.Tracing = override.Telemetry.Tracing
	}
	if override.Telemetry.TraceFile != "" {
		base.Telemetry.TraceFile = override.Telemetry.TraceFile
	}
}

// fieldSet reports whether the decoded document contains the key path.
func fieldSet(raw map[string]any, path ...string) bool {
	if len(path) == 0 || raw == nil {
		return false
	}
	current := any(raw)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		val, ok := m[key]
		if !ok {
			return false
		}
		current = val
	}
	return true
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func envInt(key string) (int, bool, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, lerrors.Wrap(err, lerrors.ErrCodeConfigParse, "parsing integer").WithContext("env", key)
	}
	return n, true, nil
}

func envDuration(key string) (time.Duration, bool, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return 0, false, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, false, lerrors.Wrap(err, lerrors.ErrCodeConfigParse, "parsing duration").WithContext("env", key)
	}
	return d, true, nil
}

func expandHomeDir(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
