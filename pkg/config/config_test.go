package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/odvcencio/lattice/pkg/config"
	lerrors "github.com/odvcencio/lattice/pkg/errors"
)

// isolate points HOME and the working directory at empty temp dirs so the
// default config paths resolve to nothing.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(project); err != nil {
		t.Fatalf("chdir project: %v", err)
	}
	return home, project
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg.UI.TickRate != 50*time.Millisecond {
		t.Fatalf("unexpected default tick rate: %s", cfg.UI.TickRate)
	}
	if cfg.UI.Backend != config.BackendTcell {
		t.Fatalf("unexpected default backend: %s", cfg.UI.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("config.Load returned error: %v", err)
	}
	if *cfg != *config.DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadHierarchy(t *testing.T) {
	home, project := isolate(t)

	writeFile(t, filepath.Join(home, ".lattice", "config.yaml"), `
ui:
  tick_rate: 20ms
  backend: sim
logging:
  level: debug
`)
	writeFile(t, filepath.Join(project, ".lattice", "config.yaml"), `
ui:
  sim_width: 120
logging:
  format: text
`)
	t.Setenv("LATTICE_LOG_LEVEL", "warn")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load returned error: %v", err)
	}

	if cfg.UI.TickRate != 20*time.Millisecond || cfg.UI.Backend != config.BackendSim {
		t.Fatalf("expected user ui overrides, got %+v", cfg.UI)
	}
	if cfg.UI.SimWidth != 120 || cfg.UI.SimHeight != config.DefaultSimHeight {
		t.Fatalf("expected project sim width and default height, got %+v", cfg.UI)
	}
	if cfg.Logging.Format != "text" {
		t.Fatalf("expected project log format, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env log level, got %s", cfg.Logging.Level)
	}
}

func TestLoadExplicitPathIgnoresDefaults(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".lattice", "config.yaml"), "ui:\n  backend: sim\n")

	path := filepath.Join(t.TempDir(), "lattice.yaml")
	writeFile(t, path, "telemetry:\n  metrics_addr: 127.0.0.1:9102\n  tracing: true\n  trace_file: ~/trace.jsonl\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load returned error: %v", err)
	}
	if cfg.UI.Backend != config.BackendTcell {
		t.Fatalf("user config should be skipped with an explicit path, got %s", cfg.UI.Backend)
	}
	if cfg.Telemetry.MetricsAddr != "127.0.0.1:9102" || !cfg.Telemetry.Tracing {
		t.Fatalf("unexpected telemetry config: %+v", cfg.Telemetry)
	}
	if cfg.Telemetry.TraceFile != filepath.Join(home, "trace.jsonl") {
		t.Fatalf("trace file not expanded: %s", cfg.Telemetry.TraceFile)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("LATTICE_TICK_RATE", "5ms")
	t.Setenv("LATTICE_BACKEND", "SIM")
	t.Setenv("LATTICE_SIM_WIDTH", "40")
	t.Setenv("LATTICE_SIM_HEIGHT", "10")
	t.Setenv("LATTICE_TRACING", "off")
	t.Setenv("LATTICE_MAX_FPS", "0")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load returned error: %v", err)
	}
	want := config.UIConfig{TickRate: 5 * time.Millisecond, MaxFPS: 0, Backend: config.BackendSim, SimWidth: 40, SimHeight: 10}
	if cfg.UI != want {
		t.Fatalf("UI = %+v, want %+v", cfg.UI, want)
	}
}

func TestLoadErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
		code lerrors.ErrorCode
	}{
		{name: "bad yaml", body: "ui: [unclosed", code: lerrors.ErrCodeConfigParse},
		{name: "bad duration", body: "ui:\n  tick_rate: soon\n", code: lerrors.ErrCodeConfigParse},
		{name: "bad env int", env: map[string]string{"LATTICE_SIM_WIDTH": "wide"}, code: lerrors.ErrCodeConfigParse},
		{name: "negative max fps", body: "ui:\n  max_fps: -1\n", code: lerrors.ErrCodeConfigInvalid},
		{name: "bad backend", body: "ui:\n  backend: curses\n", code: lerrors.ErrCodeConfigInvalid},
		{name: "bad level", env: map[string]string{"LATTICE_LOG_LEVEL": "loud"}, code: lerrors.ErrCodeConfigInvalid},
		{name: "tracing without file", body: "telemetry:\n  tracing: true\n", code: lerrors.ErrCodeConfigInvalid},
		{name: "bad metrics addr", body: "telemetry:\n  metrics_addr: nope\n", code: lerrors.ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "lattice.yaml")
			writeFile(t, path, tt.body)

			_, err := config.Load(path)
			if !lerrors.IsCode(err, tt.code) {
				t.Fatalf("config.Load error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	// A directory cannot be read as a file.
	if _, err := config.Load(dir); !lerrors.IsCode(err, lerrors.ErrCodeConfigLoad) {
		t.Fatalf("expected CONFIG_LOAD, got %v", err)
	}
}

func TestValidateSimSize(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.UI.Backend = config.BackendSim
	cfg.UI.SimWidth = 0
	if err := cfg.Validate(); !lerrors.IsCode(err, lerrors.ErrCodeConfigInvalid) {
		t.Fatalf("expected validation to fail for empty sim screen, got %v", err)
	}
}
