package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lerrors "github.com/odvcencio/lattice/pkg/errors"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("LATTICE_SIM_WIDTH", "40")
	t.Setenv("LATTICE_SIM_HEIGHT", "8")
	t.Setenv("LATTICE_LOG_FILE", "")
	t.Setenv("LATTICE_TRACING", "")
	t.Setenv("LATTICE_METRICS_ADDR", "")
	return dir
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-version"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "lattice ") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestRunHeadlessPrintsScreen(t *testing.T) {
	dir := isolateEnv(t)
	var out bytes.Buffer
	err := run([]string{"-frames", "3", "-config", filepath.Join(dir, "missing.yaml")}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 rows, got %d:\n%s", len(lines), out.String())
	}
	if got := strings.TrimRight(lines[0], " "); got != "lattice 12:00:02" {
		t.Fatalf("row 0 = %q", got)
	}
	if got := strings.TrimRight(lines[1], " "); got != strings.Repeat("─", 20) {
		t.Fatalf("row 1 = %q", got)
	}
	if got := strings.TrimRight(lines[2], " "); got != "ticks 3" {
		t.Fatalf("row 2 = %q", got)
	}
	if !strings.HasPrefix(lines[3], "load  ") {
		t.Fatalf("row 3 = %q", lines[3])
	}
	if got := strings.TrimRight(lines[4], " "); got != "q to quit" {
		t.Fatalf("row 4 = %q", got)
	}
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-h"}, &out); err != nil {
		t.Fatalf("run -h: %v", err)
	}
}

func TestRunExitCodes(t *testing.T) {
	dir := isolateEnv(t)
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("ui: [\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"-nope"}, exitUsage},
		{"negative frames", []string{"-frames", "-1"}, exitUsage},
		{"bad config", []string{"-frames", "1", "-config", bad}, exitConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, &out)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := exitCodeForError(err); got != tt.want {
				t.Fatalf("exit code = %d, want %d (%v)", got, tt.want, err)
			}
		})
	}
}

func TestExitCodeForError(t *testing.T) {
	if got := exitCodeForError(nil); got != 0 {
		t.Fatalf("nil error exit code = %d", got)
	}
	if got := exitCodeForError(errors.New("boom")); got != exitFailure {
		t.Fatalf("plain error exit code = %d", got)
	}
	coded := map[lerrors.ErrorCode]int{
		lerrors.ErrCodeConfigParse:          exitConfig,
		lerrors.ErrCodeConfigInvalid:        exitConfig,
		lerrors.ErrCodeBackend:              exitBackend,
		lerrors.ErrCodeLayoutUnsatisfiable:  exitLayout,
		lerrors.ErrCodeLayoutSolverInternal: exitLayout,
		lerrors.ErrCodeInternal:             exitFailure,
	}
	for code, want := range coded {
		err := fmt.Errorf("startup: %w", lerrors.New(code, "failed"))
		if got := exitCodeForError(err); got != want {
			t.Errorf("%s exit code = %d, want %d", code, got, want)
		}
	}
	wrapped := withExitCode(lerrors.New(lerrors.ErrCodeBackend, "bad"), exitConfig)
	if got := exitCodeForError(wrapped); got != exitConfig {
		t.Fatalf("explicit exit code should win, got %d", got)
	}
	if withExitCode(nil, exitConfig) != nil {
		t.Fatal("withExitCode(nil) should be nil")
	}
}
