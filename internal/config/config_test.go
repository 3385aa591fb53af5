package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
log_name = "  other.log  "
poll_ms = 25
estimator = "  smooth  "
smooth_factor = 0.5
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogName != "other.log" {
		t.Fatalf("LogName = %q, want %q", cfg.LogName, "other.log")
	}
	if cfg.PollMs != 25 {
		t.Fatalf("PollMs = %d, want 25", cfg.PollMs)
	}
	if cfg.Estimator != "smooth" {
		t.Fatalf("Estimator = %q, want %q", cfg.Estimator, "smooth")
	}
	if cfg.SmoothFactor != 0.5 {
		t.Fatalf("SmoothFactor = %v, want 0.5", cfg.SmoothFactor)
	}
	// Untouched fields keep their defaults.
	if cfg.StatsIntervalMs != Default().StatsIntervalMs {
		t.Fatalf("StatsIntervalMs = %d, want default %d", cfg.StatsIntervalMs, Default().StatsIntervalMs)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
log_name = "   "
estimator = ""
poll_ms = 0
smooth_factor = 0.0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`log_name = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_UnknownEstimatorFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`estimator = "median"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load returned nil error, want unknown estimator error")
	}
}

func TestResolvePath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := resolvePath("~/a/b")
	if err != nil {
		t.Fatalf("resolvePath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("resolvePath = %q, want %q", got, want)
	}
}
