package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config carries the tunables that are not worth a command-line flag.
type Config struct {
	// LogName is the file name collected during directory discovery.
	LogName string
	// PollMs is the tailer's retry delay after reading no new data.
	PollMs int
	// StatsIntervalMs is the steady-state cadence of stats redraws.
	StatsIntervalMs int
	// LinesEveryStats flushes raw lines once every this many stats ticks.
	LinesEveryStats int
	// Estimator selects the rate estimator: "ring", "instant" or "smooth".
	Estimator string
	// RingWindow is the sample window of the ring estimator.
	RingWindow int
	// SmoothFactor is the smoothing factor of the smooth estimator.
	SmoothFactor float64
}

const defaultConfigPath = "~/.config/nginx-tail/config.toml"

// Estimator names accepted by the config file.
const (
	EstimatorRing    = "ring"
	EstimatorInstant = "instant"
	EstimatorSmooth  = "smooth"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogName:         "access.log",
		PollMs:          50,
		StatsIntervalMs: 333,
		LinesEveryStats: 15, // roughly once every 5 seconds
		Estimator:       EstimatorRing,
		RingWindow:      5,
		SmoothFactor:    0.1,
	}
}

// Load reads the config at path, or the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		LogName         string  `toml:"log_name"`
		PollMs          int     `toml:"poll_ms"`
		StatsIntervalMs int     `toml:"stats_interval_ms"`
		LinesEveryStats int     `toml:"lines_every_stats"`
		Estimator       string  `toml:"estimator"`
		RingWindow      int     `toml:"ring_window"`
		SmoothFactor    float64 `toml:"smooth_factor"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if name := strings.TrimSpace(raw.LogName); name != "" {
		cfg.LogName = name
	}
	if raw.PollMs > 0 {
		cfg.PollMs = raw.PollMs
	}
	if raw.StatsIntervalMs > 0 {
		cfg.StatsIntervalMs = raw.StatsIntervalMs
	}
	if raw.LinesEveryStats > 0 {
		cfg.LinesEveryStats = raw.LinesEveryStats
	}
	if raw.RingWindow > 0 {
		cfg.RingWindow = raw.RingWindow
	}
	if raw.SmoothFactor > 0 && raw.SmoothFactor <= 1 {
		cfg.SmoothFactor = raw.SmoothFactor
	}
	switch est := strings.TrimSpace(raw.Estimator); est {
	case "":
	case EstimatorRing, EstimatorInstant, EstimatorSmooth:
		cfg.Estimator = est
	default:
		return Config{}, fmt.Errorf("unknown estimator %q (want ring, instant or smooth)", est)
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
