// Package config handles loading and parsing the nginx-tail configuration
// file.
//
// # Overview
//
// The config file carries the tunables that are too obscure for a
// command-line flag: the tailer's poll delay, the redraw cadence and which
// rate estimator to use. Everything has a built-in default, so the program
// works without any file present.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/nginx-tail/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
// Example config.toml:
//
//	log_name = "access.log"
//	poll_ms = 50
//	stats_interval_ms = 333
//	lines_every_stats = 15
//	estimator = "ring"
//	ring_window = 5
//	smooth_factor = 0.1
//
// All fields are optional. Tilde expansion is performed on the config path
// automatically.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - An estimator name other than ring, instant or smooth
//
// Missing config files are NOT an error - defaults are used instead.
package config
