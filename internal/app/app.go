// Package app wires the program together: it discovers log files,
// spawns one tailer per file plus the print ticker and resize watcher,
// and runs the consumer matching stdout (the live dashboard on a
// terminal, a plain colorized stream otherwise).
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/quinox/nginx-tail/internal/bus"
	"github.com/quinox/nginx-tail/internal/config"
	"github.com/quinox/nginx-tail/internal/dash"
	"github.com/quinox/nginx-tail/internal/parser"
	"github.com/quinox/nginx-tail/internal/speed"
	"github.com/quinox/nginx-tail/internal/stats"
	"github.com/quinox/nginx-tail/internal/tailer"
	"github.com/quinox/nginx-tail/internal/terminal"
)

// Options describe one invocation. Paths may mix files and directories;
// directories are searched recursively for files named after the config's
// log_name.
type Options struct {
	ConfigPath   string
	Paths        []string
	MaxWidth     int // -1 tracks the terminal, 0 means unlimited, >0 is fixed
	TargetHeight int // 0 probes the terminal
	Combine      bool
	Merge        bool
	Filters      []string
}

// Run tails every discovered file until ctx is cancelled. It returns an
// error only for startup problems; a cancelled context is a normal exit.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	files, err := discover(opts.Paths, cfg.LogName)
	if err != nil {
		return err
	}

	b := bus.New(bus.DefaultCapacity)
	go func() {
		<-ctx.Done()
		b.Close()
	}()

	classify := parser.ExactCode
	if opts.Merge {
		classify = parser.StatusClass
	}
	topts := tailer.Options{Poll: time.Duration(cfg.PollMs) * time.Millisecond}
	for _, file := range files {
		group := file
		if opts.Combine {
			group = ""
		}
		go tailer.Follow(b, file, group, classify, topts)
	}

	if !terminal.IsTerminal(os.Stdout) {
		dash.Stream(b, os.Stdout, opts.Filters)
		return nil
	}

	height := opts.TargetHeight
	if height <= 0 {
		height = terminal.Height()
	}
	width := opts.MaxWidth
	if width < 0 {
		width = terminal.Width()
		go watchResize(ctx, b)
	}

	go runTicker(b, cfg)

	d := dash.New(os.Stdout, stats.New(meterFactory(cfg)), height, width, opts.Filters)
	d.Run(b)

	fmt.Print(terminal.ShowCursor + "\nBye\n")
	return nil
}

func meterFactory(cfg config.Config) func() speed.Meter {
	switch cfg.Estimator {
	case config.EstimatorInstant:
		return func() speed.Meter { return speed.NewInstant() }
	case config.EstimatorSmooth:
		return func() speed.Meter { return speed.NewSmoothed(cfg.SmoothFactor) }
	default:
		return func() speed.Meter { return speed.NewRing(cfg.RingWindow) }
	}
}
