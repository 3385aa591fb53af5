package app

import (
	"time"

	"github.com/quinox/nginx-tail/internal/bus"
	"github.com/quinox/nginx-tail/internal/config"
)

// runTicker drives the render cadence. A short warm-up makes the dashboard
// appear quickly after startup; afterwards it settles into the configured
// stats interval, flushing raw lines once every LinesEveryStats ticks.
// It exits when the bus closes.
func runTicker(b *bus.Bus, cfg config.Config) {
	warmup := []struct {
		delay time.Duration
		lines bool
	}{
		{100 * time.Millisecond, false},
		{200 * time.Millisecond, false},
		{300 * time.Millisecond, false},
		{500 * time.Millisecond, true},
	}
	for _, step := range warmup {
		time.Sleep(step.delay)
		if b.Send(bus.Print{IncludeLines: step.lines}) != nil {
			return
		}
	}

	interval := time.Duration(cfg.StatsIntervalMs) * time.Millisecond
	for {
		for i := 1; i < cfg.LinesEveryStats; i++ {
			time.Sleep(interval)
			if b.Send(bus.Print{}) != nil {
				return
			}
		}
		time.Sleep(interval)
		if b.Send(bus.Print{IncludeLines: true}) != nil {
			return
		}
	}
}
