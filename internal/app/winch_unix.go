//go:build unix

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quinox/nginx-tail/internal/bus"
	"github.com/quinox/nginx-tail/internal/terminal"
)

// watchResize forwards terminal width changes onto the bus so the
// dashboard can adjust its truncation width mid-run.
func watchResize(ctx context.Context, b *bus.Bus) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	defer signal.Stop(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			if b.Send(bus.WinCh{Width: terminal.Width()}) != nil {
				return
			}
		}
	}
}
