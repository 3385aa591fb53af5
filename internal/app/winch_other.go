//go:build !unix

package app

import (
	"context"

	"github.com/quinox/nginx-tail/internal/bus"
)

// Resize signals are not available here; the width picked at startup
// stays in effect for the whole run.
func watchResize(ctx context.Context, b *bus.Bus) {}
