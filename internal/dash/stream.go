package dash

import (
	"fmt"
	"io"

	"github.com/quinox/nginx-tail/internal/bus"
	"github.com/quinox/nginx-tail/internal/parser"
)

// Stream is the consumer used when stdout is not a terminal: no dashboard,
// no in-place rewriting, just filtering and colorizing every line to w.
// Print and WinCh messages are never produced in this mode and are ignored.
func Stream(b *bus.Bus, w io.Writer, filters []string) {
	for {
		m, err := b.Receive()
		if err != nil {
			return
		}
		line, ok := m.(bus.Line)
		if !ok {
			continue
		}
		if len(filters) > 0 && line.Code != "" && !matchesFilter(filters, line.Code) {
			continue
		}
		fmt.Fprintln(w, parser.Colorize(line.Text))
	}
}
