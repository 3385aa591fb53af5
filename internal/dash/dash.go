// Package dash is the consumer side of the bus: a single goroutine that
// owns all aggregation and display state. It renders a low-flicker
// dashboard by rewriting only its own trailing terminal lines, and skips
// the write entirely when nothing changed since the previous cycle.
package dash

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	"github.com/quinox/nginx-tail/internal/bus"
	"github.com/quinox/nginx-tail/internal/parser"
	"github.com/quinox/nginx-tail/internal/stats"
	"github.com/quinox/nginx-tail/internal/style"
	"github.com/quinox/nginx-tail/internal/terminal"
)

// gutter is the number of rows reserved above the raw-line panel so the
// last output line of the previous flush stays visible.
const gutter = 2

type pendingLine struct {
	text   string
	bucket string // "" renders the whole line in orange (unclassified)
}

// Dashboard consumes bus messages and writes the terminal byte stream. All
// state is owned by the goroutine running Run; nothing here locks.
type Dashboard struct {
	w            io.Writer
	groups       *stats.GroupMap
	targetHeight int
	width        int // columns; 0 means unlimited
	filters      []string // status-code prefixes restricting raw display

	pending     []pendingLine
	skipped     int
	lastStats   string
	linesToWipe int
	now         func() time.Time
}

// New returns a Dashboard writing to w. Width 0 disables truncation;
// filters restrict which raw lines are shown (never what is counted).
func New(w io.Writer, groups *stats.GroupMap, targetHeight, width int, filters []string) *Dashboard {
	return &Dashboard{
		w:            w,
		groups:       groups,
		targetHeight: targetHeight,
		width:        width,
		filters:      filters,
		now:          time.Now,
	}
}

// Run drains the bus until it closes, processing one message at a time.
func (d *Dashboard) Run(b *bus.Bus) {
	fmt.Fprintln(d.w, terminal.HideCursor)
	for {
		m, err := b.Receive()
		if err != nil {
			return
		}
		switch m := m.(type) {
		case bus.RegisterGroup:
			d.groups.GetOrCreate(m.Group)
		case bus.Line:
			d.handleLine(m)
		case bus.WinCh:
			// Only installed when the user did not pin a width, so every
			// event means the effective width changes.
			d.width = m.Width
		case bus.Print:
			d.print(m.IncludeLines)
		}
	}
}

// rawCapacity is how many raw lines fit in the panel: one row per group and
// the gutter are reserved out of the target height.
func (d *Dashboard) rawCapacity() int {
	return d.targetHeight - d.groups.Len() - gutter
}

func (d *Dashboard) handleLine(m bus.Line) {
	// Accounting happens even when the line is filtered from display.
	if m.Bucket != "" {
		d.groups.GetOrCreate(m.Group).GetOrCreate(m.Bucket).Pending++
	}

	if len(d.filters) > 0 && m.Code != "" && !matchesFilter(d.filters, m.Code) {
		return
	}

	if len(d.pending) >= d.rawCapacity() {
		if len(d.pending) > 0 {
			d.pending = d.pending[1:]
		}
		d.skipped++
	}
	d.pending = append(d.pending, pendingLine{text: m.Text, bucket: m.Bucket})
}

func matchesFilter(filters []string, code string) bool {
	for _, f := range filters {
		if strings.HasPrefix(code, f) {
			return true
		}
	}
	return false
}

func (d *Dashboard) print(includeLines bool) {
	// Terminal writes are slow; build both blocks first and write nothing
	// at all when the output would match the previous cycle.
	var flushLines strings.Builder

	if includeLines && len(d.pending) > 0 {
		sampleRate := 100
		if d.skipped > 0 {
			sampleRate = 100 * len(d.pending) / (d.skipped + len(d.pending))
		}
		for _, pl := range d.pending {
			text := pl.text
			if d.width > 0 {
				text = ansi.Truncate(text, d.width, "")
			}
			colorized := parser.Colorize(text)
			if pl.bucket == "" {
				colorized = style.Orange.Render(colorized)
			}
			flushLines.WriteString(colorized)
			flushLines.WriteByte('\n')
		}
		d.pending = nil
		d.skipped = 0

		fmt.Fprintf(&flushLines, "-- Output sampled at %d%%\n", sampleRate)
	}

	statsText := d.buildStats()

	if flushLines.Len() == 0 && statsText == d.lastStats {
		return
	}

	if includeLines {
		// The sampled-at footer of the previous flush sits above the
		// stats block and has to be wiped along with it.
		d.linesToWipe++
	}
	var wiper string
	if d.linesToWipe == 0 {
		// CSI 0 A still moves the cursor up on some terminals; just go to
		// column 0.
		wiper = "\r" + terminal.ClearBelow
	} else {
		wiper = fmt.Sprintf("\r%s%dA%s", terminal.CSI, d.linesToWipe, terminal.ClearBelow)
	}
	fmt.Fprint(d.w, wiper+flushLines.String()+statsText)

	d.linesToWipe = strings.Count(statsText, "\n")
	d.lastStats = statsText
}

// buildStats renders one row per group: the display name with the shared
// prefix/suffix stripped, then one aligned cell per status bucket in the
// global sorted set. Groups missing a bucket get a blank, width-matched
// placeholder so columns line up across heterogeneous groups.
func (d *Dashboard) buildStats() string {
	now := d.now()
	prefLen := utf8.RuneCountInString(d.groups.SharedPrefix)
	sufLen := utf8.RuneCountInString(d.groups.SharedSuffix)

	maxName := 8
	for _, g := range d.groups.Groups() {
		maxName = max(maxName, utf8.RuneCountInString(g.Name))
	}
	paddedLen := maxName - prefLen - sufLen

	var b strings.Builder
	for _, g := range d.groups.Groups() {
		g.Sample(now)

		name := []rune(g.Name)
		var tag string
		if len(name) <= prefLen+sufLen {
			// Stripping would leave nothing of this name.
			tag = "@" + pad(paddedLen-1)
		} else {
			tag = string(name[prefLen:len(name)-sufLen]) + pad(maxName-len(name))
		}
		b.WriteString("-- ")
		b.WriteString(tag)
		b.WriteByte(' ')

		// The group's buckets are a sorted subset of the global sorted
		// set, so one parallel pass fills every column.
		group := g.Codes()
		gi := 0
		for _, code := range d.groups.Codes() {
			if gi < len(group) && group[gi].Code == code {
				s := group[gi]
				gi++
				fmt.Fprintf(&b, "%7.1f [%s] ", s.Rate.Speed(), style.StatusCode(s.Code).Render(s.Code))
			} else {
				fmt.Fprintf(&b, "%7s  %s  ", "", pad(utf8.RuneCountInString(code)))
			}
		}
		b.WriteByte('\n')
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
