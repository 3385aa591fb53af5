// Package terminal wraps terminal size probing and the handful of cursor
// control sequences the dashboard writes.
package terminal

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// CSI is the control sequence introducer shared by every escape the
// dashboard emits.
const CSI = "\x1b["

const (
	HideCursor  = CSI + "?25l"
	ShowCursor  = CSI + "?25h"
	ClearBelow  = CSI + "J"
	defaultRows = 25
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(f.Fd())
}

// Width returns the current terminal width in columns, or 0 (unlimited)
// when the size cannot be determined.
func Width() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 0 {
		return 0
	}
	return w
}

// Height returns the current terminal height in rows, falling back to a
// conventional 25 when the size cannot be determined.
func Height() int {
	_, h, err := term.GetSize(os.Stdout.Fd())
	if err != nil || h <= 0 {
		return defaultRows
	}
	return h
}
