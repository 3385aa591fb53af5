// Package style holds the color styles shared by the line colorizer and the
// dashboard. The lipgloss profile is pinned to plain 16-color ANSI so the
// emitted escape sequences are identical everywhere: the renderer's diffing
// and the colorize/strip round trip both depend on byte-stable output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.ANSI)
}

var (
	Green  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	Purple = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	Yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	Red    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	White  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	Orange = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // bright yellow

	none = lipgloss.NewStyle()
)

// StatusCode returns the style for an HTTP status code, keyed on its class
// as defined in RFC 9110: 2xx successful, 3xx redirection, 4xx client error,
// 5xx server error.
func StatusCode(code string) lipgloss.Style {
	if code == "" {
		return none
	}
	switch code[0] {
	case '2':
		return Green
	case '3':
		return Purple
	case '4':
		return Yellow
	case '5':
		return Red
	default:
		return White
	}
}

// Method returns the style for an HTTP method. Only POST is highlighted;
// everything else renders unstyled.
func Method(method string) lipgloss.Style {
	if method == "POST" {
		return White
	}
	return none
}
