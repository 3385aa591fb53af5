// Package parser decomposes nginx access-log lines for colorized display and
// pulls the HTTP status code out of them for classification.
//
// Parse must cope with anything: truncated lines, corrupted lines, binary
// garbage. It never fails and never drops a byte — whatever it cannot make
// sense of lands verbatim in ParsedLine.Tail, and formatting a parsed line
// reproduces the input exactly apart from the inserted color sequences.
package parser

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/quinox/nginx-tail/internal/style"
)

// ParsedLine is an access-log line split into ordered fields. The *After
// fields hold the separator text between a field and its successor; an empty
// separator means parsing ran out of input at that point (real separators are
// never empty). Tail holds everything that was not parsed.
type ParsedLine struct {
	Head        string
	AfterHead   string // "[" when present
	Date        string
	AfterDate   string // "] " plus anything up to and including the opening quote
	Method      string
	AfterMethod string // " "
	URL         string
	AfterURL    string // " "
	Protocol    string
	AfterProto  string // `" `
	Status      string
	Tail        string
}

// Parse splits line into the fields of the common/combined access-log
// formats. It hunts for the literal delimiters in order and stops at the
// first one it cannot find; everything scanned so far is kept and the rest
// goes into Tail.
func Parse(line string) ParsedLine {
	var p ParsedLine
	rest := line

	i := strings.IndexByte(rest, '[')
	if i < 0 {
		p.Head = rest
		return p
	}
	p.Head = rest[:i]
	p.AfterHead = "["
	rest = rest[i+1:]

	i = strings.IndexByte(rest, ']')
	if i < 0 {
		p.Date = rest
		return p
	}
	p.Date = rest[:i]
	p.AfterDate = "]"
	rest = rest[i+1:]

	if rest == "" {
		return p
	}
	if rest[0] != ' ' {
		// The unexpected byte breaks the format; it and everything after
		// it belong to the tail.
		p.Tail = rest
		return p
	}
	p.AfterDate += " "
	rest = rest[1:]

	i = strings.IndexByte(rest, '"')
	if i < 0 {
		p.AfterDate += rest
		return p
	}
	p.AfterDate += rest[:i+1]
	rest = rest[i+1:]

	i = strings.IndexByte(rest, ' ')
	if i < 0 {
		p.Method = rest
		return p
	}
	p.Method = rest[:i]
	p.AfterMethod = " "
	rest = rest[i+1:]

	i = strings.IndexByte(rest, ' ')
	if i < 0 {
		p.URL = rest
		return p
	}
	p.URL = rest[:i]
	p.AfterURL = " "
	rest = rest[i+1:]

	i = strings.IndexByte(rest, '"')
	if i < 0 {
		p.Protocol = rest
		return p
	}
	p.Protocol = rest[:i]
	p.AfterProto = `"`
	rest = rest[i+1:]

	if rest == "" {
		return p
	}
	if rest[0] != ' ' {
		p.Tail = rest
		return p
	}
	p.AfterProto += " "
	rest = rest[1:]

	i = strings.IndexByte(rest, ' ')
	if i < 0 {
		p.Status = rest
		return p
	}
	p.Status = rest[:i]
	p.Tail = rest[i:]
	return p
}

// String renders the line with the method and status code colorized. It
// walks the fields in order and flushes Tail as soon as it reaches a
// separator that was never parsed.
func (p ParsedLine) String() string {
	var b strings.Builder
	b.WriteString(p.Head)
	if p.AfterHead == "" {
		b.WriteString(p.Tail)
		return b.String()
	}
	b.WriteString(p.AfterHead)
	b.WriteString(p.Date)
	if p.AfterDate == "" {
		b.WriteString(p.Tail)
		return b.String()
	}
	b.WriteString(p.AfterDate)
	b.WriteString(style.Method(p.Method).Render(p.Method))
	if p.AfterMethod == "" {
		b.WriteString(p.Tail)
		return b.String()
	}
	b.WriteString(p.AfterMethod)
	b.WriteString(p.URL)
	if p.AfterURL == "" {
		b.WriteString(p.Tail)
		return b.String()
	}
	b.WriteString(p.AfterURL)
	b.WriteString(p.Protocol)
	if p.AfterProto == "" {
		b.WriteString(p.Tail)
		return b.String()
	}
	b.WriteString(p.AfterProto)
	b.WriteString(style.StatusCode(p.Status).Render(p.Status))
	b.WriteString(p.Tail)
	return b.String()
}

// Colorize is shorthand for Parse(line).String().
func Colorize(line string) string {
	return Parse(line).String()
}

// Sentinel reasons for a failed status-code extraction, mostly useful to
// tell apart why a line did not classify.
var (
	ErrNoOpeningQuote  = errors.New("no opening quote")
	ErrNoClosingQuote  = errors.New("no closing quote")
	ErrNoTrailingSpace = errors.New("no space after status code")
)

// ExtractStatusCode returns the status-code token of an access-log line: the
// text between the closing quote of the request field and the next space.
// Cheaper than Parse; this runs once per tailed line.
func ExtractStatusCode(line string) (string, error) {
	first := strings.IndexByte(line, '"')
	if first < 0 {
		return "", ErrNoOpeningQuote
	}
	second := strings.IndexByte(line[first+1:], '"')
	if second < 0 {
		return "", ErrNoClosingQuote
	}
	// Skip the closing quote and the space that follows it.
	start := first + 1 + second + 2
	if start > len(line) {
		return "", ErrNoTrailingSpace
	}
	end := strings.IndexByte(line[start:], ' ')
	if end < 0 {
		return "", ErrNoTrailingSpace
	}
	return line[start : start+end], nil
}

// Classifier maps a raw status code to the column bucket used for
// aggregation. ok is false when the code does not classify.
type Classifier func(code string) (bucket string, ok bool)

// ExactCode buckets every status code as itself.
func ExactCode(code string) (string, bool) {
	return code, code != ""
}

// StatusClass reduces a status code to its RFC 9110 class: "404" becomes
// "4xx", "503" becomes "5xx".
func StatusClass(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(code)
	return string(r) + "xx", true
}
