package tailer

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/quinox/nginx-tail/internal/bus"
	"github.com/quinox/nginx-tail/internal/parser"
)

const (
	// pollInterval is how long to wait after reading zero bytes before
	// trying again.
	pollInterval = 50 * time.Millisecond
	readBufSize  = 1024
)

// reader follows a single file and turns raw reads into whole lines.
type reader struct {
	path    string
	file    *os.File
	pending []byte // read but not yet terminated by a newline
	buf     []byte
	poll    time.Duration
}

func newReader(path string, poll time.Duration) (*reader, error) {
	file, err := openAtEnd(path)
	if err != nil {
		return nil, err
	}
	return &reader{
		path: path,
		file: file,
		buf:  make([]byte, readBufSize),
		poll: poll,
	}, nil
}

func openAtEnd(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		file.Close()
		return nil, err
	}
	return file, nil
}

// readLines blocks at most one poll interval and returns the complete lines
// that arrived, which may be none. Invalid UTF-8 is decoded best-effort with
// replacement runes; bytes after the last newline stay pending.
func (r *reader) readLines() ([]string, error) {
	n, err := r.file.Read(r.buf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return nil, err
		}
		// No new data. The file may have been rotated away from under
		// the handle; if so, reopen by path and drop any unterminated
		// pending bytes (a small accepted loss).
		if r.rotated() {
			if file, err := openAtEnd(r.path); err == nil {
				r.file.Close()
				r.file = file
				r.pending = r.pending[:0]
			}
			return nil, nil
		}
		time.Sleep(r.poll)
		return nil, nil
	}

	r.pending = append(r.pending, r.buf[:n]...)
	var lines []string
	for {
		nl := bytes.IndexByte(r.pending, '\n')
		if nl < 0 {
			break
		}
		lines = append(lines, strings.ToValidUTF8(string(r.pending[:nl]), "�"))
		r.pending = r.pending[nl+1:]
	}
	return lines, nil
}

// rotated reports whether the path on disk no longer refers to the file
// behind the open handle. Comparing device and inode via os.SameFile is the
// portable equivalent of resolving /proc/self/fd back to a path.
func (r *reader) rotated() bool {
	current, err := os.Stat(r.path)
	if err != nil {
		// The path is gone entirely; mid-rotation. Treat as rotated so
		// the reopen gets retried until the new file shows up.
		return true
	}
	handle, err := r.file.Stat()
	if err != nil {
		return true
	}
	return !os.SameFile(current, handle)
}

func (r *reader) close() {
	r.file.Close()
}

// Options tune a Follow loop. The zero value uses the defaults.
type Options struct {
	Poll time.Duration
}

// Follow tails the file at path forever, producing one bus.Line per
// appended line tagged with group and classified by classify. It returns
// when the bus closes or when the file becomes unreadable; a failure to
// open or read terminates only this tailer.
func Follow(b *bus.Bus, path, group string, classify parser.Classifier, opts Options) {
	if err := b.Send(bus.RegisterGroup{Group: group}); err != nil {
		return
	}

	poll := opts.Poll
	if poll <= 0 {
		poll = pollInterval
	}
	r, err := newReader(path, poll)
	if err != nil {
		log.Printf("WARNING: cannot follow %s: %v", path, err)
		return
	}
	defer r.close()

	for {
		lines, err := r.readLines()
		if err != nil {
			log.Printf("WARNING: %s is no longer readable: %v", path, err)
			return
		}
		for _, line := range lines {
			msg := bus.Line{Text: line, Group: group}
			if code, err := parser.ExtractStatusCode(line); err == nil {
				msg.Code = code
				if bucket, ok := classify(code); ok {
					msg.Bucket = bucket
				}
			}
			if b.Send(msg) != nil {
				return
			}
		}
	}
}
