// Package bus carries every cross-goroutine message of the program: tailers,
// the print ticker and the resize watcher all produce onto one bounded Bus
// drained by a single consumer. Closing the bus is the only shutdown signal;
// both sides treat a closed bus as a graceful stop.
package bus

import (
	"errors"
	"sync"
)

// Message is the tagged union moved across the bus. Exactly one of the
// concrete types below implements it.
type Message interface {
	isMessage()
}

// Line is one fully reassembled log line plus its classification. Code and
// Bucket are empty when the line did not classify.
type Line struct {
	Text   string
	Group  string // source group, e.g. "/var/log/nginx/site1/access.log", or "" when combined
	Bucket string // aggregation column, e.g. "404" or "4xx"
	Code   string // raw status code, e.g. "404"
}

// RegisterGroup announces a source before its first line so it shows up on
// the dashboard even while idle.
type RegisterGroup struct {
	Group string
}

// Print triggers a render cycle. Raw pending lines are only flushed when
// IncludeLines is set.
type Print struct {
	IncludeLines bool
}

// WinCh reports a new terminal width.
type WinCh struct {
	Width int
}

func (Line) isMessage()          {}
func (RegisterGroup) isMessage() {}
func (Print) isMessage()         {}
func (WinCh) isMessage()         {}

// ErrClosed is returned by Send and Receive once the bus is closed.
var ErrClosed = errors.New("bus closed")

// DefaultCapacity is large enough that producers essentially never block
// under bursty traffic; memory is the accepted trade-off.
const DefaultCapacity = 1_000_000

// Bus is a bounded multi-producer single-consumer queue. A full bus blocks
// the sender until the consumer catches up.
type Bus struct {
	ch        chan Message
	done      chan struct{}
	closeOnce sync.Once
}

// New returns a Bus holding at most capacity messages.
func New(capacity int) *Bus {
	return &Bus{
		ch:   make(chan Message, capacity),
		done: make(chan struct{}),
	}
}

// Send enqueues m, blocking while the bus is full. It returns ErrClosed
// once the bus is closed.
func (b *Bus) Send(m Message) error {
	select {
	case <-b.done:
		return ErrClosed
	default:
	}
	select {
	case b.ch <- m:
		return nil
	case <-b.done:
		return ErrClosed
	}
}

// Receive dequeues the next message, blocking while the bus is empty.
// After Close it keeps draining buffered messages and only then returns
// ErrClosed.
func (b *Bus) Receive() (Message, error) {
	select {
	case m := <-b.ch:
		return m, nil
	default:
	}
	select {
	case m := <-b.ch:
		return m, nil
	case <-b.done:
		// Drain what racing senders already got in.
		select {
		case m := <-b.ch:
			return m, nil
		default:
			return nil, ErrClosed
		}
	}
}

// TryReceive dequeues without blocking; ok is false when nothing is queued.
func (b *Bus) TryReceive() (Message, bool) {
	select {
	case m := <-b.ch:
		return m, true
	default:
		return nil, false
	}
}

// Close shuts the bus down. Safe to call more than once and from any
// goroutine.
func (b *Bus) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}
