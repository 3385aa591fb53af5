package bus

import (
	"errors"
	"testing"
	"time"
)

func TestSendReceiveOrder(t *testing.T) {
	b := New(16)
	for i, text := range []string{"one", "two", "three"} {
		if err := b.Send(Line{Text: text}); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}
	for _, want := range []string{"one", "two", "three"} {
		m, err := b.Receive()
		if err != nil {
			t.Fatalf("Receive: %v", err)
		}
		line, ok := m.(Line)
		if !ok || line.Text != want {
			t.Errorf("Receive = %#v, want Line{Text: %q}", m, want)
		}
	}
	if m, ok := b.TryReceive(); ok {
		t.Errorf("TryReceive on empty bus = %#v, want nothing", m)
	}
}

func TestCloseUnblocksBothSides(t *testing.T) {
	b := New(1)
	if err := b.Send(Print{}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	// The bus is full: this sender blocks until Close.
	sendErr := make(chan error, 1)
	go func() {
		sendErr <- b.Send(Print{IncludeLines: true})
	}()

	time.Sleep(20 * time.Millisecond)
	b.Close()

	select {
	case err := <-sendErr:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("blocked Send returned %v, want ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked Send did not return after Close")
	}

	// Buffered messages still drain after Close, then ErrClosed.
	if m, err := b.Receive(); err != nil {
		t.Fatalf("Receive after Close = %v, want buffered message %#v", err, m)
	}
	if _, err := b.Receive(); !errors.Is(err, ErrClosed) {
		t.Errorf("Receive on drained closed bus = %v, want ErrClosed", err)
	}

	if err := b.Send(Print{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Send on closed bus = %v, want ErrClosed", err)
	}
	b.Close() // idempotent
}
