package handler

import (
	"sync"
	"testing"
	"time"

	ws "github.com/menkyoquiz/menkyo-backend/internal/websocket"
	"github.com/rs/zerolog"
)

type fakeStreamConn struct {
	mu     sync.Mutex
	events []interface{}
	closed bool
}

func (f *fakeStreamConn) write(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, v)
	return nil
}

func (f *fakeStreamConn) close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func TestCountdownClosesStreamOnExpiry(t *testing.T) {
	t.Parallel()

	h := &WSHandler{log: zerolog.Nop()}
	conn := &fakeStreamConn{}
	done := make(chan struct{})
	defer close(done)

	finished := make(chan struct{})
	go func() {
		h.runCountdown(conn, zerolog.Nop(), 2, done)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("countdown did not finish")
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()
	if !conn.closed {
		t.Fatal("socket must be closed after expiry")
	}
	if len(conn.events) == 0 {
		t.Fatal("no events written")
	}
	last, ok := conn.events[len(conn.events)-1].(ws.TimesUpResponse)
	if !ok || last.Event != ws.EventTimesUp {
		t.Fatalf("last event = %+v, want times_up", conn.events[len(conn.events)-1])
	}
}

func TestCountdownStopsWhenStreamEnds(t *testing.T) {
	t.Parallel()

	h := &WSHandler{log: zerolog.Nop()}
	conn := &fakeStreamConn{}
	done := make(chan struct{})
	close(done)

	finished := make(chan struct{})
	go func() {
		h.runCountdown(conn, zerolog.Nop(), 600, done)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not stop on a closed stream")
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.closed {
		t.Fatal("an ended stream must not be closed by the countdown")
	}
}
