package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/dd0wney/cluso-archcheck/pkg/logging"
)

func TestShutdown_BeforeStart(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", http.NewServeMux(), logging.NewNopLogger())

	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown before Start failed: %v", err)
	}
}

func TestShutdown_Idempotent(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", http.NewServeMux(), nil)

	if err := gs.Shutdown(time.Second); err != nil {
		t.Fatalf("First shutdown failed: %v", err)
	}
	// Second call must be a no-op, not a panic on the closed channel
	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("Second shutdown failed: %v", err)
	}
}

func TestStart_ReturnsAfterShutdown(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", http.NewServeMux(), logging.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- gs.Start() }()

	// Give the listener a moment before shutting down
	time.Sleep(50 * time.Millisecond)
	if err := gs.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned error after graceful shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after shutdown")
	}
}
