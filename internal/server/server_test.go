package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer() *Server {
	return New(http.NewServeMux(), "127.0.0.1:0", time.Second, time.Second, time.Second, testLogger())
}

func TestAddr(t *testing.T) {
	srv := New(http.NewServeMux(), ":3000", time.Second, time.Second, time.Second, testLogger())

	if got := srv.Addr(); got != ":3000" {
		t.Errorf("expected addr :3000, got %s", got)
	}
}

func TestGracefulShutdown_RunsHooksLIFO(t *testing.T) {
	srv := newTestServer()

	var order []string
	srv.OnShutdown("first", func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	srv.OnShutdown("second", func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	if err := srv.gracefulShutdown(); err != nil {
		t.Fatalf("gracefulShutdown failed: %v", err)
	}

	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("expected LIFO hook order [second first], got %v", order)
	}
}

func TestGracefulShutdown_ReturnsHookError(t *testing.T) {
	srv := newTestServer()

	hookErr := errors.New("component stuck")
	srv.OnShutdown("stuck", func(ctx context.Context) error {
		return hookErr
	})

	var ran bool
	srv.OnShutdown("clean", func(ctx context.Context) error {
		ran = true
		return nil
	})

	if err := srv.gracefulShutdown(); !errors.Is(err, hookErr) {
		t.Errorf("expected hook error, got %v", err)
	}
	if !ran {
		t.Error("expected remaining hooks to run despite an earlier error")
	}
}
