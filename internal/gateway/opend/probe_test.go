package opend

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestIsReadyWithListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	start := time.Now()
	if !IsReady(context.Background(), "127.0.0.1", port, 3*time.Second, 500*time.Millisecond) {
		t.Fatal("expected probe to succeed against live listener")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("probe should return immediately on success, took %v", elapsed)
	}
}

func TestIsReadyNoListener(t *testing.T) {
	port := closedPort(t)

	start := time.Now()
	ready := IsReady(context.Background(), "127.0.0.1", port, 200*time.Millisecond, 50*time.Millisecond)
	elapsed := time.Since(start)

	if ready {
		t.Fatal("expected probe to fail with no listener")
	}
	// floor(200ms/50ms) = 4 attempts, each followed by a 50ms wait.
	if elapsed < 150*time.Millisecond {
		t.Errorf("probe returned too fast for 4 attempts: %v", elapsed)
	}
	if elapsed > 2*time.Second {
		t.Errorf("probe overran its budget: %v", elapsed)
	}
}

func TestIsReadyZeroAttempts(t *testing.T) {
	// timeout < interval means floor(timeout/interval) = 0 attempts.
	if IsReady(context.Background(), "127.0.0.1", closedPort(t), 50*time.Millisecond, 200*time.Millisecond) {
		t.Fatal("expected false with a zero attempt budget")
	}
}

func TestIsReadyCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if IsReady(ctx, "127.0.0.1", closedPort(t), 3*time.Second, 500*time.Millisecond) {
		t.Fatal("expected false with cancelled context")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled probe should bail out early, took %v", elapsed)
	}
}

// closedPort returns a localhost port with nothing listening on it.
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}
