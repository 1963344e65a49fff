// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/bet-draw/testutil"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	return ln
}

// echoOnce copies one line back and closes.
func echoOnce(served *atomic.Int32) func(context.Context, net.Conn) {
	return func(_ context.Context, conn net.Conn) {
		defer conn.Close()
		buf := make([]byte, 5)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		conn.Write(buf)
		served.Add(1)
	}
}

func startServer(t *testing.T, srv *Server) chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- srv.Serve(context.Background()) }()
	return done
}

func roundTrip(t *testing.T, addr string) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	if _, err := conn.Write([]byte("hello")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	got := make([]byte, 5)
	if _, err := io.ReadFull(conn, got); err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("Expected echo, got %q", got)
	}
}

func TestServe_Strategies(t *testing.T) {
	testCases := []struct {
		name     string
		strategy Strategy
	}{
		{"sequential", Sequential{}},
		{"per connection", &PerConnection{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var served atomic.Int32
			srv := New(listen(t), echoOnce(&served), tc.strategy).WithLogger(testutil.Logger())
			done := startServer(t, srv)

			for i := 0; i < 3; i++ {
				roundTrip(t, srv.Addr().String())
			}

			if err := srv.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}
			select {
			case err := <-done:
				if !errors.Is(err, ErrServerClosed) {
					t.Errorf("Expected ErrServerClosed, got %v", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("Serve did not return after Close")
			}
			if got := served.Load(); got != 3 {
				t.Errorf("Expected 3 served connections, got %d", got)
			}
		})
	}
}

func TestServe_WaitsForInFlight(t *testing.T) {
	release := make(chan struct{})
	var finished atomic.Bool
	handle := func(_ context.Context, conn net.Conn) {
		defer conn.Close()
		<-release
		finished.Store(true)
	}

	srv := New(listen(t), handle, &PerConnection{}).WithLogger(testutil.Logger())
	done := startServer(t, srv)

	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Give the accept loop time to pick the connection up.
	time.Sleep(50 * time.Millisecond)
	srv.Close()

	select {
	case <-done:
		t.Fatal("Serve returned with a connection still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
	if !finished.Load() {
		t.Error("Expected in-flight handler to finish before Serve returned")
	}
}

func TestServe_ContextCancel(t *testing.T) {
	var served atomic.Int32
	srv := New(listen(t), echoOnce(&served), Sequential{}).WithLogger(testutil.Logger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrServerClosed) {
			t.Errorf("Expected ErrServerClosed, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServe_ContextCancelKeepsInFlight(t *testing.T) {
	release := make(chan struct{})
	handlerErr := make(chan error, 1)
	handle := func(ctx context.Context, conn net.Conn) {
		defer conn.Close()
		<-release
		handlerErr <- ctx.Err()
	}

	srv := New(listen(t), handle, &PerConnection{}).WithLogger(testutil.Logger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Give the accept loop time to pick the connection up.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
		t.Fatal("Serve returned with a connection still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-handlerErr:
		if err != nil {
			t.Errorf("Expected in-flight handler context to stay live, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Handler did not finish")
	}
	select {
	case err := <-done:
		if !errors.Is(err, ErrServerClosed) {
			t.Errorf("Expected ErrServerClosed, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestClose_Idempotent(t *testing.T) {
	srv := New(listen(t), nil, Sequential{})
	if err := srv.Close(); err != nil {
		t.Fatalf("First Close failed: %v", err)
	}
	if err := srv.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}
