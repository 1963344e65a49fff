// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/danielhkuo/bet-draw/middleware"
)

// ErrServerClosed is returned by Serve after Close.
var ErrServerClosed = errors.New("server: closed")

// Strategy decides how an accepted connection is handled.
type Strategy interface {
	Run(ctx context.Context, conn net.Conn, handle middleware.ConnFunc)
	// Wait blocks until every connection started by Run has returned.
	Wait()
}

// Sequential handles one connection at a time on the accept goroutine.
type Sequential struct{}

func (Sequential) Run(ctx context.Context, conn net.Conn, handle middleware.ConnFunc) {
	handle(ctx, conn)
}

func (Sequential) Wait() {}

// PerConnection handles every connection on its own goroutine.
type PerConnection struct {
	wg sync.WaitGroup
}

func (p *PerConnection) Run(ctx context.Context, conn net.Conn, handle middleware.ConnFunc) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		handle(ctx, conn)
	}()
}

func (p *PerConnection) Wait() {
	p.wg.Wait()
}

// Server accepts connections from a listener and passes them to a handler.
type Server struct {
	listener net.Listener
	handle   middleware.ConnFunc
	strategy Strategy
	logger   *slog.Logger

	mu     sync.Mutex
	closed bool
}

func New(listener net.Listener, handle middleware.ConnFunc, strategy Strategy) *Server {
	return &Server{
		listener: listener,
		handle:   handle,
		strategy: strategy,
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger handed to every connection.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	s.logger = l
	return s
}

// Addr returns the listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until Close is called or ctx is done. It waits
// for in-flight connections before returning; their context is not
// cancelled with ctx. The returned error is ErrServerClosed after a normal
// shutdown.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()
	defer s.strategy.Wait()

	// Cancelling ctx only stops the accept loop.
	connCtx := middleware.WithLogger(context.WithoutCancel(ctx), s.logger)

	var delay time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				delay = backoff(delay)
				s.logger.Warn("accept failed, retrying", "error", err, "delay", delay)
				time.Sleep(delay)
				continue
			}
			return err
		}
		delay = 0
		s.strategy.Run(connCtx, conn, s.handle)
	}
}

// Close stops accepting new connections. Connections already accepted run
// to completion.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.listener.Close()
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func backoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		d = time.Second
	}
	return d
}
