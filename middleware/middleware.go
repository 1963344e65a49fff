// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// ConnFunc serves one accepted connection.
type ConnFunc func(ctx context.Context, conn net.Conn)

type loggerKey struct{}

// Logger returns the connection-scoped logger stored by WithLogging, or
// slog.Default outside a connection.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithLogger stores a logger in ctx.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// WithLogging wraps a connection handler with connection logging
func WithLogging(next ConnFunc) ConnFunc {
	return func(ctx context.Context, conn net.Conn) {
		start := time.Now()
		logger := Logger(ctx).With(
			"conn_id", uuid.NewString(),
			"remote", RemoteIP(conn),
		)

		// Log connection
		logger.Info("connection started")

		// Call the next handler
		next(WithLogger(ctx, logger), conn)

		// Log completion
		duration := time.Since(start)
		logger.Info("connection completed",
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// WithRecover keeps a panicking handler from taking the server down. The
// connection is closed and the panic logged.
func WithRecover(next ConnFunc) ConnFunc {
	return func(ctx context.Context, conn net.Conn) {
		defer func() {
			if rec := recover(); rec != nil {
				Logger(ctx).Error("connection handler panicked",
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				conn.Close()
			}
		}()
		next(ctx, conn)
	}
}

// RemoteIP extracts the peer IP address of a connection
// Falls back to the raw address string when it has no port
func RemoteIP(conn net.Conn) string {
	addr := conn.RemoteAddr()
	if addr == nil {
		return ""
	}
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}

	// Strip port if present
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
