// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides connection middleware and helper functions.

# Connection Logging

Wrap connection handlers with logging:

	handler := middleware.WithLogging(router.ServeConn)

Logs connection start (conn_id, remote) and completion (duration_ms). The
handler receives a logger carrying conn_id and remote:

	logger := middleware.Logger(ctx)

# Panic Recovery

	handler := middleware.WithRecover(next)

A panic inside next is logged with its stack and the connection closed;
the accept loop keeps running.

# Remote Address

	ip := middleware.RemoteIP(conn)
*/
package middleware
