// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package protocol

import (
	"errors"
	"io"
	"net"
	"syscall"
)

var (
	// Stream level, connection fatal.
	ErrTruncatedStream  = errors.New("stream ended before expected bytes")
	ErrConnectionClosed = errors.New("connection closed by peer")
	ErrFrameTooLarge    = errors.New("frame exceeds maximum size")
	ErrInvalidAgency    = errors.New("invalid agency number payload")

	// Record level, only the record is dropped.
	ErrTruncated    = errors.New("not enough bytes to decode")
	ErrUnknownField = errors.New("unknown field kind")
	ErrInvalidUTF8  = errors.New("field value is not valid UTF-8")
	ErrFieldTooLong = errors.New("field value exceeds 65535 bytes")
)

// isClosed reports whether a write error means the peer is gone.
func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}
