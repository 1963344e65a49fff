// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// FrameHeaderSize is the 4-byte big-endian length prefix.
	FrameHeaderSize = 4
	// MaxFrameSize bounds the allocation made for a declared length.
	MaxFrameSize = 16 << 20
)

// ReadFrame reads a [length:4][body] frame. It blocks until the whole body
// has arrived or fails with ErrTruncatedStream.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [FrameHeaderSize]byte
	if err := readExact(r, header[:]); err != nil {
		return nil, err
	}
	return readBody(r, binary.BigEndian.Uint32(header[:]))
}

// WriteFrame writes body prefixed with its length.
func WriteFrame(w io.Writer, body []byte) error {
	return writeFull(w, AppendFrame(make([]byte, 0, FrameHeaderSize+len(body)), body))
}

// AppendFrame appends the framed form of body to dst.
func AppendFrame(dst, body []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(body)))
	return append(dst, body...)
}

func readBody(r io.Reader, length uint32) ([]byte, error) {
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}
	body := make([]byte, length)
	if err := readExact(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// readExact fills buf or reports a truncated stream. Short reads are retried
// by io.ReadFull.
func readExact(r io.Reader, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	n, err := io.ReadFull(r, buf)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedStream, n, len(buf))
	}
	return err
}

// writeFull keeps writing until data is sent. A peer that went away is
// reported as ErrConnectionClosed.
func writeFull(w io.Writer, data []byte) error {
	total := 0
	for total < len(data) {
		n, err := w.Write(data[total:])
		total += n
		if err != nil {
			if isClosed(err) {
				return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
			}
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: wrote %d of %d bytes", ErrConnectionClosed, total, len(data))
		}
	}
	return nil
}
