// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package protocol

import (
	"bytes"
	"errors"
	"net"
	"os"
	"syscall"
	"testing"
	"testing/iotest"
)

// chunkWriter accepts at most n bytes per Write call.
type chunkWriter struct {
	buf bytes.Buffer
	n   int
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		p = p[:w.n]
	}
	return w.buf.Write(p)
}

// zeroWriter never makes progress.
type zeroWriter struct{}

func (zeroWriter) Write(p []byte) (int, error) { return 0, nil }

// errWriter fails every Write with err.
type errWriter struct{ err error }

func (w errWriter) Write(p []byte) (int, error) { return 0, w.err }

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"empty", []byte{}},
		{"short", []byte("OK\n")},
		{"binary", []byte{0, 1, 2, 255, 254}},
		{"large", bytes.Repeat([]byte("x"), 70000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteFrame(&buf, tt.body); err != nil {
				t.Fatalf("WriteFrame() error = %v", err)
			}
			if buf.Len() != FrameHeaderSize+len(tt.body) {
				t.Errorf("frame length = %d, want %d", buf.Len(), FrameHeaderSize+len(tt.body))
			}
			got, err := ReadFrame(&buf)
			if err != nil {
				t.Fatalf("ReadFrame() error = %v", err)
			}
			if !bytes.Equal(got, tt.body) {
				t.Errorf("ReadFrame() = %v, want %v", got, tt.body)
			}
		})
	}
}

func TestWriteFrame_PartialWrites(t *testing.T) {
	w := &chunkWriter{n: 3}
	body := []byte("Santiago Lionel Lorca")
	if err := WriteFrame(w, body); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	got, err := ReadFrame(&w.buf)
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("got %q, want %q", got, body)
	}
}

func TestWriteFrame_ClosedDestination(t *testing.T) {
	if err := WriteFrame(zeroWriter{}, []byte("abc")); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("zero progress: expected ErrConnectionClosed, got %v", err)
	}

	client, server := net.Pipe()
	server.Close()
	if err := WriteFrame(client, []byte("abc")); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("closed pipe: expected ErrConnectionClosed, got %v", err)
	}
	client.Close()
}

func TestReadFrame_Truncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"no bytes", nil},
		{"partial header", []byte{0, 0}},
		{"missing body", []byte{0, 0, 0, 5}},
		{"short body", []byte{0, 0, 0, 5, 'a', 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFrame(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrTruncatedStream) {
				t.Errorf("expected ErrTruncatedStream, got %v", err)
			}
			if got != nil {
				t.Errorf("expected no body on failure, got %v", got)
			}
		})
	}
}

func TestReadFrame_SlowReader(t *testing.T) {
	var buf bytes.Buffer
	WriteFrame(&buf, []byte("30904465"))
	got, err := ReadFrame(iotest.OneByteReader(&buf))
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if string(got) != "30904465" {
		t.Errorf("got %q", got)
	}
}

func TestReadFrame_TooLarge(t *testing.T) {
	data := []byte{0xff, 0xff, 0xff, 0xff}
	if _, err := ReadFrame(bytes.NewReader(data)); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestWriteFrame_WriteErrors(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		peerClosed bool
	}{
		{"broken pipe", os.NewSyscallError("write", syscall.EPIPE), true},
		{"connection reset", os.NewSyscallError("write", syscall.ECONNRESET), true},
		{"closed listener conn", net.ErrClosed, true},
		{"no space left", os.NewSyscallError("write", syscall.ENOSPC), false},
		{"bad descriptor", os.NewSyscallError("write", syscall.EBADF), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := WriteFrame(errWriter{tc.err}, []byte("abc"))
			if got := errors.Is(err, ErrConnectionClosed); got != tc.peerClosed {
				t.Errorf("errors.Is(%v, ErrConnectionClosed) = %v, want %v", err, got, tc.peerClosed)
			}
			if !errors.Is(err, tc.err) && !tc.peerClosed {
				t.Errorf("expected original error to be returned, got %v", err)
			}
		})
	}
}
