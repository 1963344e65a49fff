// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package server runs the TCP accept loop.

A Server owns a listener and hands each accepted connection to a
middleware.ConnFunc through a Strategy:

  - Sequential: connections are served one after the other on the accept
    goroutine. This is the default.
  - PerConnection: every connection gets its own goroutine. Shared state
    is protected by the draw coordinator lock and the database.

# Usage

	ln, _ := net.Listen("tcp", ":12345")
	srv := server.New(ln, rt.Handler(), &server.PerConnection{})
	go func() { <-sigs; srv.Close() }()
	if err := srv.Serve(ctx); !errors.Is(err, server.ErrServerClosed) {
		// accept failure
	}

Serve waits for in-flight connections before returning.
*/
package server
