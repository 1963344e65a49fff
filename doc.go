// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the bet-draw server.

Agencies upload their bets over TCP in batches. When every agency has
reported that it finished uploading, the server runs the draw once and
answers each agency with the documents of its winning bets.

# Starting the Server

The server reads environment variables (and a .env file) or CLI flags:

	AGENCIES=5 go run .

Or with flags:

	go run . -p 12345 -agencies 5 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - AGENCIES (-agencies): Agencies that must finish before the draw

Optional settings:

  - SERVER_PORT (-p): Server port (default: 12345)
  - SERVER_CONCURRENT (-concurrent): One goroutine per connection (default: false)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Database file or connection string (default: bets.db)
  - LOTTERY_WINNER_NUMBER (-winning-number): Winning number (default: 7574)
  - LOGGING_LEVEL (-log-level): debug, info, warn or error (default: info)

# Protocol

Every connection carries one request and at most one reply:

	[type:1][length:4][payload]

  - BatchBet (1): [agency:4] followed by length-prefixed bet records
  - Query (2): [agency:4], marks the agency finished and asks for winners
  - Response (3): "OK\n" for batches, or 4-byte winner documents
  - ResponsePending (4): the draw has not run yet

# Architecture

  - protocol: frame, message, bet and batch codecs
  - draw: draw coordinator and winning rule
  - handlers: batch and query handlers
  - router: message dispatch per connection
  - middleware: connection logging and panic recovery
  - server: TCP accept loop
  - store, db: bet and draw snapshot persistence
  - client: agency client
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
