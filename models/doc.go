// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types shared by the codec, the store and
the draw coordinator.

# Domain Types

  - Bet: one wager (agency, first/last name, document, birthdate, number)
  - DrawSnapshot: the frozen draw outcome, winners grouped by agency

# Constants

Draw states:

	StateWaiting = "waiting"
	StateDrawn   = "drawn"

Batch acknowledgement payload:

	BatchAck = "OK\n"
*/
package models
