// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package protocol implements the binary wire format spoken between agencies
and the draw server.

# Frames

Every layer reuses one primitive, a length-prefixed blob:

	[length: uint32 BE][body: length bytes]

ReadFrame blocks until the body is complete and fails with
ErrTruncatedStream if the stream ends first. WriteFrame retries partial
writes and reports ErrConnectionClosed when the peer is gone.

# Messages

	[type: 1 byte][length: uint32 BE][payload]

Types:

	MsgBatchBet        = 1  agency bets
	MsgQuery           = 2  agency asks for its winners
	MsgResponse        = 3  batch ack ("OK\n") or winner documents
	MsgResponsePending = 4  draw not run yet

ReadMessage accepts any tag; dispatch rejects unknown ones.

# Batches

	[agency: uint32 BE]([length: uint32 BE][TLV bet])*

# Bet records

Five TLV fields in fixed order, each [kind: 1][length: uint16 BE][UTF-8]:

	1 first name, 2 last name, 3 document, 4 birthdate, 5 number

A TLV error (ErrTruncated, ErrUnknownField, ErrInvalidUTF8) only discards
the record it happened in.
*/
package protocol
