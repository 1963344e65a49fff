// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the message handlers of the draw server.

# Handler Types

Each handler is a struct with its dependencies injected:

  - BatchHandler: decodes BatchBet messages and stores the bets
  - QueryHandler: records finished agencies and answers winner queries

Handlers are created via constructor functions:

	batchHandler := handlers.NewBatchHandler(store)
	queryHandler := handlers.NewQueryHandler(coordinator)

Both take the request message and return the single reply to write back.
An error means no reply is sent and the connection is dropped.

# Batches

	BatchBet → HandleBatch → Response("OK\n")

Records that fail TLV decoding are logged and skipped; the remaining bets
are stored in one transaction.

# Winner Queries

	Query → HandleQuery → ResponsePending (draw not run yet)
	                    → Response([document uint32]*)

Every query marks the agency as finished. The query that brings the
finished count to the threshold runs the draw.
*/
package handlers
