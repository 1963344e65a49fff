// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router dispatches protocol messages to their handlers.

# Routes

	MsgBatchBet        → handlers.BatchHandler.HandleBatch
	MsgQuery           → handlers.QueryHandler.HandleQuery
	MsgResponse        → rejected (server-to-client only)
	MsgResponsePending → rejected (server-to-client only)
	anything else      → rejected (ErrUnroutable)

Rejected messages are logged and get no reply.

# Connections

	rt := router.NewRouter(store, coordinator)
	srv := server.New(listener, rt.Handler(), server.Sequential{})

ServeConn reads one message, writes at most one reply and always closes
the connection. Handler adds logging and panic recovery.
*/
package router
