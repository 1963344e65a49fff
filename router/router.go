// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/danielhkuo/bet-draw/handlers"
	"github.com/danielhkuo/bet-draw/middleware"
	"github.com/danielhkuo/bet-draw/protocol"
)

// ErrUnroutable is returned for message types the server does not accept.
var ErrUnroutable = errors.New("message type not accepted by server")

// Router reads exactly one message per connection, dispatches it by type,
// writes at most one reply and closes the connection.
type Router struct {
	batches *handlers.BatchHandler
	queries *handlers.QueryHandler
}

func NewRouter(store handlers.BetStore, finisher handlers.Finisher) *Router {
	return &Router{
		batches: handlers.NewBatchHandler(store),
		queries: handlers.NewQueryHandler(finisher),
	}
}

// Handler returns the router wrapped with logging and panic recovery.
func (rt *Router) Handler() middleware.ConnFunc {
	return middleware.WithLogging(middleware.WithRecover(rt.ServeConn))
}

// ServeConn runs a full request/response exchange on conn.
func (rt *Router) ServeConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	logger := middleware.Logger(ctx)

	msg, err := protocol.ReadMessage(conn)
	if err != nil {
		logger.Error("failed to read message", "error", err)
		return
	}

	reply, err := rt.Dispatch(ctx, msg)
	if err != nil {
		logger.Error("message rejected", "type", msg.Type, "error", err)
		return
	}

	if err := protocol.WriteMessage(conn, reply); err != nil {
		logger.Error("failed to write reply", "type", reply.Type, "error", err)
		return
	}
}

// Dispatch routes a message to its handler.
func (rt *Router) Dispatch(ctx context.Context, msg protocol.Message) (protocol.Message, error) {
	switch msg.Type {
	case protocol.MsgBatchBet:
		return rt.batches.HandleBatch(ctx, msg)
	case protocol.MsgQuery:
		return rt.queries.HandleQuery(ctx, msg)
	case protocol.MsgResponse, protocol.MsgResponsePending:
		return protocol.Message{}, fmt.Errorf("%w: %v is server-to-client only", ErrUnroutable, msg.Type)
	default:
		return protocol.Message{}, fmt.Errorf("%w: %v", ErrUnroutable, msg.Type)
	}
}
