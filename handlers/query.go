// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"

	"github.com/danielhkuo/bet-draw/draw"
	"github.com/danielhkuo/bet-draw/middleware"
	"github.com/danielhkuo/bet-draw/protocol"
)

// Finisher records an agency as finished and answers its winners query
// atomically. Implemented by *draw.Coordinator.
type Finisher interface {
	Finish(ctx context.Context, agency uint32) (draw.Outcome, error)
}

type QueryHandler struct {
	draw Finisher
}

func NewQueryHandler(d Finisher) *QueryHandler {
	return &QueryHandler{draw: d}
}

// HandleQuery handles a Query message
// A query both marks the agency as finished and asks for its winners.
// Returns ResponsePending until the draw ran, then Response with the
// agency winner documents (possibly none).
func (h *QueryHandler) HandleQuery(ctx context.Context, msg protocol.Message) (protocol.Message, error) {
	logger := middleware.Logger(ctx)

	agency, err := protocol.ParseAgency(msg.Payload)
	if err != nil {
		return protocol.Message{}, err
	}

	outcome, err := h.draw.Finish(ctx, agency)
	if err != nil {
		return protocol.Message{}, fmt.Errorf("draw failed for agency %d query: %w", agency, err)
	}

	if !outcome.Drawn {
		logger.Info("winners query pending", "agency", agency)
		return protocol.Message{Type: protocol.MsgResponsePending, Payload: []byte{}}, nil
	}

	logger.Info("winners query answered", "agency", agency, "winners", len(outcome.Winners))
	return protocol.Message{Type: protocol.MsgResponse, Payload: protocol.EncodeWinners(outcome.Winners)}, nil
}
