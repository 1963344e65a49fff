// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/bet-draw/middleware"
	"github.com/danielhkuo/bet-draw/models"
	"github.com/danielhkuo/bet-draw/protocol"
)

// BetStore persists a decoded batch in one atomic call.
type BetStore interface {
	StoreBets(ctx context.Context, bets []models.Bet) error
}

type BatchHandler struct {
	store BetStore
}

func NewBatchHandler(store BetStore) *BatchHandler {
	return &BatchHandler{store: store}
}

// HandleBatch handles a BatchBet message
// Decodes the batch, stores the bets that decode and acknowledges with "OK\n".
// Undecodable records are dropped; a malformed batch frame fails the connection.
func (h *BatchHandler) HandleBatch(ctx context.Context, msg protocol.Message) (protocol.Message, error) {
	logger := middleware.Logger(ctx)

	batch, err := protocol.DecodeBatch(msg.Payload)
	if err != nil {
		return protocol.Message{}, fmt.Errorf("failed to decode batch: %w", err)
	}
	logger.Info("batch received",
		"agency", batch.AgencyNumber,
		"records", len(batch.Records),
		"size", humanize.Bytes(uint64(len(msg.Payload))),
	)

	bets := batch.Bets(logger)
	if len(bets) != len(batch.Records) {
		logger.Error("bets dropped from batch",
			"agency", batch.AgencyNumber,
			"stored", len(bets),
			"dropped", len(batch.Records)-len(bets),
		)
	}

	if err := h.store.StoreBets(ctx, bets); err != nil {
		return protocol.Message{}, fmt.Errorf("failed to store bets of agency %d: %w", batch.AgencyNumber, err)
	}
	logger.Info("bets stored", "agency", batch.AgencyNumber, "count", len(bets))

	return protocol.Message{Type: protocol.MsgResponse, Payload: []byte(models.BatchAck)}, nil
}
