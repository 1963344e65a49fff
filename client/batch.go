// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"fmt"
	"log/slog"

	"github.com/danielhkuo/bet-draw/models"
	"github.com/danielhkuo/bet-draw/protocol"
)

// MaxBatchPayload caps the framed records of one batch so the whole
// BatchBet message stays within 8 KiB.
const MaxBatchPayload = 8*1024 - protocol.MessageHeaderSize - protocol.AgencyNumberSize

// BuildBatches encodes bets and groups them into batches of at most maxBets
// records and MaxBatchPayload bytes. A bet that cannot fit in any batch is
// skipped and logged. maxBets <= 0 means no count limit.
func BuildBatches(agency uint32, bets []models.Bet, maxBets int, logger *slog.Logger) ([]protocol.Batch, error) {
	var batches []protocol.Batch
	current := protocol.Batch{AgencyNumber: agency}
	size := 0

	flush := func() {
		if len(current.Records) > 0 {
			batches = append(batches, current)
		}
		current = protocol.Batch{AgencyNumber: agency}
		size = 0
	}

	for i, bet := range bets {
		record, err := protocol.EncodeBet(bet)
		if err != nil {
			return nil, fmt.Errorf("bet %d: %w", i, err)
		}
		framed := protocol.FrameHeaderSize + len(record)
		if framed > MaxBatchPayload {
			logger.Error("bet exceeds batch size, skipping", "agency", agency, "document", bet.Document, "size", framed)
			continue
		}
		if size+framed > MaxBatchPayload || (maxBets > 0 && len(current.Records) == maxBets) {
			flush()
		}
		current.Records = append(current.Records, record)
		size += framed
	}
	flush()
	return batches, nil
}
