// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/danielhkuo/bet-draw/models"
)

// Batch is the decoded payload of a BatchBet message. Records are still
// TLV-encoded; Bets decodes them one by one.
type Batch struct {
	AgencyNumber uint32
	Records      [][]byte
}

// DecodeBatch splits a BatchBet payload into its agency number and record
// frames. Trailing bytes shorter than a frame header end the batch.
func DecodeBatch(payload []byte) (Batch, error) {
	agency, err := ParseAgency(payload)
	if err != nil {
		return Batch{}, err
	}

	batch := Batch{AgencyNumber: agency}
	r := bytes.NewReader(payload[AgencyNumberSize:])
	for r.Len() >= FrameHeaderSize {
		record, err := ReadFrame(r)
		if err != nil {
			return Batch{}, fmt.Errorf("record %d: %w", len(batch.Records), err)
		}
		batch.Records = append(batch.Records, record)
	}
	return batch, nil
}

// Bets decodes every record, stamping the batch agency on each bet.
// Records that fail to decode are logged and skipped.
func (b Batch) Bets(logger *slog.Logger) []models.Bet {
	agency := strconv.FormatUint(uint64(b.AgencyNumber), 10)
	bets := make([]models.Bet, 0, len(b.Records))
	for i, record := range b.Records {
		bet, err := DecodeBet(record)
		if err != nil {
			logger.Error("dropping bet record",
				"agency", b.AgencyNumber,
				"record", i,
				"size", len(record),
				"error", err,
			)
			continue
		}
		bet.Agency = agency
		bets = append(bets, bet)
	}
	return bets
}

// EncodeBatch builds a BatchBet payload from already encoded records.
func EncodeBatch(agency uint32, records [][]byte) []byte {
	size := AgencyNumberSize
	for _, r := range records {
		size += FrameHeaderSize + len(r)
	}
	buf := make([]byte, 0, size)
	buf = binary.BigEndian.AppendUint32(buf, agency)
	for _, r := range records {
		buf = AppendFrame(buf, r)
	}
	return buf
}
