// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/danielhkuo/bet-draw/models"
)

// Snapshots are encoded deterministically so the same draw always produces
// the same bytes.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	encMode, err = opts.EncMode()
	if err != nil {
		panic("store: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("store: CBOR decoder initialization failed: " + err.Error())
	}
}

// ErrCorruptSnapshot is returned when a stored payload no longer matches
// its digest.
var ErrCorruptSnapshot = errors.New("draw snapshot digest mismatch")

func digest(payload []byte) string {
	sum := blake3.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// SaveSnapshot persists a draw outcome along with the BLAKE3 digest of its
// encoded form.
func (s *SQLStore) SaveSnapshot(ctx context.Context, snap models.DrawSnapshot) error {
	payload, err := encMode.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO draw_snapshot (id, computed_at, digest, payload)
		VALUES ($1, $2, $3, $4)
	`, snap.ID, snap.ComputedAt.UTC(), digest(payload), payload)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently computed draw, or ErrNoSnapshot.
func (s *SQLStore) LatestSnapshot(ctx context.Context) (models.DrawSnapshot, error) {
	var id, sum string
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, digest, payload
		FROM draw_snapshot
		ORDER BY computed_at DESC
		LIMIT 1
	`).Scan(&id, &sum, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DrawSnapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return models.DrawSnapshot{}, fmt.Errorf("failed to query snapshot: %w", err)
	}

	if digest(payload) != sum {
		return models.DrawSnapshot{}, fmt.Errorf("%w: snapshot %s", ErrCorruptSnapshot, id)
	}

	var snap models.DrawSnapshot
	if err := decMode.Unmarshal(payload, &snap); err != nil {
		return models.DrawSnapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}
