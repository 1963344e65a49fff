// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/danielhkuo/bet-draw/models"
	"github.com/danielhkuo/bet-draw/testutil"
)

func TestStoreAndLoadBets(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(testutil.SetupTestDB(t))

	first := []models.Bet{
		testutil.MakeBet(1, "30904465", "7574"),
		testutil.MakeBet(1, "11111111", "1"),
	}
	second := []models.Bet{testutil.MakeBet(2, "22222222", "2")}

	if err := s.StoreBets(ctx, first); err != nil {
		t.Fatalf("StoreBets() error = %v", err)
	}
	if err := s.StoreBets(ctx, second); err != nil {
		t.Fatalf("StoreBets() error = %v", err)
	}
	if err := s.StoreBets(ctx, nil); err != nil {
		t.Fatalf("StoreBets(nil) error = %v", err)
	}

	got, err := s.LoadBets(ctx)
	if err != nil {
		t.Fatalf("LoadBets() error = %v", err)
	}
	want := append(append([]models.Bet{}, first...), second...)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadBets() = %+v, want %+v", got, want)
	}

	count, err := s.CountBets(ctx, "1")
	if err != nil {
		t.Fatalf("CountBets() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountBets(1) = %d, want 2", count)
	}
}

func TestLoadBets_Empty(t *testing.T) {
	s := NewSQLStore(testutil.SetupTestDB(t))
	bets, err := s.LoadBets(context.Background())
	if err != nil {
		t.Fatalf("LoadBets() error = %v", err)
	}
	if bets == nil || len(bets) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", bets)
	}
}

func TestStoreBets_CancelledContext(t *testing.T) {
	s := NewSQLStore(testutil.SetupTestDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.StoreBets(ctx, []models.Bet{testutil.MakeBet(1, "1", "1")}); err == nil {
		t.Fatal("expected error with cancelled context")
	}

	bets, _ := s.LoadBets(context.Background())
	if len(bets) != 0 {
		t.Errorf("expected nothing persisted, got %d bets", len(bets))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(testutil.SetupTestDB(t))

	if _, err := s.LatestSnapshot(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}

	older := models.DrawSnapshot{
		ID:         "older",
		ComputedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		Threshold:  2,
		Finished:   []uint32{1, 2},
		Winners:    map[uint32][]uint32{},
	}
	newer := models.DrawSnapshot{
		ID:         "newer",
		ComputedAt: time.Date(2025, 1, 1, 11, 0, 0, 123, time.UTC),
		Threshold:  2,
		Finished:   []uint32{1, 2},
		Winners:    map[uint32][]uint32{1: {30904465, 12}},
		BetCount:   7,
	}
	for _, snap := range []models.DrawSnapshot{older, newer} {
		if err := s.SaveSnapshot(ctx, snap); err != nil {
			t.Fatalf("SaveSnapshot(%s) error = %v", snap.ID, err)
		}
	}

	got, err := s.LatestSnapshot(ctx)
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if got.ID != "newer" || got.BetCount != 7 || !got.ComputedAt.Equal(newer.ComputedAt) {
		t.Errorf("LatestSnapshot() = %+v", got)
	}
	if !reflect.DeepEqual(got.WinnersFor(1), []uint32{30904465, 12}) {
		t.Errorf("WinnersFor(1) = %v", got.WinnersFor(1))
	}
	if w := got.WinnersFor(2); w == nil || len(w) != 0 {
		t.Errorf("WinnersFor(2) = %v, want empty", w)
	}
}

func TestLatestSnapshot_Corrupt(t *testing.T) {
	ctx := context.Background()
	conn := testutil.SetupTestDB(t)
	s := NewSQLStore(conn)

	snap := models.DrawSnapshot{
		ID:         "tampered",
		ComputedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		Threshold:  1,
		Finished:   []uint32{1},
		Winners:    map[uint32][]uint32{1: {42}},
	}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	if _, err := conn.ExecContext(ctx, `UPDATE draw_snapshot SET digest = 'beef' WHERE id = 'tampered'`); err != nil {
		t.Fatalf("failed to tamper snapshot: %v", err)
	}

	if _, err := s.LatestSnapshot(ctx); !errors.Is(err, ErrCorruptSnapshot) {
		t.Errorf("expected ErrCorruptSnapshot, got %v", err)
	}
}
