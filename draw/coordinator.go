// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/bet-draw/models"
	"github.com/danielhkuo/bet-draw/store"
)

// BetLoader supplies the full bet set at draw time.
type BetLoader interface {
	LoadBets(ctx context.Context) ([]models.Bet, error)
}

// SnapshotStore persists the draw outcome. Optional.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap models.DrawSnapshot) error
	LatestSnapshot(ctx context.Context) (models.DrawSnapshot, error)
}

// Outcome is the answer to a winners query.
type Outcome struct {
	Drawn   bool
	Winners []uint32
}

// Pending is the outcome of every query before the draw.
var Pending = Outcome{}

// Coordinator decides when the draw runs and answers winner queries.
// It starts waiting and becomes drawn once threshold distinct agencies
// have reported they finished; that transition happens once.
type Coordinator struct {
	mu        sync.Mutex
	threshold uint32
	finished  map[uint32]struct{}
	snapshot  *models.DrawSnapshot // nil while waiting

	bets      BetLoader
	snapshots SnapshotStore
	hasWon    func(models.Bet) bool
	logger    *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSnapshotStore persists every draw and enables Restore.
func WithSnapshotStore(s SnapshotStore) Option {
	return func(c *Coordinator) { c.snapshots = s }
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

func NewCoordinator(threshold uint32, bets BetLoader, hasWon func(models.Bet) bool, opts ...Option) *Coordinator {
	c := &Coordinator{
		threshold: threshold,
		finished:  make(map[uint32]struct{}),
		bets:      bets,
		hasWon:    hasWon,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReportFinished records that an agency will not send more bets.
func (c *Coordinator) ReportFinished(agency uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reportFinished(agency)
}

// MaybeRunDraw runs the draw if enough agencies finished and it has not
// run yet. A failed bet load leaves the coordinator waiting.
func (c *Coordinator) MaybeRunDraw(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maybeRunDraw(ctx)
}

// Query returns the agency winners once drawn, Pending before.
func (c *Coordinator) Query(agency uint32) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query(agency)
}

// Finish is ReportFinished, MaybeRunDraw and Query under one lock, so no
// caller can observe a half-built draw.
func (c *Coordinator) Finish(ctx context.Context, agency uint32) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reportFinished(agency)
	if err := c.maybeRunDraw(ctx); err != nil {
		return Pending, err
	}
	return c.query(agency), nil
}

// State returns models.StateWaiting or models.StateDrawn.
func (c *Coordinator) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot != nil {
		return models.StateDrawn
	}
	return models.StateWaiting
}

// Snapshot returns a deep copy of the draw outcome, false while waiting.
func (c *Coordinator) Snapshot() (models.DrawSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return models.DrawSnapshot{}, false
	}
	snap := *c.snapshot
	snap.Finished = slices.Clone(snap.Finished)
	snap.Winners = make(map[uint32][]uint32, len(c.snapshot.Winners))
	for agency, docs := range c.snapshot.Winners {
		snap.Winners[agency] = slices.Clone(docs)
	}
	return snap, true
}

// Restore loads the latest persisted draw so a restarted server keeps
// answering with the same winners. No stored draw is not an error.
func (c *Coordinator) Restore(ctx context.Context) error {
	if c.snapshots == nil {
		return nil
	}

	snap, err := c.snapshots.LatestSnapshot(ctx)
	if errors.Is(err, store.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore draw: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, agency := range snap.Finished {
		c.finished[agency] = struct{}{}
	}
	if snap.Winners == nil {
		snap.Winners = map[uint32][]uint32{}
	}
	c.snapshot = &snap
	c.logger.Info("draw restored", "snapshot_id", snap.ID, "computed_at", snap.ComputedAt)
	return nil
}

func (c *Coordinator) reportFinished(agency uint32) {
	if _, ok := c.finished[agency]; ok {
		return
	}
	c.finished[agency] = struct{}{}
	c.logger.Info("agency finished",
		"agency", agency,
		"finished", len(c.finished),
		"threshold", c.threshold,
	)
}

func (c *Coordinator) maybeRunDraw(ctx context.Context) error {
	if c.snapshot != nil {
		return nil
	}
	if uint32(len(c.finished)) < c.threshold {
		return nil
	}

	bets, err := c.bets.LoadBets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bets for draw: %w", err)
	}

	snap := models.DrawSnapshot{
		ID:         uuid.NewString(),
		ComputedAt: time.Now().UTC(),
		Threshold:  c.threshold,
		Finished:   c.finishedAgencies(),
		Winners:    c.groupWinners(bets),
		BetCount:   len(bets),
	}
	c.snapshot = &snap

	total := 0
	for _, w := range snap.Winners {
		total += len(w)
	}
	c.logger.Info("draw completed",
		"snapshot_id", snap.ID,
		"bets", len(bets),
		"winners", total,
	)

	if c.snapshots != nil {
		// The draw stands even if it cannot be persisted.
		if err := c.snapshots.SaveSnapshot(ctx, snap); err != nil {
			c.logger.Error("failed to persist draw", "snapshot_id", snap.ID, "error", err)
		}
	}
	return nil
}

func (c *Coordinator) groupWinners(bets []models.Bet) map[uint32][]uint32 {
	winners := make(map[uint32][]uint32)
	for _, b := range bets {
		if !c.hasWon(b) {
			continue
		}
		agency, err := strconv.ParseUint(b.Agency, 10, 32)
		if err != nil {
			c.logger.Error("excluding winner with invalid agency",
				"agency", b.Agency, "document", b.Document, "error", err)
			continue
		}
		document, err := strconv.ParseUint(b.Document, 10, 32)
		if err != nil {
			c.logger.Error("excluding winner with invalid document",
				"agency", b.Agency, "document", b.Document, "error", err)
			continue
		}
		winners[uint32(agency)] = append(winners[uint32(agency)], uint32(document))
	}
	return winners
}

func (c *Coordinator) finishedAgencies() []uint32 {
	agencies := make([]uint32, 0, len(c.finished))
	for a := range c.finished {
		agencies = append(agencies, a)
	}
	slices.Sort(agencies)
	return agencies
}

func (c *Coordinator) query(agency uint32) Outcome {
	if c.snapshot == nil {
		return Pending
	}
	return Outcome{Drawn: true, Winners: slices.Clone(c.snapshot.WinnersFor(agency))}
}
