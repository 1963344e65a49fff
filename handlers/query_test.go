// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/danielhkuo/bet-draw/draw"
	"github.com/danielhkuo/bet-draw/protocol"
	"github.com/danielhkuo/bet-draw/store"
	"github.com/danielhkuo/bet-draw/testutil"
)

type failingFinisher struct{}

func (failingFinisher) Finish(context.Context, uint32) (draw.Outcome, error) {
	return draw.Pending, errors.New("database unavailable")
}

func TestHandleQuery(t *testing.T) {
	ctx := testContext()
	s := store.NewSQLStore(testutil.SetupTestDB(t))
	coordinator := draw.NewCoordinator(2, s, draw.WinningNumber(testutil.WinningNumber), draw.WithLogger(testutil.Logger()))
	batches := NewBatchHandler(s)
	queries := NewQueryHandler(coordinator)

	for _, msg := range []protocol.Message{
		testutil.EncodeBatch(t, 1,
			testutil.MakeBet(1, "30904465", testutil.WinningNumber),
			testutil.MakeBet(1, "22222222", "1"),
		),
		testutil.EncodeBatch(t, 2, testutil.MakeBet(2, "33333333", "2")),
	} {
		if _, err := batches.HandleBatch(ctx, msg); err != nil {
			t.Fatalf("HandleBatch failed: %v", err)
		}
	}

	reply, err := queries.HandleQuery(ctx, protocol.NewQuery(1))
	if err != nil {
		t.Fatalf("HandleQuery failed: %v", err)
	}
	if reply.Type != protocol.MsgResponsePending {
		t.Fatalf("Expected %v before every agency finished, got %v", protocol.MsgResponsePending, reply.Type)
	}
	if len(reply.Payload) != 0 {
		t.Errorf("Expected empty pending payload, got %v", reply.Payload)
	}

	reply, err = queries.HandleQuery(ctx, protocol.NewQuery(2))
	if err != nil {
		t.Fatalf("HandleQuery failed: %v", err)
	}
	testutil.AssertWinners(t, reply)

	reply, err = queries.HandleQuery(ctx, protocol.NewQuery(1))
	if err != nil {
		t.Fatalf("HandleQuery failed: %v", err)
	}
	testutil.AssertWinners(t, reply, 30904465)
}

func TestHandleQuery_Errors(t *testing.T) {
	handler := NewQueryHandler(failingFinisher{})

	_, err := handler.HandleQuery(testContext(), protocol.Message{Type: protocol.MsgQuery, Payload: []byte{0, 0, 1}})
	if !errors.Is(err, protocol.ErrInvalidAgency) {
		t.Errorf("Expected ErrInvalidAgency, got %v", err)
	}

	if _, err := handler.HandleQuery(testContext(), protocol.NewQuery(1)); err == nil {
		t.Error("Expected draw failure to be returned")
	}
}
