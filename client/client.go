// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/danielhkuo/bet-draw/models"
	"github.com/danielhkuo/bet-draw/protocol"
)

// ErrUnexpectedReply is returned when the server answers with a message the
// request does not allow.
var ErrUnexpectedReply = errors.New("unexpected reply from server")

// Client talks to a bet-draw server. Every request uses a fresh connection.
type Client struct {
	addr   string
	dialer net.Dialer
	logger *slog.Logger
}

type Option func(*Client)

// WithLogger sets the client logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithDialTimeout bounds connection setup.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) { c.dialer.Timeout = d }
}

func New(addr string, opts ...Option) *Client {
	c := &Client{addr: addr, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendBatch uploads one batch and waits for the "OK\n" ack.
func (c *Client) SendBatch(ctx context.Context, batch protocol.Batch) error {
	msg := protocol.Message{
		Type:    protocol.MsgBatchBet,
		Payload: protocol.EncodeBatch(batch.AgencyNumber, batch.Records),
	}
	reply, err := c.roundTrip(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send batch of agency %d: %w", batch.AgencyNumber, err)
	}
	if reply.Type != protocol.MsgResponse || !bytes.Equal(reply.Payload, []byte(models.BatchAck)) {
		return fmt.Errorf("%w: %v %q", ErrUnexpectedReply, reply.Type, reply.Payload)
	}
	c.logger.Info("batch sent", "agency", batch.AgencyNumber, "records", len(batch.Records))
	return nil
}

// SendBets splits bets into batches of at most maxBets and sends them in
// order. It returns the number of bets acknowledged.
func (c *Client) SendBets(ctx context.Context, agency uint32, bets []models.Bet, maxBets int) (int, error) {
	batches, err := BuildBatches(agency, bets, maxBets, c.logger)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, b := range batches {
		if err := c.SendBatch(ctx, b); err != nil {
			return sent, err
		}
		sent += len(b.Records)
	}
	return sent, nil
}

// QueryWinners reports the agency as finished and asks for its winners.
// drawn is false while other agencies are still uploading.
func (c *Client) QueryWinners(ctx context.Context, agency uint32) (winners []uint32, drawn bool, err error) {
	reply, err := c.roundTrip(ctx, protocol.NewQuery(agency))
	if err != nil {
		return nil, false, fmt.Errorf("failed to query winners of agency %d: %w", agency, err)
	}
	switch reply.Type {
	case protocol.MsgResponsePending:
		return nil, false, nil
	case protocol.MsgResponse:
		winners, err := protocol.DecodeWinners(reply.Payload)
		if err != nil {
			return nil, false, err
		}
		return winners, true, nil
	default:
		return nil, false, fmt.Errorf("%w: %v", ErrUnexpectedReply, reply.Type)
	}
}

// WaitForWinners queries every period until the draw ran or ctx is done.
func (c *Client) WaitForWinners(ctx context.Context, agency uint32, period time.Duration) ([]uint32, error) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		winners, drawn, err := c.QueryWinners(ctx, agency)
		if err != nil {
			return nil, err
		}
		if drawn {
			c.logger.Info("winners received", "agency", agency, "winners", len(winners))
			return winners, nil
		}
		c.logger.Debug("draw pending", "agency", agency)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) roundTrip(ctx context.Context, msg protocol.Message) (protocol.Message, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		if ctx.Err() != nil {
			return protocol.Message{}, ctx.Err()
		}
		return protocol.Message{}, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := protocol.WriteMessage(conn, msg); err != nil {
		return protocol.Message{}, err
	}
	reply, err := protocol.ReadMessage(conn)
	if err != nil && ctx.Err() != nil {
		return protocol.Message{}, ctx.Err()
	}
	return reply, err
}
