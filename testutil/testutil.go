// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/danielhkuo/bet-draw/cliparse"
	"github.com/danielhkuo/bet-draw/db"
	"github.com/danielhkuo/bet-draw/models"
	"github.com/danielhkuo/bet-draw/protocol"
)

// WinningNumber is the number GetTestConfig draws.
const WinningNumber = "7574"

// SetupTestDB creates a fresh SQLite database with the full schema in a
// temporary directory removed after the test.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, db.TypeSQLite, filepath.Join(t.TempDir(), "bets.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(ctx, conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          0,
		DatabaseURL:   "bets.db",
		DatabaseType:  db.TypeSQLite,
		Agencies:      2,
		WinningNumber: WinningNumber,
		LogLevel:      slog.LevelInfo,
	}
}

// Logger returns a logger that drops everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MakeBet builds a bet for an agency. Pass WinningNumber to make it win.
func MakeBet(agency uint32, document, number string) models.Bet {
	return models.Bet{
		Agency:    strconv.FormatUint(uint64(agency), 10),
		FirstName: "Santiago Lionel",
		LastName:  "Lorca",
		Document:  document,
		Birthdate: "1999-03-17",
		Number:    number,
	}
}

// EncodeBatch builds a BatchBet message carrying bets for an agency.
func EncodeBatch(t *testing.T, agency uint32, bets ...models.Bet) protocol.Message {
	t.Helper()

	records := make([][]byte, 0, len(bets))
	for _, b := range bets {
		data, err := protocol.EncodeBet(b)
		if err != nil {
			t.Fatalf("Failed to encode bet: %v", err)
		}
		records = append(records, data)
	}
	return protocol.Message{Type: protocol.MsgBatchBet, Payload: protocol.EncodeBatch(agency, records)}
}

// Exchange dials addr, sends msg and reads the single reply.
func Exchange(t *testing.T, addr string, msg protocol.Message) (protocol.Message, error) {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("Failed to dial %s: %v", addr, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	if err := protocol.WriteMessage(conn, msg); err != nil {
		return protocol.Message{}, err
	}
	return protocol.ReadMessage(conn)
}

// AssertWinners checks that a reply carries exactly the expected documents.
func AssertWinners(t *testing.T, reply protocol.Message, want ...uint32) {
	t.Helper()
	if reply.Type != protocol.MsgResponse {
		t.Fatalf("Expected %v, got %v", protocol.MsgResponse, reply.Type)
	}
	got, err := protocol.DecodeWinners(reply.Payload)
	if err != nil {
		t.Fatalf("Failed to decode winners: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Expected winners %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected winners %v, got %v", want, got)
			return
		}
	}
}
