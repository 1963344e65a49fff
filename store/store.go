// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/bet-draw/models"
)

// ErrNoSnapshot is returned by LatestSnapshot before any draw was saved.
var ErrNoSnapshot = errors.New("no draw snapshot stored")

// SQLStore persists bets and draw snapshots in the database opened by db.Open.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// StoreBets inserts all bets in a single transaction: either the whole
// batch is persisted or none of it.
func (s *SQLStore) StoreBets(ctx context.Context, bets []models.Bet) error {
	if len(bets) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bet (agency, first_name, last_name, document, birthdate, number)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bets {
		_, err := stmt.ExecContext(ctx, b.Agency, b.FirstName, b.LastName, b.Document, b.Birthdate, b.Number)
		if err != nil {
			return fmt.Errorf("failed to insert bet: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bets: %w", err)
	}
	return nil
}

// LoadBets returns every stored bet in arrival order.
func (s *SQLStore) LoadBets(ctx context.Context) ([]models.Bet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT agency, first_name, last_name, document, birthdate, number
		FROM bet
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	bets := []models.Bet{}
	for rows.Next() {
		var b models.Bet
		if err := rows.Scan(&b.Agency, &b.FirstName, &b.LastName, &b.Document, &b.Birthdate, &b.Number); err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bets: %w", err)
	}
	return bets, nil
}

// CountBets returns how many bets an agency has stored.
func (s *SQLStore) CountBets(ctx context.Context, agency string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bet WHERE agency = $1
	`, agency).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bets: %w", err)
	}
	return count, nil
}
