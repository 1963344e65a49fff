// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danielhkuo/bet-draw/models"
)

// ReadBets parses agency bet files: one bet per line as
// first name, last name, document, birthdate, number.
func ReadBets(r io.Reader, agency uint32) ([]models.Bet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true

	agencyID := strconv.FormatUint(uint64(agency), 10)
	var bets []models.Bet
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return bets, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bets: %w", err)
		}
		bets = append(bets, models.Bet{
			Agency:    agencyID,
			FirstName: strings.TrimSpace(fields[0]),
			LastName:  strings.TrimSpace(fields[1]),
			Document:  strings.TrimSpace(fields[2]),
			Birthdate: strings.TrimSpace(fields[3]),
			Number:    strings.TrimSpace(fields[4]),
		})
	}
}
