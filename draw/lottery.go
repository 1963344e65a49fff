// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draw

import (
	"strconv"
	"strings"

	"github.com/danielhkuo/bet-draw/models"
)

// WinningNumber returns the predicate for a fixed-number lottery: a bet
// wins when its number equals n. Numbers compare as integers, so "07574"
// matches 7574; values that are not integers compare as plain strings.
func WinningNumber(n string) func(models.Bet) bool {
	n = strings.TrimSpace(n)
	want, wantErr := strconv.Atoi(n)
	return func(b models.Bet) bool {
		number := strings.TrimSpace(b.Number)
		if wantErr == nil {
			if got, err := strconv.Atoi(number); err == nil {
				return got == want
			}
		}
		return number == n
	}
}
