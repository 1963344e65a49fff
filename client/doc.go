// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client implements the agency side of the bet-draw protocol.

An agency reads its bets, uploads them in batches and then polls for its
winners:

	c := client.New("server:12345")
	bets, _ := client.ReadBets(file, 1)
	if _, err := c.SendBets(ctx, 1, bets, 100); err != nil {
		// ...
	}
	winners, err := c.WaitForWinners(ctx, 1, time.Second)

Each request opens its own connection; the server answers once and
closes it. The first winners query also tells the server the agency is
done uploading.

# Batches

BuildBatches keeps every BatchBet message within 8 KiB. Bets that do not
fit even alone are skipped.
*/
package client
