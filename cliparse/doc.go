// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 12345)
  - DatabaseURL: SQLite path or PostgreSQL connection string (default: bets.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - Agencies: agencies that must finish before the draw (required)
  - WinningNumber: bet number that wins the draw (default: 7574)
  - Concurrent: serve connections in parallel (default: false)
  - LogLevel: slog level (default: info)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-agencies        Draw threshold
	-winning-number  Winning bet number
	-concurrent      Parallel connection handling
	-log-level       debug, info, warn, error
	-env-file        KEY=value file loaded first (default: .env)

# Environment Variables

Flags fall back to environment variables:

	SERVER_PORT           → -p
	DATABASE_URL          → -d
	DATABASE_TYPE         → -t
	AGENCIES              → -agencies
	LOTTERY_WINNER_NUMBER → -winning-number
	SERVER_CONCURRENT     → -concurrent
	LOGGING_LEVEL         → -log-level

CLI flags take precedence over environment variables, and variables already
set in the environment take precedence over the env file. A missing env
file is ignored.

# Validation

ParseFlags returns an error if:

  - AGENCIES is missing or not positive
  - a numeric or boolean value does not parse
  - DATABASE_TYPE is not sqlite or postgres
  - postgres is selected without DATABASE_URL
*/
package cliparse
