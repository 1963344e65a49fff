// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the bet database and creates its schema.

# Opening

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

Two types are supported:

  - sqlite (default): modernc.org/sqlite, a file path or file: URL.
    Limited to one open connection; busy_timeout and foreign_keys pragmas
    are added unless the URL already sets pragmas.
  - postgres: github.com/lib/pq connection string.

# Schema Creation

	if err := db.CreateSchema(ctx, conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - bet: one row per accepted bet, id preserves arrival order
  - draw_snapshot: CBOR-encoded draw outcome, written once per draw

# Indexes

  - bet.agency
*/
package db
