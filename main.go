// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/bet-draw/cliparse"
	"github.com/danielhkuo/bet-draw/db"
	"github.com/danielhkuo/bet-draw/draw"
	"github.com/danielhkuo/bet-draw/router"
	"github.com/danielhkuo/bet-draw/server"
	"github.com/danielhkuo/bet-draw/store"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// Connect to the database
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	bets := store.NewSQLStore(dbConn)
	coordinator := draw.NewCoordinator(uint32(cfg.Agencies), bets, draw.WinningNumber(cfg.WinningNumber),
		draw.WithSnapshotStore(bets), draw.WithLogger(logger))
	if err := coordinator.Restore(ctx); err != nil {
		slog.Error("draw restore failed", "error", err)
		os.Exit(1)
	}

	rt := router.NewRouter(bets, coordinator)

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.Port))
	if err != nil {
		slog.Error("listen failed", "port", cfg.Port, "error", err)
		os.Exit(1)
	}

	var strategy server.Strategy = server.Sequential{}
	if cfg.Concurrent {
		strategy = &server.PerConnection{}
	}
	srv := server.New(listener, rt.Handler(), strategy).WithLogger(logger)

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		srv.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "agencies", cfg.Agencies, "concurrent", cfg.Concurrent, "state", coordinator.State())
	err = srv.Serve(ctx)
	if err != nil && !errors.Is(err, server.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
