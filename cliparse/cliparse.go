// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	Agencies      int
	WinningNumber string
	Concurrent    bool
	LogLevel      slog.Level
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, logLevel, concurrent string

	fs := flag.NewFlagSet("bet-draw", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading env vars")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&concurrent, "concurrent", "", "Serve connections in parallel (true/false)")

	// Storage
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Draw
	fs.IntVar(&cfg.Agencies, "agencies", 0, "Agencies that must finish before the draw")
	fs.StringVar(&cfg.WinningNumber, "winning-number", "", "Winning bet number")

	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("SERVER_PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid SERVER_PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 12345 // default
		}
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	if concurrent == "" {
		concurrent = os.Getenv("SERVER_CONCURRENT")
	}
	if concurrent != "" {
		v, err := strconv.ParseBool(concurrent)
		if err != nil {
			return Config{}, errors.New("invalid concurrent value")
		}
		cfg.Concurrent = v
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "bets.db"
	}

	// Draw threshold - MUST be provided
	if cfg.Agencies == 0 {
		if s := os.Getenv("AGENCIES"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid AGENCIES env variable")
			}
			cfg.Agencies = n
		}
	}
	if cfg.Agencies <= 0 {
		return Config{}, errors.New("AGENCIES required and must be positive")
	}

	if cfg.WinningNumber == "" {
		cfg.WinningNumber = os.Getenv("LOTTERY_WINNER_NUMBER")
		if cfg.WinningNumber == "" {
			cfg.WinningNumber = "7574"
		}
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOGGING_LEVEL")
	}
	if logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
			return Config{}, fmt.Errorf("invalid log level %q", logLevel)
		}
	}

	return cfg, nil
}

// loadEnvFile reads KEY=value pairs into the environment without overriding
// variables that are already set. A missing file is fine.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
