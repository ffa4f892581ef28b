// Package main is the entry point for the order-desk HTTP server.
//
// The main package stays minimal. Its job is to:
// 1. Read configuration (.env file, then environment variables)
// 2. Create dependencies (logger, database)
// 3. Start the server and clean up when it stops
//
// All actual logic lives in internal/ packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sakif/order-desk/internal/config"
	"github.com/sakif/order-desk/internal/logging"
	"github.com/sakif/order-desk/internal/repository/sqlite"
	"github.com/sakif/order-desk/internal/server"
)

func main() {
	// === 1. CONFIGURATION ===
	// A missing .env file is fine; real environment variables take precedence.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. LOGGING ===
	logger := logging.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug("no .env file loaded", slog.String("reason", envErr.Error()))
	}

	// === 3. DATABASE ===
	if cfg.Database.Path != ":memory:" {
		dir := filepath.Dir(cfg.Database.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	db, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("database ready", slog.String("path", cfg.Database.Path))

	// === 4. SERVE ===
	// Start blocks until SIGINT/SIGTERM.
	srv := server.New(cfg, db, logger)
	runErr := srv.Start()

	if err := db.Close(); err != nil {
		logger.Error("failed to close database", slog.String("error", err.Error()))
	}
	if runErr != nil {
		logger.Error("server error", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
}
