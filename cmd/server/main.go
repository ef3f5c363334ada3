// Package main implements the entry point for the StackIt API server: the
// membership and engagement workflow engine behind a community learning Q&A
// platform.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/stackit/stackit-api/internal/config"
	"github.com/stackit/stackit-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run migrations instead of serving: up, down or status")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("failed to set up logger: %v", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"annotator_configured", cfg.LLM.GeminiAPIKey != "")

	if *migrateCmd != "" {
		if err := runMigrationCommand(cfg, *migrateCmd, appLogger); err != nil {
			log.Fatalf("migration command %q failed: %v", *migrateCmd, err)
		}
		return
	}

	app, err := newApplication(context.Background(), cfg, appLogger)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.run(context.Background()); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
