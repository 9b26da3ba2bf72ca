package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/internal/config"
	"github.com/meikuraledutech/workflow/postgres"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Prefix:          "workflow",
	})

	cfg, err := config.Load(os.Getenv("WORKFLOW_CONFIG"))
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	logger.SetLevel(cfg.Level())

	var repo workflow.Repository
	if cfg.Database.URL != "" {
		ctx := context.Background()
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			logger.Fatal("connect", "err", err)
		}
		defer pool.Close()

		store := postgres.New(pool)
		if err := store.CreateSchema(ctx); err != nil {
			logger.Fatal("schema", "err", err)
		}
		repo = store
		logger.Info("document archive enabled")
	}

	app := newApp(cfg.Registry(), repo, logger)

	logger.Info("listening", "addr", cfg.Server.Addr, "components", cfg.Registry().Len())
	if err := app.Listen(cfg.Server.Addr); err != nil {
		logger.Fatal("listen", "err", err)
	}
}
