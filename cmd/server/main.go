package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/propmgr/internal/app"
	"github.com/nfrund/propmgr/internal/config"
	"github.com/nfrund/propmgr/internal/logging"
	"github.com/nfrund/propmgr/internal/server"
)

func main() {
	logger := logging.New()
	if err := run(logger); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	ctx := context.Background()
	a := app.New(ctx, cfg, logger)
	defer a.Close(ctx)

	s, err := server.FromApp(a)
	if err != nil {
		return err
	}
	return s.Start(ctx, cfg.GetServerAddr())
}
