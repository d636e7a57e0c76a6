package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Faseeh06/music-app-sub000/internal/app"
	"github.com/Faseeh06/music-app-sub000/internal/config"
	"github.com/Faseeh06/music-app-sub000/internal/log"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.yaml")
		addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
	)
	flag.Parse()

	bootLog := log.New("info", "console")

	cfg, path, err := config.Load(bootLog, *configPath)
	if err != nil {
		bootLog.Fatal().Err(err).Str("path", path).Msg("failed to load config")
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger := log.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, logger)

	logger.Info().Str("addr", cfg.Addr).Str("config", path).Msg("starting practice room server")
	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
