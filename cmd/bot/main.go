package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"nfl_bot/internal/bot"
	"nfl_bot/internal/config"
	"nfl_bot/internal/digest"
	"nfl_bot/internal/fetcher"
	"nfl_bot/internal/scheduler"
	"nfl_bot/internal/storage"
	"nfl_bot/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	dig := digest.New(fetcher.New(http.DefaultClient, log), store, log)

	b, err := bot.New(cfg.TelegramBotToken, store, dig, cfg.DefaultFeeds, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(store, dig, b, cfg.DefaultFeeds, cfg.PollInterval(), cfg.SeenTTL(), log)
	b.SetStatusProvider(sched)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting bot", "poll_interval", cfg.PollInterval(), "default_feeds", len(cfg.DefaultFeeds))

	if cfg.HealthAddr != "" {
		srv := web.New(sched, log)
		go func() {
			if err := srv.Run(ctx, cfg.HealthAddr); err != nil {
				log.Error("health server", "error", err)
			}
		}()
	}

	go sched.Run(ctx)

	b.Run(ctx)

	log.Info("bot stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
