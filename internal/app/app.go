// Package app wires configuration into the long-lived services both
// binaries share: logging, content, persistence.
package app

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/railshooter/internal/config"
	"github.com/tomz197/railshooter/internal/content"
	"github.com/tomz197/railshooter/internal/draw"
	"github.com/tomz197/railshooter/internal/loop"
	"github.com/tomz197/railshooter/internal/store"
)

// NewLogger builds the root logger.
func NewLogger(w io.Writer, cfg config.Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           cfg.LogLevel(),
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "railshooter",
	})
}

// App holds the services shared by every game session.
type App struct {
	Config   config.Config
	Logger   *log.Logger
	Library  *content.Library
	Backend  store.Backend
	Recorder store.RunRecorder

	cancel  context.CancelFunc
	watcher *content.Watcher
}

// Setup loads content, connects storage and starts the content watcher when
// enabled.
func Setup(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, error) {
	lib, err := content.NewLibrary(cfg.Content.Dir)
	if err != nil {
		return nil, err
	}

	backend, recorder, err := store.Open(ctx, store.Options{
		Backend: cfg.Store.Backend,
		Redis: store.RedisOptions{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		},
		PostgresDSN: cfg.Store.Postgres.DSN,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("store ready", "backend", cfg.Store.Backend, "history", cfg.Store.Postgres.DSN != "")

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Library:  lib,
		Backend:  backend,
		Recorder: recorder,
		cancel:   func() {},
	}

	if cfg.Content.Watch {
		w, err := content.NewWatcher(cfg.Content.Dir)
		if err != nil {
			logger.Warn("content watch disabled", "dir", cfg.Content.Dir, "err", err)
			return a, nil
		}
		watchCtx, cancel := context.WithCancel(ctx)
		a.watcher = w
		a.cancel = cancel
		go lib.Watch(watchCtx, w, logger.With("component", "content"))
		logger.Info("watching content", "dir", cfg.Content.Dir)
	}
	return a, nil
}

// GameOptions returns loop options for one player.
func (a *App) GameOptions(profile string, size draw.TermSizeFunc) loop.Options {
	return loop.Options{
		Profile:      profile,
		Library:      a.Library,
		Store:        a.Backend,
		Leaderboard:  a.Backend,
		Recorder:     a.Recorder,
		TermSizeFunc: size,
		Logger:       a.Logger.With("component", "game"),
		Seed:         a.Config.Game.Seed,
	}
}

// Close stops the watcher and closes storage.
func (a *App) Close() {
	a.cancel()
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.Logger.Warn("close content watcher", "err", err)
		}
	}
	if err := store.CloseRecorder(a.Recorder); err != nil {
		a.Logger.Warn("close run history", "err", err)
	}
	if err := a.Backend.Close(); err != nil {
		a.Logger.Warn("close store", "err", err)
	}
}
