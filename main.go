package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"monsterlane/internal/config"
	"monsterlane/internal/game"
	"monsterlane/internal/monitoring"
	"monsterlane/internal/monster"
	"monsterlane/internal/scores"
	"monsterlane/internal/session"
	"monsterlane/internal/theme"
	"monsterlane/internal/viewer"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load configuration, falling back to the embedded copy
	cfg, err := config.LoadOrDefault("config.yaml")
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Load monster configuration
	catalog, err := monster.LoadCatalog("assets/monsters.yaml")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Error("failed to load monster config", "error", err)
			os.Exit(1)
		}
		catalog = monster.DefaultCatalog()
	}

	th := theme.ForDate(time.Now())
	logger.Info("daily theme", "id", th.ID, "name", th.Name, "description", th.Description)

	store, err := scores.Open(context.Background(), cfg.Scores)
	if err != nil {
		// Matches are still playable without a leaderboard.
		logger.Warn("high scores disabled", "driver", cfg.Scores.Driver, "error", err)
		store = nil
	} else {
		defer store.Close()
		logLeaderboard(logger, store, cfg.Scores.LeaderboardSize)
	}

	player := os.Getenv("USER")
	monitor := monitoring.NewPerformanceMonitor(cfg.GetFrameDelta())
	factory := func() (*session.Session, error) {
		return session.New(session.Options{
			Config:     cfg,
			Catalog:    catalog,
			Theme:      th,
			Store:      store,
			Rand:       game.NewRand(time.Now().UnixNano()),
			Observer:   monitor,
			Logger:     logger,
			PlayerName: player,
		})
	}

	v, err := viewer.NewViewer(cfg, factory, monitor, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	ebiten.SetTPS(cfg.GetTPS())
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	if err := ebiten.RunGame(v); err != nil {
		logger.Error("game exited", "error", err)
		os.Exit(1)
	}
}

func logLeaderboard(logger *slog.Logger, store scores.Store, size int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	entries, err := store.AllTime(ctx, size)
	if err != nil {
		logger.Warn("failed to read high scores", "error", err)
		return
	}
	for i, e := range entries {
		logger.Info("high score", "rank", i+1, "player", e.PlayerName, "score", e.Score, "theme", e.ThemeID)
	}
}
