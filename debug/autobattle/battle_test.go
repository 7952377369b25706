package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"monsterlane/internal/config"
	"monsterlane/internal/game"
	"monsterlane/internal/monster"
	"monsterlane/internal/session"
	"monsterlane/internal/upgrade"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func shortMatch(seed int64) session.Options {
	cfg := config.Default()
	cfg.Match.TimeLimitSeconds = 30
	return session.Options{
		Config:  cfg,
		Catalog: monster.DefaultCatalog(),
		Rand:    game.NewRand(seed),
		Logger:  discard,
	}
}

func TestPlayMatchRunsToCompletion(t *testing.T) {
	res, err := playMatch(context.Background(), shortMatch(7), time.Second/60)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, game.OutcomeTimeExpired, res.Outcome)
	assert.Equal(t, 30*time.Second, res.PlayTime)
}

func TestPlayMatchIsDeterministicPerSeed(t *testing.T) {
	a, err := playMatch(context.Background(), shortMatch(42), time.Second/60)
	require.NoError(t, err)
	b, err := playMatch(context.Background(), shortMatch(42), time.Second/60)
	require.NoError(t, err)

	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.Level, b.Level)
	assert.Equal(t, a.Outcome, b.Outcome)
}

func TestPlayMatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := playMatch(ctx, shortMatch(1), time.Second/60)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPickUpgradePrefersCommander(t *testing.T) {
	options := []upgrade.Option{
		{Kind: upgrade.KindGoldBoost},
		{Kind: upgrade.KindUpgradeMonster},
		{Kind: upgrade.KindCommander},
	}
	assert.Equal(t, 2, pickUpgrade(options))
	assert.Equal(t, 1, pickUpgrade(options[:2]))
	assert.Equal(t, 0, pickUpgrade([]upgrade.Option{{Kind: upgrade.Kind(99)}}))
}

func TestRunWithMissingConfigUsesDefaults(t *testing.T) {
	err := run(discard, runConfig{
		configPath: filepath.Join(t.TempDir(), "missing.yaml"),
		matches:    2,
		parallel:   2,
		seed:       3,
		themeID:    "melee-rush",
	})
	require.NoError(t, err)
}

func TestRunRejectsUnknownTheme(t *testing.T) {
	err := run(discard, runConfig{
		configPath: filepath.Join(t.TempDir(), "missing.yaml"),
		matches:    1,
		themeID:    "no-such-theme",
	})
	assert.ErrorContains(t, err, "unknown theme")
}
