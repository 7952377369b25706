package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesShippedValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1000.0, cfg.Match.PlayerTowerHealth)
	assert.Equal(t, 1500.0, cfg.Match.EnemyTowerHealth)
	assert.Equal(t, time.Second, cfg.GetGoldInterval())
	assert.Equal(t, time.Minute, cfg.GetDifficultyInterval())
	assert.Equal(t, 4*time.Second, cfg.GetInitialSpawnInterval())
	assert.Equal(t, 1500*time.Millisecond, cfg.GetMinSpawnInterval())
	assert.Equal(t, 10*time.Minute, cfg.GetTimeLimit())
	assert.Equal(t, 1.3, cfg.Economy.GoldBoostMultiplier)
	assert.Equal(t, 50.0, cfg.Combat.SplashRadius)
}

func TestFrameDeltaDefaultsTo60TPS(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 60, cfg.GetTPS())
	assert.Equal(t, time.Second/60, cfg.GetFrameDelta())
}

func TestExpForLevel(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100, cfg.ExpForLevel(1))
	assert.Equal(t, 300, cfg.ExpForLevel(3))
	assert.Equal(t, 100, cfg.ExpForLevel(0))
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"zero gold interval": "economy: {gold_interval_ms: 0}",
		"spawn floor above start": `
match: {player_tower_health: 1, enemy_tower_health: 1}
economy: {gold_interval_ms: 1000, gold_boost_multiplier: 1, tower_gold_divisor: 8}
level_up: {exp_per_level: 100}
difficulty: {interval_ms: 1, initial_spawn_interval_ms: 100, min_spawn_interval_ms: 200}
combat: {poison_tick_ms: 1000}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("display: [unclosed"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadOrDefaultFallsBackWhenMissing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Match, cfg.Match)
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data, err := os.ReadFile(filepath.Join("..", "..", "assets", "config.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Monster Lane", cfg.Display.WindowTitle)
}
