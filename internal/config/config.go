package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"monsterlane/assets"

	"gopkg.in/yaml.v3"
)

// Config holds all game configuration values
type Config struct {
	Display    DisplayConfig    `yaml:"display"`
	Arena      ArenaConfig      `yaml:"arena"`
	Match      MatchConfig      `yaml:"match"`
	Economy    EconomyConfig    `yaml:"economy"`
	LevelUp    LevelUpConfig    `yaml:"level_up"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Combat     CombatConfig     `yaml:"combat"`
	Scores     ScoresConfig     `yaml:"scores"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	TPS          int    `yaml:"tps"`
}

// Point is a fixed arena coordinate.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ArenaConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	PlayerTower Point   `yaml:"player_tower"`
	EnemyTower  Point   `yaml:"enemy_tower"`
	SpawnOffset float64 `yaml:"spawn_offset"` // distance in front of the tower
	SpawnJitter float64 `yaml:"spawn_jitter"` // max vertical offset either way
}

type MatchConfig struct {
	PlayerTowerHealth float64 `yaml:"player_tower_health"`
	EnemyTowerHealth  float64 `yaml:"enemy_tower_health"`
	TimeLimitSeconds  int     `yaml:"time_limit_seconds"`
	OpeningGold       float64 `yaml:"opening_gold"`
}

type EconomyConfig struct {
	StartingGold        int     `yaml:"starting_gold"`
	GoldPerInterval     float64 `yaml:"gold_per_interval"`
	GoldIntervalMs      int     `yaml:"gold_interval_ms"`
	GoldBoostMultiplier float64 `yaml:"gold_boost_multiplier"`
	TowerGoldDivisor    float64 `yaml:"tower_gold_divisor"`
	KillGoldBase        float64 `yaml:"kill_gold_base"`
	KillGoldPerLevel    float64 `yaml:"kill_gold_per_level"`
	KillExpBase         float64 `yaml:"kill_exp_base"`
	KillExpPerLevel     float64 `yaml:"kill_exp_per_level"`
}

type DifficultyConfig struct {
	IntervalMs             int     `yaml:"interval_ms"`
	InitialSpawnIntervalMs int     `yaml:"initial_spawn_interval_ms"`
	SpawnIntervalStepMs    int     `yaml:"spawn_interval_step_ms"`
	MinSpawnIntervalMs     int     `yaml:"min_spawn_interval_ms"`
	FirstSpawnDelayMs      int     `yaml:"first_spawn_delay_ms"`
	HealthScalePerLevel    float64 `yaml:"health_scale_per_level"`
	AttackScalePerLevel    float64 `yaml:"attack_scale_per_level"`
}

type CombatConfig struct {
	SplashRadius      float64 `yaml:"splash_radius"`
	SplashDamageRatio float64 `yaml:"splash_damage_ratio"`
	PoisonTickMs      int     `yaml:"poison_tick_ms"`
}

type ScoresConfig struct {
	Driver          string `yaml:"driver"` // "file" or "postgres"
	Path            string `yaml:"path"`
	DSN             string `yaml:"dsn"`
	LeaderboardSize int    `yaml:"leaderboard_size"`
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadConfig loads the configuration from a YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Default returns the configuration embedded in the binary.
func Default() *Config {
	config, err := Parse(assets.ConfigYAML)
	if err != nil {
		panic("embedded config is invalid: " + err.Error())
	}
	return config
}

// LoadOrDefault reads filename when it exists and falls back to the embedded
// configuration otherwise.
func LoadOrDefault(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return LoadConfig(filename)
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	checks := []struct {
		ok   bool
		name string
	}{
		{c.Match.PlayerTowerHealth > 0, "match.player_tower_health"},
		{c.Match.EnemyTowerHealth > 0, "match.enemy_tower_health"},
		{c.Match.TimeLimitSeconds >= 0, "match.time_limit_seconds"},
		{c.Economy.GoldIntervalMs > 0, "economy.gold_interval_ms"},
		{c.Economy.GoldBoostMultiplier >= 1, "economy.gold_boost_multiplier"},
		{c.Economy.TowerGoldDivisor > 0, "economy.tower_gold_divisor"},
		{c.LevelUp.ExpPerLevel > 0, "level_up.exp_per_level"},
		{c.Difficulty.IntervalMs > 0, "difficulty.interval_ms"},
		{c.Difficulty.MinSpawnIntervalMs > 0, "difficulty.min_spawn_interval_ms"},
		{c.Difficulty.InitialSpawnIntervalMs >= c.Difficulty.MinSpawnIntervalMs, "difficulty.initial_spawn_interval_ms"},
		{c.Difficulty.SpawnIntervalStepMs >= 0, "difficulty.spawn_interval_step_ms"},
		{c.Difficulty.FirstSpawnDelayMs >= 0, "difficulty.first_spawn_delay_ms"},
		{c.Combat.SplashRadius >= 0, "combat.splash_radius"},
		{c.Combat.PoisonTickMs > 0, "combat.poison_tick_ms"},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: %s out of range", ErrInvalidConfig, check.name)
		}
	}
	return nil
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

// GetTPS returns the simulation ticks per second, defaulting to 60.
func (c *Config) GetTPS() int {
	if c.Display.TPS <= 0 {
		return 60
	}
	return c.Display.TPS
}

// GetFrameDelta is the simulated time covered by one host tick.
func (c *Config) GetFrameDelta() time.Duration {
	return time.Second / time.Duration(c.GetTPS())
}

func (c *Config) GetGoldInterval() time.Duration {
	return ms(c.Economy.GoldIntervalMs)
}

func (c *Config) GetDifficultyInterval() time.Duration {
	return ms(c.Difficulty.IntervalMs)
}

func (c *Config) GetInitialSpawnInterval() time.Duration {
	return ms(c.Difficulty.InitialSpawnIntervalMs)
}

func (c *Config) GetSpawnIntervalStep() time.Duration {
	return ms(c.Difficulty.SpawnIntervalStepMs)
}

func (c *Config) GetMinSpawnInterval() time.Duration {
	return ms(c.Difficulty.MinSpawnIntervalMs)
}

func (c *Config) GetFirstSpawnDelay() time.Duration {
	return ms(c.Difficulty.FirstSpawnDelayMs)
}

func (c *Config) GetPoisonTick() time.Duration {
	return ms(c.Combat.PoisonTickMs)
}

// GetTimeLimit returns zero when matches are untimed.
func (c *Config) GetTimeLimit() time.Duration {
	return time.Duration(c.Match.TimeLimitSeconds) * time.Second
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
