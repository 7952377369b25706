package config

import "time"

// LevelUpConfig controls experience thresholds and the upgrade offer.
type LevelUpConfig struct {
	ExpPerLevel     int            `yaml:"exp_per_level"`
	OptionsPerLevel int            `yaml:"options_per_level"`
	CommanderEvery  int            `yaml:"commander_every"` // offer a commander on every Nth level
	GoldRush        GoldRushConfig `yaml:"gold_rush"`
}

// GoldRushConfig is the gold boost handed out as an upgrade option.
type GoldRushConfig struct {
	Percentage      float64 `yaml:"percentage"`
	DurationSeconds int     `yaml:"duration_seconds"`
}

// ExpForLevel returns the experience needed to leave the given level.
func (c *Config) ExpForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return level * c.LevelUp.ExpPerLevel
}

// GetGoldRushDuration converts the configured seconds into a duration.
func (c *Config) GetGoldRushDuration() time.Duration {
	return time.Duration(c.LevelUp.GoldRush.DurationSeconds) * time.Second
}

// GetOptionsPerLevel defaults to three choices.
func (c *Config) GetOptionsPerLevel() int {
	if c.LevelUp.OptionsPerLevel <= 0 {
		return 3
	}
	return c.LevelUp.OptionsPerLevel
}
