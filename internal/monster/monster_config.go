package monster

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"monsterlane/assets"

	"gopkg.in/yaml.v3"
)

// EffectDefinition is a status effect as written in YAML.
type EffectDefinition struct {
	Kind       string  `yaml:"kind"`
	Magnitude  float64 `yaml:"magnitude"`
	DurationMs int     `yaml:"duration_ms"`
}

// MonsterDefinition holds the configuration for a monster type from YAML
type MonsterDefinition struct {
	Name          string             `yaml:"name"`
	Health        float64            `yaml:"health"`
	Attack        float64            `yaml:"attack"`
	AttackDelayMs int                `yaml:"attack_delay_ms"`
	MoveSpeed     float64            `yaml:"move_speed"`
	AttackRange   float64            `yaml:"attack_range"`
	AttackType    string             `yaml:"attack_type"`
	SplashDamage  bool               `yaml:"splash_damage"`
	MaxTargets    int                `yaml:"max_targets"`
	Cost          int                `yaml:"cost"`
	Level         int                `yaml:"level"`
	Advanced      bool               `yaml:"advanced"`
	StatusEffects []EffectDefinition `yaml:"status_effects"`
}

// EnemyDefinition describes how enemy units are derived from player templates.
type EnemyDefinition struct {
	Pool             []string `yaml:"pool"`
	HealthMultiplier float64  `yaml:"health_multiplier"`
	AttackMultiplier float64  `yaml:"attack_multiplier"`
	SpeedMultiplier  float64  `yaml:"speed_multiplier"`
	DelayMultiplier  float64  `yaml:"delay_multiplier"`
}

type SkillDefinition struct {
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description"`
	Effect          string  `yaml:"effect"`
	Magnitude       float64 `yaml:"magnitude"`
	DurationMs      int     `yaml:"duration_ms"`
	CooldownSeconds int     `yaml:"cooldown_seconds"`
}

type CommanderDefinition struct {
	Name        string          `yaml:"name"`
	AttackBoost float64         `yaml:"attack_boost"`
	Skill       SkillDefinition `yaml:"skill"`
}

// MonsterYAMLConfig holds the complete monster configuration from YAML
type MonsterYAMLConfig struct {
	Monsters   map[string]MonsterDefinition   `yaml:"monsters"`
	Enemies    EnemyDefinition                `yaml:"enemies"`
	Commanders map[string]CommanderDefinition `yaml:"commanders"`
}

// EnemyKeyPrefix marks templates derived for the enemy side.
const EnemyKeyPrefix = "enemy_"

var ErrUnknownTemplate = errors.New("unknown monster template")

// Catalog is the validated, immutable set of templates for a match.
type Catalog struct {
	templates  map[string]Template
	playerKeys []string
	enemyKeys  []string
	commanders map[string]Commander
}

// validateMonsterConfiguration checks every definition before templates are built
func validateMonsterConfiguration(config *MonsterYAMLConfig) error {
	var problems []string

	for key, def := range config.Monsters {
		if def.Health <= 0 {
			problems = append(problems, fmt.Sprintf("monster '%s': health must be positive", key))
		}
		if def.MaxTargets < 1 {
			problems = append(problems, fmt.Sprintf("monster '%s': max_targets must be at least 1", key))
		}
		if def.AttackDelayMs <= 0 {
			problems = append(problems, fmt.Sprintf("monster '%s': attack_delay_ms must be positive", key))
		}
		switch AttackType(def.AttackType) {
		case AttackMelee, AttackRanged:
		default:
			problems = append(problems, fmt.Sprintf("monster '%s': unknown attack_type '%s'", key, def.AttackType))
		}
		for _, eff := range def.StatusEffects {
			if !EffectKind(eff.Kind).valid() {
				problems = append(problems, fmt.Sprintf("monster '%s': unknown status effect '%s'", key, eff.Kind))
			}
		}
	}

	if len(config.Enemies.Pool) == 0 {
		problems = append(problems, "enemies.pool is empty")
	}
	for _, key := range config.Enemies.Pool {
		if _, ok := config.Monsters[key]; !ok {
			problems = append(problems, fmt.Sprintf("enemies.pool references unknown monster '%s'", key))
		}
	}

	for key, cmd := range config.Commanders {
		switch SkillEffect(cmd.Skill.Effect) {
		case SkillAttackSpeedBoost, SkillSlowEnemies, SkillHealthBoost:
		default:
			problems = append(problems, fmt.Sprintf("commander '%s': unknown skill effect '%s'", key, cmd.Skill.Effect))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("monster configuration conflicts detected:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}

// ParseCatalog decodes, validates and builds a catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var config MonsterYAMLConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse monster config YAML: %w", err)
	}
	if err := validateMonsterConfiguration(&config); err != nil {
		return nil, err
	}
	return buildCatalog(&config), nil
}

// LoadCatalog loads monster configuration from YAML file
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read monster config file: %w", err)
	}
	return ParseCatalog(data)
}

// MustLoadCatalog loads monster configuration and panics on error
func MustLoadCatalog(filename string) *Catalog {
	catalog, err := LoadCatalog(filename)
	if err != nil {
		panic("Failed to load monster config: " + err.Error())
	}
	return catalog
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	catalog, err := ParseCatalog(assets.MonstersYAML)
	if err != nil {
		panic("embedded monster catalog is invalid: " + err.Error())
	}
	return catalog
}

func buildCatalog(config *MonsterYAMLConfig) *Catalog {
	c := &Catalog{
		templates:  make(map[string]Template, len(config.Monsters)*2),
		commanders: make(map[string]Commander, len(config.Commanders)),
	}

	for key, def := range config.Monsters {
		c.templates[key] = templateFromDefinition(key, def)
		c.playerKeys = append(c.playerKeys, key)
	}
	sort.Slice(c.playerKeys, func(i, j int) bool {
		a, b := c.templates[c.playerKeys[i]], c.templates[c.playerKeys[j]]
		if a.Advanced != b.Advanced {
			return !a.Advanced
		}
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		return a.Key < b.Key
	})

	for _, key := range config.Enemies.Pool {
		enemy := deriveEnemy(c.templates[key], config.Enemies)
		c.templates[enemy.Key] = enemy
		c.enemyKeys = append(c.enemyKeys, enemy.Key)
	}

	for key, def := range config.Commanders {
		c.commanders[key] = Commander{
			Key:         key,
			Name:        def.Name,
			AttackBoost: def.AttackBoost,
			Skill: Skill{
				Name:        def.Skill.Name,
				Description: def.Skill.Description,
				Effect:      SkillEffect(def.Skill.Effect),
				Magnitude:   def.Skill.Magnitude,
				Duration:    time.Duration(def.Skill.DurationMs) * time.Millisecond,
				Cooldown:    time.Duration(def.Skill.CooldownSeconds) * time.Second,
			},
		}
	}
	return c
}

func templateFromDefinition(key string, def MonsterDefinition) Template {
	level := def.Level
	if level < 1 {
		level = 1
	}
	effects := make([]StatusEffect, 0, len(def.StatusEffects))
	for _, eff := range def.StatusEffects {
		effects = append(effects, StatusEffect{
			Kind:      EffectKind(eff.Kind),
			Magnitude: eff.Magnitude,
			Duration:  time.Duration(eff.DurationMs) * time.Millisecond,
		})
	}
	return Template{
		Key:  key,
		Name: def.Name,
		Stats: Stats{
			Health:       def.Health,
			Attack:       def.Attack,
			AttackDelay:  time.Duration(def.AttackDelayMs) * time.Millisecond,
			MoveSpeed:    def.MoveSpeed,
			AttackRange:  def.AttackRange,
			AttackType:   AttackType(def.AttackType),
			SplashDamage: def.SplashDamage,
			MaxTargets:   def.MaxTargets,
			Level:        level,
		},
		Cost:          def.Cost,
		Advanced:      def.Advanced,
		StatusEffects: effects,
	}
}

// deriveEnemy weakens a player template for the enemy side.
func deriveEnemy(base Template, def EnemyDefinition) Template {
	enemy := base.Clone()
	enemy.Key = EnemyKeyPrefix + base.Key
	enemy.Stats.Health = base.Stats.Health * orOne(def.HealthMultiplier)
	enemy.Stats.Attack = base.Stats.Attack * orOne(def.AttackMultiplier)
	enemy.Stats.MoveSpeed = base.Stats.MoveSpeed * orOne(def.SpeedMultiplier)
	enemy.Stats.AttackDelay = time.Duration(float64(base.Stats.AttackDelay) * orOne(def.DelayMultiplier))
	return enemy
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Template returns the template stored under key.
func (c *Catalog) Template(key string) (Template, error) {
	tmpl, ok := c.templates[key]
	if !ok {
		return Template{}, fmt.Errorf("%w: '%s'", ErrUnknownTemplate, key)
	}
	return tmpl.Clone(), nil
}

// PlayerKeys lists summonable templates, basic ones first, cheapest first.
func (c *Catalog) PlayerKeys() []string {
	return append([]string(nil), c.playerKeys...)
}

// BasicKeys lists the player templates available without unlocking.
func (c *Catalog) BasicKeys() []string {
	var keys []string
	for _, key := range c.playerKeys {
		if !c.templates[key].Advanced {
			keys = append(keys, key)
		}
	}
	return keys
}

// AdvancedKeys lists the templates that must be unlocked first.
func (c *Catalog) AdvancedKeys() []string {
	var keys []string
	for _, key := range c.playerKeys {
		if c.templates[key].Advanced {
			keys = append(keys, key)
		}
	}
	return keys
}

// EnemyKeys lists the enemy spawn pool in declaration order.
func (c *Catalog) EnemyKeys() []string {
	return append([]string(nil), c.enemyKeys...)
}

// Commander looks up a commander by key.
func (c *Catalog) Commander(key string) (Commander, bool) {
	cmd, ok := c.commanders[key]
	return cmd, ok
}

// Commanders returns every commander sorted by key.
func (c *Catalog) Commanders() []Commander {
	out := make([]Commander, 0, len(c.commanders))
	for _, cmd := range c.commanders {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
