// Package upgrade generates the choices offered when the player levels up.
package upgrade

import (
	"fmt"
	"time"

	"monsterlane/internal/config"
	"monsterlane/internal/game"
	"monsterlane/internal/monster"
)

type Kind int

const (
	KindUnlockMonster Kind = iota
	KindUpgradeMonster
	KindCommander
	KindGoldBoost
)

func (k Kind) String() string {
	switch k {
	case KindUnlockMonster:
		return "unlock"
	case KindUpgradeMonster:
		return "upgrade"
	case KindCommander:
		return "commander"
	case KindGoldBoost:
		return "gold_boost"
	default:
		return "unknown"
	}
}

// Option is one level-up choice.
type Option struct {
	ID          string
	Kind        Kind
	Name        string
	Description string

	// MonsterKey is the template to unlock or upgrade; empty upgrades all.
	MonsterKey string
	Boost      game.StatBoost

	Commander monster.Commander

	GoldPercentage float64
	GoldDuration   time.Duration
}

const (
	unlockChance  = 0.7
	upgradeChance = 0.8
)

type statBoost struct {
	stat  string
	name  string
	desc  string
	boost game.StatBoost
}

var statBoosts = []statBoost{
	{"attack", "Attack Boost", "Increase %s's attack by 10", game.StatBoost{Attack: 10}},
	{"health", "Health Boost", "Increase %s's health by 30", game.StatBoost{Health: 30}},
	{"moveSpeed", "Speed Boost", "Increase %s's movement speed by 20", game.StatBoost{MoveSpeed: 20}},
	{"attackDelay", "Attack Speed", "Decrease %s's attack delay by 0.1s", game.StatBoost{AttackDelay: -100 * time.Millisecond}},
}

// Generator draws upgrade options from the catalog.
type Generator struct {
	cfg     *config.Config
	catalog *monster.Catalog
	rng     game.Rand
}

func NewGenerator(cfg *config.Config, catalog *monster.Catalog, rng game.Rand) *Generator {
	return &Generator{cfg: cfg, catalog: catalog, rng: rng}
}

// Options returns the shuffled choices for a player at level with the given
// unlocked roster.
func (g *Generator) Options(level int, roster []string) []Option {
	var options []Option

	unlocked := make(map[string]bool, len(roster))
	for _, key := range roster {
		unlocked[key] = true
	}
	var locked []string
	for _, key := range g.catalog.AdvancedKeys() {
		if !unlocked[key] {
			locked = append(locked, key)
		}
	}

	if len(locked) > 0 && g.rng.Float64() < unlockChance {
		key := locked[g.rng.Intn(len(locked))]
		tmpl, _ := g.catalog.Template(key)
		options = append(options, Option{
			ID:          "new_monster_" + key,
			Kind:        KindUnlockMonster,
			Name:        "Unlock " + tmpl.Name,
			Description: fmt.Sprintf("Allows you to summon %s units", tmpl.Name),
			MonsterKey:  key,
		})
	}

	if len(roster) > 0 && g.rng.Float64() < upgradeChance {
		key := roster[g.rng.Intn(len(roster))]
		tmpl, _ := g.catalog.Template(key)
		sb := statBoosts[g.rng.Intn(len(statBoosts))]
		options = append(options, Option{
			ID:          fmt.Sprintf("upgrade_monster_%s_%s", key, sb.stat),
			Kind:        KindUpgradeMonster,
			Name:        sb.name,
			Description: fmt.Sprintf(sb.desc, tmpl.Name),
			MonsterKey:  key,
			Boost:       sb.boost,
		})
	}

	if every := g.cfg.LevelUp.CommanderEvery; every > 0 && level%every == 0 {
		if commanders := g.catalog.Commanders(); len(commanders) > 0 {
			c := commanders[g.rng.Intn(len(commanders))]
			options = append(options, Option{
				ID:          "commander_" + c.Key,
				Kind:        KindCommander,
				Name:        "Recruit " + c.Name,
				Description: c.Skill.Description,
				Commander:   c,
			})
		}
	}

	rush := g.cfg.LevelUp.GoldRush
	options = append(options, Option{
		ID:             "gold_boost",
		Kind:           KindGoldBoost,
		Name:           "Gold Rush",
		Description:    fmt.Sprintf("Increase gold generation by %.0f%% for %d seconds", rush.Percentage, rush.DurationSeconds),
		GoldPercentage: rush.Percentage,
		GoldDuration:   g.cfg.GetGoldRushDuration(),
	})

	want := g.cfg.GetOptionsPerLevel()
	for i := 0; len(options) < want; i++ {
		options = append(options, Option{
			ID:          fmt.Sprintf("global_attack_boost_%d", i),
			Kind:        KindUpgradeMonster,
			Name:        "Global Attack",
			Description: "Increase all monsters' attack by 5",
			Boost:       game.StatBoost{Attack: 5},
		})
	}

	g.shuffle(options)
	return options[:want]
}

// shuffle is a Fisher-Yates shuffle over the injected source.
func (g *Generator) shuffle(options []Option) {
	for i := len(options) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		options[i], options[j] = options[j], options[i]
	}
}
