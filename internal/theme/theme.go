// Package theme picks the daily theme: one of a fixed set of presets chosen
// deterministically from the calendar date.
package theme

import (
	"math"
	"strings"
	"time"

	"monsterlane/internal/monster"
)

// Group names the templates a theme boosts: an attack type, a template key,
// or every template.
type Group string

const (
	GroupMelee  Group = "melee"
	GroupRanged Group = "ranged"
	GroupAll    Group = "all"
)

// Boosts are percentage changes. A negative AttackDelay makes units attack faster.
type Boosts struct {
	Attack      float64
	Health      float64
	MoveSpeed   float64
	AttackDelay float64
}

type Theme struct {
	ID             string
	Name           string
	Description    string
	Boost          Group
	Stats          Boosts
	SpecialEffects []string // flavour text only
}

var themes = []Theme{
	{
		ID:             "melee-rush",
		Name:           "Melee Rush",
		Description:    "Melee monsters are more common and have increased attack power.",
		Boost:          GroupMelee,
		Stats:          Boosts{Attack: 20},
		SpecialEffects: []string{"Melee monsters have 10% chance to stun on hit"},
	},
	{
		ID:             "ranged-dominance",
		Name:           "Ranged Dominance",
		Description:    "Ranged monsters are more common and attack faster.",
		Boost:          GroupRanged,
		Stats:          Boosts{AttackDelay: -10},
		SpecialEffects: []string{"Ranged attacks have 15% chance to slow targets"},
	},
	{
		ID:             "tank-fortress",
		Name:           "Tank Fortress",
		Description:    "Tank monsters are more common and have increased health.",
		Boost:          "tank",
		Stats:          Boosts{Health: 30},
		SpecialEffects: []string{"Tank monsters regenerate 1% health per second"},
	},
	{
		ID:             "speed-demons",
		Name:           "Speed Demons",
		Description:    "Fast monsters are more common and have increased movement speed.",
		Boost:          "fast",
		Stats:          Boosts{MoveSpeed: 25},
		SpecialEffects: []string{"Fast monsters have 20% chance to dodge attacks"},
	},
	{
		ID:             "poison-plague",
		Name:           "Poison Plague",
		Description:    "Monsters have a chance to apply poison effects.",
		Boost:          GroupAll,
		SpecialEffects: []string{"All monsters have 25% chance to poison targets", "Poison deals 2% max health per second"},
	},
}

// All returns every preset in selection order.
func All() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// ForDate returns the theme for the calendar day of t in t's location.
func ForDate(t time.Time) Theme {
	seed := t.Year()*10000 + int(t.Month())*100 + t.Day()
	return themes[seed%len(themes)]
}

// ByID looks a preset up by its id.
func ByID(id string) (Theme, bool) {
	for _, th := range themes {
		if th.ID == id {
			return th, true
		}
	}
	return Theme{}, false
}

// Matches reports whether tmpl belongs to the boosted group. Enemy templates
// match by their base key.
func (th Theme) Matches(tmpl monster.Template) bool {
	switch th.Boost {
	case GroupAll:
		return true
	case GroupMelee:
		return tmpl.Stats.AttackType == monster.AttackMelee
	case GroupRanged:
		return tmpl.Stats.AttackType == monster.AttackRanged
	default:
		return strings.TrimPrefix(tmpl.Key, monster.EnemyKeyPrefix) == string(th.Boost)
	}
}

// Apply returns tmpl with the theme's stat boosts when it is in the boosted group.
func (th Theme) Apply(tmpl monster.Template) monster.Template {
	if !th.Matches(tmpl) {
		return tmpl
	}
	s := &tmpl.Stats
	s.Attack *= 1 + th.Stats.Attack/100
	s.Health *= 1 + th.Stats.Health/100
	s.MoveSpeed *= 1 + th.Stats.MoveSpeed/100
	s.AttackDelay = time.Duration(math.Round(float64(s.AttackDelay) * (1 + th.Stats.AttackDelay/100)))
	return tmpl
}

// EnemyWeight doubles the spawn weight of boosted enemies. A theme that
// boosts everything leaves the pool uniform.
func (th Theme) EnemyWeight(tmpl monster.Template) float64 {
	if th.Boost != GroupAll && th.Matches(tmpl) {
		return 2
	}
	return 1
}
