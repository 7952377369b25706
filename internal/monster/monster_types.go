package monster

import "time"

// UnitID identifies a spawned unit. IDs grow with spawn order, so comparing
// them orders units from earliest to latest spawn.
type UnitID uint64

type Team int

const (
	TeamPlayer Team = iota
	TeamEnemy
)

// Opponent returns the other side.
func (t Team) Opponent() Team {
	if t == TeamPlayer {
		return TeamEnemy
	}
	return TeamPlayer
}

func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

type AttackType string

const (
	AttackMelee  AttackType = "melee"
	AttackRanged AttackType = "ranged"
)

type EffectKind string

const (
	EffectSlow   EffectKind = "slow"
	EffectPoison EffectKind = "poison"
	EffectShock  EffectKind = "shock"
	// EffectReflect is accepted by the catalog but has no behaviour yet.
	EffectReflect EffectKind = "reflect"
	// Commander skills.
	EffectHaste   EffectKind = "haste"
	EffectFortify EffectKind = "fortify"
)

func (k EffectKind) valid() bool {
	switch k {
	case EffectSlow, EffectPoison, EffectShock, EffectReflect, EffectHaste, EffectFortify:
		return true
	}
	return false
}

// StatusEffect is an on-hit modifier. Magnitude is a percentage for slow,
// haste and fortify, and flat damage for poison and shock.
type StatusEffect struct {
	Kind      EffectKind
	Magnitude float64
	Duration  time.Duration
}

type SkillEffect string

const (
	SkillAttackSpeedBoost SkillEffect = "attack_speed_boost"
	SkillSlowEnemies      SkillEffect = "slow_enemies"
	SkillHealthBoost      SkillEffect = "health_boost"
)

// Skill is a commander's active ability.
type Skill struct {
	Name        string
	Description string
	Effect      SkillEffect
	Magnitude   float64
	Duration    time.Duration
	Cooldown    time.Duration
}

// Commander grants a passive attack bonus to summoned player units and one skill.
type Commander struct {
	Key         string
	Name        string
	AttackBoost float64 // percent
	Skill       Skill
}
