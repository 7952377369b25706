package monster

import (
	"math"
	"time"
)

// Stats are the combat numbers shared by templates and live units.
type Stats struct {
	Health       float64 // max health
	Attack       float64
	AttackDelay  time.Duration
	MoveSpeed    float64 // arena units per second
	AttackRange  float64
	AttackType   AttackType
	SplashDamage bool
	MaxTargets   int
	Level        int
}

// Template is the immutable definition a unit is spawned from.
type Template struct {
	Key           string
	Name          string
	Stats         Stats
	Cost          int
	Advanced      bool
	StatusEffects []StatusEffect
}

// Clone returns a copy that does not share the effect slice.
func (t Template) Clone() Template {
	t.StatusEffects = append([]StatusEffect(nil), t.StatusEffects...)
	return t
}

// TargetRef is a weak handle to whatever a unit is attacking. The zero value
// means no target. Holders must check liveness before every use.
type TargetRef struct {
	Unit  UnitID
	Tower bool
}

// None reports whether the ref points at nothing.
func (r TargetRef) None() bool {
	return r.Unit == 0 && !r.Tower
}

// UnitTarget and TowerTarget build refs.
func UnitTarget(id UnitID) TargetRef { return TargetRef{Unit: id} }
func TowerTarget() TargetRef         { return TargetRef{Tower: true} }

// Unit is a spawned monster on the field.
type Unit struct {
	ID   UnitID
	Team Team
	Key  string
	Name string

	// Stats are the effective stats; status effects modify them in place and
	// restore a snapshot when they expire.
	Stats         Stats
	StatusEffects []StatusEffect

	Health    float64
	MaxHealth float64

	X, Y float64

	Target         TargetRef
	AttackCooldown time.Duration
}

// NewUnit spawns a unit from a template with full health.
func NewUnit(id UnitID, tmpl Template, team Team, x, y float64) *Unit {
	tmpl = tmpl.Clone()
	return &Unit{
		ID:            id,
		Team:          team,
		Key:           tmpl.Key,
		Name:          tmpl.Name,
		Stats:         tmpl.Stats,
		StatusEffects: tmpl.StatusEffects,
		Health:        tmpl.Stats.Health,
		MaxHealth:     tmpl.Stats.Health,
		X:             x,
		Y:             y,
	}
}

func (u *Unit) IsAlive() bool {
	return u.Health > 0
}

// TakeDamage subtracts damage, clamping health at zero, and returns the
// amount actually removed.
func (u *Unit) TakeDamage(damage float64) float64 {
	if damage <= 0 || u.Health <= 0 {
		return 0
	}
	applied := math.Min(damage, u.Health)
	u.Health -= applied
	return applied
}

// DistanceTo measures straight-line distance to a point.
func (u *Unit) DistanceTo(x, y float64) float64 {
	return math.Hypot(x-u.X, y-u.Y)
}

// Tower is a stationary damage sink. Destroying it ends the match.
type Tower struct {
	Team      Team
	X, Y      float64
	Health    float64
	MaxHealth float64
}

func NewTower(team Team, maxHealth, x, y float64) *Tower {
	return &Tower{Team: team, X: x, Y: y, Health: maxHealth, MaxHealth: maxHealth}
}

func (t *Tower) IsDestroyed() bool {
	return t.Health <= 0
}

// TakeDamage lowers health, clamped at zero, and returns the amount removed.
func (t *Tower) TakeDamage(damage float64) float64 {
	if damage <= 0 || t.Health <= 0 {
		return 0
	}
	applied := math.Min(damage, t.Health)
	t.Health -= applied
	return applied
}
