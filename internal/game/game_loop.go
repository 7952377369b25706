package game

import (
	"math"
	"time"

	"monsterlane/internal/monster"
)

// GameLoop runs one simulation step per host frame.
type GameLoop struct {
	match *Match
}

// NewGameLoop creates a new game loop manager
func NewGameLoop(match *Match) *GameLoop {
	return &GameLoop{match: match}
}

// Update advances the match by delta. Once the match has ended it does nothing.
func (gl *GameLoop) Update(delta time.Duration) {
	m := gl.match
	if m.state != StateActive || delta < 0 {
		return
	}
	start := time.Now()
	attacksBefore := m.attacks

	m.now += delta
	m.drainCommands()
	if m.state != StateActive {
		return
	}

	gl.updateGold(delta)
	m.spawner.updateDifficulty(m.now)
	m.spawner.updateSpawns(m.now)
	m.effects.advance(m.now)

	gl.updateUnits(delta)
	if m.state == StateActive {
		gl.removeDeadUnits()
		m.checkTerminal()
	}

	if m.observer != nil {
		live := m.world.Count(monster.TeamPlayer) + m.world.Count(monster.TeamEnemy)
		m.observer.ObserveTick(time.Since(start), live, m.attacks-attacksBefore)
	}
}

// updateGold pays passive gold for every elapsed interval, boosted while the
// boost window is open, then runs the window down.
func (gl *GameLoop) updateGold(delta time.Duration) {
	m := gl.match
	econ := m.cfg.Economy
	interval := m.cfg.GetGoldInterval()
	for m.now >= m.goldDeadline {
		amount := econ.GoldPerInterval
		if m.boostRemaining > 0 {
			amount *= econ.GoldBoostMultiplier
		}
		m.events.push(Event{Kind: EventGold, Amount: amount})
		m.goldDeadline += interval
	}

	if m.boostRemaining > 0 {
		m.boostRemaining -= delta
		if m.boostRemaining < 0 {
			m.boostRemaining = 0
		}
	}
}

// updateUnits gives every live unit its turn in spawn order: acquire a target,
// then attack if in range or walk toward it.
func (gl *GameLoop) updateUnits(delta time.Duration) {
	m := gl.match
	seconds := delta.Seconds()

	for _, u := range m.world.units {
		if m.state != StateActive {
			return
		}
		if !u.IsAlive() {
			continue
		}

		u.AttackCooldown -= delta
		if u.AttackCooldown < 0 {
			u.AttackCooldown = 0
		}

		if !m.world.validTarget(u) {
			opponent := u.Team.Opponent()
			u.Target = SelectTarget(u, m.world.LiveUnits(opponent), m.world.Tower(opponent))
		}
		tx, ty, ok := m.world.targetPosition(u.Team, u.Target)
		if !ok {
			u.Target = monster.TargetRef{}
			continue
		}

		dist := u.DistanceTo(tx, ty)
		if dist <= u.Stats.AttackRange {
			if u.AttackCooldown <= 0 {
				m.combat.ResolveAttack(u, u.Target)
				u.AttackCooldown = u.Stats.AttackDelay
			}
			continue
		}

		step := math.Min(u.Stats.MoveSpeed*seconds, dist)
		angle := math.Atan2(ty-u.Y, tx-u.X)
		u.X += math.Cos(angle) * step
		u.Y += math.Sin(angle) * step
	}
}

// removeDeadUnits purges dead units and pays out enemy kills.
func (gl *GameLoop) removeDeadUnits() {
	m := gl.match
	for _, u := range m.world.removeDead() {
		m.effects.forget(u.ID)
		m.events.push(Event{Kind: EventUnitDied, Unit: u.ID, Team: u.Team, Key: u.Key, X: u.X, Y: u.Y})
		m.combat.awardKill(u)
	}
}
