package game

import (
	"monsterlane/internal/monster"
)

// CombatSystem resolves attacks against units and towers.
type CombatSystem struct {
	match *Match
}

// NewCombatSystem creates a new combat system
func NewCombatSystem(match *Match) *CombatSystem {
	return &CombatSystem{match: match}
}

// ResolveAttack lands one attack from attacker on target. A target that is
// already dead or gone is ignored.
func (cs *CombatSystem) ResolveAttack(attacker *monster.Unit, target monster.TargetRef) {
	m := cs.match
	if !attacker.IsAlive() || m.state != StateActive {
		return
	}
	m.attacks++

	if target.Tower {
		cs.hitTower(attacker, m.world.Tower(attacker.Team.Opponent()))
		return
	}

	victim, ok := m.world.Unit(target.Unit)
	if !ok || victim.Team == attacker.Team {
		return
	}
	victim.TakeDamage(attacker.Stats.Attack)

	// Effects only land on a target that survived the hit.
	if victim.IsAlive() {
		for _, eff := range attacker.StatusEffects {
			m.effects.apply(m.now, victim, eff)
		}
	}

	if attacker.Stats.SplashDamage && attacker.Stats.MaxTargets > 1 {
		cs.applySplashDamage(attacker, victim)
	}
}

// applySplashDamage hits up to MaxTargets-1 other units near the primary
// target for a fraction of the attack. Splash never carries status effects.
func (cs *CombatSystem) applySplashDamage(attacker, primary *monster.Unit) {
	m := cs.match
	radius := m.cfg.Combat.SplashRadius
	ratio := m.cfg.Combat.SplashDamageRatio
	if ratio <= 0 {
		ratio = 0.5
	}
	damage := attacker.Stats.Attack * ratio
	for _, u := range splashTargets(m.world, primary.Team, primary.ID, primary.X, primary.Y, radius, attacker.Stats.MaxTargets-1) {
		u.TakeDamage(damage)
	}
}

func (cs *CombatSystem) hitTower(attacker *monster.Unit, tower *monster.Tower) {
	m := cs.match
	if tower.IsDestroyed() {
		return
	}
	tower.TakeDamage(attacker.Stats.Attack)
	m.emitTowerHealth()

	if tower.Team == monster.TeamEnemy {
		m.events.push(Event{Kind: EventGold, Amount: attacker.Stats.Attack / m.cfg.Economy.TowerGoldDivisor})
		m.events.push(Event{Kind: EventScore, Amount: attacker.Stats.Attack})
	}
	m.checkTerminal()
}

// awardKill emits the player's rewards for a removed enemy unit.
func (cs *CombatSystem) awardKill(u *monster.Unit) {
	m := cs.match
	if u.Team != monster.TeamEnemy {
		return
	}
	level := float64(u.Stats.Level)
	econ := m.cfg.Economy
	m.events.push(Event{Kind: EventExperience, Amount: econ.KillExpBase + level*econ.KillExpPerLevel})
	m.events.push(Event{Kind: EventGold, Amount: econ.KillGoldBase + level*econ.KillGoldPerLevel})
}
