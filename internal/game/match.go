package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"monsterlane/internal/config"
	"monsterlane/internal/monster"

	"github.com/google/uuid"
)

var (
	ErrMatchOver   = errors.New("match is over")
	ErrInvalidTeam = errors.New("invalid team")
)

type State int

const (
	StateActive State = iota
	StateEnded
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "ended"
}

// Outcome is how a match ended. Time expiry is a loss without a winner.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeTimeExpired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeTimeExpired:
		return "time_expired"
	default:
		return "none"
	}
}

// TemplateModifier adjusts templates when a match is set up. The daily theme
// implements it.
type TemplateModifier interface {
	Apply(tmpl monster.Template) monster.Template
	EnemyWeight(tmpl monster.Template) float64
}

// TickObserver receives per-tick statistics.
type TickObserver interface {
	ObserveTick(elapsed time.Duration, liveUnits int, attacks uint64)
}

const minAttackDelay = 100 * time.Millisecond

// StatBoost is a permanent upgrade to a player template.
type StatBoost struct {
	Attack      float64
	Health      float64
	MoveSpeed   float64
	AttackDelay time.Duration // added; negative makes the unit faster
}

// Options configure a new match. Config and Catalog are required.
type Options struct {
	Config   *config.Config
	Catalog  *monster.Catalog
	Rand     Rand
	Modifier TemplateModifier
	Observer TickObserver
}

// Match is the simulation aggregate: the world, its timers and the terminal
// latch. Tick and every read accessor must be called from one goroutine;
// the command methods may be called from any goroutine.
type Match struct {
	ID uuid.UUID

	cfg      *config.Config
	catalog  *monster.Catalog
	rng      Rand
	modifier TemplateModifier
	observer TickObserver

	world   *World
	effects *effectEngine
	combat  *CombatSystem
	spawner *Spawner
	loop    *GameLoop
	events  eventQueue

	known        map[string]monster.Team // immutable after NewMatch
	playerRoster map[string]monster.Template
	enemyRoster  map[string]monster.Template
	enemyKeys    []string
	attackBoost  float64

	now            time.Duration
	goldDeadline   time.Duration
	boostRemaining time.Duration
	attacks        uint64

	state   State
	outcome Outcome

	mu    sync.Mutex
	inbox []command
}

// NewMatch builds a match in the Active state and queues the opening gold.
func NewMatch(opts Options) (*Match, error) {
	if opts.Config == nil || opts.Catalog == nil {
		return nil, errors.New("game: config and catalog are required")
	}
	cfg := opts.Config
	rng := opts.Rand
	if rng == nil {
		rng = NewRand(time.Now().UnixNano())
	}

	arena := cfg.Arena
	world := NewWorld(
		monster.NewTower(monster.TeamPlayer, cfg.Match.PlayerTowerHealth, arena.PlayerTower.X, arena.PlayerTower.Y),
		monster.NewTower(monster.TeamEnemy, cfg.Match.EnemyTowerHealth, arena.EnemyTower.X, arena.EnemyTower.Y),
	)

	m := &Match{
		ID:           uuid.New(),
		cfg:          cfg,
		catalog:      opts.Catalog,
		rng:          rng,
		modifier:     opts.Modifier,
		observer:     opts.Observer,
		world:        world,
		known:        make(map[string]monster.Team),
		playerRoster: make(map[string]monster.Template),
		enemyRoster:  make(map[string]monster.Template),
		goldDeadline: cfg.GetGoldInterval(),
	}
	m.effects = newEffectEngine(world, &m.events, cfg.GetPoisonTick())
	m.combat = NewCombatSystem(m)
	m.spawner = NewSpawner(m)
	m.loop = NewGameLoop(m)

	for _, key := range opts.Catalog.PlayerKeys() {
		tmpl, err := opts.Catalog.Template(key)
		if err != nil {
			return nil, err
		}
		m.playerRoster[key] = m.modify(tmpl)
		m.known[key] = monster.TeamPlayer
	}
	for _, key := range opts.Catalog.EnemyKeys() {
		tmpl, err := opts.Catalog.Template(key)
		if err != nil {
			return nil, err
		}
		m.enemyRoster[key] = m.modify(tmpl)
		m.enemyKeys = append(m.enemyKeys, key)
		m.known[key] = monster.TeamEnemy
	}

	if cfg.Match.OpeningGold > 0 {
		m.events.push(Event{Kind: EventGold, Amount: cfg.Match.OpeningGold})
	}
	m.emitTowerHealth()
	return m, nil
}

func (m *Match) modify(tmpl monster.Template) monster.Template {
	if m.modifier == nil {
		return tmpl
	}
	return m.modifier.Apply(tmpl)
}

// Tick advances the simulation by delta.
func (m *Match) Tick(delta time.Duration) {
	m.loop.Update(delta)
}

// DrainEvents returns and clears everything emitted since the last drain.
func (m *Match) DrainEvents() []Event {
	return m.events.drain()
}

type commandKind int

const (
	cmdSpawn commandKind = iota
	cmdGoldBoost
	cmdSkill
	cmdDivineWrath
	cmdExpire
	cmdUpgrade
	cmdAttackBoost
)

type command struct {
	kind     commandKind
	team     monster.Team
	key      string
	duration time.Duration
	skill    monster.Skill
	boost    StatBoost
	percent  float64
}

func (m *Match) enqueue(c command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return ErrMatchOver
	}
	m.inbox = append(m.inbox, c)
	return nil
}

// RequestSpawn queues a unit for team. Unknown keys are rejected before
// anything is queued.
func (m *Match) RequestSpawn(team monster.Team, key string) error {
	if team != monster.TeamPlayer && team != monster.TeamEnemy {
		return fmt.Errorf("%w: %d", ErrInvalidTeam, team)
	}
	if owner, ok := m.known[key]; !ok || owner != team {
		return fmt.Errorf("%w: '%s'", monster.ErrUnknownTemplate, key)
	}
	return m.enqueue(command{kind: cmdSpawn, team: team, key: key})
}

// ActivateGoldBoost opens a gold boost window. The multiplier comes from the
// economy config; percentage is accepted for interface compatibility only.
func (m *Match) ActivateGoldBoost(percentage float64, duration time.Duration) error {
	return m.enqueue(command{kind: cmdGoldBoost, duration: duration})
}

// UseSkill applies a commander skill to every live unit it affects.
func (m *Match) UseSkill(skill monster.Skill) error {
	return m.enqueue(command{kind: cmdSkill, skill: skill})
}

// DivineWrath destroys every live enemy unit; rewards are paid as usual.
func (m *Match) DivineWrath() error {
	return m.enqueue(command{kind: cmdDivineWrath})
}

// Expire ends the match on the next tick as a timed-out loss.
func (m *Match) Expire() error {
	return m.enqueue(command{kind: cmdExpire})
}

// UpgradeTemplate permanently boosts a player template for future spawns.
// An empty key boosts every template.
func (m *Match) UpgradeTemplate(key string, boost StatBoost) error {
	if key != "" {
		if owner, ok := m.known[key]; !ok || owner != monster.TeamPlayer {
			return fmt.Errorf("%w: '%s'", monster.ErrUnknownTemplate, key)
		}
	}
	return m.enqueue(command{kind: cmdUpgrade, key: key, boost: boost})
}

// SetAttackBoost sets the commander's passive attack bonus in percent.
func (m *Match) SetAttackBoost(percent float64) error {
	return m.enqueue(command{kind: cmdAttackBoost, percent: percent})
}

// drainCommands applies queued commands in arrival order.
func (m *Match) drainCommands() {
	m.mu.Lock()
	inbox := m.inbox
	m.inbox = nil
	m.mu.Unlock()

	for _, c := range inbox {
		if m.state != StateActive {
			return
		}
		switch c.kind {
		case cmdSpawn:
			if c.team == monster.TeamPlayer {
				m.spawnPlayer(c.key)
			} else {
				m.spawn(m.enemyRoster[c.key].Clone(), monster.TeamEnemy)
			}
		case cmdGoldBoost:
			m.boostRemaining = c.duration
		case cmdSkill:
			m.applySkill(c.skill)
		case cmdDivineWrath:
			for _, u := range m.world.LiveUnits(monster.TeamEnemy) {
				u.TakeDamage(u.Health)
			}
		case cmdExpire:
			m.endMatch(OutcomeTimeExpired)
		case cmdUpgrade:
			m.upgrade(c.key, c.boost)
		case cmdAttackBoost:
			m.attackBoost = c.percent
		}
	}
}

func (m *Match) spawnPlayer(key string) {
	tmpl := m.playerRoster[key].Clone()
	if m.attackBoost != 0 {
		tmpl.Stats.Attack *= 1 + m.attackBoost/100
	}
	m.spawn(tmpl, monster.TeamPlayer)
}

// spawn places a unit in front of its own tower with vertical jitter.
func (m *Match) spawn(tmpl monster.Template, team monster.Team) *monster.Unit {
	arena := m.cfg.Arena
	tower := m.world.Tower(team)
	x := tower.X + arena.SpawnOffset
	if team == monster.TeamEnemy {
		x = tower.X - arena.SpawnOffset
	}
	y := tower.Y + (m.rng.Float64()*2-1)*arena.SpawnJitter
	u := m.world.Spawn(tmpl, team, x, y)
	m.events.push(Event{Kind: EventUnitSpawned, Unit: u.ID, Team: team, Key: u.Key, X: x, Y: y})
	return u
}

func (m *Match) applySkill(skill monster.Skill) {
	var team monster.Team
	var kind monster.EffectKind
	switch skill.Effect {
	case monster.SkillAttackSpeedBoost:
		team, kind = monster.TeamPlayer, monster.EffectHaste
	case monster.SkillSlowEnemies:
		team, kind = monster.TeamEnemy, monster.EffectSlow
	case monster.SkillHealthBoost:
		team, kind = monster.TeamPlayer, monster.EffectFortify
	default:
		return
	}
	eff := monster.StatusEffect{Kind: kind, Magnitude: skill.Magnitude, Duration: skill.Duration}
	for _, u := range m.world.LiveUnits(team) {
		m.effects.apply(m.now, u, eff)
	}
}

func (m *Match) upgrade(key string, boost StatBoost) {
	for k, tmpl := range m.playerRoster {
		if key != "" && k != key {
			continue
		}
		tmpl.Stats.Attack += boost.Attack
		tmpl.Stats.Health += boost.Health
		tmpl.Stats.MoveSpeed += boost.MoveSpeed
		tmpl.Stats.AttackDelay += boost.AttackDelay
		if tmpl.Stats.AttackDelay < minAttackDelay {
			tmpl.Stats.AttackDelay = minAttackDelay
		}
		m.playerRoster[k] = tmpl
	}
}

// checkTerminal latches victory or defeat once a tower falls.
func (m *Match) checkTerminal() {
	switch {
	case m.world.EnemyTower.IsDestroyed():
		m.endMatch(OutcomeVictory)
	case m.world.PlayerTower.IsDestroyed():
		m.endMatch(OutcomeDefeat)
	}
}

// endMatch performs the one-way transition out of Active. Later calls are no-ops.
func (m *Match) endMatch(outcome Outcome) {
	m.mu.Lock()
	if m.state != StateActive {
		m.mu.Unlock()
		return
	}
	m.state = StateEnded
	m.inbox = nil
	m.mu.Unlock()

	m.outcome = outcome
	m.events.push(Event{Kind: EventMatchEnded, Outcome: outcome, Victory: outcome == OutcomeVictory})
}

func (m *Match) emitTowerHealth() {
	m.events.push(Event{
		Kind:              EventTowerHealth,
		PlayerTowerHealth: m.world.PlayerTower.Health,
		EnemyTowerHealth:  m.world.EnemyTower.Health,
	})
}

// Read accessors for the host and tests.

func (m *Match) State() State                 { return m.state }
func (m *Match) Outcome() Outcome             { return m.outcome }
func (m *Match) Now() time.Duration           { return m.now }
func (m *Match) World() *World                { return m.world }
func (m *Match) Difficulty() int              { return m.spawner.Level() }
func (m *Match) SpawnInterval() time.Duration { return m.spawner.SpawnInterval() }
func (m *Match) BoostRemaining() time.Duration {
	return m.boostRemaining
}

// ActiveEffects lists the effects running on a unit.
func (m *Match) ActiveEffects(id monster.UnitID) []ActiveEffect {
	return m.effects.active(m.now, id)
}

// PlayerTemplate returns the current, upgraded template for key.
func (m *Match) PlayerTemplate(key string) (monster.Template, bool) {
	tmpl, ok := m.playerRoster[key]
	if !ok {
		return monster.Template{}, false
	}
	return tmpl.Clone(), true
}
