// Package session is the player's side of a match: the wallet, the unlocked
// roster, level-ups, the commander and the countdown. It consumes the match's
// reward events and records the final score.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"monsterlane/internal/config"
	"monsterlane/internal/game"
	"monsterlane/internal/monster"
	"monsterlane/internal/scores"
	"monsterlane/internal/theme"
	"monsterlane/internal/upgrade"
)

var (
	ErrInsufficientGold = errors.New("not enough gold")
	ErrLocked           = errors.New("monster is locked")
	ErrNoPendingUpgrade = errors.New("no upgrade to choose")
	ErrInvalidChoice    = errors.New("invalid upgrade choice")
	ErrRerollUsed       = errors.New("reroll already used for this level")
	ErrNoCommander      = errors.New("no commander recruited")
	ErrSkillCooldown    = errors.New("skill is on cooldown")
	ErrWrathUsed        = errors.New("divine wrath already used")
)

const submitTimeout = 5 * time.Second

// Options configure a session. Config and Catalog are required.
type Options struct {
	Config     *config.Config
	Catalog    *monster.Catalog
	Theme      theme.Theme
	Store      scores.Store // optional
	Rand       game.Rand
	Observer   game.TickObserver
	Logger     *slog.Logger
	PlayerName string
}

// Result is the summary of a finished match.
type Result struct {
	Outcome  game.Outcome
	Score    int
	Level    int
	PlayTime time.Duration
	ThemeID  string
	Entry    scores.Entry // zero when nothing was stored
}

// Session drives one match for the player. All methods must be called from
// the goroutine that calls Update.
type Session struct {
	cfg     *config.Config
	catalog *monster.Catalog
	theme   theme.Theme
	store   scores.Store
	logger  *slog.Logger
	player  string

	match     *game.Match
	generator *upgrade.Generator

	gold       float64
	experience float64
	level      int
	score      float64

	unlocked  map[string]bool
	pending   []upgrade.Option
	rerolled  bool
	commander *monster.Commander
	skillAt   time.Duration // match time the skill is usable again
	wrathUsed bool

	result *Result
}

// New starts a match and the player's session around it.
func New(opts Options) (*Session, error) {
	if opts.Config == nil || opts.Catalog == nil {
		return nil, errors.New("session: config and catalog are required")
	}
	rng := opts.Rand
	if rng == nil {
		rng = game.NewRand(time.Now().UnixNano())
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := opts.PlayerName
	if name == "" {
		name = "Player"
	}

	match, err := game.NewMatch(game.Options{
		Config:   opts.Config,
		Catalog:  opts.Catalog,
		Rand:     rng,
		Modifier: opts.Theme,
		Observer: opts.Observer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start match: %w", err)
	}

	s := &Session{
		cfg:       opts.Config,
		catalog:   opts.Catalog,
		theme:     opts.Theme,
		store:     opts.Store,
		logger:    logger.With("match", match.ID.String()),
		player:    name,
		match:     match,
		generator: upgrade.NewGenerator(opts.Config, opts.Catalog, rng),
		gold:      float64(opts.Config.Economy.StartingGold),
		level:     1,
		unlocked:  make(map[string]bool),
	}
	for _, key := range opts.Catalog.BasicKeys() {
		s.unlocked[key] = true
	}
	s.logger.Info("match started", "theme", opts.Theme.ID, "player", name)
	return s, nil
}

// Update expires the match when the countdown has run out, advances it by
// delta and applies the resulting events. The events are returned for
// presentation. The clock never runs past the time limit.
func (s *Session) Update(delta time.Duration) []game.Event {
	if s.match.State() == game.StateActive && s.cfg.GetTimeLimit() > 0 {
		remaining := s.Remaining()
		delta = min(delta, remaining)
		if remaining <= 0 {
			if err := s.match.Expire(); err != nil && !errors.Is(err, game.ErrMatchOver) {
				s.logger.Warn("failed to expire match", "error", err)
			}
		}
	}
	s.match.Tick(delta)

	events := s.match.DrainEvents()
	for _, e := range events {
		s.consume(e)
	}
	if s.pending == nil && s.result == nil && s.experience >= float64(s.cfg.ExpForLevel(s.level)) {
		s.offerUpgrades()
	}
	return events
}

func (s *Session) consume(e game.Event) {
	switch e.Kind {
	case game.EventGold:
		s.gold += e.Amount
	case game.EventExperience:
		s.experience += e.Amount
	case game.EventScore:
		s.score += e.Amount
	case game.EventDifficulty:
		s.logger.Debug("difficulty increased", "level", e.Level, "spawn_interval", s.match.SpawnInterval())
	case game.EventMatchEnded:
		s.finish(e.Outcome)
	}
}

func (s *Session) offerUpgrades() {
	s.pending = s.generator.Options(s.level, s.Roster())
	s.rerolled = false
	s.logger.Debug("level up offered", "level", s.level, "options", len(s.pending))
}

// Summon spends gold on a unit. Nothing is charged when the request is refused.
func (s *Session) Summon(key string) error {
	if s.result != nil {
		return game.ErrMatchOver
	}
	tmpl, ok := s.match.PlayerTemplate(key)
	if !ok {
		return fmt.Errorf("%w: '%s'", monster.ErrUnknownTemplate, key)
	}
	if !s.unlocked[key] {
		return fmt.Errorf("%w: '%s'", ErrLocked, key)
	}
	if s.gold < float64(tmpl.Cost) {
		return fmt.Errorf("%w: %s costs %d", ErrInsufficientGold, tmpl.Name, tmpl.Cost)
	}
	if err := s.match.RequestSpawn(monster.TeamPlayer, key); err != nil {
		return err
	}
	s.gold -= float64(tmpl.Cost)
	return nil
}

// Choose applies the pending option at index and levels up.
func (s *Session) Choose(index int) error {
	if s.pending == nil {
		return ErrNoPendingUpgrade
	}
	if index < 0 || index >= len(s.pending) {
		return fmt.Errorf("%w: %d", ErrInvalidChoice, index)
	}
	opt := s.pending[index]
	if err := s.apply(opt); err != nil {
		return err
	}
	s.logger.Info("upgrade chosen", "level", s.level, "option", opt.ID)
	s.levelUp()
	return nil
}

// Skip discards the pending options and still levels up.
func (s *Session) Skip() error {
	if s.pending == nil {
		return ErrNoPendingUpgrade
	}
	s.levelUp()
	return nil
}

// Reroll draws a fresh set of options once per level.
func (s *Session) Reroll() error {
	if s.pending == nil {
		return ErrNoPendingUpgrade
	}
	if s.rerolled {
		return ErrRerollUsed
	}
	s.pending = s.generator.Options(s.level, s.Roster())
	s.rerolled = true
	return nil
}

func (s *Session) levelUp() {
	s.level++
	s.experience = 0
	s.pending = nil
}

func (s *Session) apply(opt upgrade.Option) error {
	switch opt.Kind {
	case upgrade.KindUnlockMonster:
		s.unlocked[opt.MonsterKey] = true
		return nil
	case upgrade.KindUpgradeMonster:
		return s.match.UpgradeTemplate(opt.MonsterKey, opt.Boost)
	case upgrade.KindCommander:
		if err := s.match.SetAttackBoost(opt.Commander.AttackBoost); err != nil {
			return err
		}
		c := opt.Commander
		s.commander = &c
		s.skillAt = 0
		return nil
	case upgrade.KindGoldBoost:
		return s.match.ActivateGoldBoost(opt.GoldPercentage, opt.GoldDuration)
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidChoice, opt.Kind)
	}
}

// UseSkill fires the commander's skill and starts its cooldown.
func (s *Session) UseSkill() error {
	if s.commander == nil {
		return ErrNoCommander
	}
	if now := s.match.Now(); now < s.skillAt {
		return fmt.Errorf("%w: %s left", ErrSkillCooldown, s.skillAt-now)
	}
	if err := s.match.UseSkill(s.commander.Skill); err != nil {
		return err
	}
	s.skillAt = s.match.Now() + s.commander.Skill.Cooldown
	s.logger.Info("skill used", "skill", s.commander.Skill.Name)
	return nil
}

// SkillCooldown is the time until the commander's skill can be used again.
func (s *Session) SkillCooldown() time.Duration {
	if s.commander == nil {
		return 0
	}
	return max(0, s.skillAt-s.match.Now())
}

// DivineWrath wipes the enemy side once per match.
func (s *Session) DivineWrath() error {
	if s.wrathUsed {
		return ErrWrathUsed
	}
	if err := s.match.DivineWrath(); err != nil {
		return err
	}
	s.wrathUsed = true
	s.logger.Info("divine wrath invoked", "enemies", s.match.World().Count(monster.TeamEnemy))
	return nil
}

func (s *Session) finish(outcome game.Outcome) {
	if s.result != nil {
		return
	}
	s.pending = nil
	s.result = &Result{
		Outcome:  outcome,
		Score:    int(math.Floor(s.score)),
		Level:    s.level,
		PlayTime: s.match.Now(),
		ThemeID:  s.theme.ID,
	}
	s.logger.Info("match ended",
		"outcome", outcome.String(),
		"score", s.result.Score,
		"level", s.level,
		"play_time", s.result.PlayTime)

	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()
	entry, err := s.store.Submit(ctx, scores.Entry{
		PlayerName: s.player,
		Score:      s.result.Score,
		Level:      s.level,
		ThemeID:    s.theme.ID,
		Outcome:    outcome.String(),
		PlayTime:   s.result.PlayTime,
	})
	if err != nil {
		s.logger.Error("failed to save score", "error", err)
		return
	}
	s.result.Entry = entry
}

// Roster lists the summonable keys in catalog order.
func (s *Session) Roster() []string {
	var keys []string
	for _, key := range s.catalog.PlayerKeys() {
		if s.unlocked[key] {
			keys = append(keys, key)
		}
	}
	return keys
}

func (s *Session) Gold() int                 { return int(math.Floor(s.gold)) }
func (s *Session) Experience() int           { return int(math.Floor(s.experience)) }
func (s *Session) Level() int                { return s.level }
func (s *Session) Score() int                { return int(math.Floor(s.score)) }
func (s *Session) Pending() []upgrade.Option { return s.pending }
func (s *Session) Match() *game.Match        { return s.match }
func (s *Session) Theme() theme.Theme        { return s.theme }

// Commander returns the recruited commander, if any.
func (s *Session) Commander() (monster.Commander, bool) {
	if s.commander == nil {
		return monster.Commander{}, false
	}
	return *s.commander, true
}

// Result is nil until the match has ended.
func (s *Session) Result() *Result { return s.result }

// ExpToNext is the experience threshold of the current level.
func (s *Session) ExpToNext() int { return s.cfg.ExpForLevel(s.level) }

// Remaining is the countdown until the match expires.
func (s *Session) Remaining() time.Duration {
	return max(0, s.cfg.GetTimeLimit()-s.match.Now())
}
