package main

import (
	"context"
	"errors"
	"time"

	"monsterlane/internal/game"
	"monsterlane/internal/monster"
	"monsterlane/internal/session"
	"monsterlane/internal/upgrade"
)

// untimedLimit caps matches whose config has no time limit.
const untimedLimit = time.Hour

// wrathThreshold is the player tower health fraction that triggers divine wrath.
const wrathThreshold = 0.3

// upgradePriority orders option kinds from most to least wanted.
var upgradePriority = []upgrade.Kind{
	upgrade.KindCommander,
	upgrade.KindUnlockMonster,
	upgrade.KindUpgradeMonster,
	upgrade.KindGoldBoost,
}

// playMatch runs a session to completion with a fixed strategy, advancing
// frame at a time.
func playMatch(ctx context.Context, opts session.Options, frame time.Duration) (*session.Result, error) {
	s, err := session.New(opts)
	if err != nil {
		return nil, err
	}

	limit := opts.Config.GetTimeLimit()
	if limit <= 0 {
		limit = untimedLimit
	}
	for s.Result() == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.Match().Now() > limit {
			if err := s.Match().Expire(); err != nil && !errors.Is(err, game.ErrMatchOver) {
				return nil, err
			}
		}
		if err := act(s); err != nil {
			return nil, err
		}
		s.Update(frame)
	}
	return s.Result(), nil
}

// act makes the strategy's decisions for one frame.
func act(s *session.Session) error {
	if options := s.Pending(); options != nil {
		return s.Choose(pickUpgrade(options))
	}

	if _, ok := s.Commander(); ok && s.SkillCooldown() == 0 && s.Match().World().Count(monster.TeamPlayer) > 0 {
		if err := s.UseSkill(); err != nil {
			return err
		}
	}

	tower := s.Match().World().PlayerTower
	if tower.Health < tower.MaxHealth*wrathThreshold && s.Match().World().Count(monster.TeamEnemy) > 0 {
		if err := s.DivineWrath(); err != nil && !errors.Is(err, session.ErrWrathUsed) {
			return err
		}
	}

	if key, ok := bestAffordable(s); ok {
		return s.Summon(key)
	}
	return nil
}

// pickUpgrade returns the index of the highest priority option.
func pickUpgrade(options []upgrade.Option) int {
	for _, kind := range upgradePriority {
		for i, opt := range options {
			if opt.Kind == kind {
				return i
			}
		}
	}
	return 0
}

// bestAffordable picks the most expensive unit the wallet can pay for.
func bestAffordable(s *session.Session) (string, bool) {
	best, bestCost := "", -1
	for _, key := range s.Roster() {
		tmpl, ok := s.Match().PlayerTemplate(key)
		if !ok || tmpl.Cost > s.Gold() {
			continue
		}
		if tmpl.Cost > bestCost {
			best, bestCost = key, tmpl.Cost
		}
	}
	return best, bestCost >= 0
}
