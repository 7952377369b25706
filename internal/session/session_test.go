package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"monsterlane/internal/config"
	"monsterlane/internal/game"
	"monsterlane/internal/monster"
	"monsterlane/internal/scores"
	"monsterlane/internal/theme"
	"monsterlane/internal/upgrade"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand struct {
	f float64
}

func (r *fixedRand) Intn(n int) int   { return 0 }
func (r *fixedRand) Float64() float64 { return r.f }

type failingStore struct {
	scores.Store
}

func (failingStore) Submit(context.Context, scores.Entry) (scores.Entry, error) {
	return scores.Entry{}, errors.New("disk full")
}

// newTestSession starts a session without enemy waves. f drives every
// random draw, so 0 takes every optional upgrade and 0.99 takes none.
func newTestSession(t *testing.T, f float64, tweak func(*Options)) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.Difficulty.FirstSpawnDelayMs = 1 << 30
	opts := Options{
		Config:     cfg,
		Catalog:    monster.DefaultCatalog(),
		Rand:       &fixedRand{f: f},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		PlayerName: "tester",
	}
	if tweak != nil {
		tweak(&opts)
	}
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

// earnLevel forces the experience threshold and lets Update offer upgrades.
func earnLevel(t *testing.T, s *Session) {
	t.Helper()
	s.experience = float64(s.ExpToNext())
	s.Update(time.Millisecond)
	require.NotEmpty(t, s.Pending())
}

func indexOf(options []upgrade.Option, kind upgrade.Kind) int {
	for i, opt := range options {
		if opt.Kind == kind {
			return i
		}
	}
	return -1
}

func TestNewRequiresConfigAndCatalog(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestWalletStartsWithOpeningGold(t *testing.T) {
	s := newTestSession(t, 0.99, nil)
	assert.Equal(t, 100, s.Gold())
	assert.Equal(t, 1, s.Level())

	s.Update(time.Millisecond)

	assert.Equal(t, 200, s.Gold())
	assert.Equal(t, []string{"basic", "fast", "ranged", "tank"}, s.Roster())
}

func TestSummonChecksBeforeCharging(t *testing.T) {
	s := newTestSession(t, 0.99, nil)
	s.Update(time.Millisecond)

	assert.ErrorIs(t, s.Summon("dragon"), monster.ErrUnknownTemplate)
	assert.ErrorIs(t, s.Summon("splash"), ErrLocked)
	assert.ErrorIs(t, s.Summon("enemy_basic"), monster.ErrUnknownTemplate)

	require.NoError(t, s.Summon("tank"))
	require.NoError(t, s.Summon("tank"))
	assert.Equal(t, 0, s.Gold())

	assert.ErrorIs(t, s.Summon("basic"), ErrInsufficientGold)
	assert.Equal(t, 0, s.Gold())

	s.Update(time.Millisecond)
	assert.Equal(t, 2, s.Match().World().Count(monster.TeamPlayer))
}

func TestKillsFillExperienceAndOfferUpgrades(t *testing.T) {
	s := newTestSession(t, 0.99, nil)
	for i := 0; i < 7; i++ {
		require.NoError(t, s.Match().RequestSpawn(monster.TeamEnemy, "enemy_basic"))
	}
	require.NoError(t, s.DivineWrath())

	s.Update(time.Millisecond)

	assert.Equal(t, 105, s.Experience())
	assert.Equal(t, 100+100+7*20, s.Gold())
	require.Len(t, s.Pending(), 3)
	assert.NotEqual(t, -1, indexOf(s.Pending(), upgrade.KindGoldBoost))

	require.NoError(t, s.Choose(0))
	assert.Equal(t, 2, s.Level())
	assert.Zero(t, s.Experience())
	assert.Nil(t, s.Pending())
	assert.Equal(t, 200, s.ExpToNext())
}

func TestDivineWrathOncePerMatch(t *testing.T) {
	s := newTestSession(t, 0.99, nil)
	require.NoError(t, s.DivineWrath())
	assert.ErrorIs(t, s.DivineWrath(), ErrWrathUsed)
}

func TestChooseValidatesPendingAndIndex(t *testing.T) {
	s := newTestSession(t, 0.99, nil)
	assert.ErrorIs(t, s.Choose(0), ErrNoPendingUpgrade)
	assert.ErrorIs(t, s.Skip(), ErrNoPendingUpgrade)
	assert.ErrorIs(t, s.Reroll(), ErrNoPendingUpgrade)

	earnLevel(t, s)
	assert.ErrorIs(t, s.Choose(3), ErrInvalidChoice)
	assert.ErrorIs(t, s.Choose(-1), ErrInvalidChoice)
	assert.Equal(t, 1, s.Level())
}

func TestRerollOncePerLevel(t *testing.T) {
	s := newTestSession(t, 0.99, nil)
	earnLevel(t, s)

	require.NoError(t, s.Reroll())
	assert.Len(t, s.Pending(), 3)
	assert.ErrorIs(t, s.Reroll(), ErrRerollUsed)

	require.NoError(t, s.Skip())
	assert.Equal(t, 2, s.Level())

	earnLevel(t, s)
	assert.NoError(t, s.Reroll())
}

func TestUnlockAndUpgradeOptions(t *testing.T) {
	s := newTestSession(t, 0, nil)
	s.gold = 1000
	base, err := monster.DefaultCatalog().Template("basic")
	require.NoError(t, err)

	earnLevel(t, s)
	unlock := indexOf(s.Pending(), upgrade.KindUnlockMonster)
	require.NotEqual(t, -1, unlock)
	key := s.Pending()[unlock].MonsterKey
	require.ErrorIs(t, s.Summon(key), ErrLocked)
	require.NoError(t, s.Choose(unlock))
	assert.Contains(t, s.Roster(), key)
	require.NoError(t, s.Summon(key))

	earnLevel(t, s)
	up := indexOf(s.Pending(), upgrade.KindUpgradeMonster)
	require.NotEqual(t, -1, up)
	require.Equal(t, "basic", s.Pending()[up].MonsterKey)
	require.NoError(t, s.Choose(up))
	s.Update(time.Millisecond)

	tmpl, ok := s.Match().PlayerTemplate("basic")
	require.True(t, ok)
	assert.Equal(t, base.Stats.Attack+10, tmpl.Stats.Attack)
}

func TestGoldRushOpensBoostWindow(t *testing.T) {
	s := newTestSession(t, 0.99, nil)
	earnLevel(t, s)

	require.NoError(t, s.Choose(indexOf(s.Pending(), upgrade.KindGoldBoost)))
	s.Update(time.Millisecond)

	assert.Equal(t, 30*time.Second-time.Millisecond, s.Match().BoostRemaining())
}

func TestCommanderSkillCooldown(t *testing.T) {
	s := newTestSession(t, 0.99, nil)
	assert.ErrorIs(t, s.UseSkill(), ErrNoCommander)

	s.level = 3
	earnLevel(t, s)
	i := indexOf(s.Pending(), upgrade.KindCommander)
	require.NotEqual(t, -1, i)
	require.NoError(t, s.Choose(i))

	c, ok := s.Commander()
	require.True(t, ok)
	assert.Equal(t, "frost", c.Key)
	assert.Zero(t, s.SkillCooldown())

	require.NoError(t, s.UseSkill())
	assert.Equal(t, c.Skill.Cooldown, s.SkillCooldown())
	assert.ErrorIs(t, s.UseSkill(), ErrSkillCooldown)

	for s.SkillCooldown() > 0 {
		s.Update(time.Second)
	}
	assert.NoError(t, s.UseSkill())
}

func TestCountdownExpiresAndSubmitsScore(t *testing.T) {
	store := scores.NewFileStore(filepath.Join(t.TempDir(), "highscores.json"))
	th := theme.All()[0]
	s := newTestSession(t, 0.99, func(o *Options) {
		o.Config.Match.TimeLimitSeconds = 2
		o.Store = store
		o.Theme = th
	})
	assert.Equal(t, 2*time.Second, s.Remaining())

	s.Update(time.Second)
	s.Update(time.Second)
	assert.Zero(t, s.Remaining())
	assert.Equal(t, game.StateActive, s.Match().State())
	assert.Nil(t, s.Result())

	s.Update(time.Second)

	res := s.Result()
	require.NotNil(t, res)
	assert.Equal(t, game.OutcomeTimeExpired, res.Outcome)
	assert.Equal(t, 2*time.Second, res.PlayTime)
	assert.Equal(t, th.ID, res.ThemeID)

	entries, err := store.AllTime(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tester", entries[0].PlayerName)
	assert.Equal(t, "time_expired", entries[0].Outcome)
	assert.Equal(t, th.ID, entries[0].ThemeID)
	assert.Equal(t, res.Entry.ID, entries[0].ID)

	assert.ErrorIs(t, s.Summon("basic"), game.ErrMatchOver)
}

func TestFailedSubmitStillRecordsResult(t *testing.T) {
	s := newTestSession(t, 0.99, func(o *Options) {
		o.Store = failingStore{}
	})
	require.NoError(t, s.Match().Expire())

	s.Update(time.Millisecond)

	res := s.Result()
	require.NotNil(t, res)
	assert.Equal(t, game.OutcomeTimeExpired, res.Outcome)
	assert.Zero(t, res.Entry)
}

func TestNoUpgradeOfferAfterMatchEnds(t *testing.T) {
	s := newTestSession(t, 0.99, nil)
	require.NoError(t, s.Match().Expire())
	s.Update(time.Millisecond)

	s.experience = 1000
	s.Update(time.Millisecond)

	assert.Nil(t, s.Pending())
}

func TestZeroDeltaDoesNotExpire(t *testing.T) {
	s := newTestSession(t, 0.99, nil)

	s.Update(0)
	s.Update(0)

	assert.Equal(t, game.StateActive, s.Match().State())
	assert.Equal(t, s.cfg.GetTimeLimit(), s.Remaining())
}
