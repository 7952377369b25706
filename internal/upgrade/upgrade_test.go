package upgrade

import (
	"testing"

	"monsterlane/internal/config"
	"monsterlane/internal/game"
	"monsterlane/internal/monster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns queued values and zero once they run out.
type scripted struct {
	floats []float64
	ints   []int
}

func (s *scripted) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scripted) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	i := s.ints[0] % n
	s.ints = s.ints[1:]
	return i
}

func kinds(options []Option) map[Kind]int {
	out := map[Kind]int{}
	for _, o := range options {
		out[o.Kind]++
	}
	return out
}

func TestOptionsAlwaysReturnsConfiguredCount(t *testing.T) {
	cfg := config.Default()
	catalog := monster.DefaultCatalog()
	gen := NewGenerator(cfg, catalog, game.NewRand(42))

	for level := 1; level <= 12; level++ {
		options := gen.Options(level, catalog.BasicKeys())
		require.Len(t, options, 3)
		ids := map[string]bool{}
		for _, o := range options {
			assert.False(t, ids[o.ID], "duplicate option %s", o.ID)
			ids[o.ID] = true
		}
	}
}

func TestOptionsOfferUnlockUpgradeAndGold(t *testing.T) {
	cfg := config.Default()
	catalog := monster.DefaultCatalog()
	rng := &scripted{floats: []float64{0.1, 0.1}, ints: []int{1, 1, 2}}
	gen := NewGenerator(cfg, catalog, rng)

	options := gen.Options(1, catalog.BasicKeys())

	got := kinds(options)
	assert.Equal(t, 1, got[KindUnlockMonster])
	assert.Equal(t, 1, got[KindUpgradeMonster])
	assert.Equal(t, 1, got[KindGoldBoost])

	for _, o := range options {
		switch o.Kind {
		case KindUnlockMonster:
			assert.Equal(t, "splash", o.MonsterKey)
		case KindUpgradeMonster:
			assert.Equal(t, "fast", o.MonsterKey)
			assert.Equal(t, game.StatBoost{MoveSpeed: 20}, o.Boost)
		case KindGoldBoost:
			assert.Equal(t, 20.0, o.GoldPercentage)
			assert.Equal(t, cfg.GetGoldRushDuration(), o.GoldDuration)
		}
	}
}

func TestOptionsPadWithGlobalAttack(t *testing.T) {
	cfg := config.Default()
	catalog := monster.DefaultCatalog()
	rng := &scripted{floats: []float64{0.95, 0.95}}
	gen := NewGenerator(cfg, catalog, rng)

	options := gen.Options(1, catalog.BasicKeys())

	got := kinds(options)
	assert.Equal(t, 1, got[KindGoldBoost])
	assert.Equal(t, 2, got[KindUpgradeMonster])
	for _, o := range options {
		if o.Kind == KindUpgradeMonster {
			assert.Empty(t, o.MonsterKey)
			assert.Equal(t, 5.0, o.Boost.Attack)
		}
	}
}

func TestCommanderOfferedEveryThirdLevel(t *testing.T) {
	cfg := config.Default()
	catalog := monster.DefaultCatalog()
	gen := NewGenerator(cfg, catalog, &scripted{floats: []float64{0.95, 0.95}})

	options := gen.Options(3, catalog.BasicKeys())
	require.Equal(t, 1, kinds(options)[KindCommander])

	gen = NewGenerator(cfg, catalog, &scripted{floats: []float64{0.95, 0.95}})
	assert.Zero(t, kinds(gen.Options(4, catalog.BasicKeys()))[KindCommander])
}

func TestNoUnlockOnceEverythingIsUnlocked(t *testing.T) {
	cfg := config.Default()
	catalog := monster.DefaultCatalog()
	gen := NewGenerator(cfg, catalog, game.NewRand(7))

	for i := 0; i < 20; i++ {
		options := gen.Options(1, catalog.PlayerKeys())
		assert.Zero(t, kinds(options)[KindUnlockMonster])
	}
}
