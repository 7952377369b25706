package monster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnitStartsAtFullHealth(t *testing.T) {
	tmpl, err := testCatalog.Template("tank")
	require.NoError(t, err)

	u := NewUnit(7, tmpl, TeamPlayer, 150, 320)

	assert.Equal(t, UnitID(7), u.ID)
	assert.Equal(t, 200.0, u.Health)
	assert.Equal(t, 200.0, u.MaxHealth)
	assert.Equal(t, 1500*time.Millisecond, u.Stats.AttackDelay)
	assert.True(t, u.Target.None())
	assert.Zero(t, u.AttackCooldown)
}

func TestNewUnitDoesNotShareEffectSlice(t *testing.T) {
	tmpl, err := testCatalog.Template("poison")
	require.NoError(t, err)

	u := NewUnit(1, tmpl, TeamPlayer, 0, 0)
	u.StatusEffects[0].Magnitude = 99

	again, err := testCatalog.Template("poison")
	require.NoError(t, err)
	assert.Equal(t, 3.0, again.StatusEffects[0].Magnitude)
}

func TestUnitTakeDamageClampsAtZero(t *testing.T) {
	u := &Unit{Health: 10, MaxHealth: 10}

	assert.Equal(t, 4.0, u.TakeDamage(4))
	assert.Equal(t, 6.0, u.TakeDamage(50))
	assert.Equal(t, 0.0, u.Health)
	assert.False(t, u.IsAlive())

	assert.Zero(t, u.TakeDamage(5), "dead units absorb nothing")
	assert.Equal(t, 0.0, u.Health)
}

func TestUnitTakeDamageIgnoresNegative(t *testing.T) {
	u := &Unit{Health: 10}
	assert.Zero(t, u.TakeDamage(-3))
	assert.Equal(t, 10.0, u.Health)
}

func TestTowerTakeDamage(t *testing.T) {
	tw := NewTower(TeamEnemy, 10, 700, 300)
	tw.TakeDamage(8)
	assert.False(t, tw.IsDestroyed())
	tw.TakeDamage(7)
	assert.True(t, tw.IsDestroyed())
	assert.Equal(t, 0.0, tw.Health)
}

func TestTargetRef(t *testing.T) {
	assert.True(t, TargetRef{}.None())
	assert.False(t, UnitTarget(3).None())
	assert.False(t, TowerTarget().None())
}

func TestTeamOpponent(t *testing.T) {
	assert.Equal(t, TeamEnemy, TeamPlayer.Opponent())
	assert.Equal(t, TeamPlayer, TeamEnemy.Opponent())
	assert.Equal(t, "enemy", TeamEnemy.String())
}
