package theme

import (
	"testing"
	"time"

	"monsterlane/internal/monster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForDateIsDeterministic(t *testing.T) {
	day := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
	// 20240305 % 5 == 0
	assert.Equal(t, "melee-rush", ForDate(day).ID)
	assert.Equal(t, ForDate(day), ForDate(day.Add(14*time.Hour)))
	// 20240306 % 5 == 1
	assert.Equal(t, "ranged-dominance", ForDate(day.AddDate(0, 0, 1)).ID)
}

func TestEveryPresetIsReachable(t *testing.T) {
	seen := map[string]bool{}
	day := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		seen[ForDate(day.AddDate(0, 0, i)).ID] = true
	}
	assert.Len(t, seen, len(All()))
}

func TestApplyBoostsMatchingGroupOnly(t *testing.T) {
	catalog := monster.DefaultCatalog()
	tank, err := catalog.Template("tank")
	require.NoError(t, err)
	basic, err := catalog.Template("basic")
	require.NoError(t, err)

	fortress, ok := ByID("tank-fortress")
	require.True(t, ok)

	assert.InDelta(t, 260.0, fortress.Apply(tank).Stats.Health, 1e-9)
	assert.Equal(t, basic, fortress.Apply(basic))
}

func TestApplyAttackDelayReduction(t *testing.T) {
	catalog := monster.DefaultCatalog()
	archer, err := catalog.Template("ranged")
	require.NoError(t, err)

	dominance, _ := ByID("ranged-dominance")
	assert.Equal(t, 1080*time.Millisecond, dominance.Apply(archer).Stats.AttackDelay)
}

func TestMatchesEnemyTemplatesByBaseKey(t *testing.T) {
	catalog := monster.DefaultCatalog()
	enemyFast, err := catalog.Template("enemy_fast")
	require.NoError(t, err)
	enemyTank, err := catalog.Template("enemy_tank")
	require.NoError(t, err)

	speed, _ := ByID("speed-demons")
	assert.Equal(t, 2.0, speed.EnemyWeight(enemyFast))
	assert.Equal(t, 1.0, speed.EnemyWeight(enemyTank))

	plague, _ := ByID("poison-plague")
	assert.Equal(t, 1.0, plague.EnemyWeight(enemyFast))
	assert.Equal(t, enemyFast, plague.Apply(enemyFast))
}
