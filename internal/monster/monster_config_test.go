package monster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogPlayerKeysOrder(t *testing.T) {
	assert.Equal(t, []string{"basic", "fast", "ranged", "tank"}, testCatalog.BasicKeys())
	assert.Equal(t, []string{"slow", "splash", "poison", "shock"}, testCatalog.AdvancedKeys())
	assert.Len(t, testCatalog.PlayerKeys(), 8)
}

func TestCatalogDerivesEnemies(t *testing.T) {
	require.Equal(t, []string{"enemy_basic", "enemy_tank", "enemy_ranged", "enemy_fast"}, testCatalog.EnemyKeys())

	enemy, err := testCatalog.Template("enemy_basic")
	require.NoError(t, err)
	assert.InDelta(t, 60.0, enemy.Stats.Health, 1e-9)
	assert.InDelta(t, 7.0, enemy.Stats.Attack, 1e-9)
	assert.InDelta(t, 90.0, enemy.Stats.MoveSpeed, 1e-9)
	assert.Equal(t, 1200*time.Millisecond, enemy.Stats.AttackDelay)
}

func TestCatalogUnknownTemplate(t *testing.T) {
	_, err := testCatalog.Template("dragon")
	require.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestCatalogStatusEffects(t *testing.T) {
	slow, err := testCatalog.Template("slow")
	require.NoError(t, err)
	require.Len(t, slow.StatusEffects, 1)
	assert.Equal(t, StatusEffect{Kind: EffectSlow, Magnitude: 30, Duration: 4 * time.Second}, slow.StatusEffects[0])

	splash, err := testCatalog.Template("splash")
	require.NoError(t, err)
	assert.True(t, splash.Stats.SplashDamage)
	assert.Equal(t, 3, splash.Stats.MaxTargets)
}

func TestCatalogCommanders(t *testing.T) {
	frost, ok := testCatalog.Commander("frost")
	require.True(t, ok)
	assert.Equal(t, SkillSlowEnemies, frost.Skill.Effect)
	assert.Equal(t, 8*time.Second, frost.Skill.Duration)
	assert.Equal(t, 40*time.Second, frost.Skill.Cooldown)
	assert.Len(t, testCatalog.Commanders(), 3)
}

func TestParseCatalogValidation(t *testing.T) {
	doc := `
monsters:
  broken:
    name: Broken
    health: 0
    attack: 1
    attack_delay_ms: 0
    attack_type: laser
    max_targets: 0
    status_effects:
      - { kind: freeze, magnitude: 1, duration_ms: 1 }
enemies:
  pool: [ghost]
`
	_, err := ParseCatalog([]byte(doc))
	require.Error(t, err)
	for _, want := range []string{"health must be positive", "max_targets", "attack_delay_ms", "laser", "freeze", "ghost"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestParseCatalogRejectsDuplicateKeys(t *testing.T) {
	doc := `
monsters:
  basic: {name: A, health: 1, attack: 1, attack_delay_ms: 1, attack_type: melee, max_targets: 1}
  basic: {name: B, health: 1, attack: 1, attack_delay_ms: 1, attack_type: melee, max_targets: 1}
enemies:
  pool: [basic]
`
	_, err := ParseCatalog([]byte(doc))
	require.Error(t, err)
}
