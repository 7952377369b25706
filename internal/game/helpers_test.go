package game

import (
	"testing"

	"monsterlane/internal/config"
	"monsterlane/internal/monster"

	"github.com/stretchr/testify/require"
)

// fixedRand always returns the same values.
type fixedRand struct {
	f float64
}

func (r *fixedRand) Intn(n int) int   { return 0 }
func (r *fixedRand) Float64() float64 { return r.f }

// newTestMatch builds a match with enemy waves pushed out of reach and no
// spawn jitter, and discards the opening events.
func newTestMatch(t *testing.T, tweak func(*config.Config)) *Match {
	t.Helper()
	cfg := config.Default()
	cfg.Difficulty.FirstSpawnDelayMs = 1 << 30
	cfg.Arena.SpawnJitter = 0
	if tweak != nil {
		tweak(cfg)
	}
	m, err := NewMatch(Options{Config: cfg, Catalog: monster.DefaultCatalog(), Rand: &fixedRand{}})
	require.NoError(t, err)
	m.DrainEvents()
	return m
}

func place(t *testing.T, m *Match, key string, team monster.Team, x, y float64) *monster.Unit {
	t.Helper()
	tmpl, err := m.catalog.Template(key)
	require.NoError(t, err)
	return m.world.Spawn(tmpl, team, x, y)
}

func eventsOf(events []Event, kind EventKind) []Event {
	var out []Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func sumOf(events []Event, kind EventKind) float64 {
	total := 0.0
	for _, e := range eventsOf(events, kind) {
		total += e.Amount
	}
	return total
}
