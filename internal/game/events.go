package game

import (
	"fmt"

	"monsterlane/internal/monster"
)

type EventKind int

const (
	EventGold EventKind = iota
	EventExperience
	EventScore
	EventTowerHealth
	EventMatchEnded
	EventUnitSpawned
	EventUnitDied
	EventEffectApplied
	EventDifficulty
)

func (k EventKind) String() string {
	switch k {
	case EventGold:
		return "gold"
	case EventExperience:
		return "experience"
	case EventScore:
		return "score"
	case EventTowerHealth:
		return "tower_health"
	case EventMatchEnded:
		return "match_ended"
	case EventUnitSpawned:
		return "unit_spawned"
	case EventUnitDied:
		return "unit_died"
	case EventEffectApplied:
		return "effect_applied"
	case EventDifficulty:
		return "difficulty"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is one outbound notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind

	// Gold, experience and score deltas for the player side.
	Amount float64

	// Tower health snapshot.
	PlayerTowerHealth float64
	EnemyTowerHealth  float64

	// Match end.
	Outcome Outcome
	Victory bool

	// Unit lifecycle and effects.
	Unit   monster.UnitID
	Team   monster.Team
	Key    string
	Effect monster.EffectKind
	X, Y   float64

	// Difficulty level after a ramp step.
	Level int
}

// eventQueue collects events during a tick until the host drains them.
type eventQueue struct {
	events []Event
}

func (q *eventQueue) push(e Event) {
	q.events = append(q.events, e)
}

func (q *eventQueue) drain() []Event {
	out := q.events
	q.events = nil
	return out
}
