package game

import "monsterlane/internal/monster"

// World owns every unit and both towers. Units are kept in spawn order so
// iteration order is stable across ticks.
type World struct {
	units  []*monster.Unit
	byID   map[monster.UnitID]*monster.Unit
	nextID monster.UnitID

	PlayerTower *monster.Tower
	EnemyTower  *monster.Tower
}

func NewWorld(playerTower, enemyTower *monster.Tower) *World {
	return &World{
		byID:        make(map[monster.UnitID]*monster.Unit),
		PlayerTower: playerTower,
		EnemyTower:  enemyTower,
	}
}

// Spawn creates a unit at full health and registers it.
func (w *World) Spawn(tmpl monster.Template, team monster.Team, x, y float64) *monster.Unit {
	w.nextID++
	u := monster.NewUnit(w.nextID, tmpl, team, x, y)
	w.units = append(w.units, u)
	w.byID[u.ID] = u
	return u
}

// Unit returns a registered unit that is still alive.
func (w *World) Unit(id monster.UnitID) (*monster.Unit, bool) {
	u, ok := w.byID[id]
	if !ok || !u.IsAlive() {
		return nil, false
	}
	return u, true
}

// Units returns the registry in spawn order. Callers must not modify the slice.
func (w *World) Units() []*monster.Unit {
	return w.units
}

// LiveUnits returns the living units of one team in spawn order.
func (w *World) LiveUnits(team monster.Team) []*monster.Unit {
	var out []*monster.Unit
	for _, u := range w.units {
		if u.Team == team && u.IsAlive() {
			out = append(out, u)
		}
	}
	return out
}

// Count reports how many live units a team has.
func (w *World) Count(team monster.Team) int {
	n := 0
	for _, u := range w.units {
		if u.Team == team && u.IsAlive() {
			n++
		}
	}
	return n
}

// Tower returns the tower owned by team.
func (w *World) Tower(team monster.Team) *monster.Tower {
	if team == monster.TeamPlayer {
		return w.PlayerTower
	}
	return w.EnemyTower
}

// validTarget reports whether u's cached target can still be attacked.
func (w *World) validTarget(u *monster.Unit) bool {
	switch {
	case u.Target.Tower:
		return !w.Tower(u.Team.Opponent()).IsDestroyed()
	case u.Target.Unit != 0:
		t, ok := w.Unit(u.Target.Unit)
		return ok && t.Team != u.Team
	default:
		return false
	}
}

// targetPosition resolves a ref held by a unit of the given team.
func (w *World) targetPosition(team monster.Team, ref monster.TargetRef) (float64, float64, bool) {
	if ref.Tower {
		t := w.Tower(team.Opponent())
		return t.X, t.Y, !t.IsDestroyed()
	}
	if u, ok := w.Unit(ref.Unit); ok {
		return u.X, u.Y, true
	}
	return 0, 0, false
}

// removeDead purges units at or below zero health and returns them in spawn order.
func (w *World) removeDead() []*monster.Unit {
	var dead []*monster.Unit
	alive := w.units[:0]
	for _, u := range w.units {
		if u.IsAlive() {
			alive = append(alive, u)
			continue
		}
		dead = append(dead, u)
		delete(w.byID, u.ID)
	}
	for i := len(alive); i < len(w.units); i++ {
		w.units[i] = nil
	}
	w.units = alive
	return dead
}
