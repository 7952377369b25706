package game

import (
	"math"
	"sort"

	"monsterlane/internal/monster"
)

// SelectTarget picks the nearest live opponent of u, falling back to the
// opposing tower when none are left. opponents must be in spawn order; on a
// distance tie the earliest spawned unit wins.
func SelectTarget(u *monster.Unit, opponents []*monster.Unit, tower *monster.Tower) monster.TargetRef {
	var best *monster.Unit
	bestDist := math.Inf(1)
	for _, o := range opponents {
		if o == u || o.Team == u.Team || !o.IsAlive() {
			continue
		}
		if d := u.DistanceTo(o.X, o.Y); d < bestDist {
			best, bestDist = o, d
		}
	}
	if best != nil {
		return monster.UnitTarget(best.ID)
	}
	if tower == nil {
		return monster.TargetRef{}
	}
	return monster.TowerTarget()
}

// splashTargets returns up to limit live units of team within radius of
// (x, y), excluding primary, nearest first with spawn order breaking ties.
func splashTargets(w *World, team monster.Team, primary monster.UnitID, x, y, radius float64, limit int) []*monster.Unit {
	if limit <= 0 {
		return nil
	}
	type candidate struct {
		unit *monster.Unit
		dist float64
	}
	var found []candidate
	for _, u := range w.units {
		if u.ID == primary || u.Team != team || !u.IsAlive() {
			continue
		}
		if d := u.DistanceTo(x, y); d <= radius {
			found = append(found, candidate{u, d})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].dist < found[j].dist })
	if len(found) > limit {
		found = found[:limit]
	}
	out := make([]*monster.Unit, len(found))
	for i, c := range found {
		out[i] = c.unit
	}
	return out
}
