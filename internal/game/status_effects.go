package game

import (
	"math"
	"sort"
	"time"

	"monsterlane/internal/monster"
)

type timerAction int

const (
	timerExpire timerAction = iota
	timerPoison
)

// effectTimer is a scheduled callback against one effect record. It is a no-op
// when the record has been replaced (generation mismatch) or the unit is gone.
type effectTimer struct {
	at     time.Duration
	seq    uint64
	unit   monster.UnitID
	kind   monster.EffectKind
	gen    uint64
	action timerAction
}

func (t effectTimer) before(o effectTimer) bool {
	if t.at != o.at {
		return t.at < o.at
	}
	return t.seq < o.seq
}

// timerHeap is a binary min-heap ordered by fire time, then insertion order.
type timerHeap struct {
	timers []effectTimer
}

func (h *timerHeap) len() int {
	return len(h.timers)
}

func (h *timerHeap) peek() effectTimer {
	return h.timers[0]
}

func (h *timerHeap) push(t effectTimer) {
	h.timers = append(h.timers, t)
	i := len(h.timers) - 1
	for i > 0 {
		p := (i - 1) / 2
		if !t.before(h.timers[p]) {
			break
		}
		h.timers[i] = h.timers[p]
		i = p
	}
	h.timers[i] = t
}

func (h *timerHeap) pop() (effectTimer, bool) {
	if len(h.timers) == 0 {
		return effectTimer{}, false
	}
	min := h.timers[0]
	last := h.timers[len(h.timers)-1]
	h.timers = h.timers[:len(h.timers)-1]
	if len(h.timers) == 0 {
		return min, true
	}
	i := 0
	for {
		left := 2*i + 1
		right := left + 1
		if left >= len(h.timers) {
			break
		}
		smallest := left
		if right < len(h.timers) && h.timers[right].before(h.timers[left]) {
			smallest = right
		}
		if !h.timers[smallest].before(last) {
			break
		}
		h.timers[i] = h.timers[smallest]
		i = smallest
	}
	h.timers[i] = last
	return min, true
}

// effectRecord is the live state of one effect kind on one unit. base is the
// value of the modified stat before the first application; reapplying keeps
// it so overlapping applications never compound.
type effectRecord struct {
	kind      monster.EffectKind
	magnitude float64
	expiresAt time.Duration
	gen       uint64
	ticksLeft int
	base      float64
}

// ActiveEffect describes an effect currently running on a unit.
type ActiveEffect struct {
	Kind      monster.EffectKind
	Magnitude float64
	Remaining time.Duration
}

// effectEngine applies timed modifiers and runs their timers.
type effectEngine struct {
	world      *World
	events     *eventQueue
	poisonTick time.Duration

	timers  timerHeap
	seq     uint64
	gen     uint64
	records map[monster.UnitID]map[monster.EffectKind]*effectRecord
}

func newEffectEngine(world *World, events *eventQueue, poisonTick time.Duration) *effectEngine {
	if poisonTick <= 0 {
		poisonTick = time.Second
	}
	return &effectEngine{
		world:      world,
		events:     events,
		poisonTick: poisonTick,
		records:    make(map[monster.UnitID]map[monster.EffectKind]*effectRecord),
	}
}

// apply starts eff on u. Reapplying a running kind replaces its magnitude and
// restarts its duration.
func (e *effectEngine) apply(now time.Duration, u *monster.Unit, eff monster.StatusEffect) {
	if !u.IsAlive() {
		return
	}

	switch eff.Kind {
	case monster.EffectShock:
		u.TakeDamage(eff.Magnitude)

	case monster.EffectPoison:
		ticks := int(math.Ceil(float64(eff.Duration) / float64(e.poisonTick)))
		if ticks <= 0 {
			return
		}
		rec := e.record(u, eff.Kind)
		rec.magnitude = eff.Magnitude
		rec.ticksLeft = ticks
		rec.expiresAt = now + time.Duration(ticks)*e.poisonTick
		e.schedule(now+e.poisonTick, u.ID, rec, timerPoison)

	case monster.EffectSlow, monster.EffectHaste, monster.EffectFortify:
		if eff.Duration <= 0 {
			return
		}
		rec := e.record(u, eff.Kind)
		rec.magnitude = eff.Magnitude
		rec.expiresAt = now + eff.Duration
		modifyStats(u, rec)
		e.schedule(rec.expiresAt, u.ID, rec, timerExpire)

	default:
		// reflect is carried by the catalog but does nothing
		return
	}

	e.events.push(Event{Kind: EventEffectApplied, Unit: u.ID, Team: u.Team, Effect: eff.Kind, X: u.X, Y: u.Y})
}

// record returns the record for kind on u, creating it and capturing the base
// stat on first use, and bumps its generation so older timers lapse.
func (e *effectEngine) record(u *monster.Unit, kind monster.EffectKind) *effectRecord {
	recs, ok := e.records[u.ID]
	if !ok {
		recs = make(map[monster.EffectKind]*effectRecord)
		e.records[u.ID] = recs
	}
	rec, ok := recs[kind]
	if !ok {
		rec = &effectRecord{kind: kind, base: baseStat(u, kind)}
		recs[kind] = rec
	}
	e.gen++
	rec.gen = e.gen
	return rec
}

func (e *effectEngine) schedule(at time.Duration, unit monster.UnitID, rec *effectRecord, action timerAction) {
	e.seq++
	e.timers.push(effectTimer{at: at, seq: e.seq, unit: unit, kind: rec.kind, gen: rec.gen, action: action})
}

// advance fires every timer due at or before now.
func (e *effectEngine) advance(now time.Duration) {
	for e.timers.len() > 0 && e.timers.peek().at <= now {
		t, _ := e.timers.pop()

		rec := e.records[t.unit][t.kind]
		if rec == nil || rec.gen != t.gen {
			continue
		}
		u, ok := e.world.Unit(t.unit)
		if !ok {
			e.forget(t.unit)
			continue
		}

		switch t.action {
		case timerExpire:
			restoreStats(u, rec)
			delete(e.records[t.unit], t.kind)
		case timerPoison:
			u.TakeDamage(rec.magnitude)
			rec.ticksLeft--
			if rec.ticksLeft > 0 && u.IsAlive() {
				e.seq++
				e.timers.push(effectTimer{at: t.at + e.poisonTick, seq: e.seq, unit: t.unit, kind: t.kind, gen: t.gen, action: timerPoison})
			} else {
				delete(e.records[t.unit], t.kind)
			}
		}
	}
}

// forget drops every record for a removed unit; its pending timers then lapse.
func (e *effectEngine) forget(id monster.UnitID) {
	delete(e.records, id)
}

// active lists the effects running on a unit, ordered by kind.
func (e *effectEngine) active(now time.Duration, id monster.UnitID) []ActiveEffect {
	recs := e.records[id]
	out := make([]ActiveEffect, 0, len(recs))
	for _, rec := range recs {
		remaining := rec.expiresAt - now
		if remaining < 0 {
			remaining = 0
		}
		out = append(out, ActiveEffect{Kind: rec.kind, Magnitude: rec.magnitude, Remaining: remaining})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

func baseStat(u *monster.Unit, kind monster.EffectKind) float64 {
	switch kind {
	case monster.EffectSlow:
		return u.Stats.MoveSpeed
	case monster.EffectHaste:
		return float64(u.Stats.AttackDelay)
	case monster.EffectFortify:
		return u.MaxHealth
	}
	return 0
}

func modifyStats(u *monster.Unit, rec *effectRecord) {
	switch rec.kind {
	case monster.EffectSlow:
		u.Stats.MoveSpeed = math.Max(0, rec.base*(1-rec.magnitude/100))
	case monster.EffectHaste:
		u.Stats.AttackDelay = time.Duration(math.Round(math.Max(0, rec.base*(1-rec.magnitude/100))))
	case monster.EffectFortify:
		newMax := rec.base * (1 + rec.magnitude/100)
		if u.MaxHealth > 0 {
			u.Health *= newMax / u.MaxHealth
		}
		u.MaxHealth = newMax
	}
}

func restoreStats(u *monster.Unit, rec *effectRecord) {
	switch rec.kind {
	case monster.EffectSlow:
		u.Stats.MoveSpeed = rec.base
	case monster.EffectHaste:
		u.Stats.AttackDelay = time.Duration(rec.base)
	case monster.EffectFortify:
		u.MaxHealth = rec.base
		u.Health = math.Min(u.Health, rec.base)
	}
}
