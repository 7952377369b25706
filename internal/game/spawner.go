package game

import (
	"time"

	"monsterlane/internal/monster"
)

// Spawner owns the enemy wave timer and the difficulty ramp.
type Spawner struct {
	match *Match

	level              int
	spawnInterval      time.Duration
	spawnDeadline      time.Duration
	difficultyDeadline time.Duration
}

func NewSpawner(match *Match) *Spawner {
	cfg := match.cfg
	return &Spawner{
		match:              match,
		level:              1,
		spawnInterval:      cfg.GetInitialSpawnInterval(),
		spawnDeadline:      cfg.GetFirstSpawnDelay(),
		difficultyDeadline: cfg.GetDifficultyInterval(),
	}
}

// Level is the current difficulty level, starting at 1.
func (s *Spawner) Level() int {
	return s.level
}

// SpawnInterval is the current delay between enemy spawns.
func (s *Spawner) SpawnInterval() time.Duration {
	return s.spawnInterval
}

// updateDifficulty raises the level once per elapsed interval and shortens the
// spawn interval down to the configured floor.
func (s *Spawner) updateDifficulty(now time.Duration) {
	cfg := s.match.cfg
	interval := cfg.GetDifficultyInterval()
	for now >= s.difficultyDeadline {
		s.level++
		s.spawnInterval -= cfg.GetSpawnIntervalStep()
		if floor := cfg.GetMinSpawnInterval(); s.spawnInterval < floor {
			s.spawnInterval = floor
		}
		s.difficultyDeadline += interval
		s.match.events.push(Event{Kind: EventDifficulty, Level: s.level})
	}
}

// updateSpawns spawns one enemy per elapsed spawn deadline.
func (s *Spawner) updateSpawns(now time.Duration) {
	for now >= s.spawnDeadline {
		s.spawnEnemy()
		s.spawnDeadline += s.spawnInterval
	}
}

func (s *Spawner) spawnEnemy() {
	m := s.match
	key := s.pickEnemy()
	if key == "" {
		return
	}
	tmpl := m.enemyRoster[key].Clone()
	cfg := m.cfg.Difficulty
	lvl := float64(s.level - 1)
	tmpl.Stats.Health *= 1 + lvl*cfg.HealthScalePerLevel
	tmpl.Stats.Attack *= 1 + lvl*cfg.AttackScalePerLevel
	m.spawn(tmpl, monster.TeamEnemy)
}

// pickEnemy draws a key from the enemy pool weighted by the template modifier.
func (s *Spawner) pickEnemy() string {
	m := s.match
	keys := m.enemyKeys
	if len(keys) == 0 {
		return ""
	}
	weights := make([]float64, len(keys))
	total := 0.0
	for i, key := range keys {
		w := 1.0
		if m.modifier != nil {
			w = m.modifier.EnemyWeight(m.enemyRoster[key])
		}
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return keys[m.rng.Intn(len(keys))]
	}
	r := m.rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return keys[i]
		}
		r -= w
	}
	return keys[len(keys)-1]
}
