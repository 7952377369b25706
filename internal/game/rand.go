package game

import "math/rand"

// Rand is the random source the simulation draws from. *rand.Rand satisfies
// it; tests inject a seeded one or a scripted fake.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded source.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
