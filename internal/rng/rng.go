package rng

import rand "math/rand/v2"

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Between returns a number in [min, max]
func Between(g Generator, min, max int) int {
	return min + g.Intn(max-min+1)
}

const goldenRatio64 = 0x9e3779b97f4a7c15

// Seeded is a reproducible generator for tests and simulations
type Seeded struct {
	r *rand.Rand
}

// NewSeeded returns a PCG-backed generator derived from seed
func NewSeeded(seed int64) *Seeded {
	u := uint64(seed)
	return &Seeded{r: rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))}
}

// Intn returns a random number from 0 < n
func (s *Seeded) Intn(n int) int {
	return s.r.IntN(n)
}

// Int63 returns a non-negative pseudo-random 63-bit integer
func (s *Seeded) Int63() int64 {
	return s.r.Int64()
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
