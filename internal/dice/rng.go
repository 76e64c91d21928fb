package dice

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// RandomSource is the only randomness the simulator consumes.
// Implementations are not safe for concurrent use; give each game its own.
type RandomSource interface {
	Float64() float64 // [0, 1)
	IntN(n int) int   // [0, n)
}

// SeededRNG is a replicable PCG source. Same seed => same sequence on every platform.
type SeededRNG struct {
	seed uint64
	r    *rand.Rand
}

func NewSeededRNG(seed uint64) *SeededRNG {
	return &SeededRNG{seed: seed, r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *SeededRNG) Float64() float64 { return s.r.Float64() }

func (s *SeededRNG) IntN(n int) int { return s.r.IntN(n) }

// Seed returns the seed the source was last (re)seeded with.
func (s *SeededRNG) Seed() uint64 { return s.seed }

// Reseed rewinds the source onto a new sequence.
func (s *SeededRNG) Reseed(seed uint64) {
	s.seed = seed
	s.r = rand.New(rand.NewPCG(seed, 0))
}

// RollD20 returns an integer in [1, 20].
func RollD20(src RandomSource) int {
	return src.IntN(Faces) + 1
}

// DeriveSeed folds a monotonic counter into a base seed (SplitMix64 finalizer),
// so per-possession and per-game sequences are independent but reproducible.
func DeriveSeed(base, counter uint64) uint64 {
	z := base + (counter+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// NewSeed reads a fresh top-level seed from crypto/rand.
func NewSeed() (uint64, error) {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
