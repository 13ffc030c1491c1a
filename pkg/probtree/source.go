package probtree

import "math/rand/v2"

// Source supplies the randomness for weighted draws.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	// Int64N returns a uniform value in [0, n). n is always positive.
	Int64N(n int64) int64
}

// NewSource returns a deterministic source seeded with seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalSource struct{}

func (globalSource) Int64N(n int64) int64 { return rand.Int64N(n) }

func orGlobal(src Source) Source {
	if src == nil {
		return globalSource{}
	}
	return src
}
