/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package floorplan

import (
	crand "crypto/rand"
	"math/rand/v2"
)

type Shuffler interface {
	// Shuffle returns a new slice holding a permutation of names.
	Shuffle(names []string) []string
}

type randShuffler struct {
	rng *rand.Rand
}

// NewShuffler returns a uniform Fisher-Yates shuffler. A nil src is replaced by
// a ChaCha8 source seeded from crypto/rand.
func NewShuffler(src rand.Source) Shuffler {
	if src == nil {
		var seed [32]byte
		if _, err := crand.Read(seed[:]); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		src = rand.NewChaCha8(seed)
	}
	return &randShuffler{rng: rand.New(src)}
}

func (s *randShuffler) Shuffle(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)

	for i := len(out) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}
