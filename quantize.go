package main

import (
	"encoding/binary"
	"image/color"
	"math"
	"math/rand/v2"
)

// Rand is the single random source shared by the quantizer and the composer.
// *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// newRand returns a ChaCha8 generator keyed by seed. The same seed always
// yields the same draw sequence.
func newRand(seed uint64) *rand.Rand {
	var key [32]byte
	binary.BigEndian.PutUint64(key[:8], seed)
	return rand.New(rand.NewChaCha8(key))
}

// quantCandidates is the search order for nearest; ties keep the first match.
var quantCandidates = [...]ColorCode{CodeR, CodeG, CodeB, CodeC, CodeM, CodeY, CodeW}

// Quantizer maps target colors onto the chromatic palette.
type Quantizer struct {
	rng Rand
}

func NewQuantizer(rng Rand) *Quantizer {
	return &Quantizer{rng: rng}
}

// Nearest returns the closest code to c among RGBCMYW. A white result is
// replaced by a random chromatic code, consuming one draw, so flat bright
// regions do not render as plain white.
func (q *Quantizer) Nearest(c color.RGBA) ColorCode {
	best := nearestCandidate(c)
	if best == CodeW {
		return q.randomChromatic()
	}
	return best
}

func (q *Quantizer) randomChromatic() ColorCode {
	return chromatic[q.rng.IntN(len(chromatic))]
}

func nearestCandidate(c color.RGBA) ColorCode {
	best := CodeW
	minDist := math.MaxInt
	for _, code := range quantCandidates {
		p := paletteRGB[code]
		dr := int(p.R) - int(c.R)
		dg := int(p.G) - int(c.G)
		db := int(p.B) - int(c.B)
		dist := dr*dr + dg*dg + db*db
		if dist < minDist {
			minDist = dist
			best = code
		}
	}
	return best
}
