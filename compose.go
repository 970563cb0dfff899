package main

import "image/color"

// darkThreshold is the channel sum below which a target counts as black.
const darkThreshold = 30

// Branch is the (share1, share2) brightness combination for one pixel.
type Branch uint8

const (
	BranchWW Branch = iota
	BranchWK
	BranchKW
	BranchKK
)

func (b Branch) String() string {
	switch b {
	case BranchWW:
		return "WW"
	case BranchWK:
		return "WK"
	case BranchKW:
		return "KW"
	case BranchKK:
		return "KK"
	}
	return "invalid"
}

func isDark(c color.RGBA) bool {
	return int(c.R)+int(c.G)+int(c.B) < darkThreshold
}

func classify(t1, t2 color.RGBA) Branch {
	dark1, dark2 := isDark(t1), isDark(t2)
	switch {
	case !dark1 && !dark2:
		return BranchWW
	case !dark1 && dark2:
		return BranchWK
	case dark1 && !dark2:
		return BranchKW
	default:
		return BranchKK
	}
}

// Decision records how one secret pixel was encoded into both shares.
type Decision struct {
	Branch Branch
	// Pre1 and Pre2 are the pairs before permutation.
	Pre1, Pre2 Pair
	// Swapped is the permutation drawn once and applied to both pairs.
	Swapped bool
	Out1    Pair
	Out2    Pair
}

// Composer decides the subpixel colors of both shares pixel by pixel.
// Per pixel it draws, in order: quantizer(target1), quantizer(target2),
// the dummy fill when the branch needs one, then the permutation.
type Composer struct {
	q   *Quantizer
	rng Rand
}

func NewComposer(rng Rand) *Composer {
	return &Composer{q: NewQuantizer(rng), rng: rng}
}

func (c *Composer) Compose(secretBlack bool, target1, target2 color.RGBA) Decision {
	branch := classify(target1, target2)
	code1 := c.q.Nearest(target1)
	code2 := c.q.Nearest(target2)

	d := Decision{Branch: branch}
	switch branch {
	case BranchWW:
		d.Pre1 = Pair{code1, code2}
		if secretBlack {
			d.Pre2 = d.Pre1.Complement()
		} else {
			d.Pre2 = d.Pre1
		}
	case BranchWK:
		// share2's own ideal code is not used here.
		dummy := c.q.randomChromatic()
		d.Pre1 = Pair{code1, dummy}
		if secretBlack {
			d.Pre2 = Pair{code1.Complement(), CodeK}
		} else {
			d.Pre2 = Pair{code1, CodeK}
		}
	case BranchKW:
		// Not the mirror of WK: share1 goes fully dark.
		d.Pre1 = Pair{CodeK, CodeK}
		if secretBlack {
			d.Pre2 = Pair{CodeK, code2.Complement()}
		} else {
			d.Pre2 = Pair{CodeK, code2}
		}
	case BranchKK:
		d.Pre1 = Pair{CodeK, CodeK}
		d.Pre2 = Pair{CodeK, CodeK}
	}

	d.Swapped = c.rng.IntN(2) == 1
	d.Out1 = permute(d.Pre1, d.Swapped)
	d.Out2 = permute(d.Pre2, d.Swapped)
	return d
}

func permute(p Pair, swapped bool) Pair {
	if swapped {
		return Pair{p[1], p[0]}
	}
	return p
}
