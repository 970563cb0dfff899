package main

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"image"
)

// defaultThreshold is the luma below which a secret pixel counts as black.
const defaultThreshold = 128

// Options controls a Split run.
type Options struct {
	// Seed keys the random source. Equal seeds and inputs give identical shares.
	Seed uint64
	// Threshold is the secret binarization luma threshold; 0 selects 128.
	Threshold uint8
}

// Shares is the result of a split: two canvases of 2W×H plus the codes they
// were rendered from.
type Shares struct {
	Share1, Share2 *image.RGBA
	Codes1, Codes2 []ColorCode
	// Width and Height are the secret dimensions.
	Width, Height int
	Seed          uint64
}

// RandomSeed draws a seed from the operating system's entropy source.
func RandomSeed() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// Split encodes secret into two shares that look like cover1 and cover2.
// The covers are resized to the secret's dimensions first.
func Split(secret, cover1, cover2 image.Image, opts Options) (*Shares, error) {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = defaultThreshold
	}

	sb := secret.Bounds()
	if sb.Empty() {
		return nil, ErrEmptyImage
	}
	w, h := sb.Dx(), sb.Dy()

	grid := binarize(secret, threshold)
	t1, err := coverTargets(cover1, w, h)
	if err != nil {
		return nil, fmt.Errorf("cover1: %w", err)
	}
	t2, err := coverTargets(cover2, w, h)
	if err != nil {
		return nil, fmt.Errorf("cover2: %w", err)
	}

	s := generateShares(grid, t1, t2, newRand(opts.Seed))
	s.Seed = opts.Seed
	return s, nil
}

func coverTargets(cover image.Image, w, h int) (*TargetGrid, error) {
	if cover.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	t := newTargetGrid(resizeTo(cover, w, h))
	if t.Width() != w || t.Height() != h {
		return nil, fmt.Errorf("resized to %dx%d, want %dx%d: %w", t.Width(), t.Height(), w, h, ErrDimensionMismatch)
	}
	return t, nil
}

// generateShares runs the raster scan. Diffusion writes ahead into cells not
// yet visited, so the scan must stay strictly row-major and sequential.
// t1 and t2 are consumed.
func generateShares(secret *SecretGrid, t1, t2 *TargetGrid, rng Rand) *Shares {
	w, h := secret.Width(), secret.Height()
	s := &Shares{
		Share1: newShareCanvas(w, h),
		Share2: newShareCanvas(w, h),
		Codes1: make([]ColorCode, 2*w*h),
		Codes2: make([]ColorCode, 2*w*h),
		Width:  w,
		Height: h,
	}
	comp := NewComposer(rng)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			target1 := t1.At(x, y)
			target2 := t2.At(x, y)

			d := comp.Compose(secret.Black(x, y), target1, target2)

			renderPair(s.Share1, x, y, d.Out1)
			renderPair(s.Share2, x, y, d.Out2)
			i := (y*w + x) * 2
			s.Codes1[i], s.Codes1[i+1] = d.Out1[0], d.Out1[1]
			s.Codes2[i], s.Codes2[i+1] = d.Out2[0], d.Out2[1]

			// Only the first subpixel stands for the rendered color.
			er, eg, eb := residual(target1, d.Out1[0].RGB())
			t1.Diffuse(x, y, er, eg, eb)
			er, eg, eb = residual(target2, d.Out2[0].RGB())
			t2.Diffuse(x, y, er, eg, eb)
		}
	}
	return s
}
