package main

import (
	"fmt"
	"image"
)

// Stack overlays two shares multiplicatively, like two transparencies on a
// light table: out = round(a/255 * b/255 * 255) per channel. The result keeps
// the share resolution.
func Stack(a, b image.Image) (*image.RGBA, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return nil, fmt.Errorf("stack %dx%d with %dx%d: %w", ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy(), ErrDimensionMismatch)
	}

	ra := ImageToRGBA(a)
	rb := ImageToRGBA(b)
	dst := image.NewRGBA(image.Rect(0, 0, ab.Dx(), ab.Dy()))
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = multiply(ra.Pix[i], rb.Pix[i])
		dst.Pix[i+1] = multiply(ra.Pix[i+1], rb.Pix[i+1])
		dst.Pix[i+2] = multiply(ra.Pix[i+2], rb.Pix[i+2])
		dst.Pix[i+3] = 255
	}
	return dst, nil
}

// multiply computes round(a*b/255). a*b/255 never lands exactly on .5, so
// adding 127 before the division rounds correctly.
func multiply(a, b uint8) uint8 {
	return uint8((int(a)*int(b) + 127) / 255)
}
