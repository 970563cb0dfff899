package main

import "image"

// newShareCanvas allocates a share twice as wide as the secret.
func newShareCanvas(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, 2*w, h))
}

// renderPair writes p into columns 2x and 2x+1 of row y.
func renderPair(dst *image.RGBA, x, y int, p Pair) {
	off := dst.PixOffset(2*x, y)
	for i, code := range p {
		c := code.RGB()
		px := dst.Pix[off+i*4 : off+i*4+4 : off+i*4+4]
		px[0] = c.R
		px[1] = c.G
		px[2] = c.B
		px[3] = 255
	}
}

// renderCodes rebuilds a share canvas from its code plane, two codes per
// secret pixel.
func renderCodes(codes []ColorCode, w, h int) *image.RGBA {
	dst := newShareCanvas(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 2
			renderPair(dst, x, y, Pair{codes[i], codes[i+1]})
		}
	}
	return dst
}
