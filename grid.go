package main

import (
	"image"
	"image/color"
)

// SecretGrid is the binarized secret; true means black.
type SecretGrid struct {
	w, h int
	pix  []bool
}

func newSecretGrid(w, h int) *SecretGrid {
	return &SecretGrid{w: w, h: h, pix: make([]bool, w*h)}
}

func (s *SecretGrid) Width() int  { return s.w }
func (s *SecretGrid) Height() int { return s.h }

func (s *SecretGrid) Black(x, y int) bool {
	return s.pix[y*s.w+x]
}

func (s *SecretGrid) set(x, y int, black bool) {
	s.pix[y*s.w+x] = black
}

// binarize turns img into a secret grid: luma below threshold is black.
// Transparent pixels read as white. No dithering is applied.
func binarize(img image.Image, threshold uint8) *SecretGrid {
	flat := flattenOverWhite(img)
	s := newSecretGrid(flat.Rect.Dx(), flat.Rect.Dy())
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			g := color.GrayModel.Convert(flat.RGBAAt(x, y)).(color.Gray)
			s.set(x, y, g.Y < threshold)
		}
	}
	return s
}

// TargetGrid holds the colors a share is trying to approximate.
// Pixels are packed RGB, three bytes per cell, row-major.
type TargetGrid struct {
	w, h int
	pix  []uint8
}

func newTargetGrid(img image.Image) *TargetGrid {
	b := img.Bounds()
	t := &TargetGrid{w: b.Dx(), h: b.Dy(), pix: make([]uint8, b.Dx()*b.Dy()*3)}

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < t.h; y++ {
			row := rgba.Pix[(y+b.Min.Y-rgba.Rect.Min.Y)*rgba.Stride+(b.Min.X-rgba.Rect.Min.X)*4:]
			for x := 0; x < t.w; x++ {
				i := (y*t.w + x) * 3
				t.pix[i] = row[x*4]
				t.pix[i+1] = row[x*4+1]
				t.pix[i+2] = row[x*4+2]
			}
		}
		return t
	}

	for y := 0; y < t.h; y++ {
		for x := 0; x < t.w; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			t.set(x, y, c)
		}
	}
	return t
}

func (t *TargetGrid) Width() int  { return t.w }
func (t *TargetGrid) Height() int { return t.h }

func (t *TargetGrid) At(x, y int) color.RGBA {
	i := (y*t.w + x) * 3
	return color.RGBA{t.pix[i], t.pix[i+1], t.pix[i+2], 255}
}

func (t *TargetGrid) set(x, y int, c color.RGBA) {
	i := (y*t.w + x) * 3
	t.pix[i] = c.R
	t.pix[i+1] = c.G
	t.pix[i+2] = c.B
}
