package main

import "image/color"

// Floyd-Steinberg stencil. Every offset points at a cell the raster scan
// has not visited yet.
var diffusionKernel = [...]struct {
	dx, dy int
	weight float64
}{
	{1, 0, 7.0 / 16},
	{-1, 1, 3.0 / 16},
	{0, 1, 5.0 / 16},
	{1, 1, 1.0 / 16},
}

// Diffuse spreads the residual of cell (x, y) onto its unvisited neighbours.
// Error that would land outside the grid is dropped, not renormalized.
// Each channel is clamped to [0, 255] and then truncated.
func (t *TargetGrid) Diffuse(x, y, errR, errG, errB int) {
	for _, k := range diffusionKernel {
		nx, ny := x+k.dx, y+k.dy
		if nx < 0 || nx >= t.w || ny < 0 || ny >= t.h {
			continue
		}
		i := (ny*t.w + nx) * 3
		t.pix[i] = addClamped(t.pix[i], errR, k.weight)
		t.pix[i+1] = addClamped(t.pix[i+1], errG, k.weight)
		t.pix[i+2] = addClamped(t.pix[i+2], errB, k.weight)
	}
}

func addClamped(v uint8, e int, weight float64) uint8 {
	f := float64(v) + float64(e)*weight
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f)
}

// residual returns target - rendered per channel.
func residual(target, rendered color.RGBA) (int, int, int) {
	return int(target.R) - int(rendered.R),
		int(target.G) - int(rendered.G),
		int(target.B) - int(rendered.B)
}
