package segment

import "image"

// Seeds returns the background seeds: four corners and four edge midpoints.
func Seeds(w, h int) []image.Point {
	return []image.Point{
		{0, 0},
		{w - 1, 0},
		{0, h - 1},
		{w - 1, h - 1},
		{w >> 1, 0},
		{w >> 1, h - 1},
		{0, h >> 1},
		{w - 1, h >> 1},
	}
}

// Background flood fills from every seed and returns the reached cells (1 = background).
// The result does not depend on seed order since the visited set only grows.
func Background(pix, edges []uint8, w, h int, p Params) []uint8 {
	f := filler{
		pix:   pix,
		edges: edges,
		bg:    make([]uint8, w*h),
		w:     w,
		h:     h,
		p:     p,
	}
	for _, s := range Seeds(w, h) {
		f.fill(s.X, s.Y)
	}
	return f.bg
}

// FloodFill marks into bg every cell reachable from (sx, sy) through cells
// below the edge threshold and within colour tolerance of the seed.
func FloodFill(pix, edges, bg []uint8, w, h, sx, sy int, p Params) {
	f := filler{pix: pix, edges: edges, bg: bg, w: w, h: h, p: p}
	f.fill(sx, sy)
}

type filler struct {
	pix   []uint8
	edges []uint8
	bg    []uint8
	w, h  int
	p     Params
	stack []image.Point

	// Seed colour of the current fill
	sr, sg, sb int
}

func (f *filler) ok(idx int) bool {
	if f.bg[idx] != 0 {
		return false
	}
	if f.edges[idx] > f.p.EdgeThreshold {
		return false
	}
	o := idx * 4
	dr := int(f.pix[o]) - f.sr
	dg := int(f.pix[o+1]) - f.sg
	db := int(f.pix[o+2]) - f.sb
	return dr*dr+dg*dg+db*db <= f.p.ColorToleranceSq
}

// fill runs a column scanline fill: walk up to the run start, then walk down
// marking cells and pushing a neighbour only where a left or right run begins.
func (f *filler) fill(sx, sy int) {
	if sx < 0 || sy < 0 || sx >= f.w || sy >= f.h {
		return
	}
	w, h := f.w, f.h
	si := sy*w + sx
	f.sr, f.sg, f.sb = int(f.pix[si*4]), int(f.pix[si*4+1]), int(f.pix[si*4+2])
	if !f.ok(si) {
		return
	}

	f.stack = append(f.stack[:0], image.Point{sx, sy})
	for len(f.stack) > 0 {
		pt := f.stack[len(f.stack)-1]
		f.stack = f.stack[:len(f.stack)-1]
		fx, fy := pt.X, pt.Y
		pi := fy*w + fx

		for fy >= 0 && f.ok(pi) {
			fy--
			pi -= w
		}
		fy++
		pi += w

		reachLeft, reachRight := false, false
		for fy < h && f.ok(pi) {
			f.bg[pi] = 1
			if fx > 0 {
				if f.ok(pi - 1) {
					if !reachLeft {
						f.stack = append(f.stack, image.Point{fx - 1, fy})
						reachLeft = true
					}
				} else {
					reachLeft = false
				}
			}
			if fx < w-1 {
				if f.ok(pi + 1) {
					if !reachRight {
						f.stack = append(f.stack, image.Point{fx + 1, fy})
						reachRight = true
					}
				} else {
					reachRight = false
				}
			}
			fy++
			pi += w
		}
	}
}
