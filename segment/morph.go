package segment

// Dilate sets a cell when any cell in its (2r+1)x(2r+1) window is set.
func Dilate(m Mask, w, h, r int) Mask {
	out := make(Mask, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if m[idx] != 0 {
				out[idx] = 1
				continue
			}
			if anyInWindow(m, w, h, x, y, r) {
				out[idx] = 1
			}
		}
	}
	return out
}

// Erode keeps a cell only when every cell in its window is set.
// Cells whose window leaves the image are cleared.
func Erode(m Mask, w, h, r int) Mask {
	out := make(Mask, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if m[idx] == 0 {
				continue
			}
			if allInWindow(m, w, h, x, y, r) {
				out[idx] = 1
			}
		}
	}
	return out
}

// Close dilates then erodes by the same radius. Radius 0 returns a copy.
func Close(m Mask, w, h, r int) Mask {
	if r <= 0 {
		out := make(Mask, len(m))
		copy(out, m)
		return out
	}
	return Erode(Dilate(m, w, h, r), w, h, r)
}

func anyInWindow(m Mask, w, h, x, y, r int) bool {
	for dy := -r; dy <= r; dy++ {
		ny := y + dy
		if ny < 0 || ny >= h {
			continue
		}
		row := ny * w
		for dx := -r; dx <= r; dx++ {
			nx := x + dx
			if nx >= 0 && nx < w && m[row+nx] != 0 {
				return true
			}
		}
	}
	return false
}

func allInWindow(m Mask, w, h, x, y, r int) bool {
	for dy := -r; dy <= r; dy++ {
		ny := y + dy
		if ny < 0 || ny >= h {
			return false
		}
		row := ny * w
		for dx := -r; dx <= r; dx++ {
			nx := x + dx
			if nx < 0 || nx >= w || m[row+nx] == 0 {
				return false
			}
		}
	}
	return true
}
