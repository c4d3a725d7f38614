package segment

import "math"

// Sobel returns the 3x3 Sobel gradient magnitude of a grayscale buffer.
// Magnitudes are clamped to 255 and then rescaled so the strongest edge maps
// to 255. Border cells have no full neighbourhood and stay 0.
func Sobel(gray []uint8, w, h int) []uint8 {
	edges := make([]uint8, w*h)
	maxE := 0.0

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			idx := y*w + x
			tl := int(gray[idx-w-1])
			tc := int(gray[idx-w])
			tr := int(gray[idx-w+1])
			ml := int(gray[idx-1])
			mr := int(gray[idx+1])
			bl := int(gray[idx+w-1])
			bc := int(gray[idx+w])
			br := int(gray[idx+w+1])

			gx := -tl + tr - 2*ml + 2*mr - bl + br
			gy := -tl - 2*tc - tr + bl + 2*bc + br

			mag := math.Sqrt(float64(gx*gx + gy*gy))
			if mag > 255 {
				mag = 255
			}
			edges[idx] = uint8(mag)
			if mag > maxE {
				maxE = mag
			}
		}
	}

	if maxE > 0 {
		scale := 255 / maxE
		for i, e := range edges {
			v := float64(e) * scale
			if v > 255 {
				v = 255
			}
			edges[i] = uint8(v)
		}
	}

	return edges
}
