// Package segment separates a sampled image into foreground and background
// without a trained model.
//
// The pipeline is: alpha shortcut, luma grayscale, Sobel edge magnitude,
// edge-aware scanline flood fill from eight border seeds, inversion, and a
// morphological close. All buffers are flat row-major slices of w*h cells;
// pixel data is non-premultiplied RGBA as in image.NRGBA.Pix.
package segment

// Mask is a binary foreground mask, 1 = foreground.
type Mask []uint8

// Count returns the number of foreground cells.
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v != 0 {
			n++
		}
	}
	return n
}

// Params holds the fixed segmentation constants.
type Params struct {
	AlphaThreshold       uint8
	TransparencyFraction float64
	EdgeThreshold        uint8
	ColorToleranceSq     int
	CloseRadius          int
}

// DefaultParams returns the hand-tuned constants.
func DefaultParams() Params {
	return Params{
		AlphaThreshold:       128,
		TransparencyFraction: 0.05,
		EdgeThreshold:        30,
		ColorToleranceSq:     60 * 60,
		CloseRadius:          2,
	}
}

// Segment returns the foreground mask for a w*h RGBA buffer.
func Segment(pix []uint8, w, h int, p Params) Mask {
	total := w * h
	if total == 0 || len(pix) < total*4 {
		return Mask{}
	}

	if TransparentFraction(pix, w, h, p.AlphaThreshold) > p.TransparencyFraction {
		return AlphaMask(pix, w, h, p.AlphaThreshold)
	}

	gray := Grayscale(pix, w, h)
	edges := Sobel(gray, w, h)
	bg := Background(pix, edges, w, h, p)

	mask := make(Mask, total)
	for i, b := range bg {
		if b == 0 {
			mask[i] = 1
		}
	}

	return Close(mask, w, h, p.CloseRadius)
}

// TransparentFraction returns the fraction of pixels with alpha below threshold.
func TransparentFraction(pix []uint8, w, h int, threshold uint8) float64 {
	total := w * h
	if total == 0 {
		return 0
	}
	n := 0
	for i := 3; i < total*4; i += 4 {
		if pix[i] < threshold {
			n++
		}
	}
	return float64(n) / float64(total)
}

// AlphaMask marks pixels whose alpha is strictly above threshold.
func AlphaMask(pix []uint8, w, h int, threshold uint8) Mask {
	total := w * h
	mask := make(Mask, total)
	for i := 0; i < total; i++ {
		if pix[i*4+3] > threshold {
			mask[i] = 1
		}
	}
	return mask
}

// Grayscale converts RGBA to luma using 0.299R + 0.587G + 0.114B, truncated.
func Grayscale(pix []uint8, w, h int) []uint8 {
	total := w * h
	gray := make([]uint8, total)
	for i := 0; i < total; i++ {
		o := i * 4
		gray[i] = uint8(0.299*float64(pix[o]) + 0.587*float64(pix[o+1]) + 0.114*float64(pix[o+2]))
	}
	return gray
}
