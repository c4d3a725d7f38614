package main

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pthm-cable/goldswarm/config"
	"github.com/pthm-cable/goldswarm/sample"
	"github.com/pthm-cable/goldswarm/segment"
	"github.com/pthm-cable/goldswarm/sim"
)

const maskSuffix = ".mask.png"

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

// LabelledImage is a source image with its hand-drawn foreground mask.
type LabelledImage struct {
	Name  string
	Image image.Image
	Truth image.Image // white (opaque) = foreground
}

// LoadLabelled reads every <name>.mask.png in dir together with its <name>.<ext> image.
func LoadLabelled(dir string) ([]LabelledImage, error) {
	masks, err := filepath.Glob(filepath.Join(dir, "*"+maskSuffix))
	if err != nil {
		return nil, err
	}
	var out []LabelledImage
	for _, maskPath := range masks {
		base := strings.TrimSuffix(maskPath, maskSuffix)
		imgPath := ""
		for _, ext := range imageExts {
			if _, err := os.Stat(base + ext); err == nil {
				imgPath = base + ext
				break
			}
		}
		if imgPath == "" {
			return nil, fmt.Errorf("no image for mask %s", maskPath)
		}
		img, err := decodeFile(imgPath)
		if err != nil {
			return nil, err
		}
		truth, err := decodeFile(maskPath)
		if err != nil {
			return nil, err
		}
		out = append(out, LabelledImage{Name: filepath.Base(base), Image: img, Truth: truth})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no *%s files in %s", maskSuffix, dir)
	}
	return out, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := sample.Decode(f, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// TruthMask rasterizes a label image onto a w*h grid. Cells that are both
// opaque and bright count as foreground.
func TruthMask(img image.Image, w, h int) segment.Mask {
	surface := sample.Rasterize(img, w, h)
	m := make(segment.Mask, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := y*surface.Stride + x*4
			luma := (int(surface.Pix[o]) + int(surface.Pix[o+1]) + int(surface.Pix[o+2])) / 3
			if surface.Pix[o+3] > 127 && luma > 127 {
				m[y*w+x] = 1
			}
		}
	}
	return m
}

// IoU returns intersection over union of two masks. Two empty masks agree fully.
func IoU(a, b segment.Mask) float64 {
	var inter, union int
	for i := range a {
		fa, fb := a[i] != 0, b[i] != 0
		if fa && fb {
			inter++
		}
		if fa || fb {
			union++
		}
	}
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

// prepared is a labelled image rasterized once at its working grid.
type prepared struct {
	name  string
	pix   []uint8
	w, h  int
	truth segment.Mask
}

// FitnessEvaluator scores segmentation constants against labelled images.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	images     []prepared

	mu          sync.Mutex
	bestFitness float64
	lastIoU     []float64 // per image, from the most recent Evaluate call
}

// NewFitnessEvaluator rasterizes every image at the grid the sampler would
// pick for baseCfg, so evaluations only rerun segmentation.
func NewFitnessEvaluator(params *ParamVector, images []LabelledImage, baseCfg *config.Config) *FitnessEvaluator {
	sp := sim.SampleParams(baseCfg)
	fe := &FitnessEvaluator{
		params:      params,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
	for _, li := range images {
		b := li.Image.Bounds()
		grid := sample.GridSize(b.Dx(), b.Dy(), baseCfg.Swarm.Capacity, baseCfg.Swarm.Count, sp)
		surface := sample.Rasterize(li.Image, grid.W, grid.H)
		fe.images = append(fe.images, prepared{
			name:  li.Name,
			pix:   surface.Pix,
			w:     grid.W,
			h:     grid.H,
			truth: TruthMask(li.Truth, grid.W, grid.H),
		})
	}
	return fe
}

// Names returns image names in evaluation order.
func (fe *FitnessEvaluator) Names() []string {
	names := make([]string, len(fe.images))
	for i, p := range fe.images {
		names[i] = p.name
	}
	return names
}

// LastIoU returns the per-image scores from the most recent evaluation.
func (fe *FitnessEvaluator) LastIoU() []float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return append([]float64(nil), fe.lastIoU...)
}

// Evaluate returns negative mean IoU for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	p := sim.SegmentParams(cfg)

	scores := make([]float64, len(fe.images))
	var wg sync.WaitGroup
	for i := range fe.images {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			img := &fe.images[idx]
			mask := segment.Segment(img.pix, img.w, img.h, p)
			scores[idx] = IoU(mask, img.truth)
		}(i)
	}
	wg.Wait()

	var total float64
	for _, s := range scores {
		total += s
	}
	fitness := -total / float64(len(scores))

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.lastIoU = scores
	fe.mu.Unlock()

	return fitness
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	c := *fe.baseConfig
	return &c
}
