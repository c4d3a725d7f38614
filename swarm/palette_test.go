package swarm

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldRandomStaysWarm(t *testing.T) {
	for u := 0.0; u < 1; u += 0.05 {
		h, s, l := GoldRandom(u).Hsl()
		require.InDelta(t, (0.115+u*0.025)*360, h, 0.5)
		require.InDelta(t, 0.88, s, 0.01)
		require.InDelta(t, 0.38+u*0.20, l, 0.01)
	}
}

func TestGoldFromLumaLightnessTracksLuma(t *testing.T) {
	prev := -1.0
	for luma := 0.0; luma <= 1.0; luma += 0.1 {
		h, _, l := GoldFromLuma(luma).Hsl()
		require.Greater(t, l, prev)
		require.InDelta(t, 43.2+luma*6.48, h, 0.5)
		prev = l
	}
}

func TestFromRGB8(t *testing.T) {
	c := FromRGB8(255, 0, 51)
	assert.InDelta(t, 1.0, c.R, 1e-9)
	assert.Zero(t, c.G)
	assert.InDelta(t, 0.2, c.B, 1e-9)
}

func TestMaterialTint(t *testing.T) {
	assert.Equal(t, colorful.Color{R: 1, G: 1, B: 1}, MaterialTint(ModeFormation))
	r, g, b := MaterialTint(ModeSwarm).RGB255()
	assert.Equal(t, [3]uint8{0xff, 0xca, 0x55}, [3]uint8{r, g, b})
}
