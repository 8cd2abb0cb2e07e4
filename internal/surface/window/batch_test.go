package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/particle-demo/internal/animator"
	"github.com/iburimskiy/particle-demo/internal/effect"
)

func TestQuadIndicesFitUint16(t *testing.T) {
	require.Len(t, quadIndices, quadsPerBatch*6)
	last := quadIndices[len(quadIndices)-1]
	assert.Equal(t, uint16(quadsPerBatch*4-2), last)
}

func TestBuildPlacesPointQuads(t *testing.T) {
	f := &effect.Frame{
		AlphaScale: 0.5,
		Viewport:   animator.Viewport{Width: 1600, Height: 800},
		Particles: []animator.Particle{
			{Pos: [2]float64{0, 0}, Brightness: 1},
			{Pos: animator.Offscreen, Brightness: 0},
			{Pos: [2]float64{-1, 1}, Brightness: 0.8},
			{Pos: [2]float64{0.5, 0.5}, Brightness: 0},
		},
	}

	var b batches
	b.build(f)
	require.Equal(t, 4, b.quads(), "every particle gets a quad")

	// point size is 2 at a short edge of 800
	v := b.verts[0]
	assert.Equal(t, float32(799), v[0].DstX)
	assert.Equal(t, float32(399), v[0].DstY)
	assert.Equal(t, float32(801), v[3].DstX)
	assert.Equal(t, float32(401), v[3].DstY)
	assert.Equal(t, float32(0.5), v[0].ColorA)

	// parked particles land far outside the viewport, fully transparent
	assert.Equal(t, float32(8799), v[4].DstX)
	assert.Equal(t, float32(-3601), v[4].DstY)
	assert.Zero(t, v[4].ColorA)

	assert.Equal(t, float32(-1), v[8].DstX)
	assert.Equal(t, float32(-1), v[8].DstY)
	assert.InDelta(t, 0.4, v[8].ColorA, 1e-6)

	assert.Zero(t, v[12].ColorA)
}

func TestBuildKeepsDrawSizeFixed(t *testing.T) {
	particles := make([]animator.Particle, 100)
	for i := range particles {
		particles[i] = animator.Particle{Pos: animator.Offscreen}
	}
	f := &effect.Frame{AlphaScale: 1, Viewport: animator.Viewport{Width: 100, Height: 100}, Particles: particles}

	var b batches
	b.build(f)
	assert.Equal(t, 100, b.quads())

	for i := range particles {
		particles[i] = animator.Particle{Brightness: 1}
	}
	b.build(f)
	assert.Equal(t, 100, b.quads())
}

func TestBuildSplitsLargeFrames(t *testing.T) {
	particles := make([]animator.Particle, quadsPerBatch+10)
	for i := range particles {
		particles[i] = animator.Particle{Brightness: 1}
	}
	f := &effect.Frame{AlphaScale: 1, Viewport: animator.Viewport{Width: 100, Height: 100}, Particles: particles}

	var b batches
	b.build(f)
	require.Len(t, b.verts, 2)
	assert.Len(t, b.verts[0], quadsPerBatch*4)
	assert.Len(t, b.verts[1], 40)

	f.Particles = particles[:3]
	b.build(f)
	assert.Equal(t, 3, b.quads(), "batches are reset between frames")
}
