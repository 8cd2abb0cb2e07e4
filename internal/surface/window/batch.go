package window

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/particle-demo/internal/effect"
)

// quadsPerBatch keeps vertex indices within uint16.
const quadsPerBatch = 8192

// quadIndices is shared by every batch.
var quadIndices = func() []uint16 {
	idx := make([]uint16, 0, quadsPerBatch*6)
	for q := range quadsPerBatch {
		v := uint16(q * 4)
		idx = append(idx, v, v+1, v+2, v+1, v+3, v+2)
	}
	return idx
}()

// batches turns a frame into one point quad per particle, at most
// quadsPerBatch per slice. Parked and dark particles still get a quad so the
// draw size depends only on the particle count. Slices are reused between
// frames.
type batches struct {
	verts [][]ebiten.Vertex
}

func (b *batches) build(f *effect.Frame) {
	for i := range b.verts {
		b.verts[i] = b.verts[i][:0]
	}

	w, h := float32(f.Viewport.Width), float32(f.Viewport.Height)
	half := float32(f.Viewport.PointSize() / 2)
	n := 0
	for _, p := range f.Particles {
		a := max(float32(p.Brightness*f.AlphaScale), 0)
		batch := n / quadsPerBatch
		if batch == len(b.verts) {
			b.verts = append(b.verts, make([]ebiten.Vertex, 0, quadsPerBatch*4))
		}

		x := (float32(p.Pos[0]) + 1) / 2 * w
		y := (1 - float32(p.Pos[1])) / 2 * h
		b.verts[batch] = append(b.verts[batch],
			vertex(x-half, y-half, a),
			vertex(x+half, y-half, a),
			vertex(x-half, y+half, a),
			vertex(x+half, y+half, a),
		)
		n++
	}
}

func vertex(x, y, a float32) ebiten.Vertex {
	return ebiten.Vertex{
		DstX: x, DstY: y,
		SrcX: x, SrcY: y,
		ColorR: 1, ColorG: 1, ColorB: 1, ColorA: a,
	}
}

// quads returns the number of quads built.
func (b *batches) quads() int {
	n := 0
	for _, v := range b.verts {
		n += len(v) / 4
	}
	return n
}
