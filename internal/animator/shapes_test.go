package animator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/math/f64"
)

func length(v f64.Vec3) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func TestSolidEdgeCounts(t *testing.T) {
	assert.Len(t, cubeEdges, 12)
	assert.Len(t, solidEdges[SolidTetrahedron], 6)
	assert.Len(t, solidEdges[SolidOctahedron], 12)
	assert.Len(t, solidEdges[SolidPrism], 9)
	assert.Len(t, solidEdges[SolidPyramid], 8)
	assert.Len(t, solidEdges[SolidDodecahedron], 30)
}

func TestSolidOf(t *testing.T) {
	assert.Equal(t, SolidTetrahedron, SolidOf(0))
	assert.Equal(t, SolidDodecahedron, SolidOf(4))
	assert.Equal(t, SolidOctahedron, SolidOf(6))
	assert.Equal(t, "prism", SolidPrism.String())
}

func TestWirePointStaysOnEdges(t *testing.T) {
	for pointID := 0.0; pointID < 3000; pointID++ {
		v := wirePoint(cubeEdges, pointID)
		onFace := 0
		for _, c := range v {
			if math.Abs(math.Abs(c)-shapeSize) < 1e-12 {
				onFace++
			}
		}
		// a point on a cube edge touches two faces at least
		if onFace < 2 {
			t.Fatalf("point %v = %v is not on a cube edge", pointID, v)
		}
	}
}

func TestSpherePointRadius(t *testing.T) {
	for pointID := 0.0; pointID < 3000; pointID += 7 {
		assert.InDelta(t, shapeSize, length(spherePoint(pointID, 12.5)), 1e-12)
	}
}

func TestRotatePreservesLength(t *testing.T) {
	v := f64.Vec3{0.1, -0.2, 0.15}
	for id := 0.0; id < objectCount; id++ {
		for _, tm := range []float64{0, 1.5, 40} {
			assert.InDelta(t, length(v), length(rotate(v, id, tm)), 1e-12)
		}
	}
}

func TestObjectCenterOrbit(t *testing.T) {
	c := objectCenter(2, 10, 1)
	assert.InDelta(t, orbitRadius, math.Hypot(c[0], c[1]), 1e-12)

	squeezed := objectCenter(2, 10, 2)
	assert.InDelta(t, c[0]/2, squeezed[0], 1e-12)
	assert.InDelta(t, c[1], squeezed[1], 1e-12)
}
