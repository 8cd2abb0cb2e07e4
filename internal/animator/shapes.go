package animator

import (
	"math"

	"golang.org/x/image/math/f64"
)

const (
	objectCount = 5.0 // orbiting objects; spheres, cubes and solids share it
	shapeSize   = 0.2
	orbitRadius = 0.5
)

// edge is a wireframe segment between two vertices.
type edge struct {
	from, to f64.Vec3
}

// Solid is one of the named shapes of the cube-to-polygon phase.
type Solid int

const (
	SolidTetrahedron Solid = iota
	SolidOctahedron
	SolidPrism
	SolidPyramid
	SolidDodecahedron
)

var solidNames = [...]string{"tetrahedron", "octahedron", "prism", "pyramid", "dodecahedron"}

func (s Solid) String() string {
	return solidNames[s]
}

// SolidOf returns the solid particle i belongs to.
func SolidOf(i int) Solid {
	return Solid(i % int(objectCount))
}

var (
	cubeEdges  = buildCube(shapeSize)
	solidEdges = [...][]edge{
		SolidTetrahedron:  buildTetrahedron(shapeSize),
		SolidOctahedron:   buildOctahedron(shapeSize),
		SolidPrism:        buildPrism(shapeSize),
		SolidPyramid:      buildPyramid(shapeSize),
		SolidDodecahedron: buildDodecahedron(shapeSize * 0.5),
	}
)

func buildCube(s float64) []edge {
	return []edge{
		// top
		{f64.Vec3{-s, s, -s}, f64.Vec3{s, s, -s}},
		{f64.Vec3{s, s, -s}, f64.Vec3{s, s, s}},
		{f64.Vec3{s, s, s}, f64.Vec3{-s, s, s}},
		{f64.Vec3{-s, s, s}, f64.Vec3{-s, s, -s}},
		// bottom
		{f64.Vec3{-s, -s, -s}, f64.Vec3{s, -s, -s}},
		{f64.Vec3{s, -s, -s}, f64.Vec3{s, -s, s}},
		{f64.Vec3{s, -s, s}, f64.Vec3{-s, -s, s}},
		{f64.Vec3{-s, -s, s}, f64.Vec3{-s, -s, -s}},
		// verticals
		{f64.Vec3{-s, -s, -s}, f64.Vec3{-s, s, -s}},
		{f64.Vec3{s, -s, -s}, f64.Vec3{s, s, -s}},
		{f64.Vec3{-s, -s, s}, f64.Vec3{-s, s, s}},
		{f64.Vec3{s, -s, s}, f64.Vec3{s, s, s}},
	}
}

func buildTetrahedron(s float64) []edge {
	apex := f64.Vec3{0, s, 0}
	right := f64.Vec3{s * 0.866, -s * 0.5, 0}
	left := f64.Vec3{-s * 0.866, -s * 0.5, 0}
	front := f64.Vec3{0, 0, s}
	return []edge{
		{apex, right}, {right, left}, {left, apex},
		{apex, front}, {right, front}, {left, front},
	}
}

func buildOctahedron(s float64) []edge {
	top := f64.Vec3{0, s, 0}
	bottom := f64.Vec3{0, -s, 0}
	ring := []f64.Vec3{{s, 0, 0}, {0, 0, s}, {-s, 0, 0}, {0, 0, -s}}

	var edges []edge
	for k, v := range ring {
		edges = append(edges,
			edge{top, v},
			edge{bottom, v},
			edge{v, ring[(k+1)%len(ring)]},
		)
	}
	return edges
}

func buildPrism(s float64) []edge {
	corners := []f64.Vec3{{0, 0, s}, {s * 0.866, 0, -s * 0.5}, {-s * 0.866, 0, -s * 0.5}}

	var edges []edge
	for k, c := range corners {
		next := corners[(k+1)%len(corners)]
		top := f64.Vec3{c[0], s * 0.5, c[2]}
		bottom := f64.Vec3{c[0], -s * 0.5, c[2]}
		edges = append(edges,
			edge{top, f64.Vec3{next[0], s * 0.5, next[2]}},
			edge{bottom, f64.Vec3{next[0], -s * 0.5, next[2]}},
			edge{top, bottom},
		)
	}
	return edges
}

func buildPyramid(s float64) []edge {
	apex := f64.Vec3{0, s, 0}
	base := []f64.Vec3{
		{s, -s * 0.5, s},
		{s, -s * 0.5, -s},
		{-s, -s * 0.5, -s},
		{-s, -s * 0.5, s},
	}

	var edges []edge
	for k, v := range base {
		edges = append(edges, edge{apex, v}, edge{v, base[(k+1)%len(base)]})
	}
	return edges
}

// buildDodecahedron connects the 20 vertices (±1,±1,±1), (0,±1/φ,±φ),
// (±1/φ,±φ,0), (±φ,0,±1/φ) into the 30 edges of length 2/φ.
func buildDodecahedron(s float64) []edge {
	phi := (1 + math.Sqrt(5)) / 2
	inv := 1 / phi

	var verts []f64.Vec3
	for _, a := range []float64{-1, 1} {
		for _, b := range []float64{-1, 1} {
			for _, c := range []float64{-1, 1} {
				verts = append(verts, f64.Vec3{a, b, c})
			}
			verts = append(verts,
				f64.Vec3{0, a * inv, b * phi},
				f64.Vec3{a * inv, b * phi, 0},
				f64.Vec3{a * phi, 0, b * inv},
			)
		}
	}

	want := 2 * inv
	var edges []edge
	for x := 0; x < len(verts); x++ {
		for y := x + 1; y < len(verts); y++ {
			d := math.Sqrt(sq(verts[x][0]-verts[y][0]) + sq(verts[x][1]-verts[y][1]) + sq(verts[x][2]-verts[y][2]))
			if math.Abs(d-want) < 1e-9 {
				edges = append(edges, edge{scale3(verts[x], s), scale3(verts[y], s)})
			}
		}
	}
	return edges
}

func sq(x float64) float64 { return x * x }

// wirePoint spreads particle number pointID over a wireframe. The edge
// stride of 7 is coprime with every edge count used here, and the position
// along the edge follows the golden-ratio sequence.
func wirePoint(edges []edge, pointID float64) f64.Vec3 {
	e := edges[int(mod(pointID*7, float64(len(edges))))]
	return mix3(e.from, e.to, fract(pointID*0.618))
}

// spherePoint is a hash-distributed point on a sphere of radius shapeSize.
// The azimuth drifts with time.
func spherePoint(pointID, t float64) f64.Vec3 {
	theta := Hash(pointID)*2*math.Pi + t
	phi := math.Acos(Hash(pointID+1000)*2 - 1)
	return f64.Vec3{
		math.Sin(phi) * math.Cos(theta) * shapeSize,
		math.Sin(phi) * math.Sin(theta) * shapeSize,
		math.Cos(phi) * shapeSize,
	}
}

// object identifies the orbiting object a particle belongs to and the
// particle's number within it.
func object(i float64) (id, pointID float64) {
	return mod(i, objectCount), math.Floor(i / objectCount)
}

// objectCenter is the orbit position of object id.
func objectCenter(id, t, aspect float64) f64.Vec2 {
	a := id/objectCount*2*math.Pi + t*0.3
	return f64.Vec2{math.Cos(a) * orbitRadius / aspect, math.Sin(a) * orbitRadius}
}

// rotate spins v about X then Y. Every shape of an object goes through the
// same rotation so morphs between them stay in place.
func rotate(v f64.Vec3, id, t float64) f64.Vec3 {
	rx := t*0.7 + id
	ry := t + id*0.3

	sx, cx := math.Sincos(rx)
	y := v[1]*cx - v[2]*sx
	z := v[1]*sx + v[2]*cx

	sy, cy := math.Sincos(ry)
	x := v[0]*cy - z*sy
	z = v[0]*sy + z*cy

	return f64.Vec3{x, y, z}
}

// project places a rotated shape point around its object center.
func project(center f64.Vec2, v f64.Vec3, aspect float64) f64.Vec2 {
	return f64.Vec2{center[0] + v[0]/aspect, center[1] + v[1]}
}

// litBrightness approximates lighting from the depth of the rotated point.
func litBrightness(v f64.Vec3) float64 {
	return 0.7 + v[2]*2
}

func sphereShape(i, t float64) f64.Vec3 {
	id, pointID := object(i)
	return rotate(spherePoint(pointID, t), id, t)
}

func cubeShape(i, t float64) f64.Vec3 {
	id, pointID := object(i)
	return rotate(wirePoint(cubeEdges, pointID), id, t)
}

func solidShape(i, t float64) f64.Vec3 {
	id, pointID := object(i)
	return rotate(wirePoint(solidEdges[int(id)], pointID), id, t)
}

// explosion throws particles out of the center along hashed directions and
// eases them onto the orbiting spheres.
func explosion(i float64, _, progress float64, t, aspect float64) Particle {
	angle := Hash(i) * 2 * math.Pi
	elevation := (Hash(i+777) - 0.5) * math.Pi * 0.7
	speed := Hash(i+333)*0.7 + 0.3

	dir := f64.Vec3{
		math.Cos(angle) * math.Cos(elevation),
		math.Sin(elevation) * 0.5,
		math.Sin(angle) * math.Cos(elevation),
	}

	// fast at first, then slowing down
	et := 1 - math.Pow(1-progress, 2)
	r := et * speed * 2
	burst := f64.Vec2{dir[0] / aspect * r, dir[1] * r}
	burstBrightness := (1 - et*0.5) * 1.2

	id, _ := object(i)
	sphere := sphereShape(i, t)
	target := project(objectCenter(id, t, aspect), sphere, aspect)

	w := smoothstep(0.3, 0.95, progress)
	return Particle{
		Pos:        mix2(burst, target, w),
		Brightness: mix(burstBrightness, litBrightness(sphere), w),
	}
}

func sphereToCube(i float64, _, progress float64, t, aspect float64) Particle {
	id, _ := object(i)
	v := mix3(sphereShape(i, t), cubeShape(i, t), smoothstep(0, 1, progress))
	return Particle{
		Pos:        project(objectCenter(id, t, aspect), v, aspect),
		Brightness: litBrightness(v),
	}
}

func cubeToPolygon(i float64, _, progress float64, t, aspect float64) Particle {
	id, _ := object(i)
	v := mix3(cubeShape(i, t), solidShape(i, t), smoothstep(0, 1, progress))
	return Particle{
		Pos:        project(objectCenter(id, t, aspect), v, aspect),
		Brightness: litBrightness(v),
	}
}

// polygonToTunnel pulls the solids toward the origin while the particles
// slide onto the tunnel as it looks when the next cycle begins.
func polygonToTunnel(i float64, _, progress float64, t, aspect float64) Particle {
	id, _ := object(i)
	v := solidShape(i, t)

	center := objectCenter(id, t, aspect)
	shrink := 1 - progress*0.8
	center = f64.Vec2{center[0] * shrink, center[1] * shrink}
	from := project(center, v, aspect)

	s := tunnelAt(i, tunnelDepth(i, 0), progress, t, aspect)
	toBrightness := s.brightness()
	if s.culled() {
		toBrightness = 0
	}

	w := smoothstep(0, 1, progress)
	return Particle{
		Pos:        mix2(from, s.pos, w),
		Brightness: mix(litBrightness(v), toBrightness, w),
	}
}
