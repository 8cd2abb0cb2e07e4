package animator

import (
	"math"

	"golang.org/x/image/math/f64"
)

const (
	ringSize     = 150.0 // particles per tunnel ring
	segmentDepth = 0.15  // depth between consecutive rings
	tunnelSpeed  = 5.0   // depth travelled per cycle unit
	maxDepth     = 40.0
	cullDepth    = 38.0
	cullRadius   = 3.0
)

// tunnelSample is one particle placed on the tunnel.
type tunnelSample struct {
	pos    f64.Vec2
	depth  float64
	radius float64
	angle  float64
}

// tunnelDepth returns the depth of particle i at cycle position c.
func tunnelDepth(i, c float64) float64 {
	depth := math.Floor(i/ringSize)*segmentDepth + c*tunnelSpeed
	if depth > maxDepth {
		depth = mod(depth, maxDepth)
	}
	return depth
}

// tunnelAt projects particle i at the given depth. curveScale attenuates the
// sideways bending of the tunnel axis.
func tunnelAt(i, depth, curveScale, t, aspect float64) tunnelSample {
	ring := mod(i, ringSize)

	curve := math.Sin(depth*0.15+t*0.5) * 0.08 * curveScale
	curveY := math.Cos(depth*0.1+t*0.3) * 0.04 * curveScale

	z := depth*0.12 + 0.01
	radius := 0.9 / (z * z)
	angle := ring/ringSize*2*math.Pi + depth*0.02

	return tunnelSample{
		pos: f64.Vec2{
			(math.Cos(angle)*radius + curve) / aspect,
			math.Sin(angle)*radius + curveY,
		},
		depth:  depth,
		radius: radius,
		angle:  angle,
	}
}

func (s tunnelSample) culled() bool {
	return s.depth > cullDepth || s.radius > cullRadius
}

// brightness is depth fog with a slight angular shimmer. Rings right at the
// camera fade in instead of popping.
func (s tunnelSample) brightness() float64 {
	b := 1.3 - s.depth*0.02
	b *= 0.9 + math.Sin(s.angle*5-s.depth*0.3)*0.2
	if s.depth < 1 {
		b *= smoothstep(0, 1, s.depth)
	}
	return b
}

func tunnel(i float64, c, _ float64, t, aspect float64) Particle {
	s := tunnelAt(i, tunnelDepth(i, c), 1, t, aspect)
	if s.culled() {
		return hidden()
	}
	return Particle{Pos: s.pos, Brightness: s.brightness()}
}

// disappearing keeps the tunnel moving while particles drop out one by one:
// a particle stays hidden for the rest of the phase once its hash falls
// below the progress.
func disappearing(i float64, c, progress float64, t, aspect float64) Particle {
	s := tunnelAt(i, tunnelDepth(i, c), 1, t, aspect)
	if s.culled() || Hash(i*7) < progress {
		return hidden()
	}
	return Particle{Pos: s.pos, Brightness: s.brightness() * (1 - progress*0.3)}
}
