// Package animator computes the particle cloud of the demo effect.
//
// Every particle is a pure function of its index, the effect clock and the
// viewport aspect ratio. Nothing is carried from frame to frame, so any
// subset of particles can be evaluated in any order.
package animator

import (
	"context"
	"runtime"

	"golang.org/x/image/math/f64"
	"golang.org/x/sync/errgroup"
)

// DefaultParticles is the size of the particle cloud.
const DefaultParticles = 15000

// Offscreen is where hidden particles are parked. The renderer always draws
// the full cloud, so hiding means moving a particle out of view.
var Offscreen = f64.Vec2{10, 10}

// Particle is the evaluated state of one particle for one frame. Positions
// are in clip space; [-1, 1] on both axes is visible.
type Particle struct {
	Pos        f64.Vec2
	Brightness float64
}

// Hidden reports whether the particle was culled.
func (p Particle) Hidden() bool {
	return p.Pos == Offscreen
}

// OnScreen reports whether the particle lands inside the visible square.
func (p Particle) OnScreen() bool {
	return p.Pos[0] >= -1 && p.Pos[0] <= 1 && p.Pos[1] >= -1 && p.Pos[1] <= 1
}

func hidden() Particle {
	return Particle{Pos: Offscreen}
}

// geometryFunc evaluates particle i inside a phase. c is the cycle
// position and progress the fraction of the phase elapsed.
type geometryFunc func(i, c, progress, t, aspect float64) Particle

var geometry = [phaseCount]geometryFunc{
	PhaseTunnel:          tunnel,
	PhaseDisappearing:    disappearing,
	PhaseExplosion:       explosion,
	PhaseSphereToCube:    sphereToCube,
	PhaseCubeToPolygon:   cubeToPolygon,
	PhasePolygonToTunnel: polygonToTunnel,
}

// Evaluate returns particle index at clock time t for the given aspect
// ratio (width over height). Brightness is never negative.
func Evaluate(index int, t, aspect float64) Particle {
	phase, c, progress := Locate(t)
	p := geometry[phase](float64(index), c, progress, t, aspect)
	if p.Brightness < 0 {
		p.Brightness = 0
	}
	return p
}

// Animator evaluates the whole cloud, splitting it into chunks that run in
// parallel.
type Animator struct {
	workers int
	chunk   int
}

const defaultChunk = 1024

// New returns an Animator using up to workers goroutines per frame. A
// non-positive count means one per CPU.
func New(workers int) *Animator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Animator{workers: workers, chunk: defaultChunk}
}

// EvaluateAll fills dst with particles 0..len(dst)-1 at clock time t.
func (a *Animator) EvaluateAll(ctx context.Context, dst []Particle, t, aspect float64) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for start := 0; start < len(dst); start += a.chunk {
		end := min(start+a.chunk, len(dst))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				dst[i] = Evaluate(i, t, aspect)
			}
			return nil
		})
	}
	return g.Wait()
}
