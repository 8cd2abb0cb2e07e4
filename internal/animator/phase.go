package animator

import "fmt"

const (
	// Speed converts clock seconds into cycle units.
	Speed = 0.25
	// Period is the length of one full phase cycle in cycle units.
	Period = 16.0
)

// Phase is one time window of the animation cycle.
type Phase int

const (
	PhaseTunnel Phase = iota
	PhaseDisappearing
	PhaseExplosion
	PhaseSphereToCube
	PhaseCubeToPolygon
	PhasePolygonToTunnel

	phaseCount
)

// phaseStarts holds the lower bound of every phase in cycle units. Bounds
// are strictly increasing; the last phase runs up to Period.
var phaseStarts = [phaseCount]float64{0, 4, 5, 7, 10, 13}

var phaseNames = [phaseCount]string{
	"tunnel",
	"disappearing",
	"explosion-to-sphere",
	"sphere-to-cube",
	"cube-to-polygon",
	"polygon-to-tunnel",
}

func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Start returns the first cycle position belonging to the phase.
func (p Phase) Start() float64 {
	return phaseStarts[p]
}

// End returns the first cycle position after the phase.
func (p Phase) End() float64 {
	if p+1 >= phaseCount {
		return Period
	}
	return phaseStarts[p+1]
}

// Duration returns the phase length in cycle units.
func (p Phase) Duration() float64 {
	return p.End() - p.Start()
}

// Phases returns every phase in cycle order.
func Phases() []Phase {
	out := make([]Phase, phaseCount)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// Cycle returns the position of clock time t inside the phase cycle.
func Cycle(t float64) float64 {
	return mod(t*Speed, Period)
}

// Locate classifies clock time t. It returns the phase, the cycle position
// and the progress through the phase in [0, 1). The first window whose end
// lies beyond the cycle position wins; anything left belongs to the last.
func Locate(t float64) (Phase, float64, float64) {
	c := Cycle(t)
	p := PhaseTunnel
	for p < phaseCount-1 && c >= p.End() {
		p++
	}
	progress := clamp((c-p.Start())/p.Duration(), 0, 1)
	return p, c, progress
}
