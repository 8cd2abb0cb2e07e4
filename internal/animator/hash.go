package animator

import "math"

// Hash maps n to a stable pseudo-random value in [0, 1).
//
// The exact form fract(sin(n) * 43758.5453123) matters: the same value is
// read by the source and the target shape of a morph, so any other hash
// breaks continuity between phases.
func Hash(n float64) float64 {
	h := fract(math.Sin(n) * 43758.5453123)
	// x - floor(x) rounds up to 1 for tiny negative x.
	if h >= 1 {
		return 0
	}
	return h
}
