package animator

import "math"

// referenceSize is the viewport edge at which points are drawn at full
// size and opacity.
const referenceSize = 800.0

// Viewport is the size of the drawing surface in pixels.
type Viewport struct {
	Width, Height float64
}

// Aspect returns width over height. A zero height counts as one pixel.
func (v Viewport) Aspect() float64 {
	return v.Width / math.Max(v.Height, 1)
}

// Scale is the short edge relative to the reference size.
func (v Viewport) Scale() float64 {
	return math.Min(v.Width, v.Height) / referenceSize
}

// PointSize is the edge of one particle in pixels.
func (v Viewport) PointSize() float64 {
	return math.Max(1, 2*v.Scale())
}

// OpacityScale dims particles on small viewports, down to half.
func (v Viewport) OpacityScale() float64 {
	return mix(0.5, 1, clamp(v.Scale(), 0, 1))
}

// Alpha is the final opacity of a particle:
// brightness * fade * alphaScale * OpacityScale.
func (v Viewport) Alpha(brightness, fade, alphaScale float64) float64 {
	return math.Max(brightness, 0) * fade * alphaScale * v.OpacityScale()
}

// FrameRate is the refresh rate Fade.Rate is expressed in.
const FrameRate = 60.0

// Fade eases a value toward 0 or 1, by Rate of the remaining distance per
// 1/FrameRate seconds.
type Fade struct {
	Value  float64
	Target float64
	Rate   float64
}

// Set chooses the target: 1 when on, 0 when off.
func (f *Fade) Set(on bool) {
	if on {
		f.Target = 1
	} else {
		f.Target = 0
	}
}

// Step advances the fade by one reference frame and returns the new value.
func (f *Fade) Step() float64 {
	return f.Advance(1 / FrameRate)
}

// Advance moves the fade by dt seconds, so the curve is the same at any
// refresh rate.
func (f *Fade) Advance(dt float64) float64 {
	if dt <= 0 {
		return f.Value
	}
	k := 1 - math.Pow(1-f.Rate, dt*FrameRate)
	f.Value += (f.Target - f.Value) * k
	return f.Value
}
