package animator

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Scalar helpers with shading-language semantics. The geometry below is
// written against these so it reads like the formulas it was tuned with.

func fract(x float64) float64 {
	return x - math.Floor(x)
}

// mod follows the shading-language definition x - y*floor(x/y), which stays
// non-negative for negative x (math.Mod does not).
func mod(x, y float64) float64 {
	return x - y*math.Floor(x/y)
}

func mix(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

func mix2(a, b f64.Vec2, t float64) f64.Vec2 {
	return f64.Vec2{mix(a[0], b[0], t), mix(a[1], b[1], t)}
}

func mix3(a, b f64.Vec3, t float64) f64.Vec3 {
	return f64.Vec3{mix(a[0], b[0], t), mix(a[1], b[1], t), mix(a[2], b[2], t)}
}

func scale3(v f64.Vec3, s float64) f64.Vec3 {
	return f64.Vec3{v[0] * s, v[1] * s, v[2] * s}
}
