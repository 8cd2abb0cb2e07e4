// Package window draws the particle cloud with an ebiten shader.
package window

import (
	_ "embed"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-demo/internal/animator"
	"github.com/iburimskiy/particle-demo/internal/config"
	"github.com/iburimskiy/particle-demo/internal/effect"
)

//go:embed shaders/particle.kage
var particleShader []byte

// Surface is an effect.Surface for an ebiten game. Present prepares the
// geometry during Update; DrawTo issues it during Draw.
type Surface struct {
	shader *ebiten.Shader
	blend  ebiten.Blend
	logger *zap.Logger

	vp       animator.Viewport
	batches  batches
	uniforms map[string]any
	ready    bool
}

// New compiles the particle shader. blend is config.BlendAlpha or
// config.BlendAdditive.
func New(width, height int, blend string, logger *zap.Logger) (*Surface, error) {
	shader, err := ebiten.NewShader(particleShader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", effect.ErrProgramBuild, err)
	}

	s := &Surface{
		shader:   shader,
		blend:    ebiten.BlendSourceOver,
		logger:   logger,
		uniforms: map[string]any{"Fade": float32(0), "OpacityScale": float32(1)},
	}
	if blend == config.BlendAdditive {
		s.blend = ebiten.BlendLighter
	}
	s.Resize(width, height)
	return s, nil
}

// Resize sets the drawing area in pixels.
func (s *Surface) Resize(width, height int) {
	vp := animator.Viewport{Width: float64(width), Height: float64(height)}
	if vp != s.vp {
		s.logger.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
	}
	s.vp = vp
}

func (s *Surface) Viewport() animator.Viewport { return s.vp }

func (s *Surface) Present(f *effect.Frame) error {
	if s.shader == nil {
		return effect.ErrSurfaceUnavailable
	}
	s.batches.build(f)
	s.uniforms["Fade"] = float32(f.Fade)
	s.uniforms["OpacityScale"] = float32(f.Viewport.OpacityScale())
	s.ready = true
	return nil
}

// DrawTo draws the last presented frame onto screen.
func (s *Surface) DrawTo(screen *ebiten.Image) {
	if !s.ready || s.shader == nil {
		return
	}
	op := &ebiten.DrawTrianglesShaderOptions{
		Uniforms: s.uniforms,
		Blend:    s.blend,
	}
	for _, v := range s.batches.verts {
		if len(v) == 0 {
			continue
		}
		screen.DrawTrianglesShader(v, quadIndices[:len(v)/4*6], s.shader, op)
	}
}

func (s *Surface) Release() {
	if s.shader != nil {
		s.shader.Deallocate()
		s.shader = nil
	}
	s.batches = batches{}
	s.ready = false
}
