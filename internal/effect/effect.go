// Package effect runs the particle animation against a drawing surface:
// it owns the clock, the fade and the surface lifecycle, and hands one
// evaluated frame to the surface per display refresh.
package effect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iburimskiy/particle-demo/internal/animator"
	"go.uber.org/zap"
)

var (
	// ErrSurfaceUnavailable means no drawing surface could be obtained.
	ErrSurfaceUnavailable = errors.New("drawing surface unavailable")
	// ErrProgramBuild means the particle program did not compile or link.
	ErrProgramBuild = errors.New("particle program build failed")
)

// fadeFloor is the fade level below which a stopped effect is invisible
// and its surface may go.
const fadeFloor = 0.01

// Frame is everything a surface needs to draw one refresh.
type Frame struct {
	Time       float64
	Fade       float64
	AlphaScale float64
	Viewport   animator.Viewport
	Particles  []animator.Particle
}

// Alpha returns the opacity of p in this frame.
func (f *Frame) Alpha(p animator.Particle) float64 {
	return f.Viewport.Alpha(p.Brightness, f.Fade, f.AlphaScale)
}

// Surface draws frames. Present always receives the full particle cloud.
type Surface interface {
	Viewport() animator.Viewport
	Present(f *Frame) error
	Release()
}

// SurfaceFactory builds a surface when the effect starts. It returns an
// error wrapping ErrSurfaceUnavailable or ErrProgramBuild on failure.
type SurfaceFactory func() (Surface, error)

// Clock is the time source of the effect.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options tune an Effect.
type Options struct {
	Particles     int
	FadeRate      float64
	TeardownDelay time.Duration
	AlphaScale    float64
	Workers       int
	Clock         Clock
	Logger        *zap.Logger
}

func (o *Options) setDefaults() {
	if o.Particles <= 0 {
		o.Particles = animator.DefaultParticles
	}
	if o.FadeRate <= 0 {
		o.FadeRate = 0.1
	}
	if o.TeardownDelay <= 0 {
		o.TeardownDelay = 500 * time.Millisecond
	}
	if o.AlphaScale <= 0 {
		o.AlphaScale = 0.56
	}
	if o.Clock == nil {
		o.Clock = systemClock{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Effect is the particle animation. It is driven from a single goroutine:
// Start, Stop and Frame must not be called concurrently.
type Effect struct {
	opts       Options
	newSurface SurfaceFactory
	anim       *animator.Animator
	logger     *zap.Logger

	surface    Surface
	running    bool
	started    time.Time
	teardownAt time.Time
	lastFrame  time.Time
	fade       animator.Fade
	frame      Frame
}

// New returns a stopped effect that builds its surface with factory.
func New(factory SurfaceFactory, opts Options) *Effect {
	opts.setDefaults()
	return &Effect{
		opts:       opts,
		newSurface: factory,
		anim:       animator.New(opts.Workers),
		logger:     opts.Logger,
		fade:       animator.Fade{Rate: opts.FadeRate},
		frame: Frame{
			AlphaScale: opts.AlphaScale,
			Particles:  make([]animator.Particle, opts.Particles),
		},
	}
}

// Start begins the animation from time zero. It does nothing while already
// running. A pending teardown is cancelled so a quick stop/start keeps the
// surface and the current fade level. If the surface cannot be built the
// effect stays inactive; a later Start tries again.
func (e *Effect) Start() error {
	if e.running {
		return nil
	}

	if e.surface == nil {
		s, err := e.newSurface()
		if err != nil {
			e.logger.Error("effect initialisation failed", zap.Error(err))
			return fmt.Errorf("start effect: %w", err)
		}
		e.surface = s
		e.fade = animator.Fade{Rate: e.opts.FadeRate}
		e.lastFrame = time.Time{}
		e.logger.Debug("surface attached", zap.Int("particles", len(e.frame.Particles)))
	}

	e.teardownAt = time.Time{}
	e.running = true
	e.started = e.opts.Clock.Now()
	e.fade.Set(true)
	return nil
}

// Stop fades the animation out. The surface is released once the teardown
// delay has passed and the fade has reached zero, unless Start is called
// first.
func (e *Effect) Stop() {
	e.running = false
	e.fade.Set(false)
	if e.surface == nil || !e.teardownAt.IsZero() {
		return
	}
	e.teardownAt = e.opts.Clock.Now().Add(e.opts.TeardownDelay)
}

// IsRunning reports whether the effect was started and not stopped since.
func (e *Effect) IsRunning() bool {
	return e.running
}

// Attached reports whether the effect currently holds a surface.
func (e *Effect) Attached() bool {
	return e.surface != nil
}

// Fade returns the current fade level.
func (e *Effect) Fade() float64 {
	return e.fade.Value
}

// Elapsed returns the effect clock.
func (e *Effect) Elapsed() time.Duration {
	if e.surface == nil {
		return 0
	}
	return e.opts.Clock.Now().Sub(e.started)
}

// Frame renders one refresh. It is a no-op without a surface, and releases
// the surface when a scheduled teardown is due and the fade-out is over.
// The fade advances by the time since the previous frame.
func (e *Effect) Frame(ctx context.Context) error {
	if e.surface == nil {
		return nil
	}

	now := e.opts.Clock.Now()
	if !e.teardownAt.IsZero() && !now.Before(e.teardownAt) && e.fade.Value <= fadeFloor {
		e.Close()
		return nil
	}

	dt := 1 / animator.FrameRate
	if !e.lastFrame.IsZero() {
		dt = now.Sub(e.lastFrame).Seconds()
	}
	e.lastFrame = now

	vp := e.surface.Viewport()
	e.frame.Time = now.Sub(e.started).Seconds()
	e.frame.Fade = e.fade.Advance(dt)
	e.frame.Viewport = vp

	if err := e.anim.EvaluateAll(ctx, e.frame.Particles, e.frame.Time, vp.Aspect()); err != nil {
		return fmt.Errorf("evaluate particles: %w", err)
	}
	return e.surface.Present(&e.frame)
}

// Close releases the surface immediately.
func (e *Effect) Close() {
	e.running = false
	e.teardownAt = time.Time{}
	if e.surface == nil {
		return
	}
	e.surface.Release()
	e.surface = nil
	e.lastFrame = time.Time{}
	e.logger.Debug("surface released")
}
