package effect

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/iburimskiy/particle-demo/internal/animator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeSurface struct {
	vp       animator.Viewport
	frames   []Frame
	released bool
}

func (s *fakeSurface) Viewport() animator.Viewport { return s.vp }

func (s *fakeSurface) Present(f *Frame) error {
	cp := *f
	cp.Particles = append([]animator.Particle(nil), f.Particles...)
	s.frames = append(s.frames, cp)
	return nil
}

func (s *fakeSurface) Release() { s.released = true }

type harness struct {
	clock    *fakeClock
	surfaces []*fakeSurface
	fail     error
	effect   *Effect
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{clock: newClock()}
	h.effect = New(func() (Surface, error) {
		if h.fail != nil {
			return nil, h.fail
		}
		s := &fakeSurface{vp: animator.Viewport{Width: 1600, Height: 900}}
		h.surfaces = append(h.surfaces, s)
		return s, nil
	}, Options{
		Particles:     600,
		TeardownDelay: 500 * time.Millisecond,
		Clock:         h.clock,
		Workers:       2,
	})
	return h
}

func (h *harness) frame(t *testing.T) {
	t.Helper()
	require.NoError(t, h.effect.Frame(context.Background()))
	h.clock.Advance(time.Second / 60)
}

func TestStartIsIdempotent(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.effect.Start())
	h.clock.Advance(2 * time.Second)
	require.NoError(t, h.effect.Start())

	assert.True(t, h.effect.IsRunning())
	assert.Len(t, h.surfaces, 1)
	assert.Equal(t, 2*time.Second, h.effect.Elapsed(), "second start must not reset the clock")
}

func TestFramesCarryClockAndFade(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.effect.Start())

	for range 3 {
		h.frame(t)
	}

	s := h.surfaces[0]
	require.Len(t, s.frames, 3)
	assert.Zero(t, s.frames[0].Time)
	assert.InDelta(t, 2.0/60, s.frames[2].Time, 1e-6)
	assert.InDelta(t, 0.1, s.frames[0].Fade, 1e-12)
	assert.Greater(t, s.frames[2].Fade, s.frames[1].Fade)
	assert.Len(t, s.frames[2].Particles, 600)
	assert.Equal(t, animator.Viewport{Width: 1600, Height: 900}, s.frames[2].Viewport)
	assert.Equal(t, animator.Evaluate(599, s.frames[2].Time, 1600.0/900.0), s.frames[2].Particles[599])
}

func TestStopFadesOutThenReleases(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.effect.Start())
	for range 60 {
		h.frame(t)
	}
	peak := h.effect.Fade()

	h.effect.Stop()
	stopped := h.clock.Now()
	assert.False(t, h.effect.IsRunning())
	assert.True(t, h.effect.Attached(), "fade-out must not be cut")

	h.frame(t)
	assert.Less(t, h.effect.Fade(), peak)

	for h.effect.Attached() {
		require.Less(t, h.clock.Now().Sub(stopped), 5*time.Second, "surface never released")
		h.frame(t)
	}
	assert.True(t, h.surfaces[0].released)
	assert.GreaterOrEqual(t, h.clock.Now().Sub(stopped), 500*time.Millisecond)

	s := h.surfaces[0]
	assert.LessOrEqual(t, s.frames[len(s.frames)-1].Fade, fadeFloor, "last frame drawn invisible")

	// no surface, nothing to do
	require.NoError(t, h.effect.Frame(context.Background()))
}

// teardownFade runs the effect at fps, stops it and returns the fade of
// the last frame drawn before the surface went away.
func teardownFade(t *testing.T, fps int) float64 {
	t.Helper()
	h := newHarness(t)
	step := time.Second / time.Duration(fps)
	tick := func() {
		require.NoError(t, h.effect.Frame(context.Background()))
		h.clock.Advance(step)
	}

	require.NoError(t, h.effect.Start())
	for range 2 * fps {
		tick()
	}
	h.effect.Stop()
	for range 10 * fps {
		if !h.effect.Attached() {
			break
		}
		tick()
	}
	require.False(t, h.effect.Attached())

	s := h.surfaces[0]
	return s.frames[len(s.frames)-1].Fade
}

func TestTeardownWaitsForFadeAtAnyFrameRate(t *testing.T) {
	for _, fps := range []int{30, 60, 144} {
		t.Run(fmt.Sprintf("%dfps", fps), func(t *testing.T) {
			assert.LessOrEqual(t, teardownFade(t, fps), fadeFloor)
		})
	}
}

func TestFadeFollowsWallClock(t *testing.T) {
	fadeAfterOneSecond := func(fps int) float64 {
		h := newHarness(t)
		require.NoError(t, h.effect.Start())
		step := time.Second / time.Duration(fps)
		for range fps + 1 {
			require.NoError(t, h.effect.Frame(context.Background()))
			h.clock.Advance(step)
		}
		return h.effect.Fade()
	}

	assert.InDelta(t, fadeAfterOneSecond(60), fadeAfterOneSecond(30), 1e-6)
}

func TestRestartBeforeTeardownKeepsSurface(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.effect.Start())
	for range 30 {
		h.frame(t)
	}

	h.effect.Stop()
	h.frame(t)
	fadeAtRestart := h.effect.Fade()
	require.NoError(t, h.effect.Start())

	assert.True(t, h.effect.IsRunning())
	assert.True(t, h.effect.Attached())

	h.clock.Advance(time.Second)
	h.frame(t)
	assert.True(t, h.effect.Attached(), "cancelled teardown fired")
	assert.False(t, h.surfaces[0].released)
	assert.Len(t, h.surfaces, 1)

	last := h.surfaces[0].frames[len(h.surfaces[0].frames)-1]
	assert.InDelta(t, 1.0, last.Time, 1e-9, "restart resets the clock")
	assert.Greater(t, last.Fade, fadeAtRestart, "fade resumes from where it was")
}

func TestRestartAfterTeardownReplaysFromZero(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.effect.Start())
	h.clock.Advance(10 * time.Second)
	h.effect.Stop()
	h.clock.Advance(time.Second)
	h.frame(t)
	require.False(t, h.effect.Attached())

	require.NoError(t, h.effect.Start())
	h.frame(t)

	require.Len(t, h.surfaces, 2)
	first := h.surfaces[1].frames[0]
	assert.Zero(t, first.Time)
	assert.InDelta(t, 0.1, first.Fade, 1e-12)
}

func TestStartFailureLeavesEffectInactive(t *testing.T) {
	for _, cause := range []error{ErrSurfaceUnavailable, ErrProgramBuild} {
		t.Run(cause.Error(), func(t *testing.T) {
			h := newHarness(t)
			h.fail = fmt.Errorf("%w: boom", cause)

			err := h.effect.Start()
			require.Error(t, err)
			assert.True(t, errors.Is(err, cause))
			assert.False(t, h.effect.IsRunning())
			assert.False(t, h.effect.Attached())
			require.NoError(t, h.effect.Frame(context.Background()))

			h.fail = nil
			require.NoError(t, h.effect.Start(), "later start retries from scratch")
			assert.True(t, h.effect.IsRunning())
			assert.True(t, h.effect.Attached())
		})
	}
}

func TestStopWithoutStartIsHarmless(t *testing.T) {
	h := newHarness(t)
	h.effect.Stop()
	h.effect.Close()
	assert.False(t, h.effect.IsRunning())
	assert.Zero(t, h.effect.Elapsed())
}

func TestRepeatedStopKeepsFirstDeadline(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.effect.Start())
	h.effect.Stop()
	h.clock.Advance(400 * time.Millisecond)
	h.effect.Stop()
	h.clock.Advance(100 * time.Millisecond)
	h.frame(t)
	assert.False(t, h.effect.Attached())
}

func TestFrameAlpha(t *testing.T) {
	f := Frame{Fade: 0.5, AlphaScale: 0.56, Viewport: animator.Viewport{Width: 1600, Height: 900}}
	assert.InDelta(t, 0.28, f.Alpha(animator.Particle{Brightness: 1}), 1e-12)
	assert.Zero(t, f.Alpha(animator.Particle{Pos: animator.Offscreen}))
}
