package game

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/particle-demo/internal/effect"
	"github.com/iburimskiy/particle-demo/internal/player"
)

func TestEffectFollowsPlayback(t *testing.T) {
	fx := newFixture(t, true)
	s := fx.bind()
	require.NoError(t, s.Open(writeTone(t, time.Second)))

	assert.True(t, s.Playing())
	assert.True(t, fx.effect.IsRunning())
	assert.Equal(t, "|| Pause", s.PlayLabel())

	s.Toggle()
	assert.False(t, s.Playing())
	assert.False(t, fx.effect.IsRunning())
	assert.True(t, fx.effect.Attached(), "the effect fades out before it lets go")
	assert.Equal(t, "> Play", s.PlayLabel())

	s.Toggle()
	assert.True(t, fx.effect.IsRunning())
	assert.Len(t, fx.surfaces, 1)
	require.NoError(t, s.Update(context.Background()))
}

func TestTrackEndStopsEffect(t *testing.T) {
	fx := newFixture(t, false)
	s := fx.bind()
	require.NoError(t, s.Open(writeTone(t, 200*time.Millisecond)))

	fx.out.pull(time.Second)
	require.NoError(t, s.Update(context.Background()))

	assert.False(t, s.Playing())
	assert.False(t, fx.effect.IsRunning())
}

func TestEffectFailureKeepsMusic(t *testing.T) {
	fx := newFixture(t, true)
	fx.fail = fmt.Errorf("%w: no gpu", effect.ErrSurfaceUnavailable)
	s := fx.bind()

	require.NoError(t, s.Open(writeTone(t, time.Second)))
	assert.True(t, s.Playing())
	assert.False(t, fx.effect.IsRunning())
	assert.Contains(t, s.Status(), "no gpu")

	// next play tries again
	fx.fail = nil
	s.Toggle()
	s.Toggle()
	assert.True(t, fx.effect.IsRunning())
}

func TestOpenUnsupportedFile(t *testing.T) {
	fx := newFixture(t, true)
	s := fx.bind()
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	assert.ErrorIs(t, s.Open(path), player.ErrUnsupportedFormat)
	assert.False(t, s.Loaded())

	s.Toggle()
	assert.Contains(t, s.Status(), player.ErrNoTrack.Error())
}

func TestRestoreConfiguredTrackPlays(t *testing.T) {
	fx := newFixture(t, true)
	fx.cfg.Audio.File = writeTone(t, time.Second)
	s := fx.bind()

	s.Restore()
	assert.True(t, s.Playing())
	assert.True(t, fx.effect.IsRunning())
}

func TestRestoreRemembersLastTrack(t *testing.T) {
	track := writeTone(t, time.Second)

	first := newFixture(t, true)
	s := first.bind()
	require.NoError(t, s.Open(track))
	s.ChangeVolume(-1.5)
	s.ToggleMute()

	second := newFixture(t, true)
	second.backend = first.backend
	second.store = first.store
	restored := second.bind()
	restored.Restore()

	assert.True(t, restored.Loaded())
	assert.False(t, restored.Playing(), "a remembered track waits for play")
	assert.False(t, second.effect.IsRunning())
	assert.Equal(t, -1.5, second.player.Volume())
	assert.True(t, second.player.Muted())
	assert.Contains(t, restored.Status(), "muted")
}

func TestStatus(t *testing.T) {
	fx := newFixture(t, true)
	s := fx.bind()
	assert.Equal(t, "Open an audio file to start", s.Status())

	require.NoError(t, s.Open(writeTone(t, time.Second)))
	assert.Equal(t, "Playing tone.wav | vol +0.0", s.Status())

	s.ChangeVolume(100)
	s.Toggle()
	assert.Equal(t, "Paused tone.wav | vol +2.0", s.Status())

	pos, dur := s.Progress()
	assert.Zero(t, pos)
	assert.Equal(t, time.Second, dur)
}
