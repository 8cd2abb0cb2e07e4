package game

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-demo/internal/config"
	"github.com/iburimskiy/particle-demo/internal/effect"
	"github.com/iburimskiy/particle-demo/internal/player"
	"github.com/iburimskiy/particle-demo/internal/settings"
)

// Session ties the player to the particle effect: the effect runs while
// music plays. Both the window and the terminal front end drive one.
type Session struct {
	cfg    *config.Config
	player *player.Player
	effect *effect.Effect
	store  *settings.Store
	logger *zap.Logger

	bands   []float64
	lastErr error
}

// NewSession links p to e. store may be nil.
func NewSession(cfg *config.Config, p *player.Player, e *effect.Effect, store *settings.Store, logger *zap.Logger) *Session {
	s := &Session{
		cfg:    cfg,
		player: p,
		effect: e,
		store:  store,
		logger: logger,
		bands:  make([]float64, config.LevelBands),
	}
	p.OnStateChange(s.onPlayback)
	return s
}

func (s *Session) onPlayback(playing bool) {
	if !playing {
		s.effect.Stop()
		return
	}
	if err := s.effect.Start(); err != nil {
		// music keeps playing without the effect
		s.lastErr = err
	}
}

// Restore applies saved settings and opens the configured or last track.
// The configured track starts playing; a remembered one waits paused.
func (s *Session) Restore() {
	s.player.SetVolume(s.cfg.Audio.Volume, config.VolumeMin, config.VolumeMax)

	saved, err := s.store.Load()
	if err != nil {
		s.logger.Warn("ignoring saved settings", zap.Error(err))
	}
	if saved != nil {
		s.player.SetVolume(saved.Volume, config.VolumeMin, config.VolumeMax)
		s.player.SetMuted(saved.Muted)
	}

	switch {
	case s.cfg.Audio.File != "":
		if err := s.Open(s.cfg.Audio.File); err != nil {
			s.lastErr = err
		}
	case saved != nil && saved.LastTrack != "":
		if err := s.player.Load(saved.LastTrack); err != nil {
			s.logger.Info("last track unavailable", zap.String("path", saved.LastTrack), zap.Error(err))
		}
	}

	// the listener only sees changes, so pick up playback already running
	if s.player.IsPlaying() && !s.effect.IsRunning() {
		s.onPlayback(true)
	}
}

// Open loads path and plays it.
func (s *Session) Open(path string) error {
	if err := s.player.Load(path); err != nil {
		s.logger.Error("could not load track", zap.String("path", path), zap.Error(err))
		return err
	}
	s.lastErr = nil
	s.save()
	return s.player.Play()
}

// OpenDialog asks for a track and plays it. Cancelling is not an error.
func (s *Session) OpenDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: player.Patterns,
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return fmt.Errorf("file dialog: %w", err)
	}
	return s.Open(filename)
}

// Toggle plays or pauses the track.
func (s *Session) Toggle() {
	if err := s.player.Toggle(); err != nil {
		s.lastErr = err
	}
}

// ChangeVolume adds delta to the gain.
func (s *Session) ChangeVolume(delta float64) {
	s.player.SetVolume(s.player.Volume()+delta, config.VolumeMin, config.VolumeMax)
	s.save()
}

// ToggleMute mutes or unmutes the output.
func (s *Session) ToggleMute() {
	s.player.SetMuted(!s.player.Muted())
	s.save()
}

func (s *Session) save() {
	err := s.store.Save(&settings.Saved{
		LastTrack: s.player.Track(),
		Volume:    s.player.Volume(),
		Muted:     s.player.Muted(),
	})
	if err != nil {
		s.logger.Warn("settings not saved", zap.Error(err))
	}
}

// Update advances playback and renders one effect frame.
func (s *Session) Update(ctx context.Context) error {
	s.player.Update()
	s.player.Bands(s.bands)
	return s.effect.Frame(ctx)
}

// Bands returns the smoothed loudness bands of the recent audio.
func (s *Session) Bands() []float64 { return s.bands }

// Playing reports whether music plays.
func (s *Session) Playing() bool { return s.player.IsPlaying() }

// Loaded reports whether a track is loaded.
func (s *Session) Loaded() bool { return s.player.Loaded() }

// Progress returns the playback position and the track length.
func (s *Session) Progress() (time.Duration, time.Duration) {
	return s.player.Position(), s.player.Duration()
}

// Seek moves playback to fraction pos of the track.
func (s *Session) Seek(pos float64) {
	if err := s.player.Seek(pos); err != nil {
		s.lastErr = err
	}
}

// PlayLabel is the caption of the play button.
func (s *Session) PlayLabel() string {
	if s.player.IsPlaying() {
		return "|| Pause"
	}
	return "> Play"
}

// Status is the one-line help and state text.
func (s *Session) Status() string {
	var status string
	switch {
	case !s.player.Loaded():
		status = "Open an audio file to start"
	case s.player.IsPlaying():
		status = "Playing " + filepath.Base(s.player.Track())
	default:
		status = "Paused " + filepath.Base(s.player.Track())
	}
	if s.player.Muted() {
		status += " | muted"
	} else if s.player.Loaded() {
		status += fmt.Sprintf(" | vol %+.1f", s.player.Volume())
	}
	if s.lastErr != nil {
		status += " | Error: " + s.lastErr.Error()
	}
	return status
}

// Close stops the effect and the music.
func (s *Session) Close() {
	s.effect.Close()
	s.player.Close()
}
