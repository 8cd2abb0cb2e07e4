// Package player decodes and plays one audio track at a time and reports
// play/pause changes to listeners.
package player

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"
)

var (
	// ErrUnsupportedFormat is returned for files that are not wav, mp3 or flac.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrNoTrack is returned by playback controls before a track is loaded.
	ErrNoTrack = errors.New("no track loaded")
)

// Patterns lists the file patterns the player can decode.
var Patterns = []string{"*.wav", "*.mp3", "*.flac"}

// Options tune a Player.
type Options struct {
	Loop      bool
	Buffer    time.Duration
	RingSize  int
	Smoothing float64
	Logger    *zap.Logger
}

// Player owns the decoded track and the chain
// decoder -> loop -> tap -> ctrl -> volume -> output.
// All methods are meant for the UI goroutine; the output calls back only
// to flag the end of the track, which Update picks up.
type Player struct {
	out    Output
	opts   Options
	logger *zap.Logger

	path     string
	streamer beep.StreamSeekCloser
	format   beep.Format
	tap      *tap
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	initRate beep.SampleRate
	queued   bool
	rewind   bool // played to the end; next Play starts over
	playing  bool
	ended    atomic.Bool

	gain  float64
	muted bool

	listeners []func(playing bool)
}

// New returns a player with nothing loaded.
func New(out Output, opts Options) *Player {
	if opts.Buffer <= 0 {
		opts.Buffer = 50 * time.Millisecond
	}
	if opts.RingSize <= 0 {
		opts.RingSize = 8192
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Player{out: out, opts: opts, logger: opts.Logger}
}

// OnStateChange registers fn to be called whenever playback starts or
// stops, including when a non-looping track ends.
func (p *Player) OnStateChange(fn func(playing bool)) {
	p.listeners = append(p.listeners, fn)
}

func (p *Player) notify() {
	for _, fn := range p.listeners {
		fn(p.playing)
	}
}

func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Load replaces the current track with path. The new track is paused at
// its start; a playing track is stopped first.
func (p *Player) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open track: %w", err)
	}

	streamer, format, err := decode(path, f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	if p.initRate != format.SampleRate {
		if err := p.out.Init(format.SampleRate, format.SampleRate.N(p.opts.Buffer)); err != nil {
			_ = streamer.Close()
			return fmt.Errorf("init audio output: %w", err)
		}
		p.initRate = format.SampleRate
	}

	wasPlaying := p.playing
	p.unload()

	var src beep.Streamer = streamer
	if p.opts.Loop {
		src = beep.Loop(-1, streamer)
	}
	p.path = path
	p.streamer = streamer
	p.format = format
	p.tap = newTap(src, p.opts.RingSize)
	p.ctrl = &beep.Ctrl{Streamer: p.tap, Paused: true}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2, Volume: p.gain, Silent: p.muted}

	p.logger.Info("track loaded",
		zap.String("path", path),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Duration("duration", p.Duration()))

	if wasPlaying {
		p.notify()
	}
	return nil
}

func (p *Player) unload() {
	p.out.Lock()
	p.out.Clear()
	p.out.Unlock()

	if p.streamer != nil {
		_ = p.streamer.Close()
	}
	p.streamer = nil
	p.queued = false
	p.rewind = false
	p.playing = false
	p.ended.Store(false)
}

// Loaded reports whether a track is loaded.
func (p *Player) Loaded() bool { return p.streamer != nil }

// Track returns the path of the loaded track.
func (p *Player) Track() string { return p.path }

// IsPlaying reports whether audio is currently playing.
func (p *Player) IsPlaying() bool { return p.playing }

// Play starts or resumes the track from its current position. A track
// that played to its end starts over.
func (p *Player) Play() error {
	if p.streamer == nil {
		return ErrNoTrack
	}
	if p.playing {
		return nil
	}

	p.out.Lock()
	if p.rewind {
		if err := p.streamer.Seek(0); err != nil {
			p.out.Unlock()
			return fmt.Errorf("rewind: %w", err)
		}
		p.rewind = false
	}
	p.ctrl.Paused = false
	p.out.Unlock()

	if !p.queued {
		p.ended.Store(false)
		p.out.Play(beep.Seq(p.volume, beep.Callback(func() { p.ended.Store(true) })))
		p.queued = true
	}
	p.playing = true
	p.notify()
	return nil
}

// Pause pauses the track.
func (p *Player) Pause() error {
	if p.streamer == nil {
		return ErrNoTrack
	}
	if !p.playing {
		return nil
	}

	p.out.Lock()
	p.ctrl.Paused = true
	p.out.Unlock()

	p.playing = false
	p.notify()
	return nil
}

// Toggle plays when paused and pauses when playing.
func (p *Player) Toggle() error {
	if p.playing {
		return p.Pause()
	}
	return p.Play()
}

// Update handles the end of a non-looping track. Call it once per frame.
func (p *Player) Update() {
	if !p.ended.CompareAndSwap(true, false) {
		return
	}
	p.queued = false
	p.rewind = true
	if p.playing {
		p.playing = false
		p.logger.Debug("track ended", zap.String("path", p.path))
		p.notify()
	}
}

// Position returns the playback position within the track.
func (p *Player) Position() time.Duration {
	if p.streamer == nil {
		return 0
	}
	p.out.Lock()
	pos := p.streamer.Position()
	p.out.Unlock()
	return p.format.SampleRate.D(pos)
}

// Duration returns the length of the track.
func (p *Player) Duration() time.Duration {
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// Seek moves playback to the fraction pos of the track.
func (p *Player) Seek(pos float64) error {
	if p.streamer == nil {
		return ErrNoTrack
	}
	pos = min(max(pos, 0), 1)

	p.out.Lock()
	defer p.out.Unlock()

	n := min(int(pos*float64(p.streamer.Len())), max(p.streamer.Len()-1, 0))
	if err := p.streamer.Seek(n); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	p.rewind = false
	return nil
}

// SetVolume sets the gain in powers of two, clamped to [lo, hi].
func (p *Player) SetVolume(gain, lo, hi float64) {
	p.gain = min(max(gain, lo), hi)
	p.applyVolume()
}

// Volume returns the gain in powers of two.
func (p *Player) Volume() float64 { return p.gain }

// SetMuted silences or restores the output.
func (p *Player) SetMuted(muted bool) {
	p.muted = muted
	p.applyVolume()
}

// Muted reports whether the output is silenced.
func (p *Player) Muted() bool { return p.muted }

func (p *Player) applyVolume() {
	if p.volume == nil {
		return
	}
	p.out.Lock()
	p.volume.Volume = p.gain
	p.volume.Silent = p.muted
	p.out.Unlock()
}

// Bands fills dst with smoothed loudness bands of the recently played
// audio. dst carries the previous values between calls.
func (p *Player) Bands(dst []float64) {
	if p.tap == nil {
		return
	}
	p.tap.bands(dst, 2048, p.opts.Smoothing)
}

// Level returns the loudness of the recently played audio in [0, 1].
func (p *Player) Level() float64 {
	if p.tap == nil {
		return 0
	}
	var level [1]float64
	p.tap.bands(level[:], 1024, 0)
	return min(level[0], 1)
}

// Close stops playback and releases the track.
func (p *Player) Close() {
	p.unload()
	p.path = ""
}
