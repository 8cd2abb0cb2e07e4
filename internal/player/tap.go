package player

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// tap wraps a beep.Streamer and records the last samples into a ring
// buffer so the renderer can draw from recently played audio.
type tap struct {
	source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	mu        sync.RWMutex
}

func newTap(src beep.Streamer, ringSize int) *tap {
	return &tap{
		source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *tap) Err() error { return t.source.Err() }

// snapshot returns up to the last n samples, most recent last.
func (t *tap) snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, len(t.buffer))
	out := make([][2]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := range out {
		out[i] = t.buffer[idx]
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}

// bands folds the last window samples into len(dst) loudness bands,
// smoothing each against its previous value.
func (t *tap) bands(dst []float64, window int, smoothing float64) {
	samples := t.snapshot(window)
	if len(samples) == 0 || len(dst) == 0 {
		return
	}

	segment := max(1, len(samples)/len(dst))
	for i := range dst {
		start := i * segment
		if start >= len(samples) {
			break
		}
		end := min(start+segment, len(samples))

		var sumSquares float64
		for _, s := range samples[start:end] {
			mono := (s[0] + s[1]) * 0.5
			sumSquares += mono * mono
		}
		rms := math.Sqrt(sumSquares / float64(end-start))
		// compress for display
		mag := math.Pow(rms, 0.3)

		dst[i] = smoothing*dst[i] + (1-smoothing)*mag
	}
}
