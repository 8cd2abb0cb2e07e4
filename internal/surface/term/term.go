// Package term draws the particle cloud into a terminal. Every cell
// stands for a CellWidth x CellHeight block of pixels, and the particles
// landing in it are composited into one glyph.
package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/particle-demo/internal/animator"
	"github.com/iburimskiy/particle-demo/internal/config"
	"github.com/iburimskiy/particle-demo/internal/effect"
)

// ramp orders glyphs from empty to fully covered.
var ramp = []rune(" .:-=+*#%@")

// Surface is an effect.Surface over a tcell screen. It does not own the
// screen: Release blanks the drawing area but leaves the screen running.
type Surface struct {
	screen   tcell.Screen
	reserved int // rows kept free at the bottom for the status line
	cover    []float64
	cols     int
	rows     int
}

// New returns a surface drawing into screen, leaving the bottom reserved
// rows alone.
func New(screen tcell.Screen, reserved int) *Surface {
	return &Surface{screen: screen, reserved: reserved}
}

func (s *Surface) size() (int, int) {
	cols, rows := s.screen.Size()
	return cols, max(rows-s.reserved, 0)
}

// Viewport returns the drawing area in pixels.
func (s *Surface) Viewport() animator.Viewport {
	cols, rows := s.size()
	return animator.Viewport{
		Width:  float64(cols * config.CellWidth),
		Height: float64(rows * config.CellHeight),
	}
}

// Present composites the frame into cells and shows it.
func (s *Surface) Present(f *effect.Frame) error {
	s.cols, s.rows = s.size()
	if s.cols == 0 || s.rows == 0 {
		return nil
	}
	if n := s.cols * s.rows; cap(s.cover) < n {
		s.cover = make([]float64, n)
	} else {
		s.cover = s.cover[:n]
	}

	// cover holds the transmitted light, 1 - coverage, until the end.
	for i := range s.cover {
		s.cover[i] = 1
	}
	for _, p := range f.Particles {
		if p.Hidden() || !p.OnScreen() {
			continue
		}
		a := min(f.Alpha(p), 1)
		if a <= 0 {
			continue
		}
		x := min(int((p.Pos[0]+1)/2*float64(s.cols)), s.cols-1)
		y := min(int((1-p.Pos[1])/2*float64(s.rows)), s.rows-1)
		s.cover[y*s.cols+x] *= 1 - a
	}

	for y := range s.rows {
		for x := range s.cols {
			c := 1 - s.cover[y*s.cols+x]
			s.screen.SetContent(x, y, glyph(c), nil, style(c))
		}
	}
	s.screen.Show()
	return nil
}

func glyph(c float64) rune {
	idx := int(c * float64(len(ramp)))
	return ramp[min(max(idx, 0), len(ramp)-1)]
}

func style(c float64) tcell.Style {
	level := int32(min(max(c, 0), 1) * 255)
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(level, level, level)).
		Background(tcell.ColorBlack)
}

// Release blanks the drawing area.
func (s *Surface) Release() {
	cols, rows := s.size()
	for y := range rows {
		for x := range cols {
			s.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
	s.screen.Show()
	s.cover = nil
}
