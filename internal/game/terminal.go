package game

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/particle-demo/internal/config"
	"github.com/iburimskiy/particle-demo/internal/effect"
	"github.com/iburimskiy/particle-demo/internal/surface/term"
)

// Terminal is the tcell front end. The particle cloud fills the screen
// except for a status line at the bottom.
type Terminal struct {
	*Session
	screen tcell.Screen
	fps    int
}

// NewTerminal returns a front end over an initialised screen.
func NewTerminal(screen tcell.Screen, fps int) *Terminal {
	return &Terminal{screen: screen, fps: max(fps, 1)}
}

// SurfaceFactory builds terminal surfaces over the screen.
func (t *Terminal) SurfaceFactory() effect.SurfaceFactory {
	return func() (effect.Surface, error) {
		return term.New(t.screen, 1), nil
	}
}

// Bind attaches the session the terminal drives.
func (t *Terminal) Bind(s *Session) {
	t.Session = s
}

// Run draws and handles input until the user quits or ctx is done.
func (t *Terminal) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(t.fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	t.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !t.handle(ev) {
				return nil
			}
		case <-ticker.C:
			if err := t.Session.Update(ctx); err != nil {
				return err
			}
			t.draw()
		}
	}
}

// handle applies one event and reports whether to keep running.
func (t *Terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			t.ChangeVolume(config.VolumeStep)
		case tcell.KeyDown:
			t.ChangeVolume(-config.VolumeStep)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				t.Toggle()
			case 'm':
				t.ToggleMute()
			case 'o':
				if err := t.OpenDialog(); err != nil {
					t.lastErr = err
				}
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// draw writes the status line and shows the screen.
func (t *Terminal) draw() {
	cols, rows := t.screen.Size()
	if rows == 0 {
		return
	}

	line := t.Status()
	if pos, dur := t.Progress(); dur > 0 {
		line = fmt.Sprintf("%s | %s/%s", line, formatDuration(pos), formatDuration(dur))
	}
	if t.Playing() {
		line += " [" + levelBar(t.player.Level(), 20) + "]"
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	runes := []rune(line)
	for x := range cols {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		t.screen.SetContent(x, rows-1, r, nil, style)
	}
	t.screen.Show()
}
