package game

import (
	"context"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-demo/internal/config"
	"github.com/iburimskiy/particle-demo/internal/effect"
	"github.com/iburimskiy/particle-demo/internal/surface/window"
)

// Game is the ebiten front end: a black window with the particle cloud,
// two buttons, a progress bar and a level meter.
type Game struct {
	*Session
	cfg    *config.Config
	logger *zap.Logger

	surface *window.Surface
	width   int
	height  int

	open button
	play button

	progressHovered  bool
	progressDragging bool

	colorPhase float64
}

// SurfaceFactory builds window surfaces at the current window size.
func (g *Game) SurfaceFactory() effect.SurfaceFactory {
	return func() (effect.Surface, error) {
		s, err := window.New(g.width, g.height, g.cfg.Render.Blend, g.logger)
		if err != nil {
			return nil, err
		}
		g.surface = s
		return s, nil
	}
}

// NewGame returns a game for the window size in cfg. Attach a session
// with Bind before running it.
func NewGame(cfg *config.Config, logger *zap.Logger) *Game {
	return &Game{
		cfg:    cfg,
		logger: logger,
		width:  cfg.Render.Width,
		height: cfg.Render.Height,
		open:   button{x: config.ButtonX, y: config.ButtonY, w: config.ButtonWidth, h: config.ButtonHeight},
		play:   button{x: config.ButtonX*2 + config.ButtonWidth, y: config.ButtonY, w: config.ButtonWidth, h: config.ButtonHeight},
	}
}

// Bind attaches the session the game drives.
func (g *Game) Bind(s *Session) {
	g.Session = s
}

func (g *Game) Update() error {
	if g.open.update() {
		if err := g.OpenDialog(); err != nil {
			g.lastErr = err
		}
	}
	if g.play.update() {
		g.Toggle()
	}
	g.updateProgress()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		if err := g.OpenDialog(); err != nil {
			g.lastErr = err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.ChangeVolume(config.VolumeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.ChangeVolume(-config.VolumeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.ToggleMute()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	}

	g.colorPhase += 0.002
	return g.Session.Update(context.Background())
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if g.surface != nil {
		g.surface.DrawTo(screen)
	}

	g.open.label = "Open File"
	g.open.draw(screen)
	g.play.label = g.PlayLabel()
	g.play.draw(screen)

	g.drawProgressBar(screen)
	g.drawLevelMeter(screen)

	ebitenutil.DebugPrintAt(screen, g.Status(), 12, 12)
}

// Layout follows the window size so the particle cloud keeps its
// proportions.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = max(outsideWidth, 1), max(outsideHeight, 1)
	if g.surface != nil {
		g.surface.Resize(g.width, g.height)
	}
	return g.width, g.height
}
