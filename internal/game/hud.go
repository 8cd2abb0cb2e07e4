package game

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-demo/internal/config"
)

type button struct {
	x, y, w, h int
	label      string
	hovered    bool
	pressed    bool
}

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+b.w && y >= b.y && y <= b.y+b.h
}

// update tracks hover and press and reports a completed click.
func (b *button) update() bool {
	b.hovered = b.contains(ebiten.CursorPosition())

	if b.hovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		b.pressed = true
	}
	clicked := false
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		clicked = b.pressed && b.hovered
		b.pressed = false
	}
	return clicked
}

func (b *button) draw(screen *ebiten.Image) {
	var bgColor color.Color
	switch {
	case b.pressed:
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255}
	case b.hovered:
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	default:
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255}
	}
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bgColor, false)
	vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 2, color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)

	// debug font glyphs are 6px wide, 16px tall
	textX := b.x + (b.w-len(b.label)*6)/2
	textY := b.y + (b.h-16)/2
	ebitenutil.DebugPrintAt(screen, b.label, textX, textY)
}

// progressRect is the seek bar, above the level meter.
func (g *Game) progressRect() (x, y, w, h int) {
	x = config.HUDMargin
	w = g.width - 2*config.HUDMargin
	y = g.height - config.HUDMargin - config.MeterHeight - 24 - config.ProgressHeight
	return x, y, w, config.ProgressHeight
}

func (g *Game) updateProgress() {
	if !g.Loaded() {
		g.progressHovered, g.progressDragging = false, false
		return
	}

	mouseX, mouseY := ebiten.CursorPosition()
	x, y, w, h := g.progressRect()
	// generous hit box around the thin bar
	g.progressHovered = mouseX >= x && mouseX <= x+w && mouseY >= y-8 && mouseY <= y+h+8

	if g.progressHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.progressDragging = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.progressDragging = false
	}
	if g.progressDragging {
		g.Seek(clamp01(float64(mouseX-x) / float64(w)))
	}
}

func (g *Game) drawProgressBar(screen *ebiten.Image) {
	pos, dur := g.Progress()
	if dur <= 0 {
		return
	}
	x, y, w, h := g.progressRect()
	progress := clamp01(float64(pos) / float64(dur))

	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), color.RGBA{R: 25, G: 30, B: 40, A: 200}, false)
	if progress > 0 {
		r, gv, b := hsvToRgb((g.colorPhase+progress*0.5)*360, 0.8, 0.9)
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(progress*float64(w)), float32(h), color.RGBA{R: r, G: gv, B: b, A: 180}, false)
	}
	vector.DrawFilledCircle(screen, float32(float64(x)+progress*float64(w)), float32(y+h/2), 6, color.White, false)

	ebitenutil.DebugPrintAt(screen, formatDuration(pos), x, y+h+4)
	total := formatDuration(dur)
	ebitenutil.DebugPrintAt(screen, total, x+w-len(total)*6, y+h+4)

	if g.progressHovered {
		mouseX, _ := ebiten.CursorPosition()
		at := time.Duration(clamp01(float64(mouseX-x)/float64(w)) * float64(dur))
		ebitenutil.DebugPrintAt(screen, formatDuration(at), mouseX-15, y-20)
	}
}

// drawLevelMeter draws the loudness bands of the recent audio.
func (g *Game) drawLevelMeter(screen *ebiten.Image) {
	if !g.Playing() {
		return
	}
	bands := g.Bands()
	x := float64(config.HUDMargin)
	y := float64(g.height - config.HUDMargin - config.MeterHeight)
	w := float64(g.width - 2*config.HUDMargin)
	segment := w / float64(len(bands))

	for i, level := range bands {
		h := max(clamp01(level)*config.MeterHeight, 1)
		r, gv, b := hsvToRgb((g.colorPhase+float64(i)/float64(len(bands))*0.5)*360, 0.8, 0.9)
		c := color.RGBA{R: r, G: gv, B: b, A: uint8(80 + 120*clamp01(level))}
		vector.DrawFilledRect(screen, float32(x+float64(i)*segment), float32(y+config.MeterHeight-h), float32(segment-1), float32(h), c, false)
	}
}
