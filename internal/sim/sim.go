package sim

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/ledchess/internal/board"
	"github.com/hailam/ledchess/internal/matrix"
)

// Window geometry.
const (
	cellSize = 64
	margin   = 28

	ScreenWidth  = margin*2 + 8*cellSize
	ScreenHeight = margin*2 + 8*cellSize
)

// Matrix is the simulated light strip. SetPixel stages colors, Show commits
// them, exactly like the hardware driver: an observer of the window never
// sees a half-written frame.
type Matrix struct {
	mu      sync.Mutex
	pending [matrix.NumPixels]color.RGBA
	shown   [matrix.NumPixels]color.RGBA
}

// SetPixel stages a color. Out-of-range indexes are dropped.
func (m *Matrix) SetPixel(i int, c color.RGBA) {
	if i < 0 || i >= matrix.NumPixels {
		return
	}
	m.mu.Lock()
	m.pending[i] = c
	m.mu.Unlock()
}

// Show commits the staged frame.
func (m *Matrix) Show() error {
	m.mu.Lock()
	m.shown = m.pending
	m.mu.Unlock()
	return nil
}

// Close implements strip.Strip; there is nothing to release.
func (m *Matrix) Close() error { return nil }

// snapshot returns the last committed frame.
func (m *Matrix) snapshot() [matrix.NumPixels]color.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}

// App is the Ebitengine program showing the simulated board: the 64 LEDs at
// their serpentine positions, file/rank labels, and glyphs for the pieces
// the control loop last rendered.
type App struct {
	matrix  *Matrix
	sprites *spriteSet

	mu    sync.Mutex
	board board.Board // copy of the last committed position
}

// NewApp creates the simulator window state.
func NewApp() *App {
	return &App{
		matrix:  &Matrix{},
		sprites: newSpriteSet(cellSize - 16),
	}
}

// Matrix returns the strip implementation the control loop should render to.
func (a *App) Matrix() *Matrix {
	return a.matrix
}

// BoardRendered implements loop.Observer. It runs on the loop goroutine and
// copies the board for the draw goroutine.
func (a *App) BoardRendered(b *board.Board) {
	a.mu.Lock()
	a.board = *b
	a.mu.Unlock()
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 26, B: 31, A: 255})

	frame := a.matrix.snapshot()
	a.mu.Lock()
	snapshot := a.board
	a.mu.Unlock()

	// LEDs, placed by their physical strip index so the serpentine wiring
	// is visible in the window exactly as on the table.
	for i := 0; i < matrix.NumPixels; i++ {
		file, rank := matrix.PixelCoord(i)
		x, y := cellOrigin(file, rank)

		// Cell frame.
		vector.StrokeRect(screen, float32(x), float32(y), cellSize, cellSize,
			1, color.RGBA{R: 55, G: 58, B: 64, A: 255}, false)

		cx := float32(x + cellSize/2)
		cy := float32(y + cellSize/2)
		led := frame[i]
		if led.R == 0 && led.G == 0 && led.B == 0 {
			// Off: a faint socket instead of a lit circle.
			vector.StrokeCircle(screen, cx, cy, cellSize*0.34, 1,
				color.RGBA{R: 45, G: 48, B: 54, A: 255}, true)
		} else {
			vector.DrawFilledCircle(screen, cx, cy, cellSize*0.38, led, true)
		}
	}

	// Piece glyphs over the lit cells.
	inset := (cellSize - a.sprites.size) / 2
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			p := snapshot.PieceAt(board.NewSquare(file, rank))
			if p == board.NoPiece {
				continue
			}
			x, y := cellOrigin(file, rank)
			a.sprites.drawPieceAt(screen, p, x+inset, y+inset)
		}
	}

	a.drawLabels(screen)
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// cellOrigin returns the top-left pixel of a board cell. Rank 8 is drawn at
// the top, matching the view from the white side.
func cellOrigin(file, rank int) (int, int) {
	return margin + file*cellSize, margin + (7-rank)*cellSize
}

func (a *App) drawLabels(screen *ebiten.Image) {
	if labelFace == nil {
		return
	}
	labelColor := color.RGBA{R: 150, G: 155, B: 165, A: 255}

	for file := 0; file < 8; file++ {
		s := fmt.Sprintf("%c", 'A'+file)
		w, _ := text.Measure(s, labelFace, 0)
		x := float64(margin + file*cellSize + cellSize/2)
		op := &text.DrawOptions{}
		op.GeoM.Translate(x-w/2, float64(ScreenHeight-margin)+4)
		op.ColorScale.ScaleWithColor(labelColor)
		text.Draw(screen, s, labelFace, op)
	}

	for rank := 0; rank < 8; rank++ {
		s := fmt.Sprintf("%d", rank+1)
		_, h := text.Measure(s, labelFace, 0)
		y := float64(margin + (7-rank)*cellSize + cellSize/2)
		op := &text.DrawOptions{}
		op.GeoM.Translate(8, y-h/2)
		op.ColorScale.ScaleWithColor(labelColor)
		text.Draw(screen, s, labelFace, op)
	}
}
