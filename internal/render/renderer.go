// Package render projects the board state onto the LED strip.
package render

import (
	"github.com/hailam/ledchess/internal/board"
	"github.com/hailam/ledchess/internal/matrix"
	"github.com/hailam/ledchess/internal/strip"
)

// Renderer resolves each board square to a color and writes one full frame
// to the strip. The board is read-only to the renderer.
type Renderer struct {
	palette *Palette
}

// New creates a renderer. The brightness scale (0-255) is baked into the
// palette once here, not applied per frame.
func New(p *Palette, brightness uint8) *Renderer {
	return &Renderer{palette: p.Scaled(brightness)}
}

// Render writes all 64 cells in raster order and commits the frame with a
// single Show, so the strip never displays a partial update. Highlighted
// squares take the highlight color regardless of occupancy.
func (r *Renderer) Render(b *board.Board, s strip.Strip) error {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			sq := board.NewSquare(file, rank)
			c := r.palette.Pieces[b.PieceAt(sq)]
			if b.Highlighted(sq) {
				c = r.palette.Highlight
			}
			s.SetPixel(matrix.PixelIndex(file, rank), c)
		}
	}
	return s.Show()
}
