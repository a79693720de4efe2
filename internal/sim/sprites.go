// Package sim implements an on-screen stand-in for the LED board using
// Ebitengine, for developing against the daemon without hardware.
package sim

import (
	"bytes"
	"embed"
	"image"

	"github.com/apex/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/ledchess/internal/board"
)

//go:embed assets/pieces/*.svg
var pieceAssets embed.FS

// spriteSet holds one rasterized glyph per piece.
type spriteSet struct {
	pieces      map[board.Piece]*ebiten.Image
	size        int
	renderScale float64
}

// newSpriteSet rasterizes the embedded piece SVGs at the given display size.
func newSpriteSet(size int) *spriteSet {
	ss := &spriteSet{
		pieces:      make(map[board.Piece]*ebiten.Image),
		size:        size,
		renderScale: 3.0, // render at 3x for sharp scaling
	}
	ss.loadPieces()
	return ss
}

// pieceFiles maps pieces to their asset file paths.
var pieceFiles = map[board.Piece]string{
	board.WhitePawn:   "assets/pieces/wP.svg",
	board.WhiteKnight: "assets/pieces/wN.svg",
	board.WhiteBishop: "assets/pieces/wB.svg",
	board.WhiteRook:   "assets/pieces/wR.svg",
	board.WhiteQueen:  "assets/pieces/wQ.svg",
	board.WhiteKing:   "assets/pieces/wK.svg",
	board.BlackPawn:   "assets/pieces/bP.svg",
	board.BlackKnight: "assets/pieces/bN.svg",
	board.BlackBishop: "assets/pieces/bB.svg",
	board.BlackRook:   "assets/pieces/bR.svg",
	board.BlackQueen:  "assets/pieces/bQ.svg",
	board.BlackKing:   "assets/pieces/bK.svg",
}

func (ss *spriteSet) loadPieces() {
	renderSize := int(float64(ss.size) * ss.renderScale)

	for piece, path := range pieceFiles {
		data, err := pieceAssets.ReadFile(path)
		if err != nil {
			log.WithError(err).WithField("asset", path).Error("read piece asset")
			continue
		}

		icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
		if err != nil {
			log.WithError(err).WithField("asset", path).Error("parse piece SVG")
			continue
		}
		icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))

		rgba := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
		scanner := rasterx.NewScannerGV(renderSize, renderSize, rgba, rgba.Bounds())
		raster := rasterx.NewDasher(renderSize, renderSize, scanner)
		icon.Draw(raster, 1.0)

		ss.pieces[piece] = ebiten.NewImageFromImage(rgba)
	}
}

// drawPieceAt draws a piece glyph at the given pixel coordinates.
func (ss *spriteSet) drawPieceAt(screen *ebiten.Image, p board.Piece, x, y int) {
	if p == board.NoPiece {
		return
	}
	sprite := ss.pieces[p]
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(1.0/ss.renderScale, 1.0/ss.renderScale)
	op.GeoM.Translate(float64(x), float64(y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}
