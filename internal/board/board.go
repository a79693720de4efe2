package board

import "strings"

// Board holds the 8x8 piece grid and the parallel highlight overlay.
// Every square always carries exactly one Piece and one highlight flag;
// the zero state after Reset is all-empty, all-unhighlighted.
//
// A Board is owned by a single control flow. Callers guarantee that
// squares passed to the mutators are in range.
type Board struct {
	pieces     [64]Piece
	highlights [64]bool
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset clears every square to NoPiece and clears the overlay.
// Calling it repeatedly is equivalent to calling it once.
func (b *Board) Reset() {
	for sq := range b.pieces {
		b.pieces[sq] = NoPiece
		b.highlights[sq] = false
	}
}

// SetPiece places a piece on the given square.
func (b *Board) SetPiece(sq Square, p Piece) {
	b.pieces[sq] = p
}

// PieceAt returns the piece on the given square.
func (b *Board) PieceAt(sq Square) Piece {
	return b.pieces[sq]
}

// SetHighlight sets or clears the overlay flag for a square. The flag is
// independent of occupancy.
func (b *Board) SetHighlight(sq Square, on bool) {
	b.highlights[sq] = on
}

// Highlighted returns the overlay flag for a square.
func (b *Board) Highlighted(sq Square) bool {
	return b.highlights[sq]
}

// ClearHighlights clears the overlay without touching the pieces.
func (b *Board) ClearHighlights() {
	for sq := range b.highlights {
		b.highlights[sq] = false
	}
}

// String returns an ASCII diagram of the board, rank 8 first.
// Highlighted squares show as '*' when empty.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte('1' + byte(rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			p := b.pieces[sq]
			switch {
			case p != NoPiece:
				sb.WriteString(p.String())
			case b.highlights[sq]:
				sb.WriteByte('*')
			default:
				sb.WriteByte('.')
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}
