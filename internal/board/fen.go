package board

import (
	"errors"
	"fmt"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Placement parse failures. Callers that only need a pass/fail outcome can
// treat any non-nil error the same; the kinds exist for diagnostics and
// tests.
var (
	ErrMalformedRank    = errors.New("malformed rank")
	ErrTooManyRanks     = errors.New("too many ranks")
	ErrRankOverflow     = errors.New("rank overflow")
	ErrInvalidPieceChar = errors.New("invalid piece character")
	ErrIncompleteBoard  = errors.New("incomplete board")
)

// ParsePlacement decodes the piece placement field of a FEN string into b.
// The input may be a full FEN line; everything after the first space is
// ignored. The board is reset before parsing, so a failed parse never
// leaves a previous position behind, though it may leave a partial one
// (callers must not render on failure).
//
// The placement encodes ranks 8 down to 1, separated by '/', with digits
// for runs of empty squares and FEN letters for pieces. Each rank must
// account for exactly 8 files.
func ParsePlacement(line string, b *Board) error {
	if i := strings.IndexByte(line, ' '); i >= 0 {
		line = line[:i]
	}

	b.Reset()

	rank := 8 // counts down; the first rank parsed is rank 8
	file := 0

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '/':
			if file != 8 {
				return fmt.Errorf("%w: rank %d has %d files", ErrMalformedRank, rank, file)
			}
			rank--
			if rank == 0 {
				return fmt.Errorf("%w: need exactly 8", ErrTooManyRanks)
			}
			file = 0

		case c >= '0' && c <= '9':
			file += int(c - '0')
			if file > 8 {
				return fmt.Errorf("%w: rank %d", ErrRankOverflow, rank)
			}

		default:
			p := PieceFromChar(c)
			if p == NoPiece {
				return fmt.Errorf("%w: %c", ErrInvalidPieceChar, c)
			}
			if file == 8 {
				return fmt.Errorf("%w: rank %d", ErrRankOverflow, rank)
			}
			b.SetPiece(NewSquare(file, rank-1), p)
			file++
		}
	}

	if rank != 1 || file != 8 {
		return fmt.Errorf("%w: stopped at rank %d, file %d", ErrIncompleteBoard, rank, file)
	}
	return nil
}
