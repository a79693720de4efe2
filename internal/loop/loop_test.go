package loop

import (
	"image/color"
	"testing"

	"github.com/hailam/ledchess/internal/board"
	"github.com/hailam/ledchess/internal/matrix"
	"github.com/hailam/ledchess/internal/render"
)

type fakeStrip struct {
	pixels [matrix.NumPixels]color.RGBA
	writes int
	shows  int
}

func (f *fakeStrip) SetPixel(i int, c color.RGBA) {
	f.pixels[i] = c
	f.writes++
}

func (f *fakeStrip) Show() error {
	f.shows++
	return nil
}

func (f *fakeStrip) Close() error { return nil }

type fakeLink struct {
	replies []string
}

func (f *fakeLink) TryReadLine() (string, bool, error) { return "", false, nil }

func (f *fakeLink) WriteLine(line string) error {
	f.replies = append(f.replies, line)
	return nil
}

func (f *fakeLink) Close() error { return nil }

func (f *fakeLink) lastReply(t *testing.T) string {
	t.Helper()
	if len(f.replies) == 0 {
		t.Fatal("no reply was written")
	}
	return f.replies[len(f.replies)-1]
}

func newTestLoop() (*Loop, *fakeStrip, *fakeLink) {
	s := &fakeStrip{}
	l := &fakeLink{}
	lp := New(board.NewBoard(), render.New(render.DefaultPalette(), 255), s, l)
	return lp, s, l
}

func TestStartupRendersBlankFrameAndAnnounces(t *testing.T) {
	lp, s, l := newTestLoop()
	if err := lp.start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if s.shows != 1 {
		t.Errorf("%d frames committed at startup, want 1", s.shows)
	}
	off := render.DefaultPalette().Pieces[board.NoPiece]
	for i, c := range s.pixels {
		if c != off {
			t.Fatalf("pixel %d = %v at startup, want off", i, c)
		}
	}
	if got := l.lastReply(t); got != ReplyReady {
		t.Errorf("startup reply = %q, want %q", got, ReplyReady)
	}
}

func TestHandleValidPlacement(t *testing.T) {
	lp, s, l := newTestLoop()
	if err := lp.handle("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if got := l.lastReply(t); got != ReplyOK {
		t.Errorf("reply = %q, want %q", got, ReplyOK)
	}
	if s.shows != 1 {
		t.Errorf("%d frames committed, want 1", s.shows)
	}
	if lp.board.PieceAt(board.A1) != board.WhiteRook {
		t.Error("A1 should hold the white rook")
	}
	if lp.board.PieceAt(board.E8) != board.BlackKing {
		t.Error("E8 should hold the black king")
	}
}

func TestHandleBadPlacementDoesNotRender(t *testing.T) {
	lp, s, l := newTestLoop()
	if err := lp.handle("xxxxxxxx/8/8/8/8/8/8/8"); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if got := l.lastReply(t); got != ReplyBadFEN {
		t.Errorf("reply = %q, want %q", got, ReplyBadFEN)
	}
	if s.writes != 0 || s.shows != 0 {
		t.Errorf("strip touched on parse failure: %d writes, %d shows", s.writes, s.shows)
	}
}

func TestHandleFullFENLine(t *testing.T) {
	lp, _, l := newTestLoop()
	if err := lp.handle(board.StartFEN); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if got := l.lastReply(t); got != ReplyOK {
		t.Errorf("reply = %q, want %q", got, ReplyOK)
	}
}

func TestHandleEmptyLineIsBadFEN(t *testing.T) {
	lp, _, l := newTestLoop()
	if err := lp.handle(""); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if got := l.lastReply(t); got != ReplyBadFEN {
		t.Errorf("reply = %q, want %q", got, ReplyBadFEN)
	}
}

func TestHandleHighlight(t *testing.T) {
	lp, s, l := newTestLoop()
	if err := lp.handle(board.StartFEN); err != nil {
		t.Fatalf("setup position failed: %v", err)
	}

	if err := lp.handle("HIGHLIGHT:e4, e5,e6"); err != nil {
		t.Fatalf("highlight failed: %v", err)
	}
	if got := l.lastReply(t); got != ReplyOK {
		t.Errorf("reply = %q, want %q", got, ReplyOK)
	}
	if s.shows != 2 {
		t.Errorf("%d frames committed, want 2", s.shows)
	}

	pal := render.DefaultPalette()
	for _, sq := range []board.Square{board.E4, board.E5, board.E6} {
		idx := matrix.PixelIndex(sq.File(), sq.Rank())
		if s.pixels[idx] != pal.Highlight {
			t.Errorf("square %v (pixel %d) not highlighted", sq, idx)
		}
	}
	// Pieces must survive an overlay change.
	if lp.board.PieceAt(board.A1) != board.WhiteRook {
		t.Error("highlight command moved a piece")
	}

	// A second HIGHLIGHT replaces the overlay rather than extending it.
	if err := lp.handle("HIGHLIGHT:a3"); err != nil {
		t.Fatalf("second highlight failed: %v", err)
	}
	if lp.board.Highlighted(board.E4) {
		t.Error("stale highlight survived a replacement")
	}
	if !lp.board.Highlighted(board.A3) {
		t.Error("new highlight missing")
	}
}

func TestHandleHighlightRejectsBadSquares(t *testing.T) {
	lp, _, l := newTestLoop()
	if err := lp.handle(board.StartFEN); err != nil {
		t.Fatalf("setup position failed: %v", err)
	}
	lp.board.SetHighlight(board.E4, true)

	if err := lp.handle("HIGHLIGHT:e4,z9"); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if got := l.lastReply(t); got != ReplyBadSquare {
		t.Errorf("reply = %q, want %q", got, ReplyBadSquare)
	}
	// The overlay is untouched when any square in the list is invalid.
	if !lp.board.Highlighted(board.E4) {
		t.Error("rejected highlight list still cleared the overlay")
	}
}

func TestHandleClearHighlight(t *testing.T) {
	lp, s, l := newTestLoop()
	if err := lp.handle(board.StartFEN); err != nil {
		t.Fatalf("setup position failed: %v", err)
	}
	if err := lp.handle("HIGHLIGHT:d4,d5"); err != nil {
		t.Fatalf("highlight failed: %v", err)
	}

	if err := lp.handle("CLEARHIGHLIGHT"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if got := l.lastReply(t); got != ReplyOK {
		t.Errorf("reply = %q, want %q", got, ReplyOK)
	}
	for sq := board.A1; sq <= board.H8; sq++ {
		if lp.board.Highlighted(sq) {
			t.Fatalf("square %v still highlighted", sq)
		}
	}
	if s.shows != 3 {
		t.Errorf("%d frames committed, want 3", s.shows)
	}
}

type countingObserver struct {
	frames int
	rooks  int
}

func (o *countingObserver) BoardRendered(b *board.Board) {
	o.frames++
	if b.PieceAt(board.A1) == board.WhiteRook {
		o.rooks++
	}
}

func TestObserverSeesCommittedFrames(t *testing.T) {
	lp, _, _ := newTestLoop()
	obs := &countingObserver{}
	lp.SetObserver(obs)

	if err := lp.start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := lp.handle(board.StartFEN); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if err := lp.handle("not a fen"); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if obs.frames != 2 {
		t.Errorf("observer saw %d frames, want 2 (startup + one position)", obs.frames)
	}
	if obs.rooks != 1 {
		t.Errorf("observer saw the start position %d times, want 1", obs.rooks)
	}
}
