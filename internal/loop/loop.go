// Package loop runs the board daemon's control flow: poll a line, parse,
// render, reply.
package loop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/hailam/ledchess/internal/board"
	"github.com/hailam/ledchess/internal/link"
	"github.com/hailam/ledchess/internal/render"
	"github.com/hailam/ledchess/internal/strip"
)

// Protocol replies. Every input line gets exactly one of these; parse
// failures are never distinguished further on the wire.
const (
	ReplyOK        = "OK"
	ReplyBadFEN    = "ERR: bad FEN"
	ReplyBadSquare = "ERR: bad square"
	ReplyReady     = "ready"
)

// Overlay commands understood alongside FEN lines.
const (
	cmdHighlight      = "HIGHLIGHT:"
	cmdClearHighlight = "CLEARHIGHLIGHT"
)

const defaultPollInterval = 5 * time.Millisecond

// Observer is notified after every committed frame. Callbacks run on the
// loop goroutine; implementations must copy what they need.
type Observer interface {
	BoardRendered(b *board.Board)
}

// Loop owns the board, strip and link for the lifetime of the process.
// Everything runs on the goroutine that calls Run: a frame is always fully
// written and committed before the next line is read.
type Loop struct {
	board    *board.Board
	renderer *render.Renderer
	strip    strip.Strip
	link     link.Link
	poll     time.Duration
	observer Observer
}

// New wires a loop together. The loop takes exclusive ownership of the
// board; the strip and link stay owned (and closed) by the caller.
func New(b *board.Board, r *render.Renderer, s strip.Strip, l link.Link) *Loop {
	return &Loop{
		board:    b,
		renderer: r,
		strip:    s,
		link:     l,
		poll:     defaultPollInterval,
	}
}

// SetObserver registers a frame observer. Must be called before Run.
func (lp *Loop) SetObserver(o Observer) {
	lp.observer = o
}

// Run clears the board, shows the blank frame, announces readiness and then
// serves lines until ctx is cancelled. Parse failures never stop the loop;
// strip failures do, since the hardware is gone.
func (lp *Loop) Run(ctx context.Context) error {
	if err := lp.start(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, ok, err := lp.link.TryReadLine()
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}
		if !ok {
			time.Sleep(lp.poll)
			continue
		}
		if err := lp.handle(line); err != nil {
			return err
		}
	}
}

func (lp *Loop) start() error {
	lp.board.Reset()
	if err := lp.render(); err != nil {
		return err
	}
	if err := lp.link.WriteLine(ReplyReady); err != nil {
		return fmt.Errorf("announce ready: %w", err)
	}
	log.Info("board ready")
	return nil
}

// handle serves one input line and emits exactly one reply.
func (lp *Loop) handle(line string) error {
	switch {
	case strings.HasPrefix(line, cmdHighlight):
		return lp.handleHighlight(line[len(cmdHighlight):])
	case line == cmdClearHighlight:
		lp.board.ClearHighlights()
		if err := lp.render(); err != nil {
			return err
		}
		return lp.link.WriteLine(ReplyOK)
	default:
		return lp.handlePlacement(line)
	}
}

func (lp *Loop) handlePlacement(line string) error {
	if err := board.ParsePlacement(line, lp.board); err != nil {
		log.WithError(err).WithField("line", line).Warn("rejected position")
		return lp.link.WriteLine(ReplyBadFEN)
	}
	if err := lp.render(); err != nil {
		return err
	}
	return lp.link.WriteLine(ReplyOK)
}

// handleHighlight replaces the overlay with the given comma-separated
// algebraic squares. Pieces are untouched.
func (lp *Loop) handleHighlight(list string) error {
	var squares []board.Square
	for _, name := range strings.Split(list, ",") {
		sq, err := board.ParseSquare(strings.TrimSpace(name))
		if err != nil {
			log.WithError(err).Warn("rejected highlight list")
			return lp.link.WriteLine(ReplyBadSquare)
		}
		squares = append(squares, sq)
	}

	lp.board.ClearHighlights()
	for _, sq := range squares {
		lp.board.SetHighlight(sq, true)
	}
	if err := lp.render(); err != nil {
		return err
	}
	return lp.link.WriteLine(ReplyOK)
}

func (lp *Loop) render() error {
	if err := lp.renderer.Render(lp.board, lp.strip); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	if lp.observer != nil {
		lp.observer.BoardRendered(lp.board)
	}
	return nil
}
