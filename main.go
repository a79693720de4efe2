// ledchess simulator - the board daemon running against an on-screen LED
// matrix instead of the hardware. Lines are read from stdin, replies go to
// stdout, so the controller software can be pointed at it unchanged.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/ledchess/internal/board"
	"github.com/hailam/ledchess/internal/link"
	"github.com/hailam/ledchess/internal/loop"
	"github.com/hailam/ledchess/internal/render"
	"github.com/hailam/ledchess/internal/sim"
)

func main() {
	log.SetHandler(text.New(os.Stderr))

	brightness := flag.Uint("brightness", 255, "LED brightness 0-255")
	palettePath := flag.String("palette", "", "palette YAML file (default built-in)")
	flag.Parse()

	if *brightness > 255 {
		log.Fatal("brightness must be 0-255")
	}

	pal := render.DefaultPalette()
	if *palettePath != "" {
		var err error
		if pal, err = render.LoadPalette(*palettePath); err != nil {
			log.WithError(err).Fatal("load palette")
		}
	}

	app := sim.NewApp()
	lk := link.NewStdio(os.Stdin, os.Stdout)
	lp := loop.New(board.NewBoard(), render.New(pal, uint8(*brightness)), app.Matrix(), lk)
	lp.SetObserver(app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := lp.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("control loop stopped")
		}
	}()

	ebiten.SetWindowSize(sim.ScreenWidth, sim.ScreenHeight)
	ebiten.SetWindowTitle("ledchess simulator")

	if err := ebiten.RunGame(app); err != nil {
		log.WithError(err).Fatal("simulator window")
	}

	cancel()
	lk.Close()
}
