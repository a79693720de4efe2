// ledchessd - headless LED chessboard daemon. Reads FEN and overlay lines
// from a serial port (or stdin) and drives the WS2812 matrix over SPI.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"

	"github.com/hailam/ledchess/internal/board"
	"github.com/hailam/ledchess/internal/link"
	"github.com/hailam/ledchess/internal/loop"
	"github.com/hailam/ledchess/internal/render"
	"github.com/hailam/ledchess/internal/storage"
	"github.com/hailam/ledchess/internal/strip"
)

func main() {
	log.SetHandler(text.New(os.Stderr))

	device := flag.String("device", "", "serial device (default from saved preferences)")
	baud := flag.Int("baud", 0, "serial baud rate (default from saved preferences)")
	spiDev := flag.String("spi", "", "SPI port name, e.g. SPI0.0 (default from saved preferences)")
	brightness := flag.Int("brightness", -1, "LED brightness 0-255 (default from saved preferences)")
	palettePath := flag.String("palette", "", "palette YAML file (default from saved preferences)")
	useStdio := flag.Bool("stdio", false, "read lines from stdin instead of a serial port")
	save := flag.Bool("save", false, "persist the effective settings as the new defaults")
	flag.Parse()

	store, err := storage.OpenDefault()
	if err != nil {
		log.WithError(err).Fatal("open settings store")
	}
	defer store.Close()

	prefs, err := store.LoadPreferences()
	if err != nil {
		log.WithError(err).Fatal("load preferences")
	}
	if *device != "" {
		prefs.SerialDevice = *device
	}
	if *baud > 0 {
		prefs.BaudRate = *baud
	}
	if *spiDev != "" {
		prefs.SPIDevice = *spiDev
	}
	if *brightness >= 0 {
		if *brightness > 255 {
			log.Fatal("brightness must be 0-255")
		}
		prefs.Brightness = uint8(*brightness)
	}
	if *palettePath != "" {
		prefs.PalettePath = *palettePath
	}
	if *save {
		if err := store.SavePreferences(prefs); err != nil {
			log.WithError(err).Fatal("save preferences")
		}
		log.Info("preferences saved")
	}

	pal := render.DefaultPalette()
	if prefs.PalettePath != "" {
		if pal, err = render.LoadPalette(prefs.PalettePath); err != nil {
			log.WithError(err).Fatal("load palette")
		}
	}

	var lk link.Link
	if *useStdio {
		lk = link.NewStdio(os.Stdin, os.Stdout)
	} else {
		lk, err = link.OpenSerial(prefs.SerialDevice, prefs.BaudRate)
		if err != nil {
			log.WithError(err).WithField("device", prefs.SerialDevice).Fatal("open serial link")
		}
	}
	defer lk.Close()

	leds, err := strip.OpenWS2812(prefs.SPIDevice)
	if err != nil {
		log.WithError(err).WithField("spi", prefs.SPIDevice).Fatal("open LED strip")
	}
	defer leds.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("device", prefs.SerialDevice).
		WithField("brightness", int(prefs.Brightness)).
		Info("ledchessd starting")

	lp := loop.New(board.NewBoard(), render.New(pal, prefs.Brightness), leds, lk)
	if err := lp.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("control loop failed")
	}
	log.Info("shut down")
}
