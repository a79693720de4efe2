package strip

import (
	"fmt"
	"image/color"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/hailam/ledchess/internal/matrix"
)

// WS2812 timing over SPI: each data bit becomes three SPI bits clocked at
// 2.4 MHz, so a one is 110 (~833ns high) and a zero is 100 (~417ns high).
const (
	spiFreq     = 2400 * physic.KiloHertz
	bytesPerLED = 9 // 3 channels x 3 expanded bytes

	// Holding the line low for >50us latches the frame. 64 zero bytes at
	// 2.4 MHz is ~213us.
	latchBytes = 64
)

// WS2812 drives a WS2812/NeoPixel strip through an SPI port.
type WS2812 struct {
	port   spi.PortCloser
	conn   spi.Conn
	pixels [matrix.NumPixels]color.RGBA
	frame  []byte
}

// OpenWS2812 opens the named SPI port (e.g. "SPI0.0"; empty selects the
// first available port) and returns a strip of matrix.NumPixels cells.
func OpenWS2812(device string) (*WS2812, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	port, err := spireg.Open(device)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", device, err)
	}

	conn, err := port.Connect(spiFreq, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect spi: %w", err)
	}

	return &WS2812{
		port:  port,
		conn:  conn,
		frame: make([]byte, matrix.NumPixels*bytesPerLED+latchBytes),
	}, nil
}

// SetPixel stages a color. Out-of-range indexes are dropped.
func (w *WS2812) SetPixel(i int, c color.RGBA) {
	if i < 0 || i >= matrix.NumPixels {
		return
	}
	w.pixels[i] = c
}

// Show encodes the staged frame and transmits it in a single SPI
// transaction, followed by the latch gap.
func (w *WS2812) Show() error {
	n := 0
	for _, c := range w.pixels {
		// WS2812 wants GRB order.
		for _, ch := range [3]byte{c.G, c.R, c.B} {
			e := nrzExpand(ch)
			w.frame[n] = e[0]
			w.frame[n+1] = e[1]
			w.frame[n+2] = e[2]
			n += 3
		}
	}
	for i := n; i < len(w.frame); i++ {
		w.frame[i] = 0
	}

	if err := w.conn.Tx(w.frame, nil); err != nil {
		return fmt.Errorf("spi tx: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the SPI port.
func (w *WS2812) Close() error {
	for i := range w.pixels {
		w.pixels[i] = color.RGBA{}
	}
	if err := w.Show(); err != nil {
		w.port.Close()
		return err
	}
	return w.port.Close()
}

// nrzExpand turns one payload byte into the three-bits-per-bit SPI
// representation, MSB first.
func nrzExpand(b byte) [3]byte {
	var v uint32
	for i := 7; i >= 0; i-- {
		v <<= 3
		if b&(1<<uint(i)) != 0 {
			v |= 0b110
		} else {
			v |= 0b100
		}
	}
	return [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
}
