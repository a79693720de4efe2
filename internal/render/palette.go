package render

import (
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hailam/ledchess/internal/board"
)

// Palette assigns one LED color to every piece value (including the empty
// square) plus a single highlight color that overrides the piece color on
// overlay squares.
type Palette struct {
	Pieces    [board.NumPieces]color.RGBA
	Highlight color.RGBA
}

// DefaultPalette returns the built-in color scheme: warm tones for white
// pieces, cool tones for black, LEDs off on empty squares. The highlight
// blue matches the selection color of the desk GUI this board is usually
// driven from.
func DefaultPalette() *Palette {
	p := &Palette{
		Highlight: color.RGBA{R: 0x4F, G: 0xC3, B: 0xF7, A: 0xFF},
	}
	p.Pieces[board.WhitePawn] = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	p.Pieces[board.WhiteKnight] = color.RGBA{R: 0xFF, G: 0xB3, B: 0x40, A: 0xFF}
	p.Pieces[board.WhiteBishop] = color.RGBA{R: 0xFF, G: 0xE0, B: 0x82, A: 0xFF}
	p.Pieces[board.WhiteRook] = color.RGBA{R: 0xFF, G: 0x8A, B: 0x65, A: 0xFF}
	p.Pieces[board.WhiteQueen] = color.RGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF}
	p.Pieces[board.WhiteKing] = color.RGBA{R: 0xFF, G: 0x57, B: 0x22, A: 0xFF}
	p.Pieces[board.BlackPawn] = color.RGBA{R: 0x42, G: 0x42, B: 0xFF, A: 0xFF}
	p.Pieces[board.BlackKnight] = color.RGBA{R: 0x7E, G: 0x57, B: 0xC2, A: 0xFF}
	p.Pieces[board.BlackBishop] = color.RGBA{R: 0x26, G: 0xA6, B: 0x9A, A: 0xFF}
	p.Pieces[board.BlackRook] = color.RGBA{R: 0x00, G: 0x91, B: 0xEA, A: 0xFF}
	p.Pieces[board.BlackQueen] = color.RGBA{R: 0xAA, G: 0x00, B: 0xFF, A: 0xFF}
	p.Pieces[board.BlackKing] = color.RGBA{R: 0xD5, G: 0x00, B: 0xF9, A: 0xFF}
	p.Pieces[board.NoPiece] = color.RGBA{A: 0xFF} // off
	return p
}

// paletteFile is the YAML document shape for LoadPalette. Colors are hex
// strings, with or without a leading '#'.
type paletteFile struct {
	Highlight string            `yaml:"highlight"`
	Empty     string            `yaml:"empty"`
	Pieces    map[string]string `yaml:"pieces"`
}

// LoadPalette reads a palette YAML file. Entries missing from the file keep
// their DefaultPalette value; piece keys are FEN letters.
func LoadPalette(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pf paletteFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse palette %s: %w", path, err)
	}

	p := DefaultPalette()
	if pf.Highlight != "" {
		if p.Highlight, err = parseHexColor(pf.Highlight); err != nil {
			return nil, fmt.Errorf("palette highlight: %w", err)
		}
	}
	if pf.Empty != "" {
		if p.Pieces[board.NoPiece], err = parseHexColor(pf.Empty); err != nil {
			return nil, fmt.Errorf("palette empty: %w", err)
		}
	}
	for letter, hex := range pf.Pieces {
		if len(letter) != 1 {
			return nil, fmt.Errorf("palette piece key %q: want a single FEN letter", letter)
		}
		piece := board.PieceFromChar(letter[0])
		if piece == board.NoPiece {
			return nil, fmt.Errorf("palette piece key %q: not a FEN letter", letter)
		}
		if p.Pieces[piece], err = parseHexColor(hex); err != nil {
			return nil, fmt.Errorf("palette piece %q: %w", letter, err)
		}
	}
	return p, nil
}

// Scaled returns a copy of the palette with every channel scaled by
// brightness/255. Applied once at startup; 255 is an identity.
func (p *Palette) Scaled(brightness uint8) *Palette {
	out := *p
	for i := range out.Pieces {
		out.Pieces[i] = scaleColor(out.Pieces[i], brightness)
	}
	out.Highlight = scaleColor(out.Highlight, brightness)
	return &out
}

func scaleColor(c color.RGBA, brightness uint8) color.RGBA {
	b := uint16(brightness)
	return color.RGBA{
		R: uint8(uint16(c.R) * b / 255),
		G: uint8(uint16(c.G) * b / 255),
		B: uint8(uint16(c.B) * b / 255),
		A: c.A,
	}
}

func parseHexColor(s string) (color.RGBA, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	var v uint32
	for i := 0; i < 6; i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
		v = v<<4 | uint32(d)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
