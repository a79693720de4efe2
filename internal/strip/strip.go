// Package strip drives the addressable LED strip behind the board.
package strip

import "image/color"

// Strip is an ordered run of addressable RGB cells. Writes are buffered;
// Show commits every pending write at once so observers never see a
// partially updated frame.
type Strip interface {
	// SetPixel stages a color for the cell at the given physical index.
	SetPixel(i int, c color.RGBA)
	// Show transmits the staged frame to the hardware.
	Show() error
	Close() error
}
