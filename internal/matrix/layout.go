// Package matrix maps board coordinates onto the serpentine LED strip.
package matrix

// NumPixels is the number of addressable LEDs on the board.
const NumPixels = 64

// PixelIndex converts a board coordinate to the physical strip index.
// The strip is wired in a serpentine pattern: even ranks run A->H, odd
// ranks run H->A. file and rank must be in [0,8).
func PixelIndex(file, rank int) int {
	if rank&1 == 0 {
		return rank*8 + file
	}
	return rank*8 + (7 - file)
}

// PixelCoord is the inverse of PixelIndex. It returns the board
// coordinate lit by the given strip index.
func PixelCoord(index int) (file, rank int) {
	rank = index >> 3
	file = index & 7
	if rank&1 == 1 {
		file = 7 - file
	}
	return file, rank
}
