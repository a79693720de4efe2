// Package link carries the line protocol between the controller and the
// board daemon, over a serial port or standard I/O.
package link

// MaxLineLen bounds an in-progress line. A stream that produces more bytes
// than this without a terminator has the accumulated buffer discarded, so a
// wedged or garbage sender cannot grow memory without bound.
const MaxLineLen = 200

// Link is a polled, bidirectional line channel.
type Link interface {
	// TryReadLine returns the next complete input line, trimmed of its
	// trailing CR/LF, or ok=false when no full line is available yet.
	// It never blocks for longer than the underlying read timeout.
	TryReadLine() (line string, ok bool, err error)
	// WriteLine sends one line, appending the terminator.
	WriteLine(line string) error
	Close() error
}

// lineBuffer accumulates raw bytes and splits out completed lines,
// enforcing MaxLineLen on the unterminated remainder.
type lineBuffer struct {
	buf []byte
}

// feed appends raw bytes and returns any lines completed by them.
func (lb *lineBuffer) feed(p []byte) []string {
	var lines []string
	for _, c := range p {
		if c == '\n' {
			lines = append(lines, trimCR(string(lb.buf)))
			lb.buf = lb.buf[:0]
			continue
		}
		lb.buf = append(lb.buf, c)
		if len(lb.buf) > MaxLineLen {
			lb.buf = lb.buf[:0]
		}
	}
	return lines
}

func trimCR(s string) string {
	for len(s) > 0 && s[len(s)-1] == '\r' {
		s = s[:len(s)-1]
	}
	return s
}
