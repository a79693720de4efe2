package link

import (
	"fmt"
	"io"
	"sync"
)

// StdioLink adapts a blocking reader/writer pair (usually stdin/stdout) to
// the polled Link contract. A reader goroutine assembles lines into a
// channel that TryReadLine drains without blocking.
type StdioLink struct {
	lines chan string

	mu sync.Mutex
	w  io.Writer

	closeOnce sync.Once
	done      chan struct{}
}

// NewStdio starts reading lines from r. Replies go to w.
func NewStdio(r io.Reader, w io.Writer) *StdioLink {
	l := &StdioLink{
		lines: make(chan string, 16),
		w:     w,
		done:  make(chan struct{}),
	}
	go l.readLoop(r)
	return l
}

func (l *StdioLink) readLoop(r io.Reader) {
	var lb lineBuffer
	chunk := make([]byte, 256)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			for _, line := range lb.feed(chunk[:n]) {
				select {
				case l.lines <- line:
				case <-l.done:
					return
				}
			}
		}
		if err != nil {
			return
		}
	}
}

// TryReadLine returns a buffered line, or ok=false immediately.
func (l *StdioLink) TryReadLine() (string, bool, error) {
	select {
	case line := <-l.lines:
		return line, true, nil
	default:
		return "", false, nil
	}
}

// WriteLine sends one line terminated with LF.
func (l *StdioLink) WriteLine(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := fmt.Fprintln(l.w, line); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}

// Close stops the reader goroutine. The underlying reader and writer are
// owned by the caller and are not closed.
func (l *StdioLink) Close() error {
	l.closeOnce.Do(func() { close(l.done) })
	return nil
}
