package link

import (
	"strings"
	"testing"
	"time"
)

func TestLineBufferSplitsLines(t *testing.T) {
	var lb lineBuffer

	if lines := lb.feed([]byte("rnbq")); lines != nil {
		t.Fatalf("partial input produced lines: %v", lines)
	}
	lines := lb.feed([]byte("kbnr\n8/8\r\ntail"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(lines), lines)
	}
	if lines[0] != "rnbqkbnr" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "8/8" {
		t.Errorf("line 1 = %q, carriage return should be trimmed", lines[1])
	}

	// The unterminated tail completes on the next newline.
	if lines := lb.feed([]byte("\n")); len(lines) != 1 || lines[0] != "tail" {
		t.Errorf("tail flush = %v", lines)
	}
}

func TestLineBufferEmptyLines(t *testing.T) {
	var lb lineBuffer
	lines := lb.feed([]byte("\n\r\n"))
	if len(lines) != 2 || lines[0] != "" || lines[1] != "" {
		t.Errorf("empty lines = %q", lines)
	}
}

func TestLineBufferDiscardsOverlongLine(t *testing.T) {
	var lb lineBuffer

	// MaxLineLen+1 bytes with no terminator: the accumulator resets, so the
	// eventual newline only carries whatever arrived after the reset.
	junk := strings.Repeat("a", MaxLineLen+1)
	if lines := lb.feed([]byte(junk)); lines != nil {
		t.Fatalf("overflow produced lines: %v", lines)
	}
	lines := lb.feed([]byte("ok\n"))
	if len(lines) != 1 || lines[0] != "ok" {
		t.Errorf("after overflow got %q, want [\"ok\"]", lines)
	}
}

func TestLineBufferKeepsExactLimit(t *testing.T) {
	var lb lineBuffer
	line := strings.Repeat("b", MaxLineLen)
	lines := lb.feed([]byte(line + "\n"))
	if len(lines) != 1 || lines[0] != line {
		t.Errorf("a line of exactly MaxLineLen bytes must survive")
	}
}

func TestStdioLink(t *testing.T) {
	var out strings.Builder
	l := NewStdio(strings.NewReader("8/8/8/8/8/8/8/8\n"), &out)
	defer l.Close()

	line, ok := waitForLine(t, l)
	if !ok {
		t.Fatal("no line arrived")
	}
	if line != "8/8/8/8/8/8/8/8" {
		t.Errorf("line = %q", line)
	}

	if _, ok, err := l.TryReadLine(); err != nil || ok {
		t.Errorf("drained link returned ok=%v err=%v", ok, err)
	}

	if err := l.WriteLine("OK"); err != nil {
		t.Fatalf("WriteLine failed: %v", err)
	}
	if out.String() != "OK\n" {
		t.Errorf("reply = %q", out.String())
	}
}

// waitForLine polls the link until a line shows up or a deadline passes,
// since the stdio reader runs on its own goroutine.
func waitForLine(t *testing.T, l Link) (string, bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		line, ok, err := l.TryReadLine()
		if err != nil {
			t.Fatalf("TryReadLine failed: %v", err)
		}
		if ok {
			return line, true
		}
		time.Sleep(time.Millisecond)
	}
	return "", false
}
