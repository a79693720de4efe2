package link

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the rate the desk controller has always used.
const DefaultBaudRate = 115200

// readTimeout keeps TryReadLine close to non-blocking: a poll with no
// pending bytes returns after this long.
const readTimeout = 10 * time.Millisecond

// SerialLink reads and writes protocol lines over a serial port.
type SerialLink struct {
	port    serial.Port
	lb      lineBuffer
	pending []string
	chunk   [256]byte
}

// OpenSerial opens the serial device (e.g. "/dev/ttyACM0") in 8N1 at the
// given baud rate.
func OpenSerial(device string, baud int) (*SerialLink, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	return &SerialLink{port: port}, nil
}

// TryReadLine drains whatever bytes are pending on the port and returns the
// next completed line, if any.
func (l *SerialLink) TryReadLine() (string, bool, error) {
	if len(l.pending) == 0 {
		n, err := l.port.Read(l.chunk[:])
		if err != nil {
			return "", false, fmt.Errorf("serial read: %w", err)
		}
		if n > 0 {
			l.pending = l.lb.feed(l.chunk[:n])
		}
	}

	if len(l.pending) == 0 {
		return "", false, nil
	}
	line := l.pending[0]
	l.pending = l.pending[1:]
	return line, true, nil
}

// WriteLine sends one line terminated with CRLF, as the controller side
// expects from a serial device.
func (l *SerialLink) WriteLine(line string) error {
	if _, err := l.port.Write([]byte(line + "\r\n")); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}

// Close releases the port.
func (l *SerialLink) Close() error {
	return l.port.Close()
}
