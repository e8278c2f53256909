// Package serial provides the serial-port transport for the rfid
// driver, backed by github.com/tarm/serial. A pump goroutine moves
// bytes from the OS port into a ring buffer so the driver can ask how
// much input is waiting without blocking, the way the module protocol's
// polling loops need.
package serial

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// DefaultBaud is the module's factory baud rate.
const DefaultBaud = 115200

// rxBufferSize bounds unread input. Continuous scanning emits frames of
// at most 255 bytes; a few hundred frames of headroom is plenty for any
// realistic polling cadence.
const rxBufferSize = 4096

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g. "/dev/ttyUSB0", "COM3").
	Device string

	// Baud rate. The module ships at 115200.
	Baud int

	// ReadTimeout is how long the pump waits per OS read. It only
	// affects shutdown latency, never protocol timing.
	ReadTimeout time.Duration
}

// DefaultConfig returns a configuration for a factory-fresh module.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// Port is an open serial connection implementing rfid.Transport.
type Port struct {
	inner io.ReadWriteCloser

	mu     sync.Mutex
	rx     *fifo
	closed bool

	done chan struct{}
}

// Open opens the configured device and starts the receive pump.
func Open(cfg *Config) (*Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("serial: config cannot be nil")
	}

	inner, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Device, err)
	}

	return newPort(inner), nil
}

func newPort(inner io.ReadWriteCloser) *Port {
	p := &Port{
		inner: inner,
		rx:    newFifo(rxBufferSize),
		done:  make(chan struct{}),
	}
	go p.pump()
	return p
}

// pump drains the OS port into the ring buffer until the port closes.
func (p *Port) pump() {
	defer close(p.done)

	buf := make([]byte, 256)
	for {
		n, err := p.inner.Read(buf)
		if n > 0 {
			p.mu.Lock()
			p.rx.writeBytes(buf[:n])
			p.mu.Unlock()
		}
		if err != nil {
			// tarm surfaces a read timeout as io.EOF; that is routine,
			// everything else means the port is gone.
			p.mu.Lock()
			closed := p.closed
			p.mu.Unlock()
			if closed || err != io.EOF {
				return
			}
		}
	}
}

// Read pops buffered input without blocking; it returns 0 bytes when
// nothing is waiting. Callers gate on Buffered first.
func (p *Port) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	return p.rx.readBytes(b), nil
}

// Write sends bytes to the module.
func (p *Port) Write(b []byte) (int, error) {
	return p.inner.Write(b)
}

// Buffered reports how many received bytes are waiting to be read.
func (p *Port) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rx.available()
}

// Flush is a no-op: tarm/serial writes are not buffered on this side.
func (p *Port) Flush() error { return nil }

// Close stops the pump and releases the OS port. Buffered but unread
// input is discarded.
func (p *Port) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.rx.reset()
	p.mu.Unlock()

	err := p.inner.Close()
	<-p.done
	return err
}
