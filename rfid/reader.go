// Package rfid drives ThingMagic M6E Nano and M7E Hecto UHF RFID reader
// modules over a serial byte stream. It owns the command/response
// transaction cycle and the continuous-scan event stream; the wire codec
// lives in the protocol package and the serial transport in the serial
// package.
package rfid

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/motius/gorfid/protocol"
)

// Transport is the byte-stream link to the module. Buffered reports how
// many bytes can be read without blocking, which the driver uses both to
// poll for asynchronous frames and to drain stale data before a command.
// The driver never assumes any framing help from the transport.
type Transport interface {
	io.ReadWriteCloser

	Buffered() int
	Flush() error
}

// Reader is one connection to one module. It supports a single in-flight
// transaction at a time and is not safe for concurrent use; run one
// Reader per physical connection.
type Reader struct {
	port   Transport
	module ModuleType

	dec     protocol.Decoder
	clock   Clock
	log     *zap.Logger
	timeout time.Duration

	lastStatus Status
	lastFrame  protocol.Frame
}

// New wraps an open transport. The caller keeps responsibility for
// opening the port (see the serial package); the Reader takes over
// closing it.
func New(t Transport, opts ...Option) *Reader {
	r := &Reader{
		port:    t,
		module:  ModuleM6ENano,
		clock:   systemClock{},
		log:     zap.NewNop(),
		timeout: DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Module returns the configured hardware variant.
func (r *Reader) Module() ModuleType { return r.module }

// LastStatus reports how the most recent transaction ended.
func (r *Reader) LastStatus() Status { return r.lastStatus }

// LastFrame returns the most recent successfully decoded response. The
// zero Frame is returned when the last exchange produced none.
func (r *Reader) LastFrame() protocol.Frame { return r.lastFrame }

// Close releases the transport. Safe to call more than once; any
// partially assembled frame is discarded, never replayed.
func (r *Reader) Close() error {
	if r.port == nil {
		return nil
	}
	err := r.port.Close()
	r.port = nil
	r.dec.Reset()
	return err
}

// execute drives one blocking round trip: drain stale bytes, write the
// command frame, and (unless fire-and-forget) wait for a complete,
// CRC-valid, opcode-matching response within the timeout.
func (r *Reader) execute(op protocol.Opcode, payload []byte, timeout time.Duration, wait bool) (protocol.Frame, error) {
	if r.port == nil {
		r.lastStatus = StatusNoTransport
		return protocol.Frame{}, ErrNoTransport
	}

	// The module may have emitted unsolicited bytes since the last
	// exchange; a response must not be matched against them.
	r.drain()

	buf, err := protocol.Encode(op, payload)
	if err != nil {
		return protocol.Frame{}, err
	}

	r.log.Debug("send command",
		zap.String("opcode", fmt.Sprintf("0x%02X", byte(op))),
		zap.String("frame", fmt.Sprintf("% X", buf)))

	if _, err := r.port.Write(buf); err != nil {
		r.lastStatus = StatusNoTransport
		return protocol.Frame{}, fmt.Errorf("write command: %w", err)
	}

	if !wait {
		if err := r.port.Flush(); err != nil {
			return protocol.Frame{}, fmt.Errorf("flush command: %w", err)
		}
		r.lastStatus = StatusOK
		r.lastFrame = protocol.Frame{}
		return protocol.Frame{}, nil
	}

	raw, err := r.readFrame(timeout)
	if err != nil {
		r.lastStatus = StatusTimeout
		return protocol.Frame{}, err
	}

	r.log.Debug("response", zap.String("frame", fmt.Sprintf("% X", raw)))

	f, err := protocol.ParseFrame(raw)
	if err != nil {
		r.lastStatus = StatusCorruptFrame
		return f, err
	}
	if f.Opcode() != op {
		r.lastStatus = StatusOpcodeMismatch
		return f, ErrOpcodeMismatch
	}

	r.lastStatus = StatusOK
	r.lastFrame = f
	return f, nil
}

// readFrame blocks until a complete frame has been assembled or the
// timeout elapses. Only bytes the transport already has buffered are
// consumed per pass; between passes the calling goroutine sleeps.
func (r *Reader) readFrame(timeout time.Duration) ([]byte, error) {
	deadline := r.clock.Now().Add(timeout)
	var one [1]byte

	for {
		for r.port.Buffered() > 0 {
			n, err := r.port.Read(one[:])
			if err != nil {
				return nil, fmt.Errorf("read response: %w", err)
			}
			if n == 0 {
				break
			}
			if raw, ok := r.dec.Feed(one[0]); ok {
				return raw, nil
			}
		}

		if !r.clock.Now().Before(deadline) {
			return nil, ErrTimeout
		}
		r.clock.Sleep(time.Millisecond)
	}
}

// drain discards everything the transport has buffered along with any
// partial frame in the decoder.
func (r *Reader) drain() {
	var scratch [64]byte
	for r.port.Buffered() > 0 {
		n, err := r.port.Read(scratch[:])
		if n == 0 || err != nil {
			break
		}
	}
	r.dec.Reset()
}
