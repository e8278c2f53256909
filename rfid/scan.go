package rfid

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/motius/gorfid/protocol"
)

// Continuous-read configuration blob for the multi-protocol tag
// operation: Gen2, antenna 1, 1000ms on-time, repeat forever.
var continuousReadConfig = []byte{
	0x00, 0x00, 0x01, 0x22, 0x00, 0x00, 0x05, 0x07,
	0x22, 0x10, 0x00, 0x1B, 0x03, 0xE8, 0x01, 0xFF,
}

var stopReadConfig = []byte{0x00, 0x00, 0x02}

// Event is one classified asynchronous frame received while the module
// is continuously scanning. Tag is populated for tag-found events whose
// record parses cleanly.
type Event struct {
	Kind  protocol.ResponseKind
	Frame protocol.Frame
	Tag   *protocol.TagReport
}

// StartReading puts the module into continuous scanning. The read
// filter is disabled first so repeat sightings of the same tag keep
// reporting. Poll NextEvent to consume the resulting frames.
func (r *Reader) StartReading() error {
	if err := r.DisableReadFilter(); err != nil {
		return fmt.Errorf("disable read filter: %w", err)
	}
	_, err := r.execute(protocol.OpMultiProtocolTagOp, continuousReadConfig, r.timeout, true)
	return err
}

// StopReading asks the module to leave continuous scanning. The module
// does not acknowledge the stop, and it may keep emitting frames for
// another second or two; callers that immediately issue commands should
// allow for that.
func (r *Reader) StopReading() error {
	_, err := r.execute(protocol.OpMultiProtocolTagOp, stopReadConfig, r.timeout, false)
	return err
}

// NextEvent returns the next classified frame from the scanning module,
// blocking up to timeout. Only bytes the transport already holds are
// consumed per poll; the goroutine sleeps between polls, so cancellation
// is bounded by the timeout and nothing runs in the background.
func (r *Reader) NextEvent(timeout time.Duration) (Event, error) {
	if r.port == nil {
		return Event{}, ErrNoTransport
	}

	deadline := r.clock.Now().Add(timeout)
	var one [1]byte

	for {
		for r.port.Buffered() > 0 {
			n, err := r.port.Read(one[:])
			if err != nil {
				return Event{}, fmt.Errorf("read stream: %w", err)
			}
			if n == 0 {
				break
			}

			raw, ok := r.dec.Feed(one[0])
			if !ok {
				continue
			}

			f, kind := protocol.Classify(raw)
			r.log.Debug("async frame",
				zap.Stringer("kind", kind),
				zap.String("frame", fmt.Sprintf("% X", raw)))

			ev := Event{Kind: kind, Frame: f}
			if kind == protocol.ResponseTagFound {
				if tag, err := protocol.ParseTagReport(f); err == nil {
					ev.Tag = tag
				}
			}
			return ev, nil
		}

		if !r.clock.Now().Before(deadline) {
			return Event{}, ErrTimeout
		}
		r.clock.Sleep(time.Millisecond)
	}
}
