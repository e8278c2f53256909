package rfid

import (
	"errors"
	"fmt"

	"github.com/motius/gorfid/protocol"
)

var (
	// ErrTimeout means no complete frame arrived within the transaction
	// budget. Recoverable; the caller may retry.
	ErrTimeout = errors.New("rfid: no response before timeout")

	// ErrCorruptFrame means the response failed CRC validation. Treat
	// the frame as lost.
	ErrCorruptFrame = protocol.ErrCorruptFrame

	// ErrOpcodeMismatch means the response answers a different opcode
	// than the request. Indicates a desynchronized stream; the next
	// transaction drains the transport and resynchronizes.
	ErrOpcodeMismatch = errors.New("rfid: response opcode does not match request")

	// ErrNoTransport means the reader has no open connection.
	ErrNoTransport = errors.New("rfid: transport not open")
)

// TagError reports a tag operation the module completed but refused: the
// embedded status word was non-zero. The most common cause is simply
// that no tag was in range.
type TagError struct {
	Op     string
	Status uint16
}

func (e *TagError) Error() string {
	return fmt.Sprintf("rfid: %s failed: module status 0x%04X", e.Op, e.Status)
}

// Status is the recorded outcome of the most recent transaction,
// mirroring the module's in-band transaction-health convention.
type Status int

const (
	// StatusNone means no transaction has run yet.
	StatusNone Status = iota
	StatusOK
	StatusTimeout
	StatusCorruptFrame
	StatusOpcodeMismatch
	StatusNoTransport
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimeout:
		return "timeout"
	case StatusCorruptFrame:
		return "corrupt-frame"
	case StatusOpcodeMismatch:
		return "opcode-mismatch"
	case StatusNoTransport:
		return "no-transport"
	default:
		return "none"
	}
}
