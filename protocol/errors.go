package protocol

import "errors"

var (
	// ErrPayloadTooLarge means a command payload does not fit the
	// one-byte length field and working buffer.
	ErrPayloadTooLarge = errors.New("protocol: payload too large")

	// ErrShortFrame means the byte slice is too small to hold the frame
	// its length byte announces.
	ErrShortFrame = errors.New("protocol: short frame")

	// ErrBadHeader means the first byte is not the 0xFF frame header.
	ErrBadHeader = errors.New("protocol: bad frame header")

	// ErrCorruptFrame means the trailing CRC does not match the frame
	// contents. The frame should be treated as lost.
	ErrCorruptFrame = errors.New("protocol: corrupt frame (CRC mismatch)")

	// ErrTruncatedTagReport means a frame classified as a tag record is
	// too small for the fixed tag-report field layout.
	ErrTruncatedTagReport = errors.New("protocol: truncated tag report")
)
