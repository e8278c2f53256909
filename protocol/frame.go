package protocol

// Encode builds the wire image of a command frame:
//
//	[0xFF][len][opcode][payload...][crcHi][crcLo]
//
// The CRC covers the length, opcode and payload bytes. Returns
// ErrPayloadTooLarge when the payload would overflow the one-byte
// length field or the module's working buffer.
func Encode(op Opcode, payload []byte) ([]byte, error) {
	if len(payload) > MaxFrameSize-commandOverhead {
		return nil, ErrPayloadTooLarge
	}

	buf := make([]byte, 0, len(payload)+commandOverhead)
	buf = append(buf, Header, byte(len(payload)), byte(op))
	buf = append(buf, payload...)

	crc := CRC16(buf[1:])
	buf = append(buf, byte(crc>>8), byte(crc))

	return buf, nil
}

// Frame is one decoded response message. It is immutable once parsed;
// accessors index into the raw wire image so the module's documented
// byte offsets stay recognizable.
type Frame struct {
	raw []byte
}

// ParseFrame validates a complete response frame: header byte, declared
// size (length+7) and CRC. A CRC mismatch yields ErrCorruptFrame with
// the frame still returned so callers can inspect the damage.
func ParseFrame(raw []byte) (Frame, error) {
	if len(raw) < responseOverhead {
		return Frame{}, ErrShortFrame
	}
	if raw[0] != Header {
		return Frame{}, ErrBadHeader
	}

	total := int(raw[1]) + responseOverhead
	if len(raw) < total {
		return Frame{}, ErrShortFrame
	}

	f := Frame{raw: raw[:total]}
	crc := CRC16(raw[1 : total-2])
	if raw[total-2] != byte(crc>>8) || raw[total-1] != byte(crc) {
		return f, ErrCorruptFrame
	}
	return f, nil
}

// Len returns the payload byte count declared by the frame. The 2-byte
// status word is not included.
func (f Frame) Len() int { return int(f.raw[1]) }

// Opcode returns the operation code the frame responds to.
func (f Frame) Opcode() Opcode { return Opcode(f.raw[2]) }

// StatusWord returns the 16-bit module status carried after the opcode.
func (f Frame) StatusWord() uint16 {
	return uint16(f.raw[3])<<8 | uint16(f.raw[4])
}

// Payload returns the payload bytes following the status word.
func (f Frame) Payload() []byte {
	return f.raw[payloadOffset : payloadOffset+f.Len()]
}

// CRC returns the frame's trailing CRC as transmitted.
func (f Frame) CRC() uint16 {
	total := f.Len() + responseOverhead
	return uint16(f.raw[total-2])<<8 | uint16(f.raw[total-1])
}

// Bytes returns the full wire image, header through CRC.
func (f Frame) Bytes() []byte { return f.raw }

// IsZero reports whether the frame holds no decoded message.
func (f Frame) IsZero() bool { return f.raw == nil }
