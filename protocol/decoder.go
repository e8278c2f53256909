package protocol

// Decoder assembles response frames from a raw byte stream one byte at a
// time. It owns a fixed-capacity accumulation buffer and never blocks:
// feed it whatever the transport currently has and it reports when a
// complete frame has formed. Bytes arriving before a 0xFF header are
// discarded, which resynchronizes the stream after garbage.
type Decoder struct {
	buf  [MaxFrameSize]byte
	head int
}

// Feed consumes one incoming byte. When the byte completes a frame, Feed
// returns a copy of the raw wire image and true, zeroes the buffer tail
// and resets for the next frame. The returned bytes are not CRC-checked;
// pass them to ParseFrame or Classify.
func (d *Decoder) Feed(b byte) ([]byte, bool) {
	// Hunt for the header before accumulating anything.
	if d.head == 0 && b != Header {
		return nil, false
	}

	d.buf[d.head] = b
	d.head++
	d.head %= len(d.buf)

	// Once the length byte is in, the total frame size is fixed.
	if d.head > 1 && d.head == int(d.buf[1])+responseOverhead {
		raw := make([]byte, d.head)
		copy(raw, d.buf[:d.head])

		for i := d.head; i < len(d.buf); i++ {
			d.buf[i] = 0
		}
		d.head = 0

		return raw, true
	}

	return nil, false
}

// Pending returns how many bytes of a partial frame are buffered.
func (d *Decoder) Pending() int { return d.head }

// Reset discards any partially assembled frame.
func (d *Decoder) Reset() {
	for i := 0; i < d.head; i++ {
		d.buf[i] = 0
	}
	d.head = 0
}
