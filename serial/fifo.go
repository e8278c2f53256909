package serial

// fifo is a fixed-capacity circular byte buffer. One writer (the pump
// goroutine) and one reader (the driver) share it under the Port mutex.
type fifo struct {
	buf   []byte
	read  int
	write int
	size  int
}

func newFifo(capacity int) *fifo {
	return &fifo{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// writeBytes appends data, dropping whatever does not fit. A full
// buffer means the driver stopped consuming; the stream is already
// broken at that point and the CRC check will flag it.
func (f *fifo) writeBytes(data []byte) int {
	written := 0
	for _, b := range data {
		next := (f.write + 1) % f.size
		if next == f.read {
			break
		}
		f.buf[f.write] = b
		f.write = next
		written++
	}
	return written
}

// readBytes pops up to len(data) bytes from the front.
func (f *fifo) readBytes(data []byte) int {
	read := 0
	for i := range data {
		if f.read == f.write {
			break
		}
		data[i] = f.buf[f.read]
		f.read = (f.read + 1) % f.size
		read++
	}
	return read
}

// available returns the number of buffered bytes.
func (f *fifo) available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

func (f *fifo) reset() {
	f.read = 0
	f.write = 0
}
