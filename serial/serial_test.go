package serial

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFifoRoundTrip(t *testing.T) {
	f := newFifo(8)
	assert.Zero(t, f.available())

	n := f.writeBytes([]byte{1, 2, 3})
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, f.available())

	out := make([]byte, 2)
	assert.Equal(t, 2, f.readBytes(out))
	assert.Equal(t, []byte{1, 2}, out)
	assert.Equal(t, 1, f.available())
}

func TestFifoWrapAround(t *testing.T) {
	f := newFifo(4) // one slot stays empty, usable capacity 3

	out := make([]byte, 4)
	for round := 0; round < 5; round++ {
		require.Equal(t, 3, f.writeBytes([]byte{10, 20, 30}))
		require.Equal(t, 3, f.readBytes(out))
		assert.Equal(t, []byte{10, 20, 30}, out[:3])
	}
}

func TestFifoDropsWhenFull(t *testing.T) {
	f := newFifo(4)
	n := f.writeBytes([]byte{1, 2, 3, 4, 5})
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, f.available())
}

type pipeCloser struct {
	*io.PipeReader
}

func (p pipeCloser) Write(b []byte) (int, error) { return len(b), nil }

func TestPortPumpsIncomingBytes(t *testing.T) {
	pr, pw := io.Pipe()
	p := newPort(pipeCloser{pr})
	defer p.Close()

	_, err := pw.Write([]byte{0xFF, 0x00, 0x22})
	require.NoError(t, err)

	// The pump runs asynchronously; give it a moment.
	deadline := time.Now().Add(time.Second)
	for p.Buffered() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, 3, p.Buffered())

	buf := make([]byte, 3)
	n, err := p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{0xFF, 0x00, 0x22}, buf)
	assert.Zero(t, p.Buffered())
}

func TestPortReadWhenEmpty(t *testing.T) {
	pr, _ := io.Pipe()
	p := newPort(pipeCloser{pr})
	defer p.Close()

	buf := make([]byte, 4)
	n, err := p.Read(buf)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPortCloseStopsPump(t *testing.T) {
	pr, pw := io.Pipe()
	p := newPort(pipeCloser{pr})

	require.NoError(t, p.Close())
	require.NoError(t, p.Close(), "double close is fine")

	_, err := p.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.ErrClosedPipe)

	pw.CloseWithError(io.EOF)
}

func TestOpenRejectsNilConfig(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)
}
