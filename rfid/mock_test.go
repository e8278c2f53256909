package rfid

import (
	"bytes"
	"time"

	"github.com/motius/gorfid/protocol"
)

// mockTransport simulates the module end of the serial link. Commands
// written by the driver are recorded and, when a responder is set, fed
// through it; whatever frames it returns become readable bytes.
type mockTransport struct {
	respond func(op protocol.Opcode, payload []byte) [][]byte

	rx       bytes.Buffer
	commands [][]byte
	flushed  int
	closed   bool
	readErr  error
	writeErr error
}

func (m *mockTransport) Write(p []byte) (int, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}

	cmd := append([]byte(nil), p...)
	m.commands = append(m.commands, cmd)

	if m.respond != nil && len(cmd) >= 5 && cmd[0] == protocol.Header {
		op := protocol.Opcode(cmd[2])
		payload := cmd[3 : 3+int(cmd[1])]
		for _, frame := range m.respond(op, payload) {
			m.rx.Write(frame)
		}
	}
	return len(p), nil
}

func (m *mockTransport) Read(p []byte) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	if m.rx.Len() == 0 {
		return 0, nil
	}
	return m.rx.Read(p)
}

func (m *mockTransport) Buffered() int { return m.rx.Len() }
func (m *mockTransport) Flush() error  { m.flushed++; return nil }
func (m *mockTransport) Close() error  { m.closed = true; return nil }

func (m *mockTransport) lastCommand() []byte {
	if len(m.commands) == 0 {
		return nil
	}
	return m.commands[len(m.commands)-1]
}

// stuff makes raw bytes readable without any command being written,
// standing in for unsolicited module output.
func (m *mockTransport) stuff(raw []byte) { m.rx.Write(raw) }

// respondOK replies to every command with an empty success frame for
// the same opcode.
func respondOK(op protocol.Opcode, _ []byte) [][]byte {
	return [][]byte{responseFrame(op, 0x0000, nil)}
}

// responseFrame assembles a module response:
// FF len op statusHi statusLo payload... crcHi crcLo.
func responseFrame(op protocol.Opcode, status uint16, payload []byte) []byte {
	raw := make([]byte, 0, len(payload)+7)
	raw = append(raw, protocol.Header, byte(len(payload)), byte(op), byte(status>>8), byte(status))
	raw = append(raw, payload...)
	crc := protocol.CRC16(raw[1:])
	return append(raw, byte(crc>>8), byte(crc))
}

// fakeClock advances only when the driver sleeps, so timeout paths run
// without wall-clock delay.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func newTestReader(m *mockTransport, opts ...Option) *Reader {
	opts = append([]Option{WithClock(&fakeClock{})}, opts...)
	return New(m, opts...)
}
