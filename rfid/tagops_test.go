package rfid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motius/gorfid/protocol"
)

// tagSimulator emulates one tag's memory behind the module's read/write
// opcodes, answering with the module's deterministic status words.
type tagSimulator struct {
	banks map[protocol.Bank]map[uint32][]byte
}

func newTagSimulator() *tagSimulator {
	return &tagSimulator{banks: map[protocol.Bank]map[uint32][]byte{}}
}

func (s *tagSimulator) respond(op protocol.Opcode, payload []byte) [][]byte {
	switch op {
	case protocol.OpWriteTagData:
		// [toHi toLo option a3 a2 a1 a0 bank data...]
		addr := beUint32(payload[3:7])
		bank := protocol.Bank(payload[7])
		if s.banks[bank] == nil {
			s.banks[bank] = map[uint32][]byte{}
		}
		s.banks[bank][addr] = append([]byte(nil), payload[8:]...)
		return [][]byte{responseFrame(op, 0x0000, nil)}

	case protocol.OpReadTagData:
		// [toHi toLo option metaHi metaLo bank a3 a2 a1 a0 marker]
		bank := protocol.Bank(payload[5])
		addr := beUint32(payload[6:10])
		data, ok := s.banks[bank][addr]
		if !ok {
			// No tag / nothing stored: well-formed failure status.
			return [][]byte{responseFrame(op, 0x0400, nil)}
		}
		// Option and metadata echoes precede the tag data.
		resp := append([]byte{0x10, 0x00, 0x00}, data...)
		return [][]byte{responseFrame(op, 0x0000, resp)}

	default:
		return [][]byte{responseFrame(op, 0x0000, nil)}
	}
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	sim := newTagSimulator()
	m := &mockTransport{respond: sim.respond}
	r := newTestReader(m)

	require.NoError(t, r.WriteData(protocol.BankUser, 0x00, []byte{0xAB, 0xCD}, time.Second))

	got, err := r.ReadData(protocol.BankUser, 0x00, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0xCD}, got)
}

func TestEPCHelpersTargetEPCBank(t *testing.T) {
	sim := newTagSimulator()
	m := &mockTransport{respond: sim.respond}
	r := newTestReader(m)

	epc := []byte{0xE2, 0x00, 0x12, 0x34}
	require.NoError(t, r.WriteEPC(epc, time.Second))

	// The helper pair addresses bank 1, word 2.
	assert.Equal(t, epc, sim.banks[protocol.BankEPC][0x02])

	got, err := r.ReadEPC(time.Second)
	require.NoError(t, err)
	assert.Equal(t, epc, got)
}

func TestReadDataNoTag(t *testing.T) {
	sim := newTagSimulator()
	m := &mockTransport{respond: sim.respond}
	r := newTestReader(m)

	_, err := r.ReadUserData(time.Second)
	var tagErr *TagError
	require.ErrorAs(t, err, &tagErr)
	assert.Equal(t, uint16(0x0400), tagErr.Status)

	// Transaction-level health is fine: the module answered, the tag
	// operation failed.
	assert.Equal(t, StatusOK, r.LastStatus())
}

func TestWriteDataRejected(t *testing.T) {
	m := &mockTransport{respond: func(op protocol.Opcode, _ []byte) [][]byte {
		return [][]byte{responseFrame(op, 0x0409, nil)}
	}}
	r := newTestReader(m)

	err := r.WriteUserData([]byte{0x01}, time.Second)
	var tagErr *TagError
	require.ErrorAs(t, err, &tagErr)
	assert.Equal(t, uint16(0x0409), tagErr.Status)
}

func TestReadDataPayloadLayout(t *testing.T) {
	m := &mockTransport{respond: func(op protocol.Opcode, payload []byte) [][]byte {
		// Verify the documented payload layout of the read command.
		require.Len(t, payload, 11)
		assert.Equal(t, []byte{0x03, 0xE8}, payload[0:2], "timeout echo in ms")
		assert.Equal(t, byte(0x10), payload[2], "option byte")
		assert.Equal(t, []byte{0x00, 0x00}, payload[3:5], "metadata flags")
		assert.Equal(t, byte(protocol.BankTID), payload[5])
		assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x02}, payload[6:10])
		assert.Equal(t, byte(0x00), payload[10], "read entire bank")

		return [][]byte{responseFrame(op, 0x0000, []byte{0x10, 0x00, 0x00, 0xCA, 0xFE})}
	}}
	r := newTestReader(m)

	got, err := r.ReadTID(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xCA, 0xFE}, got)
}

func TestKillTag(t *testing.T) {
	m := &mockTransport{respond: respondOK}
	r := newTestReader(m)

	require.NoError(t, r.KillTag([]byte{0xDE, 0xAD, 0xBE, 0xEF}, time.Second))

	cmd := m.lastCommand()
	assert.Equal(t, byte(protocol.OpKillTag), cmd[2])
	// [toHi toLo option pw... rfu]
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, cmd[6:10])
	assert.Equal(t, byte(0x00), cmd[10])
}

func TestKillTagPasswordLength(t *testing.T) {
	m := &mockTransport{respond: respondOK}
	r := newTestReader(m)

	err := r.KillTag([]byte{0x01, 0x02}, time.Second)
	assert.Error(t, err)
	assert.Empty(t, m.commands, "nothing may reach the wire")
}
