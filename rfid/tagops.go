package rfid

import (
	"fmt"
	"time"

	"github.com/motius/gorfid/protocol"
)

// Tag memory map used by the convenience helpers. EPC data proper
// starts at word 2 of the EPC bank (after the tag CRC and PC word);
// the reserved bank holds the kill password at word 0 and the access
// password at word 2.
const (
	epcAddress            = 0x02
	killPasswordAddress   = 0x00
	accessPasswordAddress = 0x02
	tidAddress            = 0x02
)

// ReadData reads a tag memory bank starting at the given word address.
// The module searches for the first tag in range for up to timeout,
// which is also echoed into the command payload for the module's own
// bookkeeping. A non-zero module status (typically "no tag in range")
// comes back as a *TagError.
func (r *Reader) ReadData(bank protocol.Bank, address uint32, timeout time.Duration) ([]byte, error) {
	ms := timeoutMillis(timeout)
	payload := []byte{
		byte(ms >> 8), byte(ms),
		0x10,       // option byte
		0x00, 0x00, // metadata flags
		byte(bank),
		byte(address >> 24), byte(address >> 16), byte(address >> 8), byte(address),
		0x00, // zero word count reads the entire bank
	}

	f, err := r.execute(protocol.OpReadTagData, payload, timeout, true)
	if err != nil {
		return nil, err
	}
	if f.StatusWord() != protocol.StatusOK {
		return nil, &TagError{Op: "read data", Status: f.StatusWord()}
	}

	// The payload leads with option and metadata echoes; tag data
	// follows from the fourth byte on.
	p := f.Payload()
	if len(p) < 3 {
		return nil, &TagError{Op: "read data", Status: f.StatusWord()}
	}
	return append([]byte(nil), p[3:]...), nil
}

// WriteData writes bytes into a tag memory bank at the given word
// address. The first tag found in range is written; success is the
// module's embedded status word.
func (r *Reader) WriteData(bank protocol.Bank, address uint32, data []byte, timeout time.Duration) error {
	ms := timeoutMillis(timeout)
	payload := make([]byte, 0, 8+len(data))
	payload = append(payload,
		byte(ms>>8), byte(ms),
		0x00, // option byte
		byte(address>>24), byte(address>>16), byte(address>>8), byte(address),
		byte(bank),
	)
	payload = append(payload, data...)

	f, err := r.execute(protocol.OpWriteTagData, payload, timeout, true)
	if err != nil {
		return err
	}
	if f.StatusWord() != protocol.StatusOK {
		return &TagError{Op: "write data", Status: f.StatusWord()}
	}
	return nil
}

// KillTag permanently disables the first tag found in range. The kill
// password must be the tag's 4-byte reserved-bank password and must be
// non-zero for the tag to accept the kill. Irreversible; no
// confirmation happens beyond the module's status word.
func (r *Reader) KillTag(password []byte, timeout time.Duration) error {
	if len(password) != 4 {
		return fmt.Errorf("rfid: kill password must be 4 bytes, got %d", len(password))
	}

	ms := timeoutMillis(timeout)
	payload := make([]byte, 0, 8)
	payload = append(payload, byte(ms>>8), byte(ms), 0x00)
	payload = append(payload, password...)
	payload = append(payload, 0x00) // RFU

	f, err := r.execute(protocol.OpKillTag, payload, timeout, true)
	if err != nil {
		return err
	}
	if f.StatusWord() != protocol.StatusOK {
		return &TagError{Op: "kill tag", Status: f.StatusWord()}
	}
	return nil
}

// ReadEPC reads the EPC of the first tag in range.
func (r *Reader) ReadEPC(timeout time.Duration) ([]byte, error) {
	return r.ReadData(protocol.BankEPC, epcAddress, timeout)
}

// WriteEPC writes a new EPC to the first tag in range. Use with care:
// whichever tag answers first gets renamed.
func (r *Reader) WriteEPC(epc []byte, timeout time.Duration) error {
	return r.WriteData(protocol.BankEPC, epcAddress, epc, timeout)
}

// ReadUserData reads the user memory bank (typically 0-64 bytes).
func (r *Reader) ReadUserData(timeout time.Duration) ([]byte, error) {
	return r.ReadData(protocol.BankUser, 0x00, timeout)
}

// WriteUserData writes into the user memory bank.
func (r *Reader) WriteUserData(data []byte, timeout time.Duration) error {
	return r.WriteData(protocol.BankUser, 0x00, data, timeout)
}

// ReadKillPassword reads the 4-byte kill password.
func (r *Reader) ReadKillPassword(timeout time.Duration) ([]byte, error) {
	return r.ReadData(protocol.BankReserved, killPasswordAddress, timeout)
}

// WriteKillPassword writes the 4-byte kill password.
func (r *Reader) WriteKillPassword(password []byte, timeout time.Duration) error {
	return r.WriteData(protocol.BankReserved, killPasswordAddress, password, timeout)
}

// ReadAccessPassword reads the 4-byte access password.
func (r *Reader) ReadAccessPassword(timeout time.Duration) ([]byte, error) {
	return r.ReadData(protocol.BankReserved, accessPasswordAddress, timeout)
}

// WriteAccessPassword writes the 4-byte access password.
func (r *Reader) WriteAccessPassword(password []byte, timeout time.Duration) error {
	return r.WriteData(protocol.BankReserved, accessPasswordAddress, password, timeout)
}

// ReadTID reads the tag identifier bank.
func (r *Reader) ReadTID(timeout time.Duration) ([]byte, error) {
	return r.ReadData(protocol.BankTID, tidAddress, timeout)
}

// ReadUID is an alias for ReadTID kept for parity with other SparkFun
// library ports.
func (r *Reader) ReadUID(timeout time.Duration) ([]byte, error) {
	return r.ReadTID(timeout)
}

// timeoutMillis converts the transaction budget into the 16-bit
// millisecond echo the module expects inside tag-op payloads.
func timeoutMillis(d time.Duration) uint16 {
	ms := d.Milliseconds()
	if ms < 0 {
		return 0
	}
	if ms > 0xFFFF {
		return 0xFFFF
	}
	return uint16(ms)
}
