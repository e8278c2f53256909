package rfid

import (
	"github.com/motius/gorfid/protocol"
)

// MaxReadPower is the module's TX power ceiling in centi-dBm (27.00 dBm).
const MaxReadPower = 2700

// PinMode selects the direction of a module GPIO pin.
type PinMode byte

const (
	PinInput  PinMode = 0x00
	PinOutput PinMode = 0x01
)

// SetBaud asks the module to switch its serial baud rate. The module
// does not acknowledge on the old rate, so this is fire-and-forget; the
// caller must reopen the transport at the new rate.
func (r *Reader) SetBaud(baud int) error {
	data := []byte{
		byte(baud >> 24), byte(baud >> 16), byte(baud >> 8), byte(baud),
	}
	_, err := r.execute(protocol.OpSetBaudRate, data, r.timeout, false)
	return err
}

// Version queries the firmware version and returns the raw response
// payload; the layout varies by firmware so decoding is left to callers.
func (r *Reader) Version() ([]byte, error) {
	f, err := r.execute(protocol.OpVersion, nil, r.timeout, true)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), f.Payload()...), nil
}

// SetReadPower sets the read TX power in centi-dBm (2700 = 27.00 dBm).
// Values above MaxReadPower are clamped.
func (r *Reader) SetReadPower(centiDBm int16) error {
	if centiDBm > MaxReadPower {
		centiDBm = MaxReadPower
	}
	data := []byte{byte(uint16(centiDBm) >> 8), byte(uint16(centiDBm))}
	_, err := r.execute(protocol.OpSetReadTxPower, data, r.timeout, true)
	return err
}

// GetReadPower returns the raw read-power response payload.
func (r *Reader) GetReadPower() ([]byte, error) {
	f, err := r.execute(protocol.OpGetReadTxPower, []byte{0x00}, r.timeout, true)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), f.Payload()...), nil
}

// SetWritePower sets the write TX power in centi-dBm.
func (r *Reader) SetWritePower(centiDBm int16) error {
	data := []byte{byte(uint16(centiDBm) >> 8), byte(uint16(centiDBm))}
	_, err := r.execute(protocol.OpSetWriteTxPower, data, r.timeout, true)
	return err
}

// GetWritePower returns the raw write-power response payload.
func (r *Reader) GetWritePower() ([]byte, error) {
	f, err := r.execute(protocol.OpGetWriteTxPower, []byte{0x00}, r.timeout, true)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), f.Payload()...), nil
}

// SetRegion selects the regulatory frequency plan. M6E Nano firmware
// predates the current North America code and requires the legacy one,
// so that substitution is applied here.
func (r *Reader) SetRegion(region protocol.Region) error {
	if region == protocol.RegionNorthAmerica && r.module == ModuleM6ENano {
		region = protocol.RegionNorthAmerica2
	}
	_, err := r.execute(protocol.OpSetRegion, []byte{byte(region)}, r.timeout, true)
	return err
}

// SetAntennaPort configures TX and RX on antenna port 1.
func (r *Reader) SetAntennaPort() error {
	_, err := r.execute(protocol.OpSetAntennaPort, []byte{0x01, 0x01}, r.timeout, true)
	return err
}

// SetAntennaSearchList configures the antenna search list for port 1.
func (r *Reader) SetAntennaSearchList() error {
	_, err := r.execute(protocol.OpSetAntennaPort, []byte{0x02, 0x01, 0x01}, r.timeout, true)
	return err
}

// SetTagProtocol selects the tag air protocol; protocol.Gen2 is the one
// every SparkFun board ships for.
func (r *Reader) SetTagProtocol(proto byte) error {
	_, err := r.execute(protocol.OpSetTagProtocol, []byte{0x00, proto}, r.timeout, true)
	return err
}

// SetReaderConfig sets one reader configuration option pair.
func (r *Reader) SetReaderConfig(option1, option2 byte) error {
	_, err := r.execute(protocol.OpSetReaderOptParams, []byte{0x01, option1, option2}, r.timeout, true)
	return err
}

// EnableReadFilter turns duplicate-tag filtering on.
func (r *Reader) EnableReadFilter() error {
	return r.SetReaderConfig(0x0C, 0x01)
}

// DisableReadFilter turns duplicate-tag filtering off, which continuous
// reading requires.
func (r *Reader) DisableReadFilter() error {
	return r.SetReaderConfig(0x0C, 0x00)
}

// PinMode configures the direction of a module GPIO pin.
func (r *Reader) PinMode(pin byte, mode PinMode) error {
	_, err := r.execute(protocol.OpSetUserGPIOOutputs, []byte{0x01, pin, byte(mode), 0x00}, r.timeout, true)
	return err
}

// DigitalWrite drives an output pin high or low.
func (r *Reader) DigitalWrite(pin byte, high bool) error {
	state := byte(0x00)
	if high {
		state = 0x01
	}
	_, err := r.execute(protocol.OpSetUserGPIOOutputs, []byte{pin, state}, r.timeout, true)
	return err
}

// DigitalRead samples an input pin. Pins the module does not report
// read as low.
func (r *Reader) DigitalRead(pin byte) (bool, error) {
	f, err := r.execute(protocol.OpGetUserGPIOInputs, []byte{0x01}, r.timeout, true)
	if err != nil {
		return false, err
	}

	// The response lists pins in 3-byte records: pin, mode, state.
	raw := f.Bytes()
	const offset = 6
	for i := 0; i+2 < f.Len()-1; i += 3 {
		if raw[i+offset] == pin {
			return raw[i+offset+2] != 0, nil
		}
	}
	return false, nil
}
