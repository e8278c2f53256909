// Package protocol implements the ThingMagic serial command/response
// wire format used by the M6E Nano and M7E Hecto UHF RFID modules.
package protocol

// Frame geometry. Every frame starts with the 0xFF header byte followed
// by a one-byte payload length and a one-byte opcode. Command frames end
// with the 16-bit CRC; response frames additionally carry a 2-byte status
// word between the opcode and the payload which is NOT counted by the
// length byte, so a complete response occupies length+7 bytes.
const (
	Header = 0xFF

	// MaxFrameSize is the working buffer capacity. The length field is a
	// single byte, so no frame can outgrow this.
	MaxFrameSize = 255

	// MaxPayload is the largest payload that still fits a response frame
	// (header + length + opcode + status word + payload + CRC) into the
	// working buffer.
	MaxPayload = MaxFrameSize - responseOverhead

	responseOverhead = 7 // header, length, opcode, 2 status, 2 CRC
	commandOverhead  = 5 // header, length, opcode, 2 CRC

	payloadOffset = 5 // first payload byte of a response frame
)

// Opcode is the single-byte operation selector.
type Opcode byte

// Module opcodes.
const (
	OpVersion             Opcode = 0x03
	OpSetBaudRate         Opcode = 0x06
	OpReadTagIDMultiple   Opcode = 0x22
	OpWriteTagID          Opcode = 0x23
	OpWriteTagData        Opcode = 0x24
	OpKillTag             Opcode = 0x26
	OpReadTagData         Opcode = 0x28
	OpClearTagIDBuffer    Opcode = 0x2A
	OpMultiProtocolTagOp  Opcode = 0x2F
	OpGetReadTxPower      Opcode = 0x62
	OpGetWriteTxPower     Opcode = 0x64
	OpGetUserGPIOInputs   Opcode = 0x66
	OpSetAntennaPort      Opcode = 0x91
	OpSetReadTxPower      Opcode = 0x92
	OpSetTagProtocol      Opcode = 0x93
	OpSetWriteTxPower     Opcode = 0x94
	OpSetUserGPIOOutputs  Opcode = 0x96
	OpSetRegion           Opcode = 0x97
	OpSetReaderOptParams  Opcode = 0x9A
)

// Region selects the regulatory frequency plan.
type Region byte

const (
	RegionNorthAmerica Region = 0x01
	RegionIndia        Region = 0x04
	RegionJapan        Region = 0x05
	RegionChina        Region = 0x06
	RegionEurope       Region = 0x08
	RegionKorea        Region = 0x09
	RegionAustralia    Region = 0x0B
	RegionNewZealand   Region = 0x0C
	// RegionNorthAmerica2 is the legacy North America plan understood by
	// the M6E Nano firmware.
	RegionNorthAmerica2 Region = 0x0D
	RegionOpen          Region = 0xFF
)

// Bank identifies one of the four Gen2 tag memory regions.
type Bank byte

const (
	BankReserved Bank = 0x00 // kill and access passwords
	BankEPC      Bank = 0x01
	BankTID      Bank = 0x02
	BankUser     Bank = 0x03
)

// StatusOK is the module status word reported for a successful tag
// operation.
const StatusOK uint16 = 0x0000

// Async status words carried by zero-length 0x22 frames.
const (
	statusKeepAlive      uint16 = 0x0400
	statusTempThrottle   uint16 = 0x0504
	statusHighReturnLoss uint16 = 0x0505
)

// Gen2 is the default tag protocol selector.
const Gen2 = 0x05
