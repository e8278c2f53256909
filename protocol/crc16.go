package protocol

// crcTable is the ThingMagic nibble lookup table.
var crcTable = [16]uint16{
	0x0000, 0x1021, 0x2042, 0x3063,
	0x4084, 0x50A5, 0x60C6, 0x70E7,
	0x8108, 0x9129, 0xA14A, 0xB16B,
	0xC18C, 0xD1AD, 0xE1CE, 0xF1EF,
}

// CRC16 calculates the ThingMagic message CRC. The module uses a
// nibble-wise table variant seeded at 0xFFFF, not one of the standard
// CRC-16 polynom presets; the wire depends on this exact sequence.
// On frames the CRC covers everything between the header byte and the
// CRC itself.
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc = (crc<<4 | uint16(b>>4)) ^ crcTable[crc>>12]
		crc = (crc<<4 | uint16(b&0x0F)) ^ crcTable[crc>>12]
	}
	return crc
}
