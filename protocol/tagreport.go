package protocol

// Tag record layout, as absolute offsets into the raw wire image of a
// 0x22 tag-found frame. The record is positional: the embedded tag-data
// length must be computed before the EPC length field can be located.
const (
	tagRSSIOffset      = 12
	tagFreqOffset      = 14
	tagTimestampOffset = 17
	tagDataLenOffset   = 24
	tagEPCLenOffset    = 27 // plus embedded data bytes
	tagEPCOffset       = 31 // plus embedded data bytes
)

// TagReport is the structured view of a tag-found frame.
type TagReport struct {
	// RSSI in dBm. The module reports it as an unsigned byte offset by
	// 256, so valid readings are always negative.
	RSSI int

	// Frequency the tag was detected at, in Hz.
	Frequency uint32

	// Timestamp in milliseconds since the module started scanning.
	Timestamp uint32

	// DataBytes is the size of the optional embedded tag-data field,
	// zero for plain EPC reads. It shifts every field that follows it.
	DataBytes int

	// EPC is the tag's Electronic Product Code. The module's reported
	// EPC bit length includes a 2-byte PC word and a 2-byte tag CRC;
	// both are excluded here.
	EPC []byte
}

// ParseTagReport extracts the tag fields from a frame classified as
// ResponseTagFound. Frames smaller than the fixed record layout yield
// ErrTruncatedTagReport.
func ParseTagReport(f Frame) (*TagReport, error) {
	raw := f.Bytes()
	if len(raw) < tagDataLenOffset+2 {
		return nil, ErrTruncatedTagReport
	}

	// Embedded tag-data length arrives as a bit count; round up to bytes.
	dataBits := int(raw[tagDataLenOffset])<<8 | int(raw[tagDataLenOffset+1])
	dataBytes := dataBits / 8
	if dataBits%8 > 0 {
		dataBytes++
	}

	epcLenAt := tagEPCLenOffset + dataBytes
	if len(raw) < epcLenAt+2 {
		return nil, ErrTruncatedTagReport
	}

	// The reported bit count covers PC word + EPC + tag CRC; drop the
	// 4 bytes of overhead to get the logical EPC size.
	epcBits := int(raw[epcLenAt])<<8 | int(raw[epcLenAt+1])
	epcBytes := epcBits/8 - 4
	if epcBytes < 0 {
		return nil, ErrTruncatedTagReport
	}

	epcAt := tagEPCOffset + dataBytes
	if epcAt+epcBytes > len(raw)-2 {
		return nil, ErrTruncatedTagReport
	}

	r := &TagReport{
		RSSI:      int(raw[tagRSSIOffset]) - 256,
		Frequency: beUint24(raw[tagFreqOffset:]),
		Timestamp: beUint32(raw[tagTimestampOffset:]),
		DataBytes: dataBytes,
	}

	r.EPC = make([]byte, epcBytes)
	copy(r.EPC, raw[epcAt:epcAt+epcBytes])

	return r, nil
}

func beUint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
