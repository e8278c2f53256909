package protocol

// ResponseKind is the semantic class of an asynchronous frame received
// while the module is continuously scanning.
type ResponseKind int

const (
	// ResponseUnknown covers well-formed frames the classifier has no
	// meaning for (unexpected status words, reserved sub-messages).
	ResponseUnknown ResponseKind = iota
	// ResponseCorrupt means the frame failed CRC validation.
	ResponseCorrupt
	// ResponseUnknownOpcode means the frame is not a continuous-read
	// (0x22) message.
	ResponseUnknownOpcode
	// ResponseKeepAlive is the periodic "still scanning" heartbeat.
	ResponseKeepAlive
	// ResponseTagFound is a full tag record; extract it with ParseTagReport.
	ResponseTagFound
	// ResponseTemperature is a module temperature report.
	ResponseTemperature
	// ResponseTempThrottle means the module is throttling for heat.
	ResponseTempThrottle
	// ResponseHighReturnLoss warns of antenna mismatch.
	ResponseHighReturnLoss
)

func (k ResponseKind) String() string {
	switch k {
	case ResponseCorrupt:
		return "corrupt"
	case ResponseUnknownOpcode:
		return "unknown-opcode"
	case ResponseKeepAlive:
		return "keepalive"
	case ResponseTagFound:
		return "tag-found"
	case ResponseTemperature:
		return "temperature"
	case ResponseTempThrottle:
		return "temp-throttle"
	case ResponseHighReturnLoss:
		return "high-return-loss"
	default:
		return "unknown"
	}
}

// Classify inspects a raw frame produced by Decoder.Feed and assigns its
// response kind. CRC failure takes precedence over opcode inspection.
//
// For 0x22 frames the payload length selects the sub-message: length 0
// carries a status word (keepalive, thermal throttle, high return loss),
// 0x08 is a reserved sub-message, 0x0A is a temperature report, and
// anything else is a full tag record.
func Classify(raw []byte) (Frame, ResponseKind) {
	f, err := ParseFrame(raw)
	if err != nil {
		return f, ResponseCorrupt
	}

	if f.Opcode() != OpReadTagIDMultiple {
		return f, ResponseUnknownOpcode
	}

	switch f.Len() {
	case 0x00:
		switch f.StatusWord() {
		case statusKeepAlive:
			return f, ResponseKeepAlive
		case statusTempThrottle:
			return f, ResponseTempThrottle
		case statusHighReturnLoss:
			return f, ResponseHighReturnLoss
		default:
			return f, ResponseUnknown
		}
	case 0x08:
		return f, ResponseUnknown
	case 0x0A:
		return f, ResponseTemperature
	default:
		return f, ResponseTagFound
	}
}
