package sigfox

/*-------------------------------------------------------------
 *
 * Purpose:	Uplink (device -> base station) frame codec: frame-class
 *		selection, replica generation via the convolutional
 *		codec, full frame assembly/disassembly, CRC-16 and
 *		CBC-MAC.
 *
 *--------------------------------------------------------------*/

import "math/bits"

// UplinkMaxFrameLen is the largest number of bytes a single encoded
// uplink frame buffer can occupy (excludes the preamble).
const UplinkMaxFrameLen = 24

const uplinkMaxPacketLen = 20
const uplinkFTypeLenNibbles = 3
const uplinkFlagLenNibbles = 1
const uplinkSNLenNibbles = 3
const uplinkDevIDLenNibbles = 8
const uplinkCRCLenNibbles = 4
const uplinkHeaderLenNibbles = uplinkFlagLenNibbles + uplinkSNLenNibbles + uplinkDevIDLenNibbles // 12 nibbles = 6 bytes

// UplinkPreamble is the 5-nibble uplink preamble `AAAAA`. Only the top 5
// nibbles (20 bits) of this 3-byte array are part of the preamble; it is
// excluded from UplinkEncoded and must be prepended by the caller.
var UplinkPreamble = [3]byte{0xaa, 0xaa, 0xa0}

// uplinkFrameTypes[replica][class] are the 12-bit frame-type codes,
// chosen for mutual Hamming distance >= 5 so two bit errors in the
// frame-type field are still correctable.
var uplinkFrameTypes = [3][5]uint16{
	{0x06b, 0x08d, 0x35f, 0x611, 0x94c}, // initial transmission
	{0x6e0, 0x0d2, 0x598, 0x6bf, 0x971}, // replica 1
	{0x034, 0x302, 0x5a3, 0x72c, 0x997}, // replica 2
}

// uplinkClassPacketLen maps a class index (0=A..4=E) to the total packet
// length (flags+SN+devID+payload+MAC) in bytes.
var uplinkClassPacketLen = [5]int{8, 9, 12, 16, 20}

// UplinkPlain is the decoded/to-be-encoded content of a Sigfox uplink
// message.
type UplinkPlain struct {
	Payload         [12]byte
	PayloadLen      int
	RequestDownlink bool
	SingleBit       bool

	// GenerateReplicas is accepted for API symmetry with the historical
	// protocol definition but has no effect: EncodeUplink always
	// produces all three transmissions; discard the ones you don't
	// need.
	GenerateReplicas bool
}

// UplinkEncoded holds the three uplink transmissions (initial + two
// replicas). All three share FrameLenNibbles, which is always odd.
// Buffers exclude the preamble.
type UplinkEncoded struct {
	Frame           [3][UplinkMaxFrameLen]byte
	FrameLenNibbles int
}

// uplinkClassIndex returns the frame class (0=A..4=E) for a given
// singleBit/payloadLen combination, mirroring the reference
// implementation's treatment of intermediate payload lengths: a length
// that doesn't land exactly on a class boundary is absorbed into the
// next class up, with the unused bytes folded into the MAC (see
// uplinkMACLen).
func uplinkClassIndex(singleBit bool, payloadLen int) int {
	switch {
	case singleBit:
		return 0
	case payloadLen == 1:
		return 1
	default:
		return (payloadLen-1)/4 + 2
	}
}

// EncodeUplink builds the three uplink frame buffers for a plain uplink
// message under the given session.
func EncodeUplink(plain UplinkPlain, session Session) (UplinkEncoded, error) {
	var encoded UplinkEncoded

	if plain.PayloadLen > 12 {
		return encoded, ErrPayloadTooLong
	}
	if plain.SingleBit && plain.PayloadLen != 0 {
		return encoded, ErrSingleBitMismatch
	}

	classIdx := uplinkClassIndex(plain.SingleBit, plain.PayloadLen)

	for replica := 0; replica < 3; replica++ {
		setValueNibbles(encoded.Frame[replica][:], 0, uplinkFTypeLenNibbles, uint32(uplinkFrameTypes[replica][classIdx]))
	}

	// Build the packet: flags, SN, device ID, payload, MAC.
	packet := make([]byte, uplinkMaxPacketLen)

	var flags byte
	var maclen int
	switch {
	case plain.SingleBit:
		maclen = 2
		flags = 0b1000
		if plain.Payload[0]&1 != 0 {
			flags |= 0b0100
		}
	case plain.PayloadLen == 1:
		maclen = 2
	default:
		maclen = uplinkMACLen(plain.PayloadLen)
		flags = byte(maclen-2) << 2
	}
	if plain.RequestDownlink {
		flags |= 0b0010
	}

	setNibble(packet, 0, flags)
	setValueNibbles(packet, uplinkFlagLenNibbles, uplinkSNLenNibbles, uint32(session.SeqNum&0x0fff))
	setValueNibbles(packet, uplinkFlagLenNibbles+uplinkSNLenNibbles, uplinkDevIDLenNibbles, bits.ReverseBytes32(session.DeviceID))

	payloadOffsetNibbles := uplinkHeaderLenNibbles
	if !plain.SingleBit {
		copy(packet[payloadOffsetNibbles/2:payloadOffsetNibbles/2+plain.PayloadLen], plain.Payload[:plain.PayloadLen])
	}

	macPayloadLen := plain.PayloadLen
	prefixLen := uplinkHeaderLenNibbles/2 + macPayloadLen
	mac := uplinkMAC(packet[:prefixLen], macPayloadLen, session.Key)
	copy(packet[prefixLen:prefixLen+maclen], mac)

	packetLenBytes := prefixLen + maclen

	// Copy assembled packet (flags..MAC) into frame[0] after the
	// frame-type, then append the inverted CRC-16.
	copyNibbles(encoded.Frame[0][:], packet, 0, uplinkFTypeLenNibbles, packetLenBytes*2)

	crc16 := ^crc16CCITT(packet[:packetLenBytes])
	crcOffsetNibbles := uplinkFTypeLenNibbles + packetLenBytes*2
	setValueNibbles(encoded.Frame[0][:], crcOffsetNibbles, uplinkCRCLenNibbles, uint32(crc16))

	encoded.FrameLenNibbles = crcOffsetNibbles + uplinkCRCLenNibbles

	// Derive the two replicas via the convolutional code, starting
	// after the (already frame-type-populated, untouched) 3-nibble
	// frame-type field.
	convCode(encoded.Frame[0][:], encoded.Frame[1][:], uplinkFTypeLenNibbles*4, encoded.FrameLenNibbles*4, 7)
	convCode(encoded.Frame[0][:], encoded.Frame[2][:], uplinkFTypeLenNibbles*4, encoded.FrameLenNibbles*4, 5)

	return encoded, nil
}

// DecodeUplink recovers the plain uplink message from any one of the
// three possible transmissions, supplied in encoded.Frame[0]. The
// session's DeviceID and SeqNum fields are written as outputs; Key is
// read only when checkMAC is true.
func DecodeUplink(encoded UplinkEncoded, session *Session, checkMAC bool) (UplinkPlain, error) {
	var plain UplinkPlain

	if encoded.FrameLenNibbles%2 == 0 {
		return plain, ErrFrameLenEven
	}

	frame := encoded.Frame[0][:]
	frameType := uint16(getValueNibbles(frame, 0, uplinkFTypeLenNibbles))

	bestReplica, bestClass, lowest := -1, -1, 13
	for replica := 0; replica < 3; replica++ {
		for class := 0; class < 5; class++ {
			hamming := bits.OnesCount16(uplinkFrameTypes[replica][class] ^ frameType)
			if hamming < lowest {
				lowest = hamming
				bestReplica = replica
				bestClass = class
			}
		}
	}

	packetLenBytes := uplinkClassPacketLen[bestClass]
	expectedFrameLen := uplinkFTypeLenNibbles + packetLenBytes*2 + uplinkCRCLenNibbles
	if encoded.FrameLenNibbles != expectedFrameLen {
		return plain, ErrFrameTypeMismatch
	}

	plain.SingleBit = bestClass == 0

	framePlain := make([]byte, UplinkMaxFrameLen)
	switch bestReplica {
	case 0:
		copy(framePlain, frame)
	case 1:
		unconvCode(frame, framePlain, uplinkFTypeLenNibbles*4, encoded.FrameLenNibbles*4, 7)
	case 2:
		unconvCode(frame, framePlain, uplinkFTypeLenNibbles*4, encoded.FrameLenNibbles*4, 5)
	}

	flagsOffset := uplinkFTypeLenNibbles
	snOffset := flagsOffset + uplinkFlagLenNibbles
	devIDOffset := snOffset + uplinkSNLenNibbles
	payloadOffset := devIDOffset + uplinkDevIDLenNibbles

	flags := byte(getValueNibbles(framePlain, flagsOffset, uplinkFlagLenNibbles))
	session.SeqNum = uint16(getValueNibbles(framePlain, snOffset, uplinkSNLenNibbles))
	devIDSwapped := getValueNibbles(framePlain, devIDOffset, uplinkDevIDLenNibbles)
	session.DeviceID = bits.ReverseBytes32(devIDSwapped)

	plain.RequestDownlink = flags&0b0010 != 0

	var maclen int
	if plain.SingleBit {
		maclen = 2
	} else {
		maclen = 2 + int(flags>>2)
	}
	plain.PayloadLen = packetLenBytes - uplinkHeaderLenNibbles/2 - maclen

	if plain.SingleBit {
		if flags&0b0100 != 0 {
			plain.Payload[0] = 1
		}
	} else {
		copyPayload := make([]byte, 12)
		copyNibbles(copyPayload, framePlain, payloadOffset, 0, plain.PayloadLen*2)
		copy(plain.Payload[:], copyPayload)
	}

	// Reassemble the packet (flags..MAC) without the frame-type prefix
	// for CRC/MAC verification.
	packet := make([]byte, uplinkMaxPacketLen)
	copyNibbles(packet, framePlain, flagsOffset, 0, packetLenBytes*2)

	crc16 := ^crc16CCITT(packet[:packetLenBytes])
	crc16Frame := uint16(getValueNibbles(framePlain, uplinkFTypeLenNibbles+packetLenBytes*2, uplinkCRCLenNibbles))
	if crc16 != crc16Frame {
		return plain, ErrCRCInvalid
	}

	if checkMAC {
		mac := uplinkMAC(packet[:uplinkHeaderLenNibbles/2+plain.PayloadLen], plain.PayloadLen, session.Key)
		for i, b := range mac {
			if packet[packetLenBytes-maclen+i] != b {
				return plain, ErrMACInvalid
			}
		}
	}

	return plain, nil
}
