package sigfox

import "errors"

// Uplink encode errors.
var (
	// ErrPayloadTooLong is returned when the payload is longer than the
	// 12 bytes the uplink frame can carry.
	ErrPayloadTooLong = errors.New("sigfox: uplink payload too long")

	// ErrSingleBitMismatch is returned when SingleBit is set but
	// PayloadLen is not 0.
	ErrSingleBitMismatch = errors.New("sigfox: single-bit uplink with nonzero payload length")
)

// Uplink decode errors.
var (
	// ErrFrameLenEven is returned when the frame's nibble length is even;
	// only odd lengths occur naturally on the wire.
	ErrFrameLenEven = errors.New("sigfox: uplink frame length (nibbles) is even")

	// ErrFrameTypeMismatch is returned when the frame type nearest (by
	// Hamming distance) to the received value implies a packet length
	// that does not match the actual frame length.
	ErrFrameTypeMismatch = errors.New("sigfox: uplink frame type does not match frame length")

	// ErrCRCInvalid is returned when the frame's CRC-16 does not match
	// the CRC computed over the received packet.
	ErrCRCInvalid = errors.New("sigfox: uplink CRC invalid")

	// ErrMACInvalid is returned when check-mac was requested and the
	// frame's MAC does not match the MAC computed from the packet and key.
	ErrMACInvalid = errors.New("sigfox: uplink MAC invalid")
)
