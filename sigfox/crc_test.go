package sigfox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC16CCITTZero(t *testing.T) {
	assert.Equal(t, uint16(0), crc16CCITT(nil))
}

func TestCRC8CCITTZero(t *testing.T) {
	assert.Equal(t, byte(0), crc8CCITT(nil))
}

func TestCRC16DetectsSingleBitFlip(t *testing.T) {
	data := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02}
	base := crc16CCITT(data)

	for byteIdx := range data {
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte(nil), data...)
			flipped[byteIdx] ^= 1 << bit
			assert.NotEqual(t, base, crc16CCITT(flipped), "byte %d bit %d undetected", byteIdx, bit)
		}
	}
}

func TestCRC8DetectsSingleBitFlip(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x00, 0x00}
	base := crc8CCITT(data)

	for byteIdx := range data {
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte(nil), data...)
			flipped[byteIdx] ^= 1 << bit
			assert.NotEqual(t, base, crc8CCITT(flipped), "byte %d bit %d undetected", byteIdx, bit)
		}
	}
}
