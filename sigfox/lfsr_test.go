package sigfox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLFSRSeedNeverZero(t *testing.T) {
	assert.Equal(t, uint16(0x1ff), lfsrSeed(0, 0))
	assert.Equal(t, uint16(0x1ff), lfsrSeed(512, 0))
}

func TestScrambleFrameIsInvolution(t *testing.T) {
	frame := [downlinkFrameLen]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f}
	original := frame

	scrambleFrame(&frame, 0x123, 0x04030201)
	assert.NotEqual(t, original, frame)

	scrambleFrame(&frame, 0x123, 0x04030201)
	assert.Equal(t, original, frame)
}

func TestScrambleFrameDifferentSeedsDiffer(t *testing.T) {
	frame1 := [downlinkFrameLen]byte{}
	frame2 := [downlinkFrameLen]byte{}

	scrambleFrame(&frame1, 1, 1)
	scrambleFrame(&frame2, 2, 1)

	assert.NotEqual(t, frame1, frame2)
}
