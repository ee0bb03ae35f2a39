package sigfox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBCHEncodeCorrectRoundTrip(t *testing.T) {
	// Exhaustive: every 11-bit message, every single-bit error position.
	for message := uint16(0); message < 1<<11; message++ {
		codeword := bchEncode(message)

		corrected, changed := bchCorrect(codeword)
		assert.False(t, changed, "clean codeword for message %011b reported as changed", message)
		assert.Equal(t, codeword, corrected)

		for bit := 0; bit < 15; bit++ {
			flipped := codeword ^ (1 << bit)
			corrected, changed := bchCorrect(flipped)
			assert.True(t, changed, "message %011b, bit %d: expected correction", message, bit)
			assert.Equal(t, codeword, corrected, "message %011b, bit %d: wrong correction", message, bit)
		}
	}
}

func TestBCHSyndromeTableCoversAllSyndromes(t *testing.T) {
	seen := map[byte]bool{}
	for _, entry := range bchSyndromeTable {
		seen[bchSyndrome(entry)] = true
	}
	assert.Len(t, seen, 16)
}
