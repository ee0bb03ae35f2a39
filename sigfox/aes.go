package sigfox

/*-------------------------------------------------------------
 *
 * Purpose:	AES-128 block primitive and a CBC-mode driver built on it.
 *
 *		The codec never decrypts; only encryption is required, for
 *		the downlink MAC (single ECB block) and the uplink CBC-MAC
 *		(one or two chained blocks, zero IV).
 *
 *--------------------------------------------------------------*/

import "crypto/aes"

// blockEncrypt encrypts a single 16-byte block under AES-128 ECB.
func blockEncrypt(block, key [16]byte) [16]byte {
	cipher, err := aes.NewCipher(key[:])
	if err != nil {
		// aes.NewCipher only fails on a bad key length, which [16]byte
		// cannot produce.
		panic("sigfox: aes.NewCipher: " + err.Error())
	}

	var out [16]byte
	cipher.Encrypt(out[:], block[:])
	return out
}

// cbcEncrypt encrypts data (a multiple of 16 bytes) under AES-128 CBC
// with an all-zero initial chaining vector, returning all ciphertext
// blocks in order.
func cbcEncrypt(data []byte, key [16]byte) []byte {
	if len(data)%16 != 0 {
		panic("sigfox: cbcEncrypt: data length not a multiple of 16")
	}

	out := make([]byte, len(data))
	var chain [16]byte

	for offset := 0; offset < len(data); offset += 16 {
		var block [16]byte
		for i := 0; i < 16; i++ {
			block[i] = data[offset+i] ^ chain[i]
		}
		chain = blockEncrypt(block, key)
		copy(out[offset:offset+16], chain[:])
	}

	return out
}
