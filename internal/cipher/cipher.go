package cipher

import (
	"crypto/aes"
	ccipher "crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/muurk/hublink/internal/protocol"
)

// KeySize is the AES-128 session key length
const KeySize = 16

// IdentifierLength is the size of the hub identifier the key derives from
const IdentifierLength = 6

// Fixed cipher material. These are configuration constants, never
// mutated: the base block seeds key derivation, privateKey supplies the
// eight per-pass AES keys, and iv is the CBC initialization vector used
// for every encrypted frame.
var (
	baseKey = [KeySize]byte{
		0x02, 0x03, 0xF9, 0xA4, 0x19, 0x3C, 0x84, 0xBC,
		0xDE, 0x9B, 0xE7, 0xBE, 0x2B, 0xAA, 0xD6, 0x41,
	}

	privateKey = [128]byte{
		0xF0, 0xB6, 0xF6, 0x2E, 0x86, 0x08, 0x4A, 0x34,
		0xBE, 0xBC, 0xB5, 0xCD, 0x96, 0x0F, 0x0E, 0xE6,
		0xA3, 0x94, 0xE4, 0x1C, 0xFB, 0x47, 0xAB, 0xFE,
		0xE9, 0xB6, 0x86, 0x4B, 0x62, 0xCA, 0x40, 0x7A,
		0x46, 0xEF, 0x2B, 0x87, 0xE2, 0x0D, 0x78, 0xA3,
		0x54, 0xC9, 0x08, 0x76, 0xF1, 0x7E, 0x1B, 0x39,
		0x33, 0xBE, 0xC8, 0xA0, 0xC7, 0x68, 0x0B, 0x1D,
		0x3A, 0xD2, 0x27, 0x13, 0xBC, 0xF6, 0xED, 0x05,
		0x21, 0x24, 0x9E, 0x08, 0x96, 0x74, 0x30, 0xA8,
		0xB5, 0xB6, 0x9E, 0x83, 0x9E, 0x2D, 0x07, 0x63,
		0x88, 0x6D, 0x47, 0xB8, 0x4C, 0x6D, 0x6F, 0xD9,
		0x4C, 0x35, 0x87, 0x52, 0x1A, 0x3B, 0xD6, 0x03,
		0x4A, 0xE6, 0x9A, 0xEB, 0x17, 0xC1, 0xF7, 0x95,
		0x3B, 0x4F, 0xA3, 0x82, 0x7B, 0x0D, 0x11, 0xFE,
		0xCF, 0xE0, 0x4F, 0x4D, 0xCF, 0x23, 0x7B, 0x9B,
		0x26, 0xDD, 0xC6, 0xC9, 0x36, 0xA6, 0x1E, 0x03,
	}

	iv = [aes.BlockSize]byte{
		0xCD, 0x12, 0x5F, 0x5D, 0x70, 0x0E, 0x28, 0xDA,
		0xB6, 0xC6, 0x5F, 0x18, 0xD1, 0x48, 0x9B, 0x5A,
	}
)

// DeriveKey turns a 6-byte hub identifier into the 16-byte session key.
//
// Four identifier bytes are spliced into fixed positions of the base
// block, then the block runs through eight chained AES-128-ECB
// encryptions, each pass keyed by the next 16-byte segment of the
// private key and fed the previous pass's output. The derivation is
// bit-exact; see the fixed vector in the tests.
func DeriveKey(hubID []byte) ([]byte, error) {
	if len(hubID) != IdentifierLength {
		return nil, fmt.Errorf("hub identifier is %d bytes, want %d: %w",
			len(hubID), IdentifierLength, ErrInvalidIdentifier)
	}

	block := baseKey
	block[9] = hubID[0]
	block[7] = hubID[3]
	block[13] = hubID[4]
	block[3] = hubID[5]

	buf := block[:]
	for i := 0; i < len(privateKey); i += KeySize {
		c, err := aes.NewCipher(privateKey[i : i+KeySize])
		if err != nil {
			return nil, fmt.Errorf("key derivation pass %d: %w", i/KeySize, err)
		}
		c.Encrypt(buf, buf)
	}

	key := make([]byte, KeySize)
	copy(key, buf)
	return key, nil
}

// Encrypt pads the message to a block multiple with random trailing
// bytes (none if already aligned) and encrypts it with AES-128-CBC under
// the fixed IV. The output is always a multiple of 16 bytes; the frame's
// own length field recovers the true message on the far side.
func Encrypt(msg, key []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	padded := msg
	if rem := len(msg) % aes.BlockSize; rem != 0 {
		padded = make([]byte, len(msg)+aes.BlockSize-rem)
		copy(padded, msg)
		if _, err := rand.Read(padded[len(msg):]); err != nil {
			return nil, fmt.Errorf("encrypt padding: %w", err)
		}
	}

	out := make([]byte, len(padded))
	ccipher.NewCBCEncrypter(c, iv[:]).CryptBlocks(out, padded)
	return out, nil
}

// Decrypt reverses Encrypt and strips the random padding.
//
// The true message length is recovered from the decrypted header: when
// the first two bytes match a frame start mark, the frame is
// 11+dataLen bytes (dataLen at offset 4) and the result is truncated to
// that length if it fits. Anything ambiguous is returned whole and left
// for the frame codec to reject.
func Decrypt(ct, key []byte) ([]byte, error) {
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext is %d bytes: %w", len(ct), ErrCiphertextSize)
	}

	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	out := make([]byte, len(ct))
	ccipher.NewCBCDecrypter(c, iv[:]).CryptBlocks(out, ct)

	if len(out) >= protocol.FrameOverhead {
		start := binary.BigEndian.Uint16(out[0:2])
		if start == protocol.StartMarkRequest || start == protocol.StartMarkResponse {
			trueLen := protocol.FrameOverhead + int(binary.BigEndian.Uint16(out[4:6]))
			if trueLen <= len(out) {
				return out[:trueLen], nil
			}
		}
	}
	return out, nil
}
