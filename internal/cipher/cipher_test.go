package cipher

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/muurk/hublink/internal/protocol"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex in test: %v", err)
	}
	return b
}

// Known-answer vector generated from the committed constants
// (independently verified with openssl aes-128-ecb).
func TestDeriveKeyFixedVector(t *testing.T) {
	id := mustHex(t, "00124b3289bb")
	want := mustHex(t, "2689d840f0dac93510a40e1a7d314abb")

	key, err := DeriveKey(id)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if !bytes.Equal(key, want) {
		t.Errorf("key = %x, want %x", key, want)
	}
}

func TestDeriveKeyIsDeterministic(t *testing.T) {
	id := mustHex(t, "a1b2c3d4e5f6")
	k1, err := DeriveKey(id)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	k2, err := DeriveKey(id)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Errorf("derivation not deterministic: %x vs %x", k1, k2)
	}
	if len(k1) != KeySize {
		t.Errorf("key length = %d, want %d", len(k1), KeySize)
	}
}

func TestDeriveKeyRejectsWrongSize(t *testing.T) {
	for _, n := range []int{0, 5, 7, 16} {
		_, err := DeriveKey(make([]byte, n))
		if !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("DeriveKey(%d bytes) error = %v, want ErrInvalidIdentifier", n, err)
		}
	}
}

// Known-answer vector: a padded firmware-version frame encrypted under
// the fixed-vector key (verified with openssl aes-128-cbc).
func TestDecryptFixedVector(t *testing.T) {
	key := mustHex(t, "2689d840f0dac93510a40e1a7d314abb")
	ct := mustHex(t, "2896023b9a22626fdde2f9433281b296")
	want := mustHex(t, "fe000106000000010600ff")

	got, err := Decrypt(ct, key)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("plaintext = %x, want %x", got, want)
	}
	if len(got) != protocol.FrameOverhead {
		t.Errorf("plaintext length = %d, want %d", len(got), protocol.FrameOverhead)
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := mustHex(t, "2689d840f0dac93510a40e1a7d314abb")

	tests := []struct {
		name  string
		frame []byte
	}{
		{name: "empty-payload frame", frame: protocol.BuildPingRequest()},
		{name: "switch frame", frame: protocol.BuildDeviceSwitchRequest(true, []uint16{0x28CF})},
		{name: "status frame", frame: protocol.BuildDeviceStatusRequest(1, 2, 3)},
		{name: "multi-block frame", frame: protocol.BuildGroupCreateRequest([]uint16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := Encrypt(tt.frame, key)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}
			if len(ct)%16 != 0 {
				t.Errorf("ciphertext length %d is not a block multiple", len(ct))
			}

			pt, err := Decrypt(ct, key)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			// Well-formed frames are recovered exactly: the embedded
			// length field truncates the random padding away.
			if !bytes.Equal(pt, tt.frame) {
				t.Errorf("plaintext = %x, want %x", pt, tt.frame)
			}
		})
	}
}

func TestEncryptAlignedInputGetsNoPadding(t *testing.T) {
	key := mustHex(t, "2689d840f0dac93510a40e1a7d314abb")
	msg := make([]byte, 32)

	ct, err := Encrypt(msg, key)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if len(ct) != len(msg) {
		t.Errorf("ciphertext length = %d, want %d", len(ct), len(msg))
	}
}

func TestDecryptNonFrameReturnsWholeBuffer(t *testing.T) {
	key := mustHex(t, "2689d840f0dac93510a40e1a7d314abb")

	// 16 bytes that decrypt to something without a start mark must come
	// back untruncated; the codec rejects it downstream.
	ct, err := Encrypt(bytes.Repeat([]byte{0x42}, 16), key)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	pt, err := Decrypt(ct, key)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if len(pt) != 16 {
		t.Errorf("plaintext length = %d, want 16", len(pt))
	}
}

func TestDecryptRejectsUnalignedInput(t *testing.T) {
	key := mustHex(t, "2689d840f0dac93510a40e1a7d314abb")
	for _, n := range []int{0, 1, 15, 17} {
		_, err := Decrypt(make([]byte, n), key)
		if !errors.Is(err, ErrCiphertextSize) {
			t.Errorf("Decrypt(%d bytes) error = %v, want ErrCiphertextSize", n, err)
		}
	}
}

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "colon delimited", in: "00:12:4B:32:89:BB", want: "00124b3289bb"},
		{name: "hyphen delimited", in: "00-12-4b-32-89-bb", want: "00124b3289bb"},
		{name: "bare hex", in: "00124B3289BB", want: "00124b3289bb"},
		{name: "too short", in: "00:12:4B", wantErr: true},
		{name: "too long", in: "00:12:4B:32:89:BB:CC", wantErr: true},
		{name: "non-hex", in: "00:12:4B:32:89:ZZ", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseIdentifier(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrIdentifierFormat) {
					t.Errorf("error = %v, want ErrIdentifierFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIdentifier failed: %v", err)
			}
			if hex.EncodeToString(id) != tt.want {
				t.Errorf("id = %x, want %s", id, tt.want)
			}
		})
	}
}

func TestFormatIdentifier(t *testing.T) {
	id := mustHex(t, "00124b3289bb")
	if got := FormatIdentifier(id); got != "00:12:4b:32:89:bb" {
		t.Errorf("FormatIdentifier = %q", got)
	}
}
