package handshake

import (
	"bytes"
	"fmt"

	"github.com/edgemesh/quic/internal/protocol"
)

// nullProtectionTag is appended to every payload the NullProtocol "encrypts",
// standing in for the AEAD integrity tag so that tampering is still detectable
// in tests and fuzzing harnesses.
var nullProtectionTag = []byte{'n', 'u', 'l', 'l', ' ', 'p', 'r', 'o', 't', 'e', 'c', 't', 'i', 'o', 'n', '!'}

// A NullProtocol is an identity Protocol: payloads pass through unchanged apart
// from a fixed trailing tag, and the header protection mask is all zeroes.
// It is used by tests and by harnesses that exercise the codec without a TLS stack.
type NullProtocol struct{}

var _ Protocol = NullProtocol{}

func (NullProtocol) Encrypt(_ protocol.PacketNumberSpace, _ protocol.PacketNumber, plaintext, _ []byte) ([]byte, error) {
	sealed := make([]byte, 0, len(plaintext)+len(nullProtectionTag))
	sealed = append(sealed, plaintext...)
	return append(sealed, nullProtectionTag...), nil
}

func (NullProtocol) Decrypt(_ protocol.PacketNumberSpace, _ protocol.PacketNumber, ciphertext, _ []byte) ([]byte, error) {
	if len(ciphertext) < len(nullProtectionTag) {
		return nil, ErrDecryptionFailed
	}
	split := len(ciphertext) - len(nullProtectionTag)
	if !bytes.Equal(ciphertext[split:], nullProtectionTag) {
		return nil, ErrDecryptionFailed
	}
	return ciphertext[:split], nil
}

func (NullProtocol) HeaderProtectionMask(_ protocol.PacketNumberSpace, sample []byte, _ bool) ([]byte, error) {
	if len(sample) != SampleSize {
		return nil, fmt.Errorf("invalid sample size: %d", len(sample))
	}
	return make([]byte, HeaderProtectionMaskSize), nil
}

func (NullProtocol) Overhead() int {
	return len(nullProtectionTag)
}

func (NullProtocol) KeysAvailable(protocol.PacketNumberSpace) bool {
	return true
}
