// Package handshake defines the boundary to the TLS handshake and packet
// protection engine. The packet codec never inspects key material itself: it
// delegates payload encryption, payload decryption and header protection mask
// generation to a Protocol implementation installed on the packet factory.
package handshake

import (
	"errors"

	"github.com/edgemesh/quic/internal/protocol"
)

// ErrKeysNotYetAvailable is returned when an operation needs keys for a packet
// number space that haven't been derived yet. The caller should buffer the
// packet and retry, not tear down the connection.
var ErrKeysNotYetAvailable = errors.New("keys not yet available")

// ErrDecryptionFailed is returned when the AEAD authentication of a packet fails.
// The packet is discarded; the failure is never fatal to the connection.
var ErrDecryptionFailed = errors.New("decryption failed")

// SampleSize is the size of the ciphertext sample used for header protection.
const SampleSize = 16

// HeaderProtectionMaskSize is the number of keystream bytes a mask must provide:
// one byte for the flags byte and up to four for the packet number.
const HeaderProtectionMaskSize = 5

// A Protocol provides packet protection for the packet number spaces whose
// keys it holds. Implementations are installed on a PacketFactory via
// SetProtocol and must outlive every factory call that uses them.
type Protocol interface {
	// Encrypt protects a plaintext payload. header is the serialized packet
	// header, used as associated data.
	Encrypt(space protocol.PacketNumberSpace, pn protocol.PacketNumber, plaintext, header []byte) ([]byte, error)
	// Decrypt opens a protected payload. It returns ErrKeysNotYetAvailable if
	// the space's keys haven't been derived, and ErrDecryptionFailed if
	// authentication fails.
	Decrypt(space protocol.PacketNumberSpace, pn protocol.PacketNumber, ciphertext, header []byte) ([]byte, error)
	// HeaderProtectionMask derives a keystream mask of at least
	// HeaderProtectionMaskSize bytes from a SampleSize-byte ciphertext sample.
	// sending selects the key: our header protection key for packets we send,
	// the peer's for packets we receive.
	HeaderProtectionMask(space protocol.PacketNumberSpace, sample []byte, sending bool) ([]byte, error)
	// Overhead is the number of bytes encryption adds to a payload.
	Overhead() int
	// KeysAvailable says if keys for the given space have been derived.
	KeysAvailable(space protocol.PacketNumberSpace) bool
}
