package quic

import (
	"errors"
	"fmt"

	"github.com/edgemesh/quic/internal/handshake"
	"github.com/edgemesh/quic/internal/protocol"
	"github.com/edgemesh/quic/internal/wire"
)

// Header protection (RFC 9001, section 5.4) masks the packet number field and
// the low bits of the first header byte with a keystream sampled from the
// ciphertext. The contract is two-phase on the receive side: the length bits
// of the first byte must be unmasked before the packet number length is known,
// then exactly that many packet number bytes are unmasked. Payload bytes are
// never touched.

var errPacketTooShortForSample = errors.New("packet too short to sample for header protection")

func headerProtectionSample(packet []byte, connIDLen int) (sample []byte, pnOffset int, err error) {
	pnOffset, ok := wire.PacketNumberOffset(packet, connIDLen)
	if !ok {
		return nil, 0, errors.New("cannot locate the packet number field")
	}
	// The sample is taken 4 bytes past the start of the packet number field,
	// so its position doesn't depend on the (still masked) length bits.
	sampleOffset := pnOffset + 4
	if sampleOffset+handshake.SampleSize > len(packet) {
		return nil, 0, errPacketTooShortForSample
	}
	return packet[sampleOffset : sampleOffset+handshake.SampleSize], pnOffset, nil
}

func firstByteMask(firstByte byte) byte {
	if wire.IsLongHeader(firstByte) {
		return 0x0f
	}
	return 0x1f
}

// protectPacketNumber masks the packet number field of packet in place.
// packet must hold the serialized header followed by the encrypted payload.
func protectPacketNumber(packet []byte, space protocol.PacketNumberSpace, connIDLen int, hs handshake.Protocol) error {
	sample, pnOffset, err := headerProtectionSample(packet, connIDLen)
	if err != nil {
		return err
	}
	mask, err := hs.HeaderProtectionMask(space, sample, true)
	if err != nil {
		return err
	}
	// the length bits are still in the clear here
	pnLen := int(packet[0]&0b11) + 1
	if len(mask) < 1+pnLen {
		return fmt.Errorf("header protection mask too short: %d bytes", len(mask))
	}
	for i := 0; i < pnLen; i++ {
		packet[pnOffset+i] ^= mask[1+i]
	}
	packet[0] ^= mask[0] & firstByteMask(packet[0])
	return nil
}

// unprotectPacketNumber removes the packet number masking of packet in place.
// Phase one unmasks the first byte to recover the length bits; phase two
// unmasks exactly that many packet number bytes.
func unprotectPacketNumber(packet []byte, space protocol.PacketNumberSpace, connIDLen int, hs handshake.Protocol) error {
	sample, pnOffset, err := headerProtectionSample(packet, connIDLen)
	if err != nil {
		return err
	}
	mask, err := hs.HeaderProtectionMask(space, sample, false)
	if err != nil {
		return err
	}
	packet[0] ^= mask[0] & firstByteMask(packet[0])
	pnLen := int(packet[0]&0b11) + 1
	if len(mask) < 1+pnLen {
		return fmt.Errorf("header protection mask too short: %d bytes", len(mask))
	}
	for i := 0; i < pnLen; i++ {
		packet[pnOffset+i] ^= mask[1+i]
	}
	return nil
}
