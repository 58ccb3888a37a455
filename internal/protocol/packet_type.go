package protocol

import "fmt"

// The PacketType is the type of a QUIC packet.
type PacketType uint8

const (
	// PacketTypeUninitialized is the type of the null packet
	PacketTypeUninitialized PacketType = iota
	// PacketTypeInitial is the packet type of an Initial packet
	PacketTypeInitial
	// PacketType0RTT is the packet type of a 0-RTT packet
	PacketType0RTT
	// PacketTypeHandshake is the packet type of a Handshake packet
	PacketTypeHandshake
	// PacketTypeRetry is the packet type of a Retry packet
	PacketTypeRetry
	// PacketTypeVersionNegotiation is the packet type of a Version Negotiation packet
	PacketTypeVersionNegotiation
	// PacketType1RTT is the packet type of a short header packet
	PacketType1RTT
	// PacketTypeStatelessReset is the packet type of a stateless reset.
	// On the wire it is indistinguishable from a short header packet.
	PacketTypeStatelessReset
)

func (t PacketType) String() string {
	switch t {
	case PacketTypeUninitialized:
		return "uninitialized"
	case PacketTypeInitial:
		return "Initial"
	case PacketType0RTT:
		return "0-RTT Protected"
	case PacketTypeHandshake:
		return "Handshake"
	case PacketTypeRetry:
		return "Retry"
	case PacketTypeVersionNegotiation:
		return "Version Negotiation"
	case PacketType1RTT:
		return "1-RTT Protected"
	case PacketTypeStatelessReset:
		return "Stateless Reset"
	default:
		return fmt.Sprintf("unknown packet type: %d", uint8(t))
	}
}

// IsLongHeaderType says if packets of this type use the long header form.
func (t PacketType) IsLongHeaderType() bool {
	switch t {
	case PacketTypeInitial, PacketType0RTT, PacketTypeHandshake, PacketTypeRetry, PacketTypeVersionNegotiation:
		return true
	default:
		return false
	}
}
