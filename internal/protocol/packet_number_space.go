package protocol

// A PacketNumberSpace is one of the three independent packet number sequences
// of a connection (RFC 9000, section 12.3).
type PacketNumberSpace uint8

const (
	// PacketNumberSpaceInitial numbers Initial packets
	PacketNumberSpaceInitial PacketNumberSpace = iota
	// PacketNumberSpaceHandshake numbers Handshake packets
	PacketNumberSpaceHandshake
	// PacketNumberSpaceApplication numbers 0-RTT and 1-RTT packets
	PacketNumberSpaceApplication
)

// NumPacketNumberSpaces is the number of packet number spaces
const NumPacketNumberSpaces = 3

func (s PacketNumberSpace) String() string {
	switch s {
	case PacketNumberSpaceInitial:
		return "Initial"
	case PacketNumberSpaceHandshake:
		return "Handshake"
	case PacketNumberSpaceApplication:
		return "Application"
	default:
		return "invalid packet number space"
	}
}

// SpaceForPacketType maps a packet type to the packet number space it is
// numbered in. Retry, Version Negotiation and stateless reset packets don't
// carry packet numbers; for those the second return value is false.
func SpaceForPacketType(t PacketType) (PacketNumberSpace, bool) {
	switch t {
	case PacketTypeInitial:
		return PacketNumberSpaceInitial, true
	case PacketTypeHandshake:
		return PacketNumberSpaceHandshake, true
	case PacketType0RTT, PacketType1RTT:
		return PacketNumberSpaceApplication, true
	default:
		return 0, false
	}
}
