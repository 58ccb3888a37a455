// Package protocol holds the elementary QUIC types shared by every layer of
// the codec.
package protocol

// A PacketNumber in QUIC
type PacketNumber int64

// InvalidPacketNumber is a packet number that is never sent.
// In this codec, it is used as a sentinel value.
const InvalidPacketNumber PacketNumber = -1

// MaxPacketNumber is the largest packet number that can be sent (2^62 - 1).
const MaxPacketNumber PacketNumber = 1<<62 - 1

// The PacketNumberLen is the length of the packet number field on the wire, in bytes.
type PacketNumberLen uint8

const (
	// PacketNumberLen1 is a packet number length of 1 byte
	PacketNumberLen1 PacketNumberLen = 1
	// PacketNumberLen2 is a packet number length of 2 bytes
	PacketNumberLen2 PacketNumberLen = 2
	// PacketNumberLen3 is a packet number length of 3 bytes
	PacketNumberLen3 PacketNumberLen = 3
	// PacketNumberLen4 is a packet number length of 4 bytes
	PacketNumberLen4 PacketNumberLen = 4
)

// A ByteCount in QUIC
type ByteCount int64

// MaxPacketBufferSize is the largest packet this codec sends or accepts.
// 1452 = 1500 (Ethernet MTU) - 20 (IPv4 header) - 8 (UDP header) - 20 slack
// for tunneling overhead. It also fits any IPv6 path without fragmentation.
const MaxPacketBufferSize = 1452

// MinInitialPacketSize is the minimum size an Initial packet is padded to,
// preventing amplification of tiny datagrams (RFC 9000, section 14.1).
const MinInitialPacketSize = 1200

// MinStatelessResetSize is the minimum size of a stateless reset: flags byte,
// 4 bytes that could pass as a max-length packet number, 1 byte of random
// payload, and the 16-byte token.
const MinStatelessResetSize = 1 + 4 + 1 + 16

// A StatelessResetToken identifies a stateless reset (RFC 9000, section 10.3).
type StatelessResetToken [16]byte

// Perspective determines if we're acting as a server or a client
type Perspective int

// the perspectives
const (
	PerspectiveServer Perspective = 1
	PerspectiveClient Perspective = 2
)

// Opposite returns the perspective of the peer
func (p Perspective) Opposite() Perspective {
	return 3 - p
}

func (p Perspective) String() string {
	switch p {
	case PerspectiveServer:
		return "server"
	case PerspectiveClient:
		return "client"
	default:
		return "invalid perspective"
	}
}
