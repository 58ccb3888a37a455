// Package qlog serializes codec events into the qlog JSON-SEQ format.
package qlog

import "github.com/edgemesh/quic/internal/protocol"

type category uint8

const (
	categoryTransport category = iota
	categoryConnectivity
	categorySecurity
)

func (c category) String() string {
	switch c {
	case categoryTransport:
		return "transport"
	case categoryConnectivity:
		return "connectivity"
	case categorySecurity:
		return "security"
	default:
		return "unknown"
	}
}

func packetTypeString(t protocol.PacketType) string {
	switch t {
	case protocol.PacketTypeInitial:
		return "initial"
	case protocol.PacketType0RTT:
		return "0RTT"
	case protocol.PacketTypeHandshake:
		return "handshake"
	case protocol.PacketTypeRetry:
		return "retry"
	case protocol.PacketTypeVersionNegotiation:
		return "version_negotiation"
	case protocol.PacketType1RTT:
		return "1RTT"
	case protocol.PacketTypeStatelessReset:
		return "stateless_reset"
	default:
		return "unknown"
	}
}
