package wire

import (
	"encoding/binary"

	"github.com/edgemesh/quic/internal/protocol"
	"github.com/edgemesh/quic/quicvarint"
)

// The helpers in this file classify a datagram from its unprotected header
// region alone, without allocating a Header. They are used before header
// protection has been removed or before a connection context is resolved.
// Each returns false if the buffer is too short or malformed; a false return
// means "don't read any further", never "read more bytes".

// IsLongHeader says if the packet starting with firstByte has a long header.
func IsLongHeader(firstByte byte) bool {
	return firstByte&0x80 > 0
}

// IsVersionNegotiationPacket says if this is a version negotiation packet.
func IsVersionNegotiationPacket(b []byte) bool {
	if len(b) < 5 {
		return false
	}
	return b[0]&0x80 > 0 && b[1] == 0 && b[2] == 0 && b[3] == 0 && b[4] == 0
}

// PacketType classifies the packet from its first bytes.
// Short header packets are reported as 1-RTT: a stateless reset is
// indistinguishable from a short header packet at this layer.
func PacketType(data []byte) (protocol.PacketType, bool) {
	if len(data) == 0 {
		return protocol.PacketTypeUninitialized, false
	}
	if !IsLongHeader(data[0]) {
		return protocol.PacketType1RTT, true
	}
	if len(data) < 5 {
		return protocol.PacketTypeUninitialized, false
	}
	if IsVersionNegotiationPacket(data) {
		return protocol.PacketTypeVersionNegotiation, true
	}
	switch (data[0] & 0x30) >> 4 {
	case 0x0:
		return protocol.PacketTypeInitial, true
	case 0x1:
		return protocol.PacketType0RTT, true
	case 0x2:
		return protocol.PacketTypeHandshake, true
	default:
		return protocol.PacketTypeRetry, true
	}
}

// PacketVersion reads the version field of a long header packet.
func PacketVersion(data []byte) (protocol.Version, bool) {
	if len(data) < 5 || !IsLongHeader(data[0]) {
		return protocol.VersionUnknown, false
	}
	return protocol.Version(binary.BigEndian.Uint32(data[1:5])), true
}

// DestConnIDLen reads the destination connection ID length of a long header packet.
func DestConnIDLen(data []byte) (int, bool) {
	if len(data) < 6 || !IsLongHeader(data[0]) {
		return 0, false
	}
	l := int(data[5])
	if l > protocol.MaxConnIDLen || len(data) < 6+l {
		return 0, false
	}
	return l, true
}

// SrcConnIDLen reads the source connection ID length of a long header packet.
func SrcConnIDLen(data []byte) (int, bool) {
	dcil, ok := DestConnIDLen(data)
	if !ok {
		return 0, false
	}
	pos := 6 + dcil
	if len(data) < pos+1 {
		return 0, false
	}
	l := int(data[pos])
	if l > protocol.MaxConnIDLen || len(data) < pos+1+l {
		return 0, false
	}
	return l, true
}

// tokenOffset returns the offset of the token length field.
// Only Initial and Retry packets carry a token.
func tokenOffset(data []byte) (int, bool) {
	t, ok := PacketType(data)
	if !ok || (t != protocol.PacketTypeInitial && t != protocol.PacketTypeRetry) {
		return 0, false
	}
	dcil, ok := DestConnIDLen(data)
	if !ok {
		return 0, false
	}
	scil, ok := SrcConnIDLen(data)
	if !ok {
		return 0, false
	}
	pos := 7 + dcil + scil
	if t == protocol.PacketTypeRetry {
		if len(data) < pos+1 {
			return 0, false
		}
		odcil := int(data[pos])
		if odcil > protocol.MaxConnIDLen || len(data) < pos+1+odcil {
			return 0, false
		}
		pos += 1 + odcil
	}
	return pos, true
}

// TokenLength reads the token length of an Initial or Retry packet.
// It returns the token length and the size of the length field itself.
func TokenLength(data []byte) (tokenLen uint64, fieldLen int, ok bool) {
	pos, ok := tokenOffset(data)
	if !ok {
		return 0, 0, false
	}
	l, n, err := quicvarint.Parse(data[pos:])
	if err != nil {
		return 0, 0, false
	}
	return l, n, true
}

// PayloadLength reads the Length field of a long header packet.
// It covers the packet number and the payload.
func PayloadLength(data []byte) (length uint64, fieldLen int, ok bool) {
	pos, ok := lengthOffset(data)
	if !ok {
		return 0, 0, false
	}
	l, n, err := quicvarint.Parse(data[pos:])
	if err != nil {
		return 0, 0, false
	}
	return l, n, true
}

func lengthOffset(data []byte) (int, bool) {
	t, ok := PacketType(data)
	if !ok || !t.IsLongHeaderType() || t == protocol.PacketTypeRetry || t == protocol.PacketTypeVersionNegotiation {
		return 0, false
	}
	if t == protocol.PacketTypeInitial {
		tokenLen, fieldLen, ok := TokenLength(data)
		if !ok {
			return 0, false
		}
		pos, _ := tokenOffset(data)
		pos += fieldLen + int(tokenLen)
		if pos > len(data) {
			return 0, false
		}
		return pos, true
	}
	dcil, ok := DestConnIDLen(data)
	if !ok {
		return 0, false
	}
	scil, ok := SrcConnIDLen(data)
	if !ok {
		return 0, false
	}
	return 7 + dcil + scil, true
}

// PacketNumberOffset locates the packet number field.
// For short header packets the connection ID length is fixed by the connection
// context and passed in. Retry and Version Negotiation packets don't carry a
// packet number.
func PacketNumberOffset(data []byte, shortHeaderConnIDLen int) (int, bool) {
	if len(data) == 0 {
		return 0, false
	}
	if !IsLongHeader(data[0]) {
		pos := 1 + shortHeaderConnIDLen
		if len(data) < pos+1 {
			return 0, false
		}
		return pos, true
	}
	pos, ok := lengthOffset(data)
	if !ok {
		return 0, false
	}
	_, n, err := quicvarint.Parse(data[pos:])
	if err != nil {
		return 0, false
	}
	pos += n
	if len(data) < pos+1 {
		return 0, false
	}
	return pos, true
}

// KeyPhase reads the key phase bit of a short header packet.
// The bit is only meaningful once header protection has been removed.
func KeyPhase(data []byte) (protocol.KeyPhaseBit, bool) {
	if len(data) == 0 || IsLongHeader(data[0]) {
		return protocol.KeyPhaseUndefined, false
	}
	if data[0]&0b100 > 0 {
		return protocol.KeyPhaseOne, true
	}
	return protocol.KeyPhaseZero, true
}
