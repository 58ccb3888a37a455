package wire

import (
	"errors"
	"fmt"

	"github.com/edgemesh/quic/internal/protocol"
)

func parseShortHeader(data []byte, connIDLen int) (*Header, error) {
	if data[0]&0x80 > 0 {
		return nil, errors.New("not a short header packet")
	}
	if data[0]&0x40 == 0 {
		return nil, errors.New("not a QUIC packet")
	}
	// 1 byte flags, the connection ID, and at least 1 byte of packet number
	if len(data) < 1+connIDLen+1 {
		return nil, errNoBytes
	}
	h := &Header{
		Form:             HeaderFormShort,
		Type:             protocol.PacketType1RTT,
		typeByte:         data[0],
		raw:              data,
		DestConnectionID: protocol.ParseConnectionID(data[1 : 1+connIDLen]),
		parsedLen:        protocol.ByteCount(1 + connIDLen),
		valid:            true,
	}
	return h, nil
}

func (h *Header) appendShort(b []byte) ([]byte, error) {
	if h.PacketNumberLen < protocol.PacketNumberLen1 || h.PacketNumberLen > protocol.PacketNumberLen4 {
		return nil, fmt.Errorf("invalid packet number length: %d", h.PacketNumberLen)
	}
	typeByte := 0x40 | uint8(h.PacketNumberLen-1)
	if h.KeyPhase == protocol.KeyPhaseOne {
		typeByte |= byte(1 << 2)
	}
	b = append(b, typeByte)
	b = append(b, h.DestConnectionID.Bytes()...)
	return appendPacketNumber(b, h.PacketNumber, h.PacketNumberLen)
}
