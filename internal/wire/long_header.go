package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/edgemesh/quic/internal/protocol"
	"github.com/edgemesh/quic/quicvarint"
)

func parseLongHeader(data []byte) (*Header, error) {
	r := bytes.NewReader(data)
	startLen := r.Len()
	typeByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	h := &Header{
		Form:     HeaderFormLong,
		typeByte: typeByte,
		raw:      data,
	}

	var v uint32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return nil, io.EOF
	}
	h.Version = protocol.Version(v)
	if h.Version != 0 && typeByte&0x40 == 0 {
		return nil, errors.New("not a QUIC packet")
	}
	destConnIDLen, err := r.ReadByte()
	if err != nil {
		return nil, io.EOF
	}
	if int(destConnIDLen) > protocol.MaxConnIDLen {
		return nil, protocol.ErrInvalidConnectionIDLen
	}
	h.DestConnectionID, err = protocol.ReadConnectionID(r, int(destConnIDLen))
	if err != nil {
		return nil, err
	}
	srcConnIDLen, err := r.ReadByte()
	if err != nil {
		return nil, io.EOF
	}
	if int(srcConnIDLen) > protocol.MaxConnIDLen {
		return nil, protocol.ErrInvalidConnectionIDLen
	}
	h.SrcConnectionID, err = protocol.ReadConnectionID(r, int(srcConnIDLen))
	if err != nil {
		return nil, err
	}

	if h.Version == 0 { // version negotiation packet
		h.Type = protocol.PacketTypeVersionNegotiation
		h.parsedLen = protocol.ByteCount(startLen - r.Len())
		if r.Len() == 0 || r.Len()%4 != 0 {
			return h, errors.New("version negotiation packet has a malformed version list")
		}
		h.valid = true
		return h, nil
	}

	// If we don't understand the version, we have no idea how to interpret the rest of the bytes.
	if !protocol.IsSupportedVersion(protocol.SupportedVersions, h.Version) {
		h.parsedLen = protocol.ByteCount(startLen - r.Len())
		return h, ErrUnsupportedVersion
	}

	switch (typeByte & 0x30) >> 4 {
	case 0x0:
		h.Type = protocol.PacketTypeInitial
	case 0x1:
		h.Type = protocol.PacketType0RTT
	case 0x2:
		h.Type = protocol.PacketTypeHandshake
	case 0x3:
		h.Type = protocol.PacketTypeRetry
	}

	if h.Type == protocol.PacketTypeRetry {
		odcil, err := r.ReadByte()
		if err != nil {
			return nil, io.EOF
		}
		if int(odcil) > protocol.MaxConnIDLen {
			return nil, protocol.ErrInvalidConnectionIDLen
		}
		h.OrigDestConnectionID, err = protocol.ReadConnectionID(r, int(odcil))
		if err != nil {
			return nil, err
		}
	}

	if h.Type == protocol.PacketTypeInitial || h.Type == protocol.PacketTypeRetry {
		tokenLen, err := quicvarint.Read(r)
		if err != nil {
			return nil, io.EOF
		}
		if tokenLen > uint64(r.Len()) {
			return nil, io.EOF
		}
		h.Token = make([]byte, tokenLen)
		if _, err := io.ReadFull(r, h.Token); err != nil {
			return nil, err
		}
	}

	if h.Type == protocol.PacketTypeRetry {
		h.parsedLen = protocol.ByteCount(startLen - r.Len())
		h.valid = true
		return h, nil
	}

	pl, err := quicvarint.Read(r)
	if err != nil {
		return nil, io.EOF
	}
	h.Length = protocol.ByteCount(pl)
	h.parsedLen = protocol.ByteCount(startLen - r.Len())
	if h.Length > protocol.ByteCount(r.Len()) {
		return nil, fmt.Errorf("packet length (%d bytes) is smaller than the expected length (%d bytes)", r.Len(), h.Length)
	}
	h.valid = true
	return h, nil
}

func (h *Header) appendLong(b []byte) ([]byte, error) {
	var packetType uint8
	//nolint:exhaustive // the remaining types don't use the long header
	switch h.Type {
	case protocol.PacketTypeInitial:
		packetType = 0x0
	case protocol.PacketType0RTT:
		packetType = 0x1
	case protocol.PacketTypeHandshake:
		packetType = 0x2
	case protocol.PacketTypeRetry:
		packetType = 0x3
	case protocol.PacketTypeVersionNegotiation:
	default:
		return nil, fmt.Errorf("%s is not a long header packet type", h.Type)
	}
	firstByte := 0xc0 | packetType<<4
	if h.Type != protocol.PacketTypeRetry && h.Type != protocol.PacketTypeVersionNegotiation {
		if h.PacketNumberLen < protocol.PacketNumberLen1 || h.PacketNumberLen > protocol.PacketNumberLen4 {
			return nil, fmt.Errorf("invalid packet number length: %d", h.PacketNumberLen)
		}
		firstByte |= uint8(h.PacketNumberLen - 1)
	}

	b = append(b, firstByte)
	b = binary.BigEndian.AppendUint32(b, uint32(h.Version))
	b = append(b, uint8(h.DestConnectionID.Len()))
	b = append(b, h.DestConnectionID.Bytes()...)
	b = append(b, uint8(h.SrcConnectionID.Len()))
	b = append(b, h.SrcConnectionID.Bytes()...)
	if h.Type == protocol.PacketTypeRetry {
		b = append(b, uint8(h.OrigDestConnectionID.Len()))
		b = append(b, h.OrigDestConnectionID.Bytes()...)
	}
	if h.Type == protocol.PacketTypeInitial || h.Type == protocol.PacketTypeRetry {
		b = quicvarint.Append(b, uint64(len(h.Token)))
		b = append(b, h.Token...)
	}
	if h.Type == protocol.PacketTypeRetry || h.Type == protocol.PacketTypeVersionNegotiation {
		return b, nil
	}
	b = quicvarint.AppendWithLen(b, uint64(h.Length), 2)
	return appendPacketNumber(b, h.PacketNumber, h.PacketNumberLen)
}

func appendPacketNumber(b []byte, pn protocol.PacketNumber, pnLen protocol.PacketNumberLen) ([]byte, error) {
	truncated := protocol.EncodePacketNumber(pn, pnLen)
	switch pnLen {
	case protocol.PacketNumberLen1:
		return append(b, uint8(truncated)), nil
	case protocol.PacketNumberLen2:
		return binary.BigEndian.AppendUint16(b, uint16(truncated)), nil
	case protocol.PacketNumberLen3:
		return append(b, uint8(truncated>>16), uint8(truncated>>8), uint8(truncated)), nil
	case protocol.PacketNumberLen4:
		return binary.BigEndian.AppendUint32(b, uint32(truncated)), nil
	default:
		return nil, fmt.Errorf("invalid packet number length: %d", pnLen)
	}
}
