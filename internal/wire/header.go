// Package wire implements the binary codec for QUIC packet headers.
// Frames are out of scope: the payload of a packet is treated as an opaque byte sequence.
package wire

import (
	"errors"
	"fmt"

	"github.com/edgemesh/quic/internal/protocol"
	"github.com/edgemesh/quic/quicvarint"
)

// ErrUnsupportedVersion is returned when parsing a long header packet of an unknown version.
var ErrUnsupportedVersion = errors.New("unsupported version")

// ErrInvalidPacketNumberLen is returned when the length bits of the first byte
// declare a packet number that doesn't fit into the packet.
var ErrInvalidPacketNumberLen = errors.New("packet too small to hold the declared packet number")

// The HeaderForm distinguishes the two wire formats of a packet header.
type HeaderForm uint8

const (
	// HeaderFormLong is the long header form used during connection establishment.
	HeaderFormLong HeaderForm = iota
	// HeaderFormShort is the short header form used after the handshake.
	HeaderFormShort
)

// A Header is a parsed or to-be-serialized QUIC packet header.
// It is a closed tagged variant: Form selects which of the variant-specific
// fields are meaningful. Exactly one of the two backing representations is
// populated per instance: raw (loaded from wire bytes) or payload (built for sending).
type Header struct {
	Form HeaderForm
	Type protocol.PacketType

	// long header only
	Version              protocol.Version
	SrcConnectionID      protocol.ConnectionID
	OrigDestConnectionID protocol.ConnectionID // Retry only
	Token                []byte                // Initial and Retry only
	Length               protocol.ByteCount    // packet number length + payload length

	DestConnectionID protocol.ConnectionID

	// short header only
	KeyPhase protocol.KeyPhaseBit

	PacketNumber    protocol.PacketNumber
	PacketNumberLen protocol.PacketNumberLen

	typeByte  byte
	raw       []byte             // set iff the header was parsed from wire bytes
	payload   []byte             // set iff the header was built for sending
	parsedLen protocol.ByteCount // offset of the packet number field in raw
	valid     bool
}

// ParseHeader parses a packet header from data.
// For long header packets the variant is selected by the form bit of the first byte;
// short header packets use the connection ID length fixed by the connection context.
// The packet number field is not parsed: it is still protected at this point.
// Call ParsePacketNumber once header protection has been removed.
//
// If the packet has a version this codec doesn't support, the invariant part of
// the header is parsed and ErrUnsupportedVersion is returned alongside it.
func ParseHeader(data []byte, shortHeaderConnIDLen int) (*Header, error) {
	if len(data) == 0 {
		return nil, errNoBytes
	}
	if IsLongHeader(data[0]) {
		return parseLongHeader(data)
	}
	return parseShortHeader(data, shortHeaderConnIDLen)
}

// ParsePacketNumber reads the truncated packet number at the packet number offset
// and reconstructs the full number against base, the next packet number the
// receiver expects in this packet number space.
// data must be the same buffer the header was parsed from, with header
// protection already removed.
func (h *Header) ParsePacketNumber(data []byte, base protocol.PacketNumber) error {
	if h.raw == nil {
		return errors.New("header was not parsed from wire bytes")
	}
	if h.Type == protocol.PacketTypeRetry || h.Type == protocol.PacketTypeVersionNegotiation {
		return fmt.Errorf("%s packets don't carry a packet number", h.Type)
	}
	pnLen := protocol.PacketNumberLen(data[0]&0b11) + 1
	offset := int(h.parsedLen)
	if len(data) < offset+int(pnLen) {
		return ErrInvalidPacketNumberLen
	}
	if h.Form == HeaderFormLong && protocol.ByteCount(pnLen) > h.Length {
		return ErrInvalidPacketNumberLen
	}
	var wirePN protocol.PacketNumber
	for _, b := range data[offset : offset+int(pnLen)] {
		wirePN = wirePN<<8 | protocol.PacketNumber(b)
	}
	h.PacketNumberLen = pnLen
	h.PacketNumber = protocol.DecodePacketNumber(pnLen, base-1, wirePN)
	if h.Form == HeaderFormShort {
		h.KeyPhase = protocol.KeyPhaseZero
		if data[0]&0b100 > 0 {
			h.KeyPhase = protocol.KeyPhaseOne
		}
	}
	// keep the raw buffer in sync with the unprotected bytes
	h.raw[0] = data[0]
	copy(h.raw[offset:offset+int(pnLen)], data[offset:offset+int(pnLen)])
	return nil
}

// ParsedLen returns the number of bytes that were consumed when parsing the header.
// For packet-number-carrying headers this is the offset of the packet number field.
func (h *Header) ParsedLen() protocol.ByteCount {
	return h.parsedLen
}

// PacketNumberOffset returns the offset of the packet number field within the packet.
func (h *Header) PacketNumberOffset() protocol.ByteCount {
	return h.parsedLen
}

// IsValid says if every declared offset and length of this header fits within
// the backing buffer and all variable-length integers parsed successfully.
// Headers built for sending are always valid.
func (h *Header) IsValid() bool {
	return h.valid
}

// HasVersion says if this header carries a version field on the wire.
func (h *Header) HasVersion() bool {
	return h.Form == HeaderFormLong
}

// HasKeyPhase says if this header carries a key phase bit.
func (h *Header) HasKeyPhase() bool {
	return h.Form == HeaderFormShort
}

// Payload returns the payload bytes that followed the header,
// derived from whichever backing representation is active.
// For a parsed Retry header this is the retry token.
func (h *Header) Payload() []byte {
	if h.raw == nil {
		return h.payload
	}
	switch h.Type {
	case protocol.PacketTypeRetry:
		return h.Token
	case protocol.PacketTypeVersionNegotiation:
		return h.raw[h.parsedLen:]
	}
	start := h.parsedLen + protocol.ByteCount(h.PacketNumberLen)
	end := protocol.ByteCount(len(h.raw))
	if h.Form == HeaderFormLong {
		end = h.parsedLen + h.Length
	}
	if start > end || end > protocol.ByteCount(len(h.raw)) {
		return nil
	}
	return h.raw[start:end]
}

// PayloadSize returns the length of the payload, in bytes.
func (h *Header) PayloadSize() protocol.ByteCount {
	return protocol.ByteCount(len(h.Payload()))
}

// SetPayload attaches a payload to a header built for sending.
func (h *Header) SetPayload(p []byte) {
	h.payload = p
}

// Len returns the header-only byte length, excluding the payload.
func (h *Header) Len() protocol.ByteCount {
	if h.raw != nil {
		if h.Type == protocol.PacketTypeRetry || h.Type == protocol.PacketTypeVersionNegotiation {
			return h.parsedLen
		}
		return h.parsedLen + protocol.ByteCount(h.PacketNumberLen)
	}
	if h.Form == HeaderFormShort {
		return 1 + protocol.ByteCount(h.DestConnectionID.Len()) + protocol.ByteCount(h.PacketNumberLen)
	}
	length := 1 /* type byte */ + 4 /* version */ +
		1 + protocol.ByteCount(h.DestConnectionID.Len()) +
		1 + protocol.ByteCount(h.SrcConnectionID.Len())
	if h.Type == protocol.PacketTypeVersionNegotiation {
		return length
	}
	if h.Type == protocol.PacketTypeRetry {
		length += 1 + protocol.ByteCount(h.OrigDestConnectionID.Len())
	}
	if h.Type == protocol.PacketTypeInitial || h.Type == protocol.PacketTypeRetry {
		length += protocol.ByteCount(quicvarint.Len(uint64(len(h.Token)))) + protocol.ByteCount(len(h.Token))
	}
	if h.Type != protocol.PacketTypeRetry {
		length += 2 /* length field, always encoded as a 2-byte varint */
		length += protocol.ByteCount(h.PacketNumberLen)
	}
	return length
}

// Append serializes the header fields, never the payload, and appends them to b.
func (h *Header) Append(b []byte) ([]byte, error) {
	if h.Form == HeaderFormShort {
		return h.appendShort(b)
	}
	return h.appendLong(b)
}

// Clone returns a deep copy of the header, preserving the variant and all fields.
func (h *Header) Clone() *Header {
	c := *h
	if h.Token != nil {
		c.Token = append([]byte{}, h.Token...)
	}
	if h.raw != nil {
		c.raw = append([]byte{}, h.raw...)
	}
	if h.payload != nil {
		c.payload = append([]byte{}, h.payload...)
	}
	return &c
}

var errNoBytes = errors.New("insufficient bytes")
