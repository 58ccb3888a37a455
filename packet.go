package quic

import (
	"errors"
	"net"

	"github.com/edgemesh/quic/internal/protocol"
	"github.com/edgemesh/quic/internal/wire"
)

// A FrameInfo describes one frame that was packed into an outgoing packet.
// The codec never interprets it; callers use the list for their own
// retransmission bookkeeping.
type FrameInfo struct {
	Type uint64
	// Handle is an opaque reference to the caller's frame object.
	Handle interface{}
}

// A Packet combines a header with a payload buffer and transport metadata.
// Packets built for sending carry the full protected wire image; packets
// assembled from received bytes carry the decrypted payload.
type Packet struct {
	from   net.Addr
	header *wire.Header

	// send path: the protected wire image, pooled
	buffer    *packetBuffer
	headerLen protocol.ByteCount

	// receive path: the decrypted payload
	payload []byte

	retransmittable bool
	probing         bool
	frames          []FrameInfo
}

// NullPacket is the designated empty packet sentinel, returned alongside every
// non-success creation result.
func NullPacket() *Packet {
	return &Packet{}
}

// IsNull says if this is the null packet sentinel.
func (p *Packet) IsNull() bool {
	return p.header == nil
}

// From returns the source network address of a received packet.
func (p *Packet) From() net.Addr {
	return p.from
}

// Type returns the packet type.
func (p *Packet) Type() protocol.PacketType {
	if p.header == nil {
		return protocol.PacketTypeUninitialized
	}
	return p.header.Type
}

// DestConnectionID returns the destination connection ID.
func (p *Packet) DestConnectionID() protocol.ConnectionID {
	if p.header == nil {
		return protocol.ZeroConnectionID
	}
	return p.header.DestConnectionID
}

// SrcConnectionID returns the source connection ID.
// Short header packets don't carry one; the zero-length ID is returned.
func (p *Packet) SrcConnectionID() protocol.ConnectionID {
	if p.header == nil {
		return protocol.ZeroConnectionID
	}
	return p.header.SrcConnectionID
}

// PacketNumber returns the full, reconstructed packet number.
func (p *Packet) PacketNumber() protocol.PacketNumber {
	if p.header == nil {
		return protocol.InvalidPacketNumber
	}
	return p.header.PacketNumber
}

// Version returns the version carried in the header, or VersionUnknown for
// headers without a version field.
func (p *Packet) Version() protocol.Version {
	if p.header == nil || !p.header.HasVersion() {
		return protocol.VersionUnknown
	}
	return p.header.Version
}

// KeyPhase returns the key phase bit of a short header packet.
func (p *Packet) KeyPhase() protocol.KeyPhaseBit {
	if p.header == nil {
		return protocol.KeyPhaseUndefined
	}
	return p.header.KeyPhase
}

// Header returns the packet header.
func (p *Packet) Header() *wire.Header {
	return p.header
}

// Payload returns the payload bytes: the decrypted plaintext for received
// packets, the protected ciphertext for packets built for sending.
func (p *Packet) Payload() []byte {
	if p.payload != nil {
		return p.payload
	}
	if p.buffer != nil {
		return p.buffer.Data[p.headerLen:]
	}
	if p.header != nil {
		return p.header.Payload()
	}
	return nil
}

// Frames returns the frame descriptors the caller packed into this packet.
func (p *Packet) Frames() []FrameInfo {
	return p.frames
}

// IsRetransmittable says if the caller marked this packet as retransmittable
// (e.g. ACK-only packets are not).
func (p *Packet) IsRetransmittable() bool {
	return p.retransmittable
}

// IsProbingPacket says if the caller marked this packet as probing
// (e.g. it carries a PATH_CHALLENGE frame).
func (p *Packet) IsProbingPacket() bool {
	return p.probing
}

// HeaderSize returns the size of the header, in bytes.
func (p *Packet) HeaderSize() protocol.ByteCount {
	if p.buffer != nil {
		return p.headerLen
	}
	if p.header != nil {
		return p.header.Len()
	}
	return 0
}

// PayloadLength returns the length of the payload, in bytes.
func (p *Packet) PayloadLength() protocol.ByteCount {
	return protocol.ByteCount(len(p.Payload()))
}

// Size returns header size plus payload length. Integrity tag bytes of the
// payload are the payload owner's concern and already included there.
func (p *Packet) Size() protocol.ByteCount {
	return p.HeaderSize() + p.PayloadLength()
}

// Store copies the serialized header bytes into buf and returns the number of
// bytes written. It never writes payload bytes; the caller emits those
// separately. For packets built for sending the header bytes are the protected
// form, ready for the wire.
func (p *Packet) Store(buf []byte) (int, error) {
	var hdr []byte
	switch {
	case p.buffer != nil:
		hdr = p.buffer.Data[:p.headerLen]
	case p.header != nil:
		var err error
		hdr, err = p.header.Append(make([]byte, 0, p.header.Len()))
		if err != nil {
			return 0, err
		}
	default:
		return 0, errors.New("cannot store the null packet")
	}
	if len(buf) < len(hdr) {
		return 0, errors.New("buffer too small")
	}
	return copy(buf, hdr), nil
}

// Release returns the packet's pooled buffer, if any.
// The packet must not be used afterwards.
func (p *Packet) Release() {
	if p.buffer != nil {
		p.buffer.Release()
		p.buffer = nil
	}
}
