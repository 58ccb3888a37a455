// Package quic implements the packet-header codec and packet-number machinery
// of a QUIC transport. It turns packets into bytes and back, resolves
// truncated packet numbers, and coordinates packet-number protection with an
// injected handshake protocol. Frames, recovery and connection state are the
// caller's concern.
package quic

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"net"

	"github.com/edgemesh/quic/internal/handshake"
	"github.com/edgemesh/quic/internal/protocol"
	"github.com/edgemesh/quic/internal/utils"
	"github.com/edgemesh/quic/internal/wire"
	"github.com/edgemesh/quic/metrics"
	"github.com/edgemesh/quic/qlog"
)

// A PacketCreationResult reports the outcome of processing a received datagram.
// No outcome is fatal to the connection: the caller decides the
// connection-level consequences.
type PacketCreationResult uint8

const (
	// PacketCreationSuccess: a packet was parsed and decrypted.
	PacketCreationSuccess PacketCreationResult = iota
	// PacketCreationNotReady: keys for the packet's space aren't derived yet.
	// The caller should buffer the datagram and retry, not drop the connection.
	PacketCreationNotReady
	// PacketCreationFailed: decryption or authentication failed. Discard the packet.
	PacketCreationFailed
	// PacketCreationUnsupportedVersion: the long header carries a version this
	// codec doesn't speak. Typically answered with a Version Negotiation packet.
	PacketCreationUnsupportedVersion
	// PacketCreationIgnored: a malformed, greased or empty-payload packet.
	PacketCreationIgnored
	// PacketCreationNoPacket: empty or insufficient input.
	PacketCreationNoPacket
)

func (r PacketCreationResult) String() string {
	switch r {
	case PacketCreationSuccess:
		return "success"
	case PacketCreationNotReady:
		return "not_ready"
	case PacketCreationFailed:
		return "failed"
	case PacketCreationUnsupportedVersion:
		return "unsupported_version"
	case PacketCreationIgnored:
		return "ignored"
	case PacketCreationNoPacket:
		return "no_packet"
	default:
		return fmt.Sprintf("unknown result: %d", uint8(r))
	}
}

// ErrNotReady is returned by the send-path builders when the keys for the
// target packet number space haven't been installed yet.
var ErrNotReady = handshake.ErrKeysNotYetAvailable

// A PacketFactory builds outgoing packets and parses incoming datagrams for
// one connection. It owns the packet number generators of the three packet
// number spaces and holds a non-owning reference to the handshake protocol.
//
// A factory is not safe for concurrent use: callers serialize factory method
// invocation per connection. The packet number generators themselves are
// concurrency-safe.
type PacketFactory struct {
	version   protocol.Version
	hs        handshake.Protocol
	connIDLen int

	// Initial, Handshake, and 0/1-RTT
	generators [protocol.NumPacketNumberSpaces]packetNumberGenerator

	recorder *metrics.Recorder
	tracer   *qlog.Tracer
	logger   utils.Logger
}

// NewPacketFactory creates a packet factory for one connection.
// connIDLen is the length of the connection IDs in short header packets this
// connection receives.
func NewPacketFactory(connIDLen int) *PacketFactory {
	return &PacketFactory{
		version:   protocol.SupportedVersions[0],
		connIDLen: connIDLen,
		logger:    utils.DefaultLogger.WithPrefix("packet factory"),
	}
}

// SetVersion sets the version stamped into subsequently built long headers.
func (f *PacketFactory) SetVersion(v protocol.Version) {
	f.version = v
}

// SetProtocol installs the handshake protocol.
// The factory never mutates it and must not outlive its owner.
func (f *PacketFactory) SetProtocol(hs handshake.Protocol) {
	f.hs = hs
}

// SetMetricsRecorder installs an optional metrics recorder.
func (f *PacketFactory) SetMetricsRecorder(r *metrics.Recorder) {
	f.recorder = r
}

// SetTracer installs an optional qlog tracer.
func (f *PacketFactory) SetTracer(t *qlog.Tracer) {
	f.tracer = t
}

// IsReadyToCreateProtectedPacket says if 1-RTT keys are available.
// Callers must not invoke CreateProtectedPacket before this reports true.
func (f *PacketFactory) IsReadyToCreateProtectedPacket() bool {
	return f.hs != nil && f.hs.KeysAvailable(protocol.PacketNumberSpaceApplication)
}

// Reset reinitializes all three packet number generators.
// It is used when the connection is retried with a fresh Initial space.
func (f *PacketFactory) Reset() {
	for i := range f.generators {
		f.generators[i].reset()
	}
}

// Create is the receive-path entry point. It classifies the datagram, loads
// the matching header variant, removes packet number protection, decodes the
// packet number against base (the next number expected in the packet's space)
// and decrypts the payload.
//
// On any outcome other than PacketCreationSuccess the null packet is returned.
func (f *PacketFactory) Create(from net.Addr, data []byte, base protocol.PacketNumber) (*Packet, PacketCreationResult) {
	if len(data) == 0 {
		return f.dropped(protocol.PacketTypeUninitialized, 0, "empty_datagram", PacketCreationNoPacket)
	}
	size := protocol.ByteCount(len(data))
	if len(data) > protocol.MaxPacketBufferSize {
		return f.dropped(protocol.PacketTypeUninitialized, size, "datagram_too_large", PacketCreationIgnored)
	}
	t, ok := wire.PacketType(data)
	if !ok {
		return f.dropped(protocol.PacketTypeUninitialized, size, "insufficient_bytes", PacketCreationNoPacket)
	}
	if wire.IsLongHeader(data[0]) && t != protocol.PacketTypeVersionNegotiation {
		v, ok := wire.PacketVersion(data)
		if !ok {
			return f.dropped(t, size, "insufficient_bytes", PacketCreationNoPacket)
		}
		if !protocol.IsSupportedVersion(protocol.SupportedVersions, v) {
			return f.dropped(t, size, "unsupported_version", PacketCreationUnsupportedVersion)
		}
	}

	// Version Negotiation and Retry packets are neither numbered nor protected.
	if t == protocol.PacketTypeVersionNegotiation || t == protocol.PacketTypeRetry {
		hdr, err := wire.ParseHeader(data, f.connIDLen)
		if err != nil {
			f.logger.Debugf("dropping malformed %s packet: %s", t, err)
			return f.dropped(t, size, "malformed_header", PacketCreationIgnored)
		}
		return f.received(&Packet{from: from, header: hdr}, size)
	}

	space, _ := protocol.SpaceForPacketType(t)
	if f.hs == nil || !f.hs.KeysAvailable(space) {
		if f.recorder != nil {
			f.recorder.PacketReceived(PacketCreationNotReady.String())
		}
		return NullPacket(), PacketCreationNotReady
	}

	// Unprotection mutates the buffer; take a copy so the caller keeps
	// ownership of data.
	buffer := getPacketBuffer()
	buffer.Data = append(buffer.Data[:0], data...)
	raw := buffer.Data

	if err := unprotectPacketNumber(raw, space, f.connIDLen, f.hs); err != nil {
		buffer.Release()
		if errors.Is(err, handshake.ErrKeysNotYetAvailable) {
			return NullPacket(), PacketCreationNotReady
		}
		f.logger.Debugf("removing header protection failed: %s", err)
		return f.dropped(t, size, "cannot_unprotect", PacketCreationIgnored)
	}
	hdr, err := wire.ParseHeader(raw, f.connIDLen)
	if err != nil {
		buffer.Release()
		if errors.Is(err, wire.ErrUnsupportedVersion) {
			return f.dropped(t, size, "unsupported_version", PacketCreationUnsupportedVersion)
		}
		f.logger.Debugf("dropping malformed %s packet: %s", t, err)
		return f.dropped(t, size, "malformed_header", PacketCreationIgnored)
	}
	if err := hdr.ParsePacketNumber(raw, base); err != nil {
		buffer.Release()
		f.logger.Debugf("dropping %s packet with malformed packet number: %s", t, err)
		return f.dropped(t, size, "malformed_packet_number", PacketCreationIgnored)
	}

	ad := raw[:hdr.ParsedLen()+protocol.ByteCount(hdr.PacketNumberLen)]
	plaintext, err := f.hs.Decrypt(space, hdr.PacketNumber, hdr.Payload(), ad)
	if err != nil {
		buffer.Release()
		if errors.Is(err, handshake.ErrKeysNotYetAvailable) {
			return NullPacket(), PacketCreationNotReady
		}
		return f.dropped(t, size, "decryption_failed", PacketCreationFailed)
	}
	if len(plaintext) == 0 {
		buffer.Release()
		return f.dropped(t, size, "empty_payload", PacketCreationIgnored)
	}
	return f.received(&Packet{
		from:      from,
		header:    hdr,
		payload:   plaintext,
		buffer:    buffer,
		headerLen: hdr.Len(),
	}, size)
}

// CreateInitialPacket builds an Initial packet. token is the address
// validation token received in a Retry or NEW_TOKEN, if any.
func (f *PacketFactory) CreateInitialPacket(
	destConnID, srcConnID protocol.ConnectionID,
	base protocol.PacketNumber,
	payload []byte,
	retransmittable, probing bool,
	frames []FrameInfo,
	token []byte,
) (*Packet, error) {
	return f.createLongHeaderPacket(protocol.PacketTypeInitial, destConnID, srcConnID, token, base, payload, retransmittable, probing, frames)
}

// CreateHandshakePacket builds a Handshake packet.
func (f *PacketFactory) CreateHandshakePacket(
	destConnID, srcConnID protocol.ConnectionID,
	base protocol.PacketNumber,
	payload []byte,
	retransmittable, probing bool,
	frames []FrameInfo,
) (*Packet, error) {
	return f.createLongHeaderPacket(protocol.PacketTypeHandshake, destConnID, srcConnID, nil, base, payload, retransmittable, probing, frames)
}

// CreateZeroRTTPacket builds a 0-RTT packet. It is numbered in the
// Application space, shared with 1-RTT packets.
func (f *PacketFactory) CreateZeroRTTPacket(
	destConnID, srcConnID protocol.ConnectionID,
	base protocol.PacketNumber,
	payload []byte,
	retransmittable, probing bool,
	frames []FrameInfo,
) (*Packet, error) {
	return f.createLongHeaderPacket(protocol.PacketType0RTT, destConnID, srcConnID, nil, base, payload, retransmittable, probing, frames)
}

// CreateProtectedPacket builds a 1-RTT (short header) packet.
// Callers must check IsReadyToCreateProtectedPacket first.
func (f *PacketFactory) CreateProtectedPacket(
	destConnID protocol.ConnectionID,
	base protocol.PacketNumber,
	payload []byte,
	retransmittable, probing bool,
	frames []FrameInfo,
) (*Packet, error) {
	if f.hs == nil || !f.hs.KeysAvailable(protocol.PacketNumberSpaceApplication) {
		return nil, ErrNotReady
	}
	pn := f.generators[protocol.PacketNumberSpaceApplication].next()
	hdr := &wire.Header{
		Form:             wire.HeaderFormShort,
		Type:             protocol.PacketType1RTT,
		KeyPhase:         protocol.KeyPhaseZero,
		DestConnectionID: destConnID,
		PacketNumber:     pn,
		PacketNumberLen:  protocol.PacketNumberLengthForHeader(pn, base),
	}
	return f.sealAndProtect(hdr, protocol.PacketNumberSpaceApplication, payload, retransmittable, probing, frames)
}

func (f *PacketFactory) createLongHeaderPacket(
	t protocol.PacketType,
	destConnID, srcConnID protocol.ConnectionID,
	token []byte,
	base protocol.PacketNumber,
	payload []byte,
	retransmittable, probing bool,
	frames []FrameInfo,
) (*Packet, error) {
	space, _ := protocol.SpaceForPacketType(t)
	if f.hs == nil || !f.hs.KeysAvailable(space) {
		return nil, ErrNotReady
	}
	pn := f.generators[space].next()
	pnLen := protocol.PacketNumberLengthForHeader(pn, base)
	hdr := &wire.Header{
		Form:             wire.HeaderFormLong,
		Type:             t,
		Version:          f.version,
		DestConnectionID: destConnID,
		SrcConnectionID:  srcConnID,
		Token:            token,
		PacketNumber:     pn,
		PacketNumberLen:  pnLen,
		Length:           protocol.ByteCount(pnLen) + protocol.ByteCount(len(payload)+f.hs.Overhead()),
	}
	return f.sealAndProtect(hdr, space, payload, retransmittable, probing, frames)
}

// sealAndProtect serializes the header, encrypts the payload with the header
// as associated data, applies packet number protection and assembles the packet.
func (f *PacketFactory) sealAndProtect(
	hdr *wire.Header,
	space protocol.PacketNumberSpace,
	payload []byte,
	retransmittable, probing bool,
	frames []FrameInfo,
) (*Packet, error) {
	if hdr.Len()+protocol.ByteCount(len(payload)+f.hs.Overhead()) > protocol.MaxPacketBufferSize {
		return nil, fmt.Errorf("packet too large: %d payload bytes", len(payload))
	}
	buffer := getPacketBuffer()
	raw, err := hdr.Append(buffer.Data[:0])
	if err != nil {
		buffer.Release()
		return nil, err
	}
	headerLen := protocol.ByteCount(len(raw))
	ciphertext, err := f.hs.Encrypt(space, hdr.PacketNumber, payload, raw)
	if err != nil {
		buffer.Release()
		return nil, err
	}
	raw = append(raw, ciphertext...)
	buffer.Data = raw
	if err := protectPacketNumber(raw, space, hdr.DestConnectionID.Len(), f.hs); err != nil {
		buffer.Release()
		return nil, err
	}
	hdr.SetPayload(raw[headerLen:])
	p := &Packet{
		header:          hdr,
		buffer:          buffer,
		headerLen:       headerLen,
		retransmittable: retransmittable,
		probing:         probing,
		frames:          frames,
	}
	f.created(p)
	return p, nil
}

// CreateRetryPacket builds a Retry packet carrying an address validation token
// and echoing the original destination connection ID of the triggering packet.
// Retry packets are unprotected and carry no packet number.
func (f *PacketFactory) CreateRetryPacket(destConnID, srcConnID, origDestConnID protocol.ConnectionID, token []byte) (*Packet, error) {
	hdr := &wire.Header{
		Form:                 wire.HeaderFormLong,
		Type:                 protocol.PacketTypeRetry,
		Version:              f.version,
		DestConnectionID:     destConnID,
		SrcConnectionID:      srcConnID,
		OrigDestConnectionID: origDestConnID,
		Token:                token,
	}
	buffer := getPacketBuffer()
	raw, err := hdr.Append(buffer.Data[:0])
	if err != nil {
		buffer.Release()
		return nil, err
	}
	buffer.Data = raw
	p := &Packet{header: hdr, buffer: buffer, headerLen: protocol.ByteCount(len(raw))}
	f.created(p)
	return p, nil
}

// CreateVersionNegotiationPacket builds a Version Negotiation packet listing
// the versions this codec supports, plus one greased version.
func (f *PacketFactory) CreateVersionNegotiationPacket(destConnID, srcConnID protocol.ConnectionID) (*Packet, error) {
	hdr := &wire.Header{
		Form:             wire.HeaderFormLong,
		Type:             protocol.PacketTypeVersionNegotiation,
		Version:          0,
		DestConnectionID: destConnID,
		SrcConnectionID:  srcConnID,
	}
	buffer := getPacketBuffer()
	raw, err := hdr.Append(buffer.Data[:0])
	if err != nil {
		buffer.Release()
		return nil, err
	}
	headerLen := protocol.ByteCount(len(raw))
	var g [4]byte
	if _, err := rand.Read(g[:]); err != nil {
		buffer.Release()
		return nil, err
	}
	// greased version, 0x?a?a?a?a (RFC 9000, section 15)
	grease := binary.BigEndian.Uint32(g[:])&0xf0f0f0f0 | 0x0a0a0a0a
	raw = binary.BigEndian.AppendUint32(raw, grease)
	for _, v := range protocol.SupportedVersions {
		raw = binary.BigEndian.AppendUint32(raw, uint32(v))
	}
	buffer.Data = raw
	hdr.SetPayload(raw[headerLen:])
	p := &Packet{header: hdr, buffer: buffer, headerLen: headerLen}
	f.created(p)
	return p, nil
}

// CreateStatelessResetPacket builds a stateless reset: a datagram shaped like
// a short header packet, filled with random bytes and ending in the reset token.
func (f *PacketFactory) CreateStatelessResetPacket(connID protocol.ConnectionID, token protocol.StatelessResetToken) (*Packet, error) {
	hdr := &wire.Header{
		Form:             wire.HeaderFormShort,
		Type:             protocol.PacketTypeStatelessReset,
		DestConnectionID: connID,
	}
	buffer := getPacketBuffer()
	raw := buffer.Data[:0]
	rnd := make([]byte, 1+connID.Len()+22)
	if _, err := rand.Read(rnd); err != nil {
		buffer.Release()
		return nil, err
	}
	raw = append(raw, 0x40|rnd[0]&0x3f)
	raw = append(raw, connID.Bytes()...)
	raw = append(raw, rnd[1+connID.Len():]...)
	raw = append(raw, token[:]...)
	buffer.Data = raw
	headerLen := protocol.ByteCount(1 + connID.Len())
	hdr.SetPayload(raw[headerLen:])
	p := &Packet{header: hdr, buffer: buffer, headerLen: headerLen}
	f.created(p)
	return p, nil
}

func (f *PacketFactory) created(p *Packet) {
	if f.recorder != nil {
		f.recorder.PacketCreated(p.Type())
	}
	if f.tracer != nil {
		f.tracer.SentPacket(p.Header(), p.Size())
	}
	if f.logger.Debug() {
		f.logger.Debugf("-> built %s packet, pn %d, %d bytes", p.Type(), p.PacketNumber(), p.Size())
	}
}

func (f *PacketFactory) received(p *Packet, size protocol.ByteCount) (*Packet, PacketCreationResult) {
	if f.recorder != nil {
		f.recorder.PacketReceived(PacketCreationSuccess.String())
	}
	if f.tracer != nil {
		f.tracer.ReceivedPacket(p.Header(), size)
	}
	if f.logger.Debug() {
		f.logger.Debugf("<- parsed %s packet, pn %d, %d bytes", p.Type(), p.PacketNumber(), size)
	}
	return p, PacketCreationSuccess
}

func (f *PacketFactory) dropped(t protocol.PacketType, size protocol.ByteCount, reason string, result PacketCreationResult) (*Packet, PacketCreationResult) {
	if f.recorder != nil {
		f.recorder.PacketDropped(reason)
		f.recorder.PacketReceived(result.String())
	}
	if f.tracer != nil {
		f.tracer.DroppedPacket(t, size, reason)
	}
	return NullPacket(), result
}
