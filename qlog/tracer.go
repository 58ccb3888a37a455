package qlog

import (
	"io"

	"github.com/edgemesh/quic/internal/protocol"
	"github.com/edgemesh/quic/internal/wire"
)

// A Tracer records packet-level codec events to a qlog file.
// Its methods are safe to call from the connection's send and receive paths;
// encoding happens on a dedicated goroutine.
type Tracer struct {
	w *writer
}

// NewTracer creates a Tracer writing to w and starts its encoding goroutine.
// Call Close to flush and close w.
func NewTracer(w io.WriteCloser) *Tracer {
	t := &Tracer{w: newWriter(w)}
	go t.w.Run()
	return t
}

// SentPacket records a packet built for sending.
func (t *Tracer) SentPacket(hdr *wire.Header, size protocol.ByteCount) {
	t.w.RecordEvent(eventPacketSent{Header: headerFromWire(hdr), Length: size})
}

// ReceivedPacket records a successfully parsed packet.
func (t *Tracer) ReceivedPacket(hdr *wire.Header, size protocol.ByteCount) {
	t.w.RecordEvent(eventPacketReceived{Header: headerFromWire(hdr), Length: size})
}

// DroppedPacket records a datagram that didn't produce a packet.
func (t *Tracer) DroppedPacket(pt protocol.PacketType, size protocol.ByteCount, trigger string) {
	t.w.RecordEvent(eventPacketDropped{PacketType: pt, Length: size, Trigger: trigger})
}

// Close flushes pending events and closes the underlying writer.
func (t *Tracer) Close() {
	t.w.Close()
}

func headerFromWire(hdr *wire.Header) packetHeader {
	return packetHeader{
		PacketType:       hdr.Type,
		PacketNumber:     hdr.PacketNumber,
		Version:          hdr.Version,
		DestConnectionID: hdr.DestConnectionID,
		SrcConnectionID:  hdr.SrcConnectionID,
		HasSrcConnID:     hdr.Form == wire.HeaderFormLong,
	}
}
