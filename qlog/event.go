package qlog

import (
	"fmt"
	"time"

	"github.com/francoispqt/gojay"

	"github.com/edgemesh/quic/internal/protocol"
)

type eventDetails interface {
	Category() category
	Name() string
	gojay.MarshalerJSONObject
}

type event struct {
	RelativeTime time.Duration
	eventDetails
}

var _ gojay.MarshalerJSONObject = event{}

func (e event) IsNil() bool { return false }
func (e event) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Float64Key("time", float64(e.RelativeTime.Nanoseconds())/1e6)
	enc.StringKey("name", e.Category().String()+":"+e.Name())
	enc.ObjectKey("data", e.eventDetails)
}

// A packetHeader is the qlog summary of a packet header.
type packetHeader struct {
	PacketType       protocol.PacketType
	PacketNumber     protocol.PacketNumber
	Version          protocol.Version
	DestConnectionID protocol.ConnectionID
	SrcConnectionID  protocol.ConnectionID
	HasSrcConnID     bool
}

var _ gojay.MarshalerJSONObject = packetHeader{}

func (h packetHeader) IsNil() bool { return false }
func (h packetHeader) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_type", packetTypeString(h.PacketType))
	if h.PacketType != protocol.PacketTypeRetry && h.PacketType != protocol.PacketTypeVersionNegotiation {
		enc.Int64Key("packet_number", int64(h.PacketNumber))
	}
	if h.Version != 0 {
		enc.StringKey("version", fmt.Sprintf("%x", uint32(h.Version)))
	}
	enc.IntKey("dcil", h.DestConnectionID.Len())
	if h.DestConnectionID.Len() > 0 {
		enc.StringKey("dcid", fmt.Sprintf("%x", h.DestConnectionID.Bytes()))
	}
	if h.HasSrcConnID {
		enc.IntKey("scil", h.SrcConnectionID.Len())
		if h.SrcConnectionID.Len() > 0 {
			enc.StringKey("scid", fmt.Sprintf("%x", h.SrcConnectionID.Bytes()))
		}
	}
}

type eventPacketSent struct {
	Header packetHeader
	Length protocol.ByteCount
}

var _ eventDetails = eventPacketSent{}

func (e eventPacketSent) Category() category { return categoryTransport }
func (e eventPacketSent) Name() string       { return "packet_sent" }
func (e eventPacketSent) IsNil() bool        { return false }
func (e eventPacketSent) MarshalJSONObject(enc *gojay.Encoder) {
	enc.ObjectKey("header", e.Header)
	enc.Int64Key("raw_length", int64(e.Length))
}

type eventPacketReceived struct {
	Header packetHeader
	Length protocol.ByteCount
}

var _ eventDetails = eventPacketReceived{}

func (e eventPacketReceived) Category() category { return categoryTransport }
func (e eventPacketReceived) Name() string       { return "packet_received" }
func (e eventPacketReceived) IsNil() bool        { return false }
func (e eventPacketReceived) MarshalJSONObject(enc *gojay.Encoder) {
	enc.ObjectKey("header", e.Header)
	enc.Int64Key("raw_length", int64(e.Length))
}

type eventPacketDropped struct {
	PacketType protocol.PacketType
	Length     protocol.ByteCount
	Trigger    string
}

var _ eventDetails = eventPacketDropped{}

func (e eventPacketDropped) Category() category { return categoryTransport }
func (e eventPacketDropped) Name() string       { return "packet_dropped" }
func (e eventPacketDropped) IsNil() bool        { return false }
func (e eventPacketDropped) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_type", packetTypeString(e.PacketType))
	enc.Int64Key("raw_length", int64(e.Length))
	enc.StringKey("trigger", e.Trigger)
}
