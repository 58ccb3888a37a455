package qlog

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/francoispqt/gojay"
	"github.com/stretchr/testify/require"

	"github.com/edgemesh/quic/internal/protocol"
)

type entry struct {
	Time float64        `json:"time"`
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

func encodeEvent(t *testing.T, details eventDetails) entry {
	t.Helper()
	buf := &bytes.Buffer{}
	enc := gojay.NewEncoder(buf)
	require.NoError(t, enc.Encode(event{RelativeTime: 1337 * time.Millisecond, eventDetails: details}))
	var e entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	require.Equal(t, float64(1337), e.Time)
	return e
}

func TestPacketSentEvent(t *testing.T) {
	e := encodeEvent(t, eventPacketSent{
		Header: packetHeader{
			PacketType:       protocol.PacketTypeInitial,
			PacketNumber:     42,
			Version:          protocol.Version1,
			DestConnectionID: protocol.ParseConnectionID([]byte{0xde, 0xad, 0xbe, 0xef}),
			SrcConnectionID:  protocol.ParseConnectionID([]byte{0xca, 0xfe}),
			HasSrcConnID:     true,
		},
		Length: 1234,
	})
	require.Equal(t, "transport:packet_sent", e.Name)
	require.Equal(t, float64(1234), e.Data["raw_length"])
	hdr := e.Data["header"].(map[string]any)
	require.Equal(t, "initial", hdr["packet_type"])
	require.Equal(t, float64(42), hdr["packet_number"])
	require.Equal(t, "1", hdr["version"])
	require.Equal(t, float64(4), hdr["dcil"])
	require.Equal(t, "deadbeef", hdr["dcid"])
	require.Equal(t, float64(2), hdr["scil"])
	require.Equal(t, "cafe", hdr["scid"])
}

func TestPacketReceivedEvent(t *testing.T) {
	e := encodeEvent(t, eventPacketReceived{
		Header: packetHeader{
			PacketType:       protocol.PacketType1RTT,
			PacketNumber:     7,
			DestConnectionID: protocol.ParseConnectionID([]byte{1, 2, 3, 4}),
		},
		Length: 54,
	})
	require.Equal(t, "transport:packet_received", e.Name)
	hdr := e.Data["header"].(map[string]any)
	require.Equal(t, "1RTT", hdr["packet_type"])
	require.Equal(t, float64(7), hdr["packet_number"])
	// short header packets carry no version and no source connection ID
	require.NotContains(t, hdr, "version")
	require.NotContains(t, hdr, "scil")
}

func TestPacketDroppedEvent(t *testing.T) {
	e := encodeEvent(t, eventPacketDropped{
		PacketType: protocol.PacketTypeRetry,
		Length:     120,
		Trigger:    "malformed_header",
	})
	require.Equal(t, "transport:packet_dropped", e.Name)
	require.Equal(t, "retry", e.Data["packet_type"])
	require.Equal(t, float64(120), e.Data["raw_length"])
	require.Equal(t, "malformed_header", e.Data["trigger"])
}

func TestRetryHeaderOmitsPacketNumber(t *testing.T) {
	e := encodeEvent(t, eventPacketSent{
		Header: packetHeader{
			PacketType:       protocol.PacketTypeRetry,
			Version:          protocol.Version1,
			DestConnectionID: protocol.ParseConnectionID([]byte{1, 2}),
		},
	})
	hdr := e.Data["header"].(map[string]any)
	require.NotContains(t, hdr, "packet_number")
}
