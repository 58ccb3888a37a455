package quic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edgemesh/quic/internal/protocol"
	"github.com/edgemesh/quic/internal/wire"
)

func TestNullPacket(t *testing.T) {
	p := NullPacket()
	require.True(t, p.IsNull())
	require.Equal(t, protocol.PacketTypeUninitialized, p.Type())
	require.Equal(t, protocol.InvalidPacketNumber, p.PacketNumber())
	require.Equal(t, protocol.VersionUnknown, p.Version())
	require.Equal(t, protocol.KeyPhaseUndefined, p.KeyPhase())
	require.Equal(t, protocol.ZeroConnectionID, p.DestConnectionID())
	require.Nil(t, p.Payload())
	require.Zero(t, p.Size())
	_, err := p.Store(make([]byte, 16))
	require.Error(t, err)
}

func TestPacketStore(t *testing.T) {
	hdr := &wire.Header{
		Form:             wire.HeaderFormShort,
		Type:             protocol.PacketType1RTT,
		DestConnectionID: protocol.ParseConnectionID([]byte{1, 2, 3, 4}),
		PacketNumber:     0x42,
		PacketNumberLen:  protocol.PacketNumberLen1,
	}
	p := &Packet{header: hdr}
	expected, err := hdr.Append(nil)
	require.NoError(t, err)

	buf := make([]byte, 32)
	n, err := p.Store(buf)
	require.NoError(t, err)
	require.Equal(t, expected, buf[:n])

	_, err = p.Store(make([]byte, n-1))
	require.Error(t, err)
}

func TestPacketStoreProtectedForm(t *testing.T) {
	dcid := protocol.ParseConnectionID([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	f := newTestFactory(dcid.Len())
	p, err := f.CreateProtectedPacket(dcid, 0, make([]byte, 50), true, false, nil)
	require.NoError(t, err)

	buf := make([]byte, p.HeaderSize())
	n, err := p.Store(buf)
	require.NoError(t, err)
	require.EqualValues(t, p.HeaderSize(), n)
	// the stored header followed by the payload is a parseable packet
	img := append(buf[:n], p.Payload()...)
	parsed, result := newTestFactory(dcid.Len()).Create(testAddr, img, 0)
	require.Equal(t, PacketCreationSuccess, result)
	require.Equal(t, protocol.PacketNumber(0), parsed.PacketNumber())
	parsed.Release()
	p.Release()
}
