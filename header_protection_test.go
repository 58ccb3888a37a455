package quic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edgemesh/quic/internal/handshake"
	"github.com/edgemesh/quic/internal/protocol"
	"github.com/edgemesh/quic/internal/wire"
)

// maskProtocol is a handshake.Protocol returning a fixed header protection
// mask, recording the direction it was asked for.
type maskProtocol struct {
	handshake.NullProtocol
	mask    [handshake.HeaderProtectionMaskSize]byte
	sending []bool
}

func (p *maskProtocol) HeaderProtectionMask(_ protocol.PacketNumberSpace, sample []byte, sending bool) ([]byte, error) {
	if len(sample) != handshake.SampleSize {
		panic("wrong sample size")
	}
	p.sending = append(p.sending, sending)
	return p.mask[:], nil
}

func buildProtectablePacket(t *testing.T, hdr *wire.Header, payloadLen int) []byte {
	t.Helper()
	data, err := hdr.Append(nil)
	require.NoError(t, err)
	for i := 0; i < payloadLen; i++ {
		data = append(data, byte(0xa0+i))
	}
	return data
}

func TestHeaderProtectionRoundTrip(t *testing.T) {
	connID := protocol.ParseConnectionID([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	for pnLen := protocol.PacketNumberLen1; pnLen <= protocol.PacketNumberLen4; pnLen++ {
		headers := map[string]*wire.Header{
			"long": {
				Form:             wire.HeaderFormLong,
				Type:             protocol.PacketTypeHandshake,
				Version:          protocol.Version1,
				DestConnectionID: connID,
				SrcConnectionID:  connID,
				Length:           protocol.ByteCount(pnLen) + 30,
				PacketNumber:     0x12345678,
				PacketNumberLen:  pnLen,
			},
			"short": {
				Form:             wire.HeaderFormShort,
				Type:             protocol.PacketType1RTT,
				DestConnectionID: connID,
				PacketNumber:     0x12345678,
				PacketNumberLen:  pnLen,
			},
		}
		for name, hdr := range headers {
			t.Run(name, func(t *testing.T) {
				hs := &maskProtocol{mask: [5]byte{0xff, 0x11, 0x22, 0x33, 0x44}}
				data := buildProtectablePacket(t, hdr, 30)
				orig := append([]byte{}, data...)

				require.NoError(t, protectPacketNumber(data, protocol.PacketNumberSpaceHandshake, connID.Len(), hs))
				require.NotEqual(t, orig[0], data[0])
				// everything before the packet number field is untouched
				pnOffset, ok := wire.PacketNumberOffset(orig, connID.Len())
				require.True(t, ok)
				require.Equal(t, orig[1:pnOffset], data[1:pnOffset])
				// the payload is untouched
				require.Equal(t, orig[pnOffset+int(pnLen):], data[pnOffset+int(pnLen):])

				require.NoError(t, unprotectPacketNumber(data, protocol.PacketNumberSpaceHandshake, connID.Len(), hs))
				require.Equal(t, orig, data)
				require.Equal(t, []bool{true, false}, hs.sending)
			})
		}
	}
}

func TestHeaderProtectionFirstByteMask(t *testing.T) {
	connID := protocol.ParseConnectionID([]byte{1, 2, 3, 4})
	hs := &maskProtocol{mask: [5]byte{0xff, 0, 0, 0, 0}}

	long := buildProtectablePacket(t, &wire.Header{
		Form:             wire.HeaderFormLong,
		Type:             protocol.PacketTypeInitial,
		Version:          protocol.Version1,
		DestConnectionID: connID,
		SrcConnectionID:  connID,
		Length:           1 + 30,
		PacketNumber:     1,
		PacketNumberLen:  protocol.PacketNumberLen1,
	}, 30)
	origFirst := long[0]
	require.NoError(t, protectPacketNumber(long, protocol.PacketNumberSpaceInitial, 0, hs))
	// only the low 4 bits of a long header first byte are masked
	require.Equal(t, origFirst&0xf0, long[0]&0xf0)
	require.Equal(t, origFirst^0x0f, long[0])

	short := buildProtectablePacket(t, &wire.Header{
		Form:             wire.HeaderFormShort,
		Type:             protocol.PacketType1RTT,
		DestConnectionID: connID,
		PacketNumber:     1,
		PacketNumberLen:  protocol.PacketNumberLen1,
	}, 30)
	origFirst = short[0]
	require.NoError(t, protectPacketNumber(short, protocol.PacketNumberSpaceApplication, connID.Len(), hs))
	// only the low 5 bits of a short header first byte are masked
	require.Equal(t, origFirst&0xe0, short[0]&0xe0)
	require.Equal(t, origFirst^0x1f, short[0])
}

func TestHeaderProtectionSampleTooShort(t *testing.T) {
	connID := protocol.ParseConnectionID([]byte{1, 2, 3, 4})
	hs := &maskProtocol{}
	// 10 payload bytes are not enough for a 16-byte sample at pnOffset+4
	data := buildProtectablePacket(t, &wire.Header{
		Form:             wire.HeaderFormShort,
		Type:             protocol.PacketType1RTT,
		DestConnectionID: connID,
		PacketNumber:     1,
		PacketNumberLen:  protocol.PacketNumberLen1,
	}, 10)
	err := protectPacketNumber(data, protocol.PacketNumberSpaceApplication, connID.Len(), hs)
	require.ErrorIs(t, err, errPacketTooShortForSample)
	require.Empty(t, hs.sending)
}
