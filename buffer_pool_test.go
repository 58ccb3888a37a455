package quic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edgemesh/quic/internal/protocol"
)

func TestBufferPool(t *testing.T) {
	buf := getPacketBuffer()
	require.Equal(t, protocol.MaxPacketBufferSize, cap(buf.Data))
	require.Zero(t, buf.Len())
	buf.Data = append(buf.Data, []byte("foobar")...)
	require.Equal(t, protocol.ByteCount(6), buf.Len())
	buf.Release()
}

func TestBufferPoolSplit(t *testing.T) {
	buf := getPacketBuffer()
	buf.Split()
	buf.Release()
	// the buffer is still in use by the second packet
	buf.Release()
}

func TestBufferPoolMisuse(t *testing.T) {
	t.Run("releasing twice", func(t *testing.T) {
		buf := getPacketBuffer()
		buf.Release()
		require.Panics(t, func() { buf.Release() })
	})
	t.Run("releasing a reallocated buffer", func(t *testing.T) {
		buf := getPacketBuffer()
		buf.Data = make([]byte, 10)
		require.Panics(t, func() { buf.Release() })
	})
}
