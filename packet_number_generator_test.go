package quic

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/edgemesh/quic/internal/protocol"
)

func TestPacketNumberGeneratorSequence(t *testing.T) {
	var g packetNumberGenerator
	require.Equal(t, protocol.PacketNumber(0), g.peek())
	for i := 0; i < 100; i++ {
		require.Equal(t, protocol.PacketNumber(i), g.peek())
		require.Equal(t, protocol.PacketNumber(i), g.next())
	}
	require.Equal(t, protocol.PacketNumber(100), g.peek())

	g.reset()
	require.Equal(t, protocol.PacketNumber(0), g.next())
}

func TestPacketNumberGeneratorConcurrent(t *testing.T) {
	const numGoroutines = 8
	const drawsPerGoroutine = 1000

	var g packetNumberGenerator
	var mx sync.Mutex
	drawn := make([]protocol.PacketNumber, 0, numGoroutines*drawsPerGoroutine)

	var eg errgroup.Group
	for i := 0; i < numGoroutines; i++ {
		eg.Go(func() error {
			local := make([]protocol.PacketNumber, 0, drawsPerGoroutine)
			for j := 0; j < drawsPerGoroutine; j++ {
				local = append(local, g.next())
			}
			mx.Lock()
			drawn = append(drawn, local...)
			mx.Unlock()
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	// every packet number in [0, N) was handed out exactly once
	sort.Slice(drawn, func(i, j int) bool { return drawn[i] < drawn[j] })
	for i, pn := range drawn {
		require.Equal(t, protocol.PacketNumber(i), pn)
	}
}
