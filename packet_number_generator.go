package quic

import (
	"sync/atomic"

	"github.com/edgemesh/quic/internal/protocol"
)

// A packetNumberGenerator hands out the packet numbers of one packet number
// space. Within a space, successive calls to next return strictly increasing
// numbers and never repeat for the lifetime of the space.
//
// It is safe for concurrent use: a connection may send from more than one
// internal path at the same time (e.g. the regular send path and a
// retransmission path).
type packetNumberGenerator struct {
	current atomic.Uint64
}

// next returns the current packet number and increments the counter.
func (g *packetNumberGenerator) next() protocol.PacketNumber {
	return protocol.PacketNumber(g.current.Add(1) - 1)
}

// peek returns the packet number the next call to next will return.
func (g *packetNumberGenerator) peek() protocol.PacketNumber {
	return protocol.PacketNumber(g.current.Load())
}

// reset reinitializes the counter to zero.
// It is only used when the owning space becomes invalid, e.g. when the
// connection is retried with a fresh Initial space.
func (g *packetNumberGenerator) reset() {
	g.current.Store(0)
}
