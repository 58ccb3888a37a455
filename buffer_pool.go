package quic

import (
	"sync"

	"github.com/edgemesh/quic/internal/protocol"
)

// A packetBuffer holds the raw bytes of one packet.
// Buffers are recycled through a typed pool: a buffer acquired with
// getPacketBuffer must be returned by calling Release, and only once.
type packetBuffer struct {
	Data []byte

	// refCount counts how many packets the Data slice is used in.
	// It doesn't support concurrent use.
	refCount int
}

// Split increases the refCount.
// It must be called when a packet buffer is used for more than one packet,
// e.g. when splitting coalesced packets.
func (b *packetBuffer) Split() {
	b.refCount++
}

// Release decreases the refCount.
// It should be called when processing the packet is finished.
// When the refCount reaches 0, the packet buffer is put back into the pool.
func (b *packetBuffer) Release() {
	if cap(b.Data) != protocol.MaxPacketBufferSize {
		panic("Release called with packet buffer of wrong size")
	}
	b.refCount--
	if b.refCount < 0 {
		panic("negative packetBuffer refCount")
	}
	// only put the packetBuffer back if it's not used any more
	if b.refCount == 0 {
		b.Data = b.Data[:0]
		bufferPool.Put(b)
	}
}

// Len returns the length of Data
func (b *packetBuffer) Len() protocol.ByteCount {
	return protocol.ByteCount(len(b.Data))
}

var bufferPool sync.Pool

func getPacketBuffer() *packetBuffer {
	buf := bufferPool.Get().(*packetBuffer)
	buf.refCount = 1
	buf.Data = buf.Data[:0]
	return buf
}

func init() {
	bufferPool.New = func() interface{} {
		return &packetBuffer{
			Data: make([]byte, 0, protocol.MaxPacketBufferSize),
		}
	}
}
