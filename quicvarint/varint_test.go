package quicvarint

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarintRead(t *testing.T) {
	testCases := []struct {
		data     []byte
		expected uint64
	}{
		// examples from RFC 9000, appendix A.1
		{[]byte{0x25}, 37},
		{[]byte{0x40, 0x25}, 37},
		{[]byte{0x7b, 0xbd}, 15293},
		{[]byte{0x9d, 0x7f, 0x3e, 0x7d}, 494878333},
		{[]byte{0xc2, 0x19, 0x7c, 0x5e, 0xff, 0x14, 0xe8, 0x8c}, 151288809941952652},
		{[]byte{0x00}, 0},
		{[]byte{0x3f}, maxVarInt1},
		{[]byte{0x7f, 0xff}, maxVarInt2},
		{[]byte{0xbf, 0xff, 0xff, 0xff}, maxVarInt4},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, maxVarInt8},
	}
	for _, tc := range testCases {
		val, err := Read(bytes.NewReader(tc.data))
		require.NoError(t, err)
		require.Equal(t, tc.expected, val)

		val, n, err := Parse(tc.data)
		require.NoError(t, err)
		require.Equal(t, tc.expected, val)
		require.Equal(t, len(tc.data), n)
	}
}

func TestVarintReadErrors(t *testing.T) {
	_, err := Read(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
	_, err = Read(bytes.NewReader([]byte{0x40}))
	require.ErrorIs(t, err, io.EOF)

	_, _, err = Parse(nil)
	require.ErrorIs(t, err, io.EOF)
	_, _, err = Parse([]byte{0xc0, 1, 2, 3})
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestVarintAppend(t *testing.T) {
	for _, v := range []uint64{0, 37, maxVarInt1, maxVarInt1 + 1, 15293, maxVarInt2, maxVarInt2 + 1, 494878333, maxVarInt4, maxVarInt4 + 1, 151288809941952652, maxVarInt8} {
		b := Append(nil, v)
		require.Len(t, b, Len(v))
		parsed, n, err := Parse(b)
		require.NoError(t, err)
		require.Equal(t, v, parsed)
		require.Equal(t, len(b), n)
	}
	require.Panics(t, func() { Append(nil, maxVarInt8+1) })
}

func TestVarintAppendWithLen(t *testing.T) {
	testCases := []struct {
		value    uint64
		length   int
		expected []byte
	}{
		{37, 1, []byte{0x25}},
		{37, 2, []byte{0x40, 0x25}},
		{37, 4, []byte{0x80, 0, 0, 0x25}},
		{37, 8, []byte{0xc0, 0, 0, 0, 0, 0, 0, 0x25}},
		{15293, 2, []byte{0x7b, 0xbd}},
		{15293, 4, []byte{0x80, 0, 0x3b, 0xbd}},
	}
	for _, tc := range testCases {
		b := AppendWithLen(nil, tc.value, tc.length)
		require.Equal(t, tc.expected, b)
		parsed, n, err := Parse(b)
		require.NoError(t, err)
		require.Equal(t, tc.value, parsed)
		require.Equal(t, tc.length, n)
	}
	require.Panics(t, func() { AppendWithLen(nil, 0, 3) })
	require.Panics(t, func() { AppendWithLen(nil, maxVarInt1 + 1, 1) })
}

func TestVarintLen(t *testing.T) {
	require.Equal(t, 1, Len(0))
	require.Equal(t, 1, Len(maxVarInt1))
	require.Equal(t, 2, Len(maxVarInt1+1))
	require.Equal(t, 2, Len(maxVarInt2))
	require.Equal(t, 4, Len(maxVarInt2+1))
	require.Equal(t, 4, Len(maxVarInt4))
	require.Equal(t, 8, Len(maxVarInt4+1))
	require.Equal(t, 8, Len(maxVarInt8))
	require.Panics(t, func() { Len(maxVarInt8 + 1) })
}
