package protocol

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectionIDGeneration(t *testing.T) {
	for l := 0; l <= MaxConnIDLen; l++ {
		c, err := GenerateConnectionID(l)
		require.NoError(t, err)
		require.Equal(t, l, c.Len())
		require.Len(t, c.Bytes(), l)
	}
}

func TestConnectionIDParsing(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	c := ParseConnectionID(b)
	require.Equal(t, 8, c.Len())
	require.Equal(t, b, c.Bytes())
	// the connection ID doesn't alias the input
	b[0] = 42
	require.Equal(t, byte(1), c.Bytes()[0])

	require.Panics(t, func() { ParseConnectionID(make([]byte, MaxConnIDLen+1)) })
}

func TestConnectionIDComparison(t *testing.T) {
	c1 := ParseConnectionID([]byte{1, 2, 3, 4})
	c2 := ParseConnectionID([]byte{1, 2, 3, 4})
	c3 := ParseConnectionID([]byte{1, 2, 3, 4, 5})
	require.True(t, c1 == c2)
	require.False(t, c1 == c3)
	require.True(t, ParseConnectionID(nil) == ZeroConnectionID)
}

func TestReadConnectionID(t *testing.T) {
	r := bytes.NewReader([]byte{1, 2, 3, 4, 5, 6})
	c, err := ReadConnectionID(r, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, c.Bytes())

	_, err = ReadConnectionID(r, 4)
	require.ErrorIs(t, err, io.EOF)

	c, err = ReadConnectionID(bytes.NewReader(nil), 0)
	require.NoError(t, err)
	require.Equal(t, 0, c.Len())
}

func TestConnectionIDStringer(t *testing.T) {
	require.Equal(t, "(empty)", ZeroConnectionID.String())
	require.Equal(t, "deadbeef", ParseConnectionID([]byte{0xde, 0xad, 0xbe, 0xef}).String())
}
