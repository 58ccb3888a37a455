package protocol

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// MaxConnIDLen is the maximum length of the connection ID, in bytes.
// QUIC v1 restricts the length to 20 bytes.
const MaxConnIDLen = 20

// ErrInvalidConnectionIDLen is returned when a connection ID length field
// declares more than 20 bytes.
var ErrInvalidConnectionIDLen = errors.New("connection ID exceeds 20 bytes")

// A ConnectionID is a QUIC Connection ID, as defined in RFC 9000.
// It is comparable with ==.
type ConnectionID struct {
	b [MaxConnIDLen]byte
	l uint8
}

// ZeroConnectionID is the distinguished zero-length connection ID.
var ZeroConnectionID = ConnectionID{}

// GenerateConnectionID generates a connection ID using cryptographic random
func GenerateConnectionID(l int) (ConnectionID, error) {
	var c ConnectionID
	c.l = uint8(l)
	_, err := rand.Read(c.b[:l])
	return c, err
}

// ParseConnectionID interprets b as a Connection ID.
// It panics if b is longer than 20 bytes.
func ParseConnectionID(b []byte) ConnectionID {
	if len(b) > MaxConnIDLen {
		panic("invalid conn id length")
	}
	var c ConnectionID
	c.l = uint8(len(b))
	copy(c.b[:c.l], b)
	return c
}

// ReadConnectionID reads a connection ID of length l from the given io.Reader.
// It returns io.EOF if there are not enough bytes to read.
func ReadConnectionID(r io.Reader, l int) (ConnectionID, error) {
	var c ConnectionID
	if l == 0 {
		return c, nil
	}
	if l > MaxConnIDLen {
		return c, errors.New("invalid conn id length")
	}
	c.l = uint8(l)
	_, err := io.ReadFull(r, c.b[:l])
	if err == io.ErrUnexpectedEOF {
		return c, io.EOF
	}
	return c, err
}

// Len returns the length of the connection ID, in bytes
func (c ConnectionID) Len() int {
	return int(c.l)
}

// Bytes returns the byte representation
func (c ConnectionID) Bytes() []byte {
	return c.b[:c.l]
}

func (c ConnectionID) String() string {
	if c.Len() == 0 {
		return "(empty)"
	}
	return fmt.Sprintf("%x", c.Bytes())
}
