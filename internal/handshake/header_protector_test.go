package handshake

import (
	"crypto"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAESHeaderProtector(t *testing.T) {
	secret := splitHexString(t, "c00cf151ca5be075ed0ebfb5c80323c42d6b7db67881289af4008f1f6c357aea")
	p, err := newAESHeaderProtector(crypto.SHA256, secret, "quic hp")
	require.NoError(t, err)

	sample := splitHexString(t, "d1b1c98dd7689fb8ec11d242b123dc9b")
	mask, err := p.Mask(sample)
	require.NoError(t, err)
	require.Len(t, mask, HeaderProtectionMaskSize)

	// deterministic for the same sample
	again, err := p.Mask(sample)
	require.NoError(t, err)
	require.Equal(t, mask, again)

	_, err = p.Mask(sample[:8])
	require.Error(t, err)
}

// test vector from RFC 9001, appendix A.5
func TestChaChaHeaderProtector(t *testing.T) {
	secret := splitHexString(t, "9ac312a7f877468ebe69422748ad00a15443f18203a07d6060f688f30f21632b")
	p := newChaChaHeaderProtector(crypto.SHA256, secret, "quic hp")

	mask, err := p.Mask(splitHexString(t, "5e5cd55c41f69080575d7999c25a5bfb"))
	require.NoError(t, err)
	require.Equal(t, splitHexString(t, "aefefe7d03"), mask)

	_, err = p.Mask([]byte{1, 2, 3})
	require.Error(t, err)
}
