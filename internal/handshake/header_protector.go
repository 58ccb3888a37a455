package handshake

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// A headerProtector generates the header protection keystream from a
// ciphertext sample, as defined in RFC 9001, section 5.4.
type headerProtector interface {
	Mask(sample []byte) ([]byte, error)
}

type aesHeaderProtector struct {
	block cipher.Block
	mask  []byte
}

var _ headerProtector = &aesHeaderProtector{}

func newAESHeaderProtector(hash crypto.Hash, trafficSecret []byte, hkdfLabel string) (*aesHeaderProtector, error) {
	hpKey := hkdfExpandLabel(hash, trafficSecret, []byte{}, hkdfLabel, 16)
	block, err := aes.NewCipher(hpKey)
	if err != nil {
		return nil, fmt.Errorf("error creating new AES cipher: %w", err)
	}
	return &aesHeaderProtector{
		block: block,
		mask:  make([]byte, block.BlockSize()),
	}, nil
}

func (p *aesHeaderProtector) Mask(sample []byte) ([]byte, error) {
	if len(sample) != len(p.mask) {
		return nil, fmt.Errorf("invalid sample size: %d", len(sample))
	}
	p.block.Encrypt(p.mask, sample)
	return p.mask[:HeaderProtectionMaskSize], nil
}

type chaChaHeaderProtector struct {
	key  [32]byte
	mask [HeaderProtectionMaskSize]byte
}

var _ headerProtector = &chaChaHeaderProtector{}

func newChaChaHeaderProtector(hash crypto.Hash, trafficSecret []byte, hkdfLabel string) *chaChaHeaderProtector {
	hpKey := hkdfExpandLabel(hash, trafficSecret, []byte{}, hkdfLabel, 32)
	p := &chaChaHeaderProtector{}
	copy(p.key[:], hpKey)
	return p
}

func (p *chaChaHeaderProtector) Mask(sample []byte) ([]byte, error) {
	if len(sample) != SampleSize {
		return nil, fmt.Errorf("invalid sample size: %d", len(sample))
	}
	nonce := make([]byte, 12)
	copy(nonce, sample[4:16])
	c, err := chacha20.NewUnauthenticatedCipher(p.key[:], nonce)
	if err != nil {
		return nil, err
	}
	c.SetCounter(uint32(sample[0]) | uint32(sample[1])<<8 | uint32(sample[2])<<16 | uint32(sample[3])<<24)
	for i := range p.mask {
		p.mask[i] = 0
	}
	c.XORKeyStream(p.mask[:], p.mask[:])
	return p.mask[:], nil
}
