package handshake

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"

	"golang.org/x/crypto/hkdf"

	"github.com/edgemesh/quic/internal/protocol"
)

var quicSaltV1 = []byte{0x38, 0x76, 0x2c, 0xf7, 0xf5, 0x59, 0x34, 0xb3, 0x4d, 0x17, 0x9a, 0xe6, 0xa4, 0xc8, 0x0c, 0xad, 0xcc, 0xbb, 0x7f, 0x0a}

const initialNonceLen = 12

// An InitialProtocol is a Protocol for the Initial packet number space.
// Its keys are derived from the client's first destination connection ID alone
// (RFC 9001, section 5.2), so it is available before any handshake progress.
type InitialProtocol struct {
	sealer   cipher.AEAD
	sealIV   []byte
	sealHP   headerProtector
	opener   cipher.AEAD
	openIV   []byte
	openHP   headerProtector
	nonceBuf [initialNonceLen]byte
}

var _ Protocol = &InitialProtocol{}

// NewInitialProtocol derives the Initial keys for the given connection ID.
func NewInitialProtocol(connID protocol.ConnectionID, pers protocol.Perspective) (*InitialProtocol, error) {
	clientSecret, serverSecret := computeInitialSecrets(connID)
	mySecret, otherSecret := serverSecret, clientSecret
	if pers == protocol.PerspectiveClient {
		mySecret, otherSecret = clientSecret, serverSecret
	}

	myKey, myIV := computeInitialKeyAndIV(mySecret)
	otherKey, otherIV := computeInitialKeyAndIV(otherSecret)

	sealer, err := newAESGCM(myKey)
	if err != nil {
		return nil, err
	}
	opener, err := newAESGCM(otherKey)
	if err != nil {
		return nil, err
	}
	sealHP, err := newAESHeaderProtector(crypto.SHA256, mySecret, "quic hp")
	if err != nil {
		return nil, err
	}
	openHP, err := newAESHeaderProtector(crypto.SHA256, otherSecret, "quic hp")
	if err != nil {
		return nil, err
	}
	return &InitialProtocol{
		sealer: sealer,
		sealIV: myIV,
		sealHP: sealHP,
		opener: opener,
		openIV: otherIV,
		openHP: openHP,
	}, nil
}

func computeInitialSecrets(connID protocol.ConnectionID) (clientSecret, serverSecret []byte) {
	initialSecret := hkdf.Extract(crypto.SHA256.New, connID.Bytes(), quicSaltV1)
	clientSecret = hkdfExpandLabel(crypto.SHA256, initialSecret, []byte{}, "client in", crypto.SHA256.Size())
	serverSecret = hkdfExpandLabel(crypto.SHA256, initialSecret, []byte{}, "server in", crypto.SHA256.Size())
	return
}

func computeInitialKeyAndIV(secret []byte) (key, iv []byte) {
	key = hkdfExpandLabel(crypto.SHA256, secret, []byte{}, "quic key", 16)
	iv = hkdfExpandLabel(crypto.SHA256, secret, []byte{}, "quic iv", initialNonceLen)
	return
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// nonce XORs the packet number into the last 8 bytes of the IV (RFC 9001, section 5.3).
func (p *InitialProtocol) nonce(iv []byte, pn protocol.PacketNumber) []byte {
	copy(p.nonceBuf[:], iv)
	var pnBytes [8]byte
	binary.BigEndian.PutUint64(pnBytes[:], uint64(pn))
	for i := 0; i < 8; i++ {
		p.nonceBuf[initialNonceLen-8+i] ^= pnBytes[i]
	}
	return p.nonceBuf[:]
}

func (p *InitialProtocol) Encrypt(space protocol.PacketNumberSpace, pn protocol.PacketNumber, plaintext, header []byte) ([]byte, error) {
	if space != protocol.PacketNumberSpaceInitial {
		return nil, ErrKeysNotYetAvailable
	}
	return p.sealer.Seal(nil, p.nonce(p.sealIV, pn), plaintext, header), nil
}

func (p *InitialProtocol) Decrypt(space protocol.PacketNumberSpace, pn protocol.PacketNumber, ciphertext, header []byte) ([]byte, error) {
	if space != protocol.PacketNumberSpaceInitial {
		return nil, ErrKeysNotYetAvailable
	}
	plaintext, err := p.opener.Open(nil, p.nonce(p.openIV, pn), ciphertext, header)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func (p *InitialProtocol) HeaderProtectionMask(space protocol.PacketNumberSpace, sample []byte, sending bool) ([]byte, error) {
	if space != protocol.PacketNumberSpaceInitial {
		return nil, ErrKeysNotYetAvailable
	}
	if sending {
		return p.sealHP.Mask(sample)
	}
	return p.openHP.Mask(sample)
}

func (p *InitialProtocol) Overhead() int {
	return p.sealer.Overhead()
}

func (p *InitialProtocol) KeysAvailable(space protocol.PacketNumberSpace) bool {
	return space == protocol.PacketNumberSpaceInitial
}
