package keys

import (
	"errors"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/base58"
)

// wifVersion is the payload's version byte for a WIF-encoded private key.
const wifVersion = 0x80

// wifCompressedFlag marks a compressed public key; Neo N3 only emits
// compressed-form WIFs.
const wifCompressedFlag = 0x01

// WIF encodes p as the 51/52-character Base58Check string Neo wallets
// exchange: 0x80 || d || 0x01 || checksum.
func (p *PrivateKey) WIF() string {
	payload := make([]byte, 0, 1+PrivateKeySize+1)
	payload = append(payload, wifVersion)
	p.With(func(b []byte) {
		payload = append(payload, b...)
	})
	payload = append(payload, wifCompressedFlag)
	return base58.CheckEncode(payload)
}

// NewPrivateKeyFromWIF decodes a WIF string, enforcing the 34-byte
// compressed payload form and a valid checksum.
func NewPrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	payload, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, err
	}
	if len(payload) != 1+PrivateKeySize+1 {
		return nil, errors.New("crypto/keys: invalid WIF payload length")
	}
	if payload[0] != wifVersion {
		return nil, errors.New("crypto/keys: invalid WIF version byte")
	}
	if payload[1+PrivateKeySize] != wifCompressedFlag {
		return nil, errors.New("crypto/keys: WIF does not flag a compressed key")
	}
	return NewPrivateKeyFromBytes(payload[1 : 1+PrivateKeySize])
}
