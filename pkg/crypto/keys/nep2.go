package keys

import (
	"crypto/aes"
	"crypto/sha256"
	"errors"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/base58"
	"github.com/nspcc-dev/neo-sdk-go/pkg/neoerr"
	"golang.org/x/crypto/scrypt"
)

// nep2Prefix is the fixed 3-byte marker at the start of a NEP-2 payload.
var nep2Prefix = [3]byte{0x01, 0x42, 0xE0}

const nep2PayloadSize = 3 + 4 + 32

// ScryptParams configures the scrypt KDF used by NEP-2, plus a caller
// memory ceiling: scrypt's working set is 128*N*r*p bytes, and a request
// whose parameters would exceed MemoryCeiling fails before any
// allocation happens.
type ScryptParams struct {
	N, R, P       int
	MemoryCeiling int // bytes; 0 means unbounded
}

// DefaultScryptParams are the standard NEP-2 parameters (N=16384, r=8, p=8).
var DefaultScryptParams = ScryptParams{N: 16384, R: 8, P: 8, MemoryCeiling: 0}

func (s ScryptParams) validate() error {
	if s.N <= 1 || s.N&(s.N-1) != 0 {
		return errors.New("crypto/keys: scrypt N must be a power of two greater than 1")
	}
	if s.R <= 0 || s.P <= 0 {
		return errors.New("crypto/keys: scrypt r and p must be positive")
	}
	needed := 128 * s.N * s.R * s.P
	if s.MemoryCeiling > 0 && needed > s.MemoryCeiling {
		return errResourceExhausted
	}
	return nil
}

var errResourceExhausted = errors.New("crypto/keys: scrypt memory requirement exceeds configured ceiling")

// NEP2Encrypt encrypts p under password, producing the 58-character
// Base58Check NEP-2 string (starts with "6P").
func NEP2Encrypt(p *PrivateKey, password string, addrVersion byte, params ScryptParams) (string, error) {
	if err := params.validate(); err != nil {
		if errors.Is(err, errResourceExhausted) {
			return "", neoerr.New(neoerr.ResourceExhausted, "NEP2Encrypt", err)
		}
		return "", neoerr.New(neoerr.InvalidArgument, "NEP2Encrypt", err)
	}
	addr := p.PublicKey().Address(addrVersion)
	addrHash := addressHash(addr)

	dk, err := scrypt.Key([]byte(password), addrHash, params.N, params.R, params.P, 64)
	if err != nil {
		return "", neoerr.New(neoerr.CryptoError, "NEP2Encrypt", err)
	}
	dk1, dk2 := dk[:32], dk[32:]

	var xored [32]byte
	p.With(func(b []byte) {
		for i := range xored {
			xored[i] = b[i] ^ dk1[i]
		}
	})

	encrypted, err := aesECBEncrypt(xored[:], dk2)
	if err != nil {
		return "", neoerr.New(neoerr.CryptoError, "NEP2Encrypt", err)
	}

	payload := make([]byte, 0, nep2PayloadSize)
	payload = append(payload, nep2Prefix[:]...)
	payload = append(payload, addrHash...)
	payload = append(payload, encrypted...)
	return base58.CheckEncode(payload), nil
}

// NEP2Decrypt decrypts a NEP-2 string under password. A wrong password
// is caught by the verifying round trip (the decrypted key's derived
// address hash must match the hash stored in the payload) and reported
// as a CryptoError, never a silently-wrong key.
func NEP2Decrypt(nep2, password string, addrVersion byte, params ScryptParams) (*PrivateKey, error) {
	if err := params.validate(); err != nil {
		if errors.Is(err, errResourceExhausted) {
			return nil, neoerr.New(neoerr.ResourceExhausted, "NEP2Decrypt", err)
		}
		return nil, neoerr.New(neoerr.InvalidArgument, "NEP2Decrypt", err)
	}
	payload, err := base58.CheckDecode(nep2)
	if err != nil {
		return nil, neoerr.New(neoerr.CryptoError, "NEP2Decrypt", err)
	}
	if len(payload) != nep2PayloadSize || payload[0] != nep2Prefix[0] ||
		payload[1] != nep2Prefix[1] || payload[2] != nep2Prefix[2] {
		return nil, neoerr.New(neoerr.InvalidArgument, "NEP2Decrypt",
			errors.New("not a NEP-2 payload"))
	}
	addrHash := payload[3:7]
	encrypted := payload[7:nep2PayloadSize]

	dk, err := scrypt.Key([]byte(password), addrHash, params.N, params.R, params.P, 64)
	if err != nil {
		return nil, neoerr.New(neoerr.CryptoError, "NEP2Decrypt", err)
	}
	dk1, dk2 := dk[:32], dk[32:]

	xored, err := aesECBDecrypt(encrypted, dk2)
	if err != nil {
		return nil, neoerr.New(neoerr.CryptoError, "NEP2Decrypt", err)
	}

	d := make([]byte, 32)
	for i := range d {
		d[i] = xored[i] ^ dk1[i]
	}

	priv, err := NewPrivateKeyFromBytes(d)
	if err != nil {
		return nil, neoerr.New(neoerr.CryptoError, "NEP2Decrypt", err)
	}

	gotHash := addressHash(priv.PublicKey().Address(addrVersion))
	ok := true
	for i := range gotHash {
		if gotHash[i] != addrHash[i] {
			ok = false
		}
	}
	if !ok {
		priv.Destroy()
		return nil, neoerr.New(neoerr.CryptoError, "NEP2Decrypt", errors.New("wrong password"))
	}
	return priv, nil
}

func addressHash(addr string) []byte {
	h1 := sha256.Sum256([]byte(addr))
	h2 := sha256.Sum256(h1[:])
	return h2[:4]
}

func aesECBEncrypt(plain, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(plain))
	bs := block.BlockSize()
	for i := 0; i+bs <= len(plain); i += bs {
		block.Encrypt(out[i:i+bs], plain[i:i+bs])
	}
	return out, nil
}

func aesECBDecrypt(cipherText, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(cipherText))
	bs := block.BlockSize()
	for i := 0; i+bs <= len(cipherText); i += bs {
		block.Decrypt(out[i:i+bs], cipherText[i:i+bs])
	}
	return out, nil
}
