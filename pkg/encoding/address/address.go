// Package address converts between Uint160 script hashes and Neo N3
// Base58Check addresses.
package address

import (
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/base58"
	"github.com/nspcc-dev/neo-sdk-go/pkg/neoerr"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
)

// NEO3Version is the default address version byte for Neo N3
// mainnet/testnet, producing addresses beginning with 'N'.
const NEO3Version = 0x35

// Uint160ToString encodes u as a Base58Check address using the given
// version byte: Base58Check(version || u.BytesBE()).
func Uint160ToString(u util.Uint160, version byte) string {
	b := make([]byte, 0, 1+util.Uint160Size)
	b = append(b, version)
	b = append(b, u.BytesBE()...)
	return base58.CheckEncode(b)
}

// StringToUint160 is the inverse of Uint160ToString: it strictly
// validates the Base58Check checksum and the version byte.
func StringToUint160(s string, version byte) (util.Uint160, error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return util.Uint160{}, neoerr.New(neoerr.InvalidArgument, "StringToUint160", err)
	}
	if len(b) != 1+util.Uint160Size {
		return util.Uint160{}, neoerr.New(neoerr.InvalidArgument, "StringToUint160",
			errWrongLength)
	}
	if b[0] != version {
		return util.Uint160{}, neoerr.New(neoerr.InvalidArgument, "StringToUint160",
			errWrongVersion)
	}
	return util.Uint160DecodeBytesBE(b[1:])
}

type addrError string

func (e addrError) Error() string { return string(e) }

const (
	errWrongLength  = addrError("decoded address payload has the wrong length")
	errWrongVersion = addrError("address version byte does not match configured version")
)
