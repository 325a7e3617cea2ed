package rpc

import (
	"fmt"
	"strconv"
	"strings"
)

// flexibleInt64 decodes a field Neo nodes encode inconsistently across
// versions as either a JSON number or a decimal string. Decoding
// always succeeds for either representation; see gasAmount in
// result.go for the gasconsumed field, which is kept in a *big.Int
// instead, where more than int64 range is plausible.
type flexibleInt64 int64

func (f *flexibleInt64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("rpc: decoding numeric field %q: %w", s, err)
	}
	*f = flexibleInt64(n)
	return nil
}
