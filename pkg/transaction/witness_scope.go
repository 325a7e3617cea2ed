package transaction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WitnessScope restricts where a Signer's witness may be consumed
// during contract invocation.
type WitnessScope byte

const (
	None             WitnessScope = 0
	CalledByEntry    WitnessScope = 0x01
	CustomContracts  WitnessScope = 0x10
	CustomGroups     WitnessScope = 0x20
	Rules            WitnessScope = 0x40
	Global           WitnessScope = 0x80
)

var scopeNames = map[WitnessScope]string{
	None:            "None",
	CalledByEntry:   "CalledByEntry",
	CustomContracts: "CustomContracts",
	CustomGroups:    "CustomGroups",
	Rules:           "Rules",
	Global:          "Global",
}

var scopesByName = func() map[string]WitnessScope {
	m := make(map[string]WitnessScope, len(scopeNames))
	for s, n := range scopeNames {
		m[n] = s
	}
	return m
}()

// ScopesFromByte validates a raw scope bitmask, rejecting unknown bits
// and Global combined with anything else.
func ScopesFromByte(b byte) (WitnessScope, error) {
	s := WitnessScope(b)
	if s == None {
		return None, nil
	}
	if s&Global != 0 && s != Global {
		return 0, fmt.Errorf("transaction: Global cannot be combined with other scopes")
	}
	known := CalledByEntry | CustomContracts | CustomGroups | Rules | Global
	if s&^known != 0 {
		return 0, fmt.Errorf("transaction: unknown scope bits in %#x", b)
	}
	return s, nil
}

// String renders s as a comma-separated list of scope names.
func (s WitnessScope) String() string {
	if s == None {
		return "None"
	}
	var parts []string
	for _, flag := range []WitnessScope{CalledByEntry, CustomContracts, CustomGroups, Rules, Global} {
		if s&flag != 0 {
			parts = append(parts, scopeNames[flag])
		}
	}
	return strings.Join(parts, ", ")
}

// ScopesFromString parses a comma-separated list of scope names
// (optionally separated by ", "), deduplicating repeats and rejecting
// Global combined with anything else.
func ScopesFromString(str string) (WitnessScope, error) {
	if str == "" {
		return 0, fmt.Errorf("transaction: empty scopes string")
	}
	var result WitnessScope
	for _, part := range strings.Split(str, ",") {
		name := strings.TrimSpace(part)
		s, ok := scopesByName[name]
		if !ok {
			return 0, fmt.Errorf("transaction: unknown scope %q", name)
		}
		result |= s
	}
	if result&Global != 0 && result != Global {
		return 0, fmt.Errorf("transaction: Global cannot be combined with other scopes")
	}
	return result, nil
}

// MarshalJSON implements json.Marshaler.
func (s WitnessScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *WitnessScope) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ScopesFromString(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
