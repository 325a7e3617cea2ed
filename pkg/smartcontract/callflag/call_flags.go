// Package callflag defines the CallFlags bitmask NeoVM interops use to
// restrict what a contract invocation is permitted to do (read state,
// write state, call other contracts, emit notifications).
package callflag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CallFlag is a bitmask of permissions granted to a contract call.
type CallFlag byte

// Individual permission bits and their named combinations, matching the
// System.Contract.Call interop's CallFlags enum.
const (
	NoneFlag CallFlag = 0

	ReadStates CallFlag = 1 << (iota - 1)
	WriteStates
	AllowCall
	AllowNotify

	States   = ReadStates | WriteStates
	ReadOnly = ReadStates | AllowCall
	All      = States | AllowCall | AllowNotify
)

// Has reports whether f carries every bit set in v.
func (f CallFlag) Has(v CallFlag) bool {
	return f&v == v
}

var composites = []struct {
	flag CallFlag
	name string
}{
	{All, "All"},
	{ReadOnly, "ReadOnly"},
	{States, "States"},
}

var base = []struct {
	flag CallFlag
	name string
}{
	{ReadStates, "ReadStates"},
	{WriteStates, "WriteStates"},
	{AllowCall, "AllowCall"},
	{AllowNotify, "AllowNotify"},
}

// String renders f as a comma-separated list of the largest named
// flags it contains, e.g. "ReadOnly, WriteStates".
func (f CallFlag) String() string {
	if f == NoneFlag {
		return "None"
	}
	var parts []string
	remaining := f
	for _, c := range composites {
		if remaining&c.flag == c.flag {
			parts = append(parts, c.name)
			remaining &^= c.flag
		}
	}
	for _, b := range base {
		if remaining&b.flag != 0 {
			parts = append(parts, b.name)
			remaining &^= b.flag
		}
	}
	return strings.Join(parts, ", ")
}

var byName = func() map[string]CallFlag {
	m := map[string]CallFlag{"None": NoneFlag}
	for _, c := range composites {
		m[c.name] = c.flag
	}
	for _, b := range base {
		m[b.name] = b.flag
	}
	return m
}()

// FromString parses the String format back into a CallFlag. "None" and
// "All" are only accepted alone, never combined with other names.
func FromString(s string) (CallFlag, error) {
	if s == "" {
		return NoneFlag, fmt.Errorf("callflag: empty call flag string")
	}
	parts := strings.Split(s, ",")
	var result CallFlag
	var sawSolo bool
	for _, part := range parts {
		if len(part) == 0 {
			return NoneFlag, fmt.Errorf("callflag: empty element in %q", s)
		}
		if part[0] == ' ' {
			part = part[1:]
		}
		f, ok := byName[part]
		if !ok {
			return NoneFlag, fmt.Errorf("callflag: unknown flag %q", part)
		}
		if f == NoneFlag || f == All {
			sawSolo = true
		}
		result |= f
	}
	if sawSolo && len(parts) > 1 {
		return NoneFlag, fmt.Errorf("callflag: %q cannot be combined with other flags", s)
	}
	return result, nil
}

// MarshalJSON implements json.Marshaler.
func (f CallFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// MarshalYAML implements yaml.Marshaler.
func (f CallFlag) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *CallFlag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("callflag: expected a JSON string: %w", err)
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *CallFlag) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("callflag: expected a YAML string: %w", err)
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
