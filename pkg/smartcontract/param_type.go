package smartcontract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParamType is the type tag of a ContractParameter, matching Neo N3's
// ContractParameterType enumeration. Numeric values are part of the
// wire/manifest format and must not be renumbered.
type ParamType byte

const (
	AnyType              ParamType = 0x00
	BoolType              ParamType = 0x10
	IntegerType           ParamType = 0x11
	ByteArrayType         ParamType = 0x12
	StringType            ParamType = 0x13
	Hash160Type           ParamType = 0x14
	Hash256Type           ParamType = 0x15
	PublicKeyType         ParamType = 0x16
	SignatureType         ParamType = 0x17
	ArrayType             ParamType = 0x20
	MapType               ParamType = 0x22
	InteropInterfaceType  ParamType = 0x30
	VoidType              ParamType = 0xff
)

var paramTypeNames = map[ParamType]string{
	AnyType:              "Any",
	BoolType:             "Boolean",
	IntegerType:          "Integer",
	ByteArrayType:        "ByteArray",
	StringType:           "String",
	Hash160Type:          "Hash160",
	Hash256Type:          "Hash256",
	PublicKeyType:        "PublicKey",
	SignatureType:        "Signature",
	ArrayType:            "Array",
	MapType:              "Map",
	InteropInterfaceType: "InteropInterface",
	VoidType:             "Void",
}

// String returns the canonical Neo manifest name of t.
func (t ParamType) String() string {
	if s, ok := paramTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%d)", byte(t))
}

var paramTypeAliases = map[string]ParamType{
	"any":              AnyType,
	"signature":        SignatureType,
	"bool":             BoolType,
	"boolean":          BoolType,
	"int":              IntegerType,
	"integer":          IntegerType,
	"hash160":          Hash160Type,
	"hash256":          Hash256Type,
	"bytes":            ByteArrayType,
	"bytearray":        ByteArrayType,
	"key":              PublicKeyType,
	"publickey":        PublicKeyType,
	"string":           StringType,
	"array":            ArrayType,
	"map":              MapType,
	"interopinterface": InteropInterfaceType,
	"void":             VoidType,
}

// ParseParamType parses a case-insensitive Neo ABI/CLI type name.
func ParseParamType(s string) (ParamType, error) {
	t, ok := paramTypeAliases[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("smartcontract: unknown parameter type %q", s)
	}
	return t, nil
}

// MarshalJSON implements json.Marshaler.
func (t ParamType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *ParamType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseParamType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
