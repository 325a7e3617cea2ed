package smartcontract

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
)

// Parameter is a tagged union over the Neo N3 ContractParameter ABI
// types. Value holds the variant's payload:
//
//	AnyType / VoidType        -> nil
//	BoolType                  -> bool
//	IntegerType               -> *big.Int
//	ByteArrayType/SignatureType -> []byte (Signature must be 64 bytes)
//	StringType                -> string
//	Hash160Type               -> util.Uint160
//	Hash256Type               -> util.Uint256
//	PublicKeyType             -> *keys.PublicKey
//	ArrayType                 -> []Parameter
//	MapType                   -> []ParameterPair
//	InteropInterfaceType      -> nil (placeholder; server-side only)
type Parameter struct {
	Type  ParamType
	Value interface{}
}

// ParameterPair is one key/value entry of a MapType parameter. Neither
// Key nor Value may itself be an Array or Map.
type ParameterPair struct {
	Key   Parameter
	Value Parameter
}

// NewBoolParameter builds a BoolType parameter.
func NewBoolParameter(b bool) Parameter {
	return Parameter{Type: BoolType, Value: b}
}

// NewIntegerParameter builds an IntegerType parameter.
func NewIntegerParameter(v *big.Int) Parameter {
	return Parameter{Type: IntegerType, Value: v}
}

// NewByteArrayParameter builds a ByteArrayType parameter.
func NewByteArrayParameter(b []byte) Parameter {
	return Parameter{Type: ByteArrayType, Value: b}
}

// NewSignatureParameter builds a SignatureType parameter; sig must be
// exactly 64 bytes.
func NewSignatureParameter(sig []byte) (Parameter, error) {
	if len(sig) != 64 {
		return Parameter{}, errors.New("smartcontract: signature parameter must be 64 bytes")
	}
	return Parameter{Type: SignatureType, Value: sig}, nil
}

// NewStringParameter builds a StringType parameter.
func NewStringParameter(s string) Parameter {
	return Parameter{Type: StringType, Value: s}
}

// NewHash160Parameter builds a Hash160Type parameter.
func NewHash160Parameter(h util.Uint160) Parameter {
	return Parameter{Type: Hash160Type, Value: h}
}

// NewHash256Parameter builds a Hash256Type parameter.
func NewHash256Parameter(h util.Uint256) Parameter {
	return Parameter{Type: Hash256Type, Value: h}
}

// NewPublicKeyParameter builds a PublicKeyType parameter; pub must
// encode to exactly 33 bytes (always true for *keys.PublicKey).
func NewPublicKeyParameter(pub *keys.PublicKey) Parameter {
	return Parameter{Type: PublicKeyType, Value: pub}
}

// NewArrayParameter builds an ArrayType parameter.
func NewArrayParameter(items ...Parameter) Parameter {
	return Parameter{Type: ArrayType, Value: items}
}

// NewMapParameter builds a MapType parameter; keys may not themselves
// be Array or Map variants.
func NewMapParameter(pairs ...ParameterPair) (Parameter, error) {
	for _, kv := range pairs {
		if kv.Key.Type == ArrayType || kv.Key.Type == MapType {
			return Parameter{}, errors.New("smartcontract: map keys cannot be Array or Map")
		}
	}
	return Parameter{Type: MapType, Value: pairs}, nil
}

// NewVoidParameter builds a VoidType parameter.
func NewVoidParameter() Parameter {
	return Parameter{Type: VoidType}
}

// FromObject maps a host-native Go value to the matching Parameter
// variant, rejecting types with no defined mapping.
func FromObject(v interface{}) (Parameter, error) {
	switch val := v.(type) {
	case nil:
		return Parameter{Type: AnyType}, nil
	case bool:
		return NewBoolParameter(val), nil
	case int:
		return NewIntegerParameter(big.NewInt(int64(val))), nil
	case int64:
		return NewIntegerParameter(big.NewInt(val)), nil
	case *big.Int:
		return NewIntegerParameter(val), nil
	case []byte:
		return NewByteArrayParameter(val), nil
	case string:
		return NewStringParameter(val), nil
	case util.Uint160:
		return NewHash160Parameter(val), nil
	case util.Uint256:
		return NewHash256Parameter(val), nil
	case *keys.PublicKey:
		return NewPublicKeyParameter(val), nil
	case []Parameter:
		return NewArrayParameter(val...), nil
	case []ParameterPair:
		return NewMapParameter(val...)
	default:
		return Parameter{}, fmt.Errorf("smartcontract: cannot map %T to a contract parameter", v)
	}
}

type parameterJSON struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON implements json.Marshaler, following the type-specific
// encoding rules Neo RPC expects: base64 for ByteArray/Signature, hex
// for Hash160/Hash256/PublicKey, decimal string for Integer.
func (p Parameter) MarshalJSON() ([]byte, error) {
	out := parameterJSON{Type: p.Type.String()}
	var raw []byte
	var err error
	switch p.Type {
	case AnyType, VoidType, InteropInterfaceType:
		raw = []byte("null")
	case BoolType:
		raw, err = json.Marshal(p.Value.(bool))
	case IntegerType:
		raw, err = json.Marshal(p.Value.(*big.Int).String())
	case ByteArrayType, SignatureType:
		raw, err = json.Marshal(base64.StdEncoding.EncodeToString(p.Value.([]byte)))
	case StringType:
		raw, err = json.Marshal(p.Value.(string))
	case Hash160Type:
		h := p.Value.(util.Uint160)
		raw, err = json.Marshal(hex.EncodeToString(h.BytesBE()))
	case Hash256Type:
		h := p.Value.(util.Uint256)
		raw, err = json.Marshal(hex.EncodeToString(h.BytesBE()))
	case PublicKeyType:
		raw, err = json.Marshal(p.Value.(*keys.PublicKey).String())
	case ArrayType:
		raw, err = json.Marshal(p.Value.([]Parameter))
	case MapType:
		type pairJSON struct {
			Key   Parameter `json:"key"`
			Value Parameter `json:"value"`
		}
		pairs := p.Value.([]ParameterPair)
		out := make([]pairJSON, len(pairs))
		for i, kv := range pairs {
			out[i] = pairJSON{Key: kv.Key, Value: kv.Value}
		}
		raw, err = json.Marshal(out)
	default:
		return nil, fmt.Errorf("smartcontract: unsupported parameter type %v", p.Type)
	}
	if err != nil {
		return nil, err
	}
	out.Value = raw
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var raw parameterJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := ParseParamType(raw.Type)
	if err != nil {
		return err
	}
	p.Type = t
	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		p.Value = nil
		return nil
	}
	switch t {
	case BoolType:
		var b bool
		if err := json.Unmarshal(raw.Value, &b); err != nil {
			return err
		}
		p.Value = b
	case IntegerType:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("smartcontract: invalid integer parameter %q", s)
		}
		p.Value = n
	case ByteArrayType, SignatureType:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return err
		}
		if t == SignatureType && len(b) != 64 {
			return errors.New("smartcontract: signature parameter must be 64 bytes")
		}
		p.Value = b
	case StringType:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		p.Value = s
	case Hash160Type:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return err
		}
		h, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return err
		}
		p.Value = h
	case Hash256Type:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return err
		}
		h, err := util.Uint256DecodeBytesBE(b)
		if err != nil {
			return err
		}
		p.Value = h
	case PublicKeyType:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		pub, err := keys.NewPublicKeyFromString(s)
		if err != nil {
			return err
		}
		p.Value = pub
	case ArrayType:
		var items []Parameter
		if err := json.Unmarshal(raw.Value, &items); err != nil {
			return err
		}
		p.Value = items
	case MapType:
		type pairJSON struct {
			Key   Parameter `json:"key"`
			Value Parameter `json:"value"`
		}
		var pairs []pairJSON
		if err := json.Unmarshal(raw.Value, &pairs); err != nil {
			return err
		}
		out := make([]ParameterPair, len(pairs))
		for i, kv := range pairs {
			out[i] = ParameterPair{Key: kv.Key, Value: kv.Value}
		}
		p.Value = out
	default:
		return fmt.Errorf("smartcontract: unsupported parameter type %v", t)
	}
	return nil
}
