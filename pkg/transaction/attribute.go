package transaction

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	io "github.com/nspcc-dev/neo-sdk-go/pkg/io"
)

// AttrType tags the concrete payload carried by an Attribute.
type AttrType byte

const (
	HighPriorityT   AttrType = 0x01
	OracleResponseT AttrType = 0x11
)

// MaxAttributes bounds the number of attributes a transaction may carry,
// and the combined limit of at most one HighPriority and one
// OracleResponse attribute.
const MaxAttributes = 16

// OracleResponseCode is the status an oracle node reports alongside its
// response payload.
type OracleResponseCode byte

const (
	OracleSuccess           OracleResponseCode = 0x00
	OracleProtocolNotSupported OracleResponseCode = 0x10
	OracleConsensusUnreachable OracleResponseCode = 0x12
	OracleNotFound          OracleResponseCode = 0x14
	OracleTimeout           OracleResponseCode = 0x16
	OracleForbidden         OracleResponseCode = 0x18
	OracleResponseTooLarge  OracleResponseCode = 0x1a
	OracleInsufficientFunds OracleResponseCode = 0x1c
	OracleContentTypeNotSupported OracleResponseCode = 0x1f
	OracleError             OracleResponseCode = 0xff
)

// OracleResponse is the payload of an OracleResponseT attribute: the
// request id it answers, its status code, and the (possibly empty)
// result bytes.
type OracleResponse struct {
	ID     uint64
	Code   OracleResponseCode
	Result []byte
}

// MaxOracleResultSize bounds an oracle response's result payload.
const MaxOracleResultSize = 0xffff

// Attribute is a transaction attribute: HighPriority carries no payload,
// OracleResponse carries an OracleResponse.
type Attribute struct {
	Type  AttrType
	Value interface{} // nil for HighPriorityT, *OracleResponse for OracleResponseT
}

// HighPriorityAttribute builds a HighPriority attribute.
func HighPriorityAttribute() Attribute {
	return Attribute{Type: HighPriorityT}
}

// NewOracleResponseAttribute builds an OracleResponse attribute.
func NewOracleResponseAttribute(id uint64, code OracleResponseCode, result []byte) Attribute {
	return Attribute{Type: OracleResponseT, Value: &OracleResponse{ID: id, Code: code, Result: result}}
}

// EncodeBinary writes a's type byte followed by its payload, if any.
func (a *Attribute) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(a.Type))
	switch a.Type {
	case HighPriorityT:
	case OracleResponseT:
		v := a.Value.(*OracleResponse)
		w.WriteU64LE(v.ID)
		w.WriteB(byte(v.Code))
		w.WriteVarBytes(v.Result)
	}
}

// DecodeBinary reads an Attribute from r.
func (a *Attribute) DecodeBinary(r *io.BinReader) {
	a.Type = AttrType(r.ReadB())
	if r.Err != nil {
		return
	}
	switch a.Type {
	case HighPriorityT:
		a.Value = nil
	case OracleResponseT:
		v := &OracleResponse{}
		v.ID = r.ReadU64LE()
		v.Code = OracleResponseCode(r.ReadB())
		v.Result = r.ReadVarBytes(MaxOracleResultSize)
		a.Value = v
	default:
		r.Err = fmt.Errorf("transaction: unknown attribute type %#x", byte(a.Type))
	}
}

// MarshalJSON implements json.Marshaler.
func (a Attribute) MarshalJSON() ([]byte, error) {
	switch a.Type {
	case HighPriorityT:
		return json.Marshal(map[string]interface{}{"type": "HighPriority"})
	case OracleResponseT:
		v := a.Value.(*OracleResponse)
		return json.Marshal(map[string]interface{}{
			"type": "OracleResponse",
			"id":   v.ID,
			"code": v.Code,
			"result": base64.StdEncoding.EncodeToString(v.Result),
		})
	default:
		return nil, fmt.Errorf("transaction: unknown attribute type %#x", byte(a.Type))
	}
}
