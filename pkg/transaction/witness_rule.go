package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	io "github.com/nspcc-dev/neo-sdk-go/pkg/io"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
)

// WitnessAction is the action a WitnessRule takes when its condition
// matches the executing context.
type WitnessAction byte

const (
	WitnessDeny  WitnessAction = 0
	WitnessAllow WitnessAction = 1
)

func (a WitnessAction) String() string {
	if a == WitnessAllow {
		return "Allow"
	}
	return "Deny"
}

// witnessConditionType tags the concrete WitnessCondition implementation
// for serialization, mirroring the byte values the protocol assigns
// each condition kind.
type witnessConditionType byte

const (
	conditionBoolean       witnessConditionType = 0x00
	conditionNot           witnessConditionType = 0x01
	conditionAnd           witnessConditionType = 0x02
	conditionOr            witnessConditionType = 0x03
	conditionScriptHash    witnessConditionType = 0x18
	conditionGroup         witnessConditionType = 0x19
	conditionCalledByEntry witnessConditionType = 0x20
	conditionCalledByContract witnessConditionType = 0x28
	conditionCalledByGroup witnessConditionType = 0x29
)

// WitnessCondition is the tagged union of conditions a WitnessRule may
// test. The SDK implements the subset used by everyday signer
// construction: CalledByEntry and ScriptHash/Group matching plus the
// boolean combinators, not the full node-side rule language.
type WitnessCondition interface {
	Type() byte
	EncodeBinary(w *io.BinWriter)
	jsonFields() map[string]interface{}
}

// ConditionCalledByEntry matches when the witness is being checked for
// the entry (top-level) script of the transaction.
type ConditionCalledByEntry struct{}

func (ConditionCalledByEntry) Type() byte { return byte(conditionCalledByEntry) }
func (ConditionCalledByEntry) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(conditionCalledByEntry))
}
func (ConditionCalledByEntry) jsonFields() map[string]interface{} {
	return map[string]interface{}{"type": "CalledByEntry"}
}

// ConditionScriptHash matches when the calling contract's hash equals Hash.
type ConditionScriptHash struct {
	Hash util.Uint160
}

func (ConditionScriptHash) Type() byte { return byte(conditionScriptHash) }
func (c ConditionScriptHash) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(conditionScriptHash))
	w.WriteBytes(c.Hash.BytesLE())
}
func (c ConditionScriptHash) jsonFields() map[string]interface{} {
	return map[string]interface{}{"type": "ScriptHash", "hash": "0x" + c.Hash.String()}
}

// ConditionGroup matches when the calling contract belongs to the group
// identified by PublicKey.
type ConditionGroup struct {
	PublicKey []byte
}

func (ConditionGroup) Type() byte { return byte(conditionGroup) }
func (c ConditionGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(conditionGroup))
	w.WriteBytes(c.PublicKey)
}
func (c ConditionGroup) jsonFields() map[string]interface{} {
	return map[string]interface{}{"type": "Group", "group": hexEncode(c.PublicKey)}
}

// ConditionNot negates Condition.
type ConditionNot struct {
	Condition WitnessCondition
}

func (ConditionNot) Type() byte { return byte(conditionNot) }
func (c ConditionNot) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(conditionNot))
	c.Condition.EncodeBinary(w)
}
func (c ConditionNot) jsonFields() map[string]interface{} {
	return map[string]interface{}{"type": "Not", "expression": conditionToJSON(c.Condition)}
}

// ConditionAnd requires every sub-condition to match.
type ConditionAnd struct {
	Conditions []WitnessCondition
}

func (ConditionAnd) Type() byte { return byte(conditionAnd) }
func (c ConditionAnd) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(conditionAnd))
	w.WriteVarUint(uint64(len(c.Conditions)))
	for _, sub := range c.Conditions {
		sub.EncodeBinary(w)
	}
}
func (c ConditionAnd) jsonFields() map[string]interface{} {
	exprs := make([]interface{}, len(c.Conditions))
	for i, sub := range c.Conditions {
		exprs[i] = conditionToJSON(sub)
	}
	return map[string]interface{}{"type": "And", "expressions": exprs}
}

// ConditionOr requires at least one sub-condition to match.
type ConditionOr struct {
	Conditions []WitnessCondition
}

func (ConditionOr) Type() byte { return byte(conditionOr) }
func (c ConditionOr) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(conditionOr))
	w.WriteVarUint(uint64(len(c.Conditions)))
	for _, sub := range c.Conditions {
		sub.EncodeBinary(w)
	}
}
func (c ConditionOr) jsonFields() map[string]interface{} {
	exprs := make([]interface{}, len(c.Conditions))
	for i, sub := range c.Conditions {
		exprs[i] = conditionToJSON(sub)
	}
	return map[string]interface{}{"type": "Or", "expressions": exprs}
}

func conditionToJSON(c WitnessCondition) map[string]interface{} {
	return c.jsonFields()
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = digits[v>>4]
		out[i*2+1] = digits[v&0xf]
	}
	return string(out)
}

// decodeWitnessCondition reads a WitnessCondition from r, recursing into
// nested conditions for And/Or/Not.
func decodeWitnessCondition(r *io.BinReader) WitnessCondition {
	if r.Err != nil {
		return nil
	}
	t := witnessConditionType(r.ReadB())
	switch t {
	case conditionCalledByEntry:
		return ConditionCalledByEntry{}
	case conditionScriptHash:
		b := make([]byte, util.Uint160Size)
		r.ReadBytes(b)
		h, err := util.Uint160DecodeBytesLE(b)
		if err != nil && r.Err == nil {
			r.Err = err
		}
		return ConditionScriptHash{Hash: h}
	case conditionGroup, conditionCalledByGroup:
		b := make([]byte, 33)
		r.ReadBytes(b)
		return ConditionGroup{PublicKey: b}
	case conditionNot:
		return ConditionNot{Condition: decodeWitnessCondition(r)}
	case conditionAnd:
		n := r.ReadVarUint()
		conds := make([]WitnessCondition, 0, n)
		for i := uint64(0); i < n && r.Err == nil; i++ {
			conds = append(conds, decodeWitnessCondition(r))
		}
		return ConditionAnd{Conditions: conds}
	case conditionOr:
		n := r.ReadVarUint()
		conds := make([]WitnessCondition, 0, n)
		for i := uint64(0); i < n && r.Err == nil; i++ {
			conds = append(conds, decodeWitnessCondition(r))
		}
		return ConditionOr{Conditions: conds}
	default:
		r.Err = fmt.Errorf("transaction: unsupported witness condition type %#x", byte(t))
		return nil
	}
}

// WitnessRule pairs an Action with the Condition that triggers it,
// evaluated against a Signer's CustomContracts/Rules scope.
type WitnessRule struct {
	Action    WitnessAction
	Condition WitnessCondition
}

// EncodeBinary writes r per the wire layout: 1 action byte, then the
// condition's own tagged encoding.
func (r WitnessRule) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(r.Action))
	r.Condition.EncodeBinary(w)
}

// DecodeWitnessRule reads a WitnessRule from r.
func DecodeWitnessRule(br *io.BinReader) (WitnessRule, error) {
	action := WitnessAction(br.ReadB())
	if br.Err != nil {
		return WitnessRule{}, br.Err
	}
	if action != WitnessAllow && action != WitnessDeny {
		return WitnessRule{}, errors.New("transaction: invalid witness rule action")
	}
	cond := decodeWitnessCondition(br)
	if br.Err != nil {
		return WitnessRule{}, br.Err
	}
	return WitnessRule{Action: action, Condition: cond}, nil
}

// MarshalJSON implements json.Marshaler.
func (r WitnessRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"action":    r.Action.String(),
		"condition": conditionToJSON(r.Condition),
	})
}
