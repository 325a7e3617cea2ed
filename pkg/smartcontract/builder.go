package smartcontract

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-sdk-go/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
	"github.com/nspcc-dev/neo-sdk-go/pkg/vm/emit"
	"github.com/nspcc-dev/neo-sdk-go/pkg/vm/opcode"
)

// SyscallContractCall is the interop name for System.Contract.Call.
const SyscallContractCall = "System.Contract.Call"

// SyscallIteratorNext and SyscallIteratorValue are the interop names
// used by IteratorUnwrapScript to page through a server-side iterator
// entirely on the VM, for nodes that disable iterator sessions.
const (
	SyscallIteratorNext  = "System.Iterator.Next"
	SyscallIteratorValue = "System.Iterator.Value"
)

// Builder accumulates NeoVM bytecode. It is the single low-level
// surface every higher-level script (invocation, verification,
// contract-hash) is built from.
type Builder struct {
	buf bytes.Buffer
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Bytes returns the accumulated script.
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

// EmitOpcode writes a single opcode with no operand.
func (b *Builder) EmitOpcode(op opcode.Opcode) *Builder {
	emit.Opcode(&b.buf, op)
	return b
}

// EmitPushParam pushes p onto the NeoVM stack using the encoding its
// type implies. Array and Map parameters recurse.
func (b *Builder) EmitPushParam(p Parameter) error {
	switch p.Type {
	case AnyType, VoidType:
		emit.Opcode(&b.buf, opcode.PUSHNULL)
	case BoolType:
		emit.Bool(&b.buf, p.Value.(bool))
	case IntegerType:
		emit.BigInt(&b.buf, p.Value.(*big.Int))
	case ByteArrayType, SignatureType:
		emit.Bytes(&b.buf, p.Value.([]byte))
	case StringType:
		emit.String(&b.buf, p.Value.(string))
	case Hash160Type:
		h := p.Value.(util.Uint160)
		emit.Bytes(&b.buf, h.BytesLE())
	case Hash256Type:
		h := p.Value.(util.Uint256)
		emit.Bytes(&b.buf, h.BytesLE())
	case PublicKeyType:
		emit.Bytes(&b.buf, p.Value.(*keys.PublicKey).Bytes())
	case ArrayType:
		return b.emitArray(p.Value.([]Parameter))
	case MapType:
		return b.emitMap(p.Value.([]ParameterPair))
	default:
		return fmt.Errorf("smartcontract: cannot push parameter of type %v", p.Type)
	}
	return nil
}

func (b *Builder) emitArray(items []Parameter) error {
	if len(items) == 0 {
		emit.Opcode(&b.buf, opcode.NEWARRAY0)
		return nil
	}
	for i := len(items) - 1; i >= 0; i-- {
		if err := b.EmitPushParam(items[i]); err != nil {
			return err
		}
	}
	emit.Int(&b.buf, int64(len(items)))
	emit.Opcode(&b.buf, opcode.PACK)
	return nil
}

func (b *Builder) emitMap(pairs []ParameterPair) error {
	for i := len(pairs) - 1; i >= 0; i-- {
		if err := b.EmitPushParam(pairs[i].Value); err != nil {
			return err
		}
		if err := b.EmitPushParam(pairs[i].Key); err != nil {
			return err
		}
	}
	emit.Int(&b.buf, int64(len(pairs)))
	emit.Opcode(&b.buf, opcode.PACKMAP)
	return nil
}

// EmitContractCall appends a System.Contract.Call invocation: the
// params array (reverse-pushed then PACKed), the call-flags byte, the
// method name, the contract hash, then SYSCALL.
func (b *Builder) EmitContractCall(hash util.Uint160, method string, params []Parameter, flags callflag.CallFlag) error {
	if err := b.emitArray(params); err != nil {
		return err
	}
	emit.Int(&b.buf, int64(flags))
	emit.String(&b.buf, method)
	emit.Bytes(&b.buf, hash.BytesLE())
	emit.Syscall(&b.buf, SyscallContractCall)
	return nil
}

// ContractCallScript builds a standalone invocation script calling
// method on hash with params under flags (defaulting callers should
// pass callflag.All).
func ContractCallScript(hash util.Uint160, method string, params []Parameter, flags callflag.CallFlag) ([]byte, error) {
	b := NewBuilder()
	if err := b.EmitContractCall(hash, method, params, flags); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// VerificationScript builds the canonical single-signature
// verification script for pub.
func VerificationScript(pub *keys.PublicKey) []byte {
	return pub.GetVerificationScript()
}

// MultiSigVerificationScript builds the canonical m-of-n multisig
// verification script for pubs, sorted ascending as the protocol
// requires.
func MultiSigVerificationScript(pubs keys.PublicKeys, m int) ([]byte, error) {
	return pubs.CreateMultiSigRedeemScript(m)
}

// ContractHashScript builds the byte sequence whose Hash160 is a
// to-be-deployed contract's address: ABORT (so the sequence can never
// be executed as a real script), followed by the deploying sender,
// the NEF checksum, and the contract name.
func ContractHashScript(sender util.Uint160, nefChecksum uint32, name string) []byte {
	b := NewBuilder()
	b.EmitOpcode(opcode.ABORT)
	emit.Bytes(&b.buf, sender.BytesLE())
	emit.Int(&b.buf, int64(nefChecksum))
	emit.String(&b.buf, name)
	return b.Bytes()
}

// IteratorUnwrapScript emits a contract call followed by a bounded,
// unrolled NeoVM loop that drains the returned iterator into an array
// by repeatedly invoking System.Iterator.Next/Value, for nodes that
// disable iterator sessions. The loop stops after max iterations or
// when the iterator is exhausted, whichever comes first; once
// exhausted, further Next calls keep returning false so the remaining
// unrolled iterations become no-ops.
//
// Per-iteration stack discipline (array below, iterator on top):
//
//	DUP; SYSCALL Next          -> [arr, iter, hasNext]
//	JMPIFNOT_L <next-iter>     -> [arr, iter]
//	DUP; SYSCALL Value         -> [arr, iter, value]
//	ROT                        -> [iter, value, arr]
//	DUP; ROT                   -> [iter, arr, arr, value]
//	APPEND                     -> [iter, arr]   (value appended in place)
//	SWAP                       -> [arr, iter]   (invariant restored)
func IteratorUnwrapScript(hash util.Uint160, method string, params []Parameter, max int, flags callflag.CallFlag) ([]byte, error) {
	if max <= 0 {
		return nil, errors.New("smartcontract: iterator unwrap max must be positive")
	}
	b := NewBuilder()
	if err := b.EmitContractCall(hash, method, params, flags); err != nil {
		return nil, err
	}
	// Stack: [..., iterator]. Establish the [array, iterator] invariant.
	emit.Opcode(&b.buf, opcode.NEWARRAY0)
	emit.Opcode(&b.buf, opcode.SWAP)

	for i := 0; i < max; i++ {
		emit.Opcode(&b.buf, opcode.DUP)
		emit.Syscall(&b.buf, SyscallIteratorNext)
		jmpPos := b.buf.Len()
		emit.Jump(&b.buf, opcode.JMPIFNOT_L, 0) // patched to skip this iteration's body
		emit.Opcode(&b.buf, opcode.DUP)
		emit.Syscall(&b.buf, SyscallIteratorValue)
		emit.Opcode(&b.buf, opcode.ROT)
		emit.Opcode(&b.buf, opcode.DUP)
		emit.Opcode(&b.buf, opcode.ROT)
		emit.Opcode(&b.buf, opcode.APPEND)
		emit.Opcode(&b.buf, opcode.SWAP)
		patchJump(b.buf.Bytes(), jmpPos, b.buf.Len())
	}
	emit.Opcode(&b.buf, opcode.DROP) // drop the iterator, leaving only the array
	return b.Bytes(), nil
}

// patchJump overwrites the 4-byte little-endian operand of the jump
// instruction at pos (pointing at the opcode byte itself) with the
// offset to target, relative to pos per NeoVM jump convention.
func patchJump(script []byte, pos, target int) {
	offset := int32(target - pos)
	script[pos+1] = byte(offset)
	script[pos+2] = byte(offset >> 8)
	script[pos+3] = byte(offset >> 16)
	script[pos+4] = byte(offset >> 24)
}
