// Package emit implements the lowest-level NeoVM opcode emitters: single
// instructions and minimally-encoded integer/byte-array pushes. The
// script builder (pkg/smartcontract.Builder) composes these into
// invocation, verification, and contract-hash scripts.
package emit

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math/big"

	"github.com/nspcc-dev/neo-sdk-go/pkg/vm/opcode"
)

// Opcode writes a single opcode byte with no operand.
func Opcode(w io.Writer, op opcode.Opcode) {
	_, _ = w.Write([]byte{byte(op)})
}

// Instruction writes an opcode followed by a raw operand.
func Instruction(w io.Writer, op opcode.Opcode, operand []byte) {
	Opcode(w, op)
	if len(operand) > 0 {
		_, _ = w.Write(operand)
	}
}

// Bool pushes a NeoVM boolean, PUSH1 for true and PUSH0 for false (a
// NeoVM boolean is the integer 0 or 1).
func Bool(w io.Writer, ok bool) {
	if ok {
		Opcode(w, opcode.PUSH1)
	} else {
		Opcode(w, opcode.PUSH0)
	}
}

// Int pushes an integer using the smallest available encoding: the
// single-byte PUSHM1..PUSH16 constants for -1..16, otherwise the
// minimal two's-complement little-endian form via PUSHINT8/16/32/64/128/256.
func Int(w io.Writer, n int64) {
	BigInt(w, big.NewInt(n))
}

// BigInt is the arbitrary-precision counterpart of Int, used for
// ContractParameter Integer values that may exceed 64 bits.
func BigInt(w io.Writer, n *big.Int) {
	if n.IsInt64() {
		v := n.Int64()
		if v >= -1 && v <= 16 {
			Opcode(w, opcode.PUSHM1+opcode.Opcode(v+1))
			return
		}
	}
	b := twosComplementLE(n)
	op, size := pushintOpFor(len(b))
	padded := make([]byte, size)
	copy(padded, b)
	if n.Sign() < 0 {
		for i := len(b); i < size; i++ {
			padded[i] = 0xff
		}
	}
	Instruction(w, op, padded)
}

func pushintOpFor(n int) (opcode.Opcode, int) {
	switch {
	case n <= 1:
		return opcode.PUSHINT8, 1
	case n <= 2:
		return opcode.PUSHINT16, 2
	case n <= 4:
		return opcode.PUSHINT32, 4
	case n <= 8:
		return opcode.PUSHINT64, 8
	case n <= 16:
		return opcode.PUSHINT128, 16
	default:
		return opcode.PUSHINT256, 32
	}
}

// twosComplementLE returns the minimal little-endian two's-complement
// encoding of n.
func twosComplementLE(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{0}
	}
	var mag *big.Int
	neg := n.Sign() < 0
	if neg {
		// two's complement: ~(-n-1) over the minimal byte width.
		mag = new(big.Int).Neg(n)
		nbytes := (new(big.Int).Sub(mag, big.NewInt(1)).BitLen() + 8) / 8 // room for the sign bit
		mask := new(big.Int).Lsh(big.NewInt(1), uint(nbytes*8))
		comp := new(big.Int).Sub(mask, mag)
		return leBytes(comp, nbytes)
	}
	nbytes := n.BitLen()/8 + 1
	return leBytes(n, nbytes)
}

func leBytes(n *big.Int, size int) []byte {
	be := n.Bytes()
	if len(be) < size {
		padded := make([]byte, size)
		copy(padded[size-len(be):], be)
		be = padded
	} else if len(be) > size {
		be = be[len(be)-size:]
	}
	out := make([]byte, size)
	for i := 0; i < size; i++ {
		out[i] = be[size-1-i]
	}
	return out
}

// Bytes pushes a byte slice via PUSHDATA1/2/4, choosing the smallest
// length-prefix form that fits the payload.
func Bytes(w io.Writer, b []byte) {
	n := len(b)
	switch {
	case n < 0x100:
		Opcode(w, opcode.PUSHDATA1)
		_, _ = w.Write([]byte{byte(n)})
	case n < 0x10000:
		Opcode(w, opcode.PUSHDATA2)
		var lb [2]byte
		binary.LittleEndian.PutUint16(lb[:], uint16(n))
		_, _ = w.Write(lb[:])
	default:
		Opcode(w, opcode.PUSHDATA4)
		var lb [4]byte
		binary.LittleEndian.PutUint32(lb[:], uint32(n))
		_, _ = w.Write(lb[:])
	}
	_, _ = w.Write(b)
}

// String pushes a UTF-8 string via Bytes.
func String(w io.Writer, s string) {
	Bytes(w, []byte(s))
}

// InteropHash computes the 4-byte little-endian interop id used by
// SYSCALL, the first 4 bytes of SHA256(name).
func InteropHash(name string) uint32 {
	h := sha256.Sum256([]byte(name))
	return binary.LittleEndian.Uint32(h[:4])
}

// Syscall emits SYSCALL followed by the 4-byte interop id of name.
func Syscall(w io.Writer, name string) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], InteropHash(name))
	Instruction(w, opcode.SYSCALL, b[:])
}

// Call emits a CALL_L to a relative 4-byte little-endian offset.
func Call(w io.Writer, offset int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(offset))
	Instruction(w, opcode.CALL_L, b[:])
}

// Jump emits a relative 4-byte jump of the given kind (JMP_L, JMPIF_L,
// or JMPIFNOT_L) to offset, measured from the start of the jump
// instruction itself per NeoVM convention.
func Jump(w io.Writer, op opcode.Opcode, offset int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(offset))
	Instruction(w, op, b[:])
}

// Array pushes each element (in reverse order, via pushEl) then PACKs
// them into a NeoVM array: count is pushed automatically by PACK's
// semantics via the element count pushed beforehand.
func Array(w io.Writer, n int, pushEl func(i int)) {
	if n == 0 {
		Opcode(w, opcode.NEWARRAY0)
		return
	}
	for i := n - 1; i >= 0; i-- {
		pushEl(i)
	}
	Int(w, int64(n))
	Opcode(w, opcode.PACK)
}
