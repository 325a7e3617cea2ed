package keys

import (
	"errors"

	"github.com/nspcc-dev/neo-sdk-go/pkg/vm/emit"
	"github.com/nspcc-dev/neo-sdk-go/pkg/vm/opcode"
)

// scriptReader is a tiny forward-only cursor used to recognize the
// handful of fixed verification-script shapes this package builds:
// single-sig and m-of-n multisig. It is not a general NeoVM decoder.
type scriptReader struct {
	b   []byte
	pos int
}

func (r *scriptReader) done() bool { return r.pos >= len(r.b) }

func (r *scriptReader) readByte() (byte, error) {
	if r.pos >= len(r.b) {
		return 0, errors.New("unexpected end of script")
	}
	b := r.b[r.pos]
	r.pos++
	return b, nil
}

func (r *scriptReader) readBytes(n int) ([]byte, error) {
	if r.pos+n > len(r.b) {
		return nil, errors.New("unexpected end of script")
	}
	out := r.b[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// readInt decodes a PUSHM1..PUSH16 or PUSHINT8/16/32 integer push,
// returning its value. Only small non-negative ranges appear in
// multisig thresholds/counts (up to 1024), so wider PUSHINT forms are
// decoded but PUSHINT64/128/256 are rejected as out of range for m/n.
func (r *scriptReader) readInt() (int, error) {
	op, err := r.readByte()
	if err != nil {
		return 0, err
	}
	switch opcode.Opcode(op) {
	case opcode.PUSHM1:
		return -1, nil
	case opcode.PUSHINT8:
		b, err := r.readBytes(1)
		if err != nil {
			return 0, err
		}
		return int(int8(b[0])), nil
	case opcode.PUSHINT16:
		b, err := r.readBytes(2)
		if err != nil {
			return 0, err
		}
		return int(int16(uint16(b[0]) | uint16(b[1])<<8)), nil
	case opcode.PUSHINT32:
		b, err := r.readBytes(4)
		if err != nil {
			return 0, err
		}
		v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		return int(int32(v)), nil
	default:
		if op >= byte(opcode.PUSH0) && op <= byte(opcode.PUSH16) {
			return int(op - byte(opcode.PUSH0)), nil
		}
		return 0, errors.New("not a recognized integer push")
	}
}

// readPushData reads a PUSHDATA1-encoded byte string (the only form
// this package's builders ever emit for 33-byte compressed public
// keys).
func (r *scriptReader) readPushData() ([]byte, error) {
	op, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if opcode.Opcode(op) != opcode.PUSHDATA1 {
		return nil, errors.New("expected PUSHDATA1")
	}
	n, err := r.readByte()
	if err != nil {
		return nil, err
	}
	return r.readBytes(int(n))
}

func (r *scriptReader) expectSyscall(name string) error {
	op, err := r.readByte()
	if err != nil {
		return err
	}
	if opcode.Opcode(op) != opcode.SYSCALL {
		return errors.New("expected SYSCALL")
	}
	want, err := r.readBytes(4)
	if err != nil {
		return err
	}
	id := uint32(want[0]) | uint32(want[1])<<8 | uint32(want[2])<<16 | uint32(want[3])<<24
	if id != emit.InteropHash(name) {
		return errors.New("unexpected interop id")
	}
	return nil
}

// ParseMultiSigContract recovers m and the sorted public keys (whose
// count is n) from a multisig
// verification script of the form this package builds: PUSHINT(m),
// each pubkey (ascending order), PUSHINT(n), SYSCALL(CheckMultisig).
func ParseMultiSigContract(script []byte) (m int, pubs PublicKeys, err error) {
	r := &scriptReader{b: script}
	m, err = r.readInt()
	if err != nil {
		return 0, nil, err
	}
	var keysOut PublicKeys
	for {
		save := r.pos
		data, perr := r.readPushData()
		if perr != nil {
			r.pos = save
			break
		}
		pk, perr := NewPublicKeyFromBytes(data)
		if perr != nil {
			return 0, nil, perr
		}
		keysOut = append(keysOut, pk)
	}
	n, err := r.readInt()
	if err != nil {
		return 0, nil, err
	}
	if n != len(keysOut) {
		return 0, nil, errors.New("multisig n does not match number of encoded keys")
	}
	if m < 1 || m > n {
		return 0, nil, errors.New("multisig m out of range")
	}
	if err := r.expectSyscall(SyscallCheckMultisig); err != nil {
		return 0, nil, err
	}
	if !r.done() {
		return 0, nil, errors.New("trailing bytes after multisig script")
	}
	return m, keysOut, nil
}

// IsMultiSigContract reports whether script parses as a multisig
// verification script.
func IsMultiSigContract(script []byte) bool {
	_, _, err := ParseMultiSigContract(script)
	return err == nil
}

// ParseSignatureContract recovers the single public key from a
// single-signature verification script (PUSHDATA1 pubkey SYSCALL(CheckSig)).
func ParseSignatureContract(script []byte) (*PublicKey, error) {
	r := &scriptReader{b: script}
	data, err := r.readPushData()
	if err != nil {
		return nil, err
	}
	pk, err := NewPublicKeyFromBytes(data)
	if err != nil {
		return nil, err
	}
	if err := r.expectSyscall(SyscallCheckSig); err != nil {
		return nil, err
	}
	if !r.done() {
		return nil, errors.New("trailing bytes after signature script")
	}
	return pk, nil
}
