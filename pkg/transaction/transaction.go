// Package transaction implements the Neo N3 transaction wire format:
// signers with their witness scopes, attributes, witnesses, and the
// hashing rules used to compute a transaction's id and its
// network-specific signing digest.
package transaction

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/hash"
	io "github.com/nspcc-dev/neo-sdk-go/pkg/io"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
)

// CurrentVersion is the only transaction version the protocol accepts.
const CurrentVersion uint8 = 0

// MaxScriptSize bounds a transaction's entry script.
const MaxScriptSize = 65536

// MaxTransactionSize bounds a transaction's complete serialized size
// (signers, attributes, script, and witnesses together) at 102,400
// bytes, the ceiling consensus nodes enforce before relaying it.
const MaxTransactionSize = 102400

// Transaction is a signed (or not-yet-signed) Neo N3 transaction.
type Transaction struct {
	Version         uint8
	Nonce           uint32
	SystemFee       int64
	NetworkFee      int64
	ValidUntilBlock uint32
	Signers         []Signer
	Attributes      []Attribute
	Script          []byte
	Witnesses       []Witness
}

// New builds a Transaction with CurrentVersion and no witnesses yet.
func New(script []byte, systemFee, networkFee int64, validUntilBlock, nonce uint32, signers []Signer, attrs []Attribute) *Transaction {
	return &Transaction{
		Version:         CurrentVersion,
		Nonce:           nonce,
		SystemFee:       systemFee,
		NetworkFee:      networkFee,
		ValidUntilBlock: validUntilBlock,
		Signers:         signers,
		Attributes:      attrs,
		Script:          script,
	}
}

// Validate checks the structural invariants a well-formed transaction
// must satisfy before it is hashed or sent: at least one signer, no
// duplicate signer accounts, consistent signer scopes, attribute
// cardinality limits, and a non-empty script within size bounds.
func (t *Transaction) Validate() error {
	if len(t.Signers) == 0 {
		return errors.New("transaction: at least one signer is required")
	}
	if len(t.Signers) > MaxSigners {
		return fmt.Errorf("transaction: too many signers (%d)", len(t.Signers))
	}
	seen := make(map[util.Uint160]struct{}, len(t.Signers))
	for i := range t.Signers {
		s := &t.Signers[i]
		if _, dup := seen[s.Account]; dup {
			return fmt.Errorf("transaction: duplicate signer account %s", s.Account.StringLE())
		}
		seen[s.Account] = struct{}{}
		if err := s.validate(); err != nil {
			return err
		}
	}
	if len(t.Attributes) > MaxAttributes {
		return fmt.Errorf("transaction: too many attributes (%d)", len(t.Attributes))
	}
	var highPriority, oracleResponse int
	for _, a := range t.Attributes {
		switch a.Type {
		case HighPriorityT:
			highPriority++
		case OracleResponseT:
			oracleResponse++
		}
	}
	if highPriority > 1 {
		return errors.New("transaction: at most one HighPriority attribute is allowed")
	}
	if oracleResponse > 1 {
		return errors.New("transaction: at most one OracleResponse attribute is allowed")
	}
	if len(t.Script) == 0 {
		return errors.New("transaction: script is required")
	}
	if len(t.Script) > MaxScriptSize {
		return fmt.Errorf("transaction: script exceeds %d bytes", MaxScriptSize)
	}
	if size := len(t.Bytes()); size > MaxTransactionSize {
		return fmt.Errorf("transaction: serialized size %d exceeds %d bytes", size, MaxTransactionSize)
	}
	return nil
}

func (t *Transaction) encodeUnsigned(w *io.BinWriter) {
	w.WriteB(t.Version)
	w.WriteU32LE(t.Nonce)
	w.WriteI64LE(t.SystemFee)
	w.WriteI64LE(t.NetworkFee)
	w.WriteU32LE(t.ValidUntilBlock)

	w.WriteVarUint(uint64(len(t.Signers)))
	for i := range t.Signers {
		t.Signers[i].EncodeBinary(w)
	}

	w.WriteVarUint(uint64(len(t.Attributes)))
	for i := range t.Attributes {
		t.Attributes[i].EncodeBinary(w)
	}

	w.WriteVarBytes(t.Script)
}

// EncodeBinary writes the complete wire form: the unsigned body
// followed by the witness list.
func (t *Transaction) EncodeBinary(w *io.BinWriter) {
	t.encodeUnsigned(w)
	w.WriteVarUint(uint64(len(t.Witnesses)))
	for i := range t.Witnesses {
		t.Witnesses[i].EncodeBinary(w)
	}
}

// DecodeBinary reads a Transaction from r.
func (t *Transaction) DecodeBinary(r *io.BinReader) {
	t.Version = r.ReadB()
	if r.Err == nil && t.Version != CurrentVersion {
		r.Err = fmt.Errorf("transaction: unsupported version %d", t.Version)
		return
	}
	t.Nonce = r.ReadU32LE()
	t.SystemFee = r.ReadI64LE()
	t.NetworkFee = r.ReadI64LE()
	t.ValidUntilBlock = r.ReadU32LE()

	nSigners := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nSigners == 0 {
		r.Err = errors.New("transaction: at least one signer is required")
		return
	}
	if nSigners > MaxSigners {
		r.Err = fmt.Errorf("transaction: too many signers (%d)", nSigners)
		return
	}
	t.Signers = make([]Signer, nSigners)
	for i := range t.Signers {
		t.Signers[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}

	nAttrs := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nAttrs > MaxAttributes {
		r.Err = fmt.Errorf("transaction: too many attributes (%d)", nAttrs)
		return
	}
	t.Attributes = make([]Attribute, nAttrs)
	for i := range t.Attributes {
		t.Attributes[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}

	t.Script = r.ReadVarBytes(MaxScriptSize)
	if r.Err != nil {
		return
	}
	if len(t.Script) == 0 {
		r.Err = errors.New("transaction: script is required")
		return
	}

	nWitnesses := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	t.Witnesses = make([]Witness, nWitnesses)
	for i := range t.Witnesses {
		t.Witnesses[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}
}

// unsignedBytes returns the canonical unsigned wire encoding used to
// compute both Hash and SigningDigest.
func (t *Transaction) unsignedBytes() []byte {
	var buf bytes.Buffer
	w := io.NewBinWriterFromIO(&buf)
	t.encodeUnsigned(w)
	return buf.Bytes()
}

// UnsignedBytes is the exported counterpart of unsignedBytes, used by
// offline signing contexts (pkg/smartcontract/context) that need the
// signable body before any witness exists.
func (t *Transaction) UnsignedBytes() []byte {
	return t.unsignedBytes()
}

// Bytes returns the complete (signed) wire encoding.
func (t *Transaction) Bytes() []byte {
	var buf bytes.Buffer
	w := io.NewBinWriterFromIO(&buf)
	t.EncodeBinary(w)
	return buf.Bytes()
}

// Hash returns the transaction id: the byte-reversal of SHA256 of the
// unsigned body. SHA256 produces a digest in the order it was computed;
// Neo's hash types store and print their bytes big-endian, so the raw
// digest bytes are decoded as little-endian to flip them into that
// display form — the same convention DecodeBinary uses for every other
// hash field read off the wire.
func (t *Transaction) Hash() util.Uint256 {
	raw := hash.Sha256(t.unsignedBytes())
	h, _ := util.Uint256DecodeBytesLE(raw.BytesBE())
	return h
}

// SigningMessage returns the bytes every witness signs: the
// little-endian network magic followed by the unsigned body. Pass this
// to keys.PrivateKey.Sign/PublicKey.Verify directly — they hash it
// themselves, so callers must never pre-hash it first.
func (t *Transaction) SigningMessage(networkMagic uint32) []byte {
	var buf bytes.Buffer
	var magic [4]byte
	binary.LittleEndian.PutUint32(magic[:], networkMagic)
	buf.Write(magic[:])
	buf.Write(t.unsignedBytes())
	return buf.Bytes()
}

// SigningDigest returns SHA256(SigningMessage(networkMagic)), the
// digest value itself (for display or APIs that expect an
// already-hashed message, e.g. the secp256k1 recovery helpers).
func (t *Transaction) SigningDigest(networkMagic uint32) util.Uint256 {
	return hash.Sha256(t.SigningMessage(networkMagic))
}

// MarshalJSON implements json.Marshaler in the RPC transaction shape.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	if len(t.Signers) == 0 {
		return nil, errors.New("transaction: cannot marshal without a sender signer")
	}
	h := t.Hash()
	return json.Marshal(map[string]interface{}{
		"hash":            "0x" + h.String(),
		"size":            len(t.Bytes()),
		"version":         t.Version,
		"nonce":           t.Nonce,
		"sender":          "0x" + t.Signers[0].Account.String(),
		"sysfee":          fmt.Sprintf("%d", t.SystemFee),
		"netfee":          fmt.Sprintf("%d", t.NetworkFee),
		"validuntilblock": t.ValidUntilBlock,
		"signers":         t.Signers,
		"attributes":      t.Attributes,
		"script":          base64.StdEncoding.EncodeToString(t.Script),
		"witnesses":       t.Witnesses,
	})
}
