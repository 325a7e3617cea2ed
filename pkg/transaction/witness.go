package transaction

import (
	"bytes"
	"encoding/base64"
	"encoding/json"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	io "github.com/nspcc-dev/neo-sdk-go/pkg/io"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
	"github.com/nspcc-dev/neo-sdk-go/pkg/vm/emit"
)

// MaxWitnessSize bounds either script in a Witness, matching the
// protocol's per-field transaction size ceiling.
const MaxWitnessSize = 65536

// Witness carries the invocation and verification scripts that satisfy
// one of a transaction's Signers.
type Witness struct {
	InvocationScript   []byte
	VerificationScript []byte
}

// SingleSigWitness builds the witness for a standard single-signature
// account: an invocation script pushing sig, and pub's verification
// script.
func SingleSigWitness(pub *keys.PublicKey, sig []byte) Witness {
	var buf bytes.Buffer
	emit.Bytes(&buf, sig)
	return Witness{
		InvocationScript:   buf.Bytes(),
		VerificationScript: pub.GetVerificationScript(),
	}
}

// MultiSigWitness builds the witness for an m-of-n multisig account
// from m valid signatures, ordered to match the public keys encoded in
// verificationScript.
func MultiSigWitness(verificationScript []byte, sigs [][]byte) Witness {
	var buf bytes.Buffer
	for _, sig := range sigs {
		emit.Bytes(&buf, sig)
	}
	return Witness{
		InvocationScript:   buf.Bytes(),
		VerificationScript: verificationScript,
	}
}

// EncodeBinary writes w as two VarBytes-prefixed scripts, invocation
// first.
func (w *Witness) EncodeBinary(bw *io.BinWriter) {
	bw.WriteVarBytes(w.InvocationScript)
	bw.WriteVarBytes(w.VerificationScript)
}

// DecodeBinary reads w, rejecting scripts over MaxWitnessSize.
func (w *Witness) DecodeBinary(br *io.BinReader) {
	w.InvocationScript = br.ReadVarBytes(MaxWitnessSize)
	w.VerificationScript = br.ReadVarBytes(MaxWitnessSize)
}

// ScriptHash returns the account this witness's verification script
// corresponds to.
func (w *Witness) ScriptHash() util.Uint160 {
	return hash.Hash160(w.VerificationScript)
}

// MarshalJSON implements json.Marshaler, base64-encoding both scripts.
func (w *Witness) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Invocation   string `json:"invocation"`
		Verification string `json:"verification"`
	}{
		Invocation:   base64.StdEncoding.EncodeToString(w.InvocationScript),
		Verification: base64.StdEncoding.EncodeToString(w.VerificationScript),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *Witness) UnmarshalJSON(data []byte) error {
	var aux struct {
		Invocation   string `json:"invocation"`
		Verification string `json:"verification"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	inv, err := base64.StdEncoding.DecodeString(aux.Invocation)
	if err != nil {
		return err
	}
	ver, err := base64.StdEncoding.DecodeString(aux.Verification)
	if err != nil {
		return err
	}
	w.InvocationScript = inv
	w.VerificationScript = ver
	return nil
}
