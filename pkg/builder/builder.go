// Package builder orchestrates the dry-run -> fee-calculation ->
// signing -> send pipeline that turns a script and a set of signers
// into a submitted Neo N3 transaction, in the sequence a node requires
// to accept it: system fee and network fee must both be known before
// anything is signed, and nothing may be signed twice.
package builder

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-sdk-go/pkg/config"
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-sdk-go/pkg/neoerr"
	"github.com/nspcc-dev/neo-sdk-go/pkg/rpc"
	"github.com/nspcc-dev/neo-sdk-go/pkg/transaction"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
	"github.com/nspcc-dev/neo-sdk-go/pkg/wallet"
	"go.uber.org/zap"
)

// Builder accumulates the pieces of an unsent transaction and drives
// it through the node round-trips needed to submit it: a dry run to
// discover system fee, a placeholder-witness pass to discover network
// fee, signing, and submission.
type Builder struct {
	client *rpc.Client
	opts   config.Options
	wallet *wallet.Wallet
	log    *zap.Logger

	version              uint8
	nonce                uint32
	nonceSet             bool
	validUntilBlock      uint32
	validUntilBlockSet   bool
	signers              []transaction.Signer
	attributes           []transaction.Attribute
	script               bytes.Buffer
	additionalSystemFee  int64
	additionalNetworkFee int64

	networkMagic    uint32
	networkMagicSet bool
}

// New builds a Builder that drives client using opts, pulling
// signing keys from w (nil is valid for unsigned-transaction
// construction, e.g. building a ContractParametersContext for
// offline/multi-party signing instead).
func New(client *rpc.Client, opts config.Options, w *wallet.Wallet, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	if client != nil && opts.AddressVersion != 0 {
		client.SetAddressVersion(opts.AddressVersion)
	}
	b := &Builder{client: client, opts: opts, wallet: w, log: log, version: transaction.CurrentVersion}
	if opts.NetworkMagicSet {
		b.networkMagic = opts.NetworkMagic
		b.networkMagicSet = true
	}
	return b
}

// Version overrides the default transaction version (0).
func (b *Builder) Version(v uint8) *Builder {
	b.version = v
	return b
}

// Nonce sets an explicit nonce, overriding the cryptographically
// random default GetUnsignedTransaction otherwise generates.
func (b *Builder) Nonce(n uint32) *Builder {
	b.nonce = n
	b.nonceSet = true
	return b
}

// ValidUntilBlock sets an explicit expiry height, overriding the
// currentHeight+MaxValidUntilBlockIncrement-1 default.
func (b *Builder) ValidUntilBlock(v uint32) *Builder {
	b.validUntilBlock = v
	b.validUntilBlockSet = true
	return b
}

// Signers replaces the builder's signer list wholesale.
func (b *Builder) Signers(signers []transaction.Signer) *Builder {
	b.signers = signers
	return b
}

// FirstSigner prepends a sender signer, the convention Neo uses to
// identify the fee-paying account: it becomes signers[0] if not
// already the first entry (this only fixes up position 0, leaving the
// relative order of any other signers untouched).
func (b *Builder) FirstSigner(account util.Uint160, scope transaction.WitnessScope) *Builder {
	for i, s := range b.signers {
		if s.Account == account {
			b.signers = append(b.signers[:i], b.signers[i+1:]...)
			break
		}
	}
	b.signers = append([]transaction.Signer{{Account: account, Scopes: scope}}, b.signers...)
	return b
}

// Attributes replaces the builder's attribute list wholesale.
func (b *Builder) Attributes(attrs []transaction.Attribute) *Builder {
	b.attributes = attrs
	return b
}

// Script replaces the accumulated invocation script with script.
func (b *Builder) Script(script []byte) *Builder {
	b.script.Reset()
	b.script.Write(script)
	return b
}

// ExtendScript appends script to whatever has already been
// accumulated, letting callers chain several contract calls into one
// transaction.
func (b *Builder) ExtendScript(script []byte) *Builder {
	b.script.Write(script)
	return b
}

// AdditionalSystemFee adds a caller-chosen margin on top of the
// dry-run's gasConsumed, e.g. to cover a contract whose execution cost
// is data-dependent in a way the dry run's state snapshot may not
// foresee.
func (b *Builder) AdditionalSystemFee(fee int64) *Builder {
	b.additionalSystemFee += fee
	return b
}

// AdditionalNetworkFee adds a caller-chosen margin on top of the
// node-computed network fee.
func (b *Builder) AdditionalNetworkFee(fee int64) *Builder {
	b.additionalNetworkFee += fee
	return b
}

// validateScopes checks every signer's scope/subitem consistency
// before any RPC round-trip is made, so a malformed signer fails fast
// instead of burning a dry-run call against the node.
func (b *Builder) validateScopes() error {
	if len(b.signers) == 0 {
		return errors.New("builder: at least one signer is required")
	}
	seen := make(map[util.Uint160]struct{}, len(b.signers))
	for _, s := range b.signers {
		if _, dup := seen[s.Account]; dup {
			return fmt.Errorf("builder: duplicate signer account %s", s.Account.StringLE())
		}
		seen[s.Account] = struct{}{}
		if s.Scopes&transaction.Global != 0 && s.Scopes != transaction.Global {
			return fmt.Errorf("builder: signer %s combines Global with other scopes", s.Account.StringLE())
		}
		if s.Scopes&transaction.CustomContracts != 0 && len(s.AllowedContracts) == 0 {
			return fmt.Errorf("builder: signer %s sets CustomContracts with no allowed contracts", s.Account.StringLE())
		}
		if s.Scopes&transaction.CustomGroups != 0 && len(s.AllowedGroups) == 0 {
			return fmt.Errorf("builder: signer %s sets CustomGroups with no allowed groups", s.Account.StringLE())
		}
		if len(s.AllowedContracts) > transaction.MaxSignerSubitems ||
			len(s.AllowedGroups) > transaction.MaxSignerSubitems ||
			len(s.Rules) > transaction.MaxSignerSubitems {
			return fmt.Errorf("builder: signer %s exceeds %d subitems", s.Account.StringLE(), transaction.MaxSignerSubitems)
		}
	}
	return nil
}

// resolveNetworkMagic resolves the signing network magic, discovering it via
// getversion when the builder wasn't constructed with one configured.
func (b *Builder) resolveNetworkMagic(ctx context.Context) (uint32, error) {
	if b.networkMagicSet {
		return b.networkMagic, nil
	}
	v, err := b.client.GetVersion(ctx)
	if err != nil {
		return 0, err
	}
	b.networkMagic = v.Protocol.Network
	b.networkMagicSet = true
	return b.networkMagic, nil
}

// DryRun issues invokescript against the accumulated script and
// signers, raising InvocationFault on a FAULT state unless
// opts.AllowTransmissionOnFault is set.
func (b *Builder) DryRun(ctx context.Context) (*rpc.InvocationResult, error) {
	if b.script.Len() == 0 {
		return nil, neoerr.New(neoerr.InvalidState, "Builder.DryRun", errors.New("no script set"))
	}
	res, err := b.client.InvokeScript(ctx, b.script.Bytes(), b.signers)
	if err != nil {
		return nil, err
	}
	if res.State == "FAULT" && !b.opts.AllowTransmissionOnFault {
		return res, neoerr.New(neoerr.InvocationFault, "Builder.DryRun",
			&neoerr.InvocationFaultDetail{Exception: res.FaultException})
	}
	return res, nil
}

func randomUint32() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// placeholderWitness returns a correctly-sized all-zero witness for
// acc, so the fee-calculation pass sees a transaction of the same byte
// length the real signed one will have.
func placeholderWitness(acc *wallet.Account) (transaction.Witness, error) {
	if acc.Contract == nil {
		return transaction.Witness{}, errors.New("builder: signer account has no verification script")
	}
	if m, _, err := keys.ParseMultiSigContract(acc.Contract.Script); err == nil {
		sigs := make([][]byte, m)
		for i := range sigs {
			sigs[i] = make([]byte, 64)
		}
		return transaction.MultiSigWitness(acc.Contract.Script, sigs), nil
	}
	if pub, err := keys.ParseSignatureContract(acc.Contract.Script); err == nil {
		return transaction.SingleSigWitness(pub, make([]byte, 64)), nil
	}
	return transaction.Witness{}, errors.New("builder: signer account's verification script is not recognized")
}

// GetUnsignedTransaction assembles a Transaction with every default
// filled in: nonce (CSPRNG), validUntilBlock
// (currentHeight+MaxValidUntilBlockIncrement-1), systemFee (from
// DryRun), and networkFee (from calculatenetworkfee against a
// placeholder-witnessed copy, which is then stripped before returning).
func (b *Builder) GetUnsignedTransaction(ctx context.Context) (*transaction.Transaction, error) {
	if err := b.validateScopes(); err != nil {
		return nil, neoerr.New(neoerr.InvalidArgument, "Builder.GetUnsignedTransaction", err)
	}
	dryRun, err := b.DryRun(ctx)
	if err != nil {
		return nil, err
	}

	nonce := b.nonce
	if !b.nonceSet {
		nonce, err = randomUint32()
		if err != nil {
			return nil, neoerr.New(neoerr.CryptoError, "Builder.GetUnsignedTransaction", err)
		}
	}

	validUntil := b.validUntilBlock
	if !b.validUntilBlockSet {
		height, err := b.client.GetBlockCount(ctx)
		if err != nil {
			return nil, err
		}
		inc := b.opts.MaxValidUntilBlockIncrement
		if inc == 0 {
			inc = config.DefaultMaxValidUntilBlockIncrement
		}
		validUntil = height + inc - 1
	}

	tx := transaction.New(b.script.Bytes(), dryRun.GasConsumed.Int64()+b.additionalSystemFee,
		0, validUntil, nonce, b.signers, b.attributes)
	tx.Version = b.version

	if err := tx.Validate(); err != nil {
		return nil, neoerr.New(neoerr.InvalidArgument, "Builder.GetUnsignedTransaction", err)
	}

	placeholders := make([]transaction.Witness, len(tx.Signers))
	for i, s := range tx.Signers {
		acc := b.accountFor(s.Account)
		if acc == nil {
			return nil, neoerr.New(neoerr.InvalidState, "Builder.GetUnsignedTransaction",
				fmt.Errorf("no wallet account for signer %s", s.Account.StringLE()))
		}
		w, err := placeholderWitness(acc)
		if err != nil {
			return nil, neoerr.New(neoerr.InvalidArgument, "Builder.GetUnsignedTransaction", err)
		}
		placeholders[i] = w
	}
	tx.Witnesses = placeholders
	netFee, err := b.client.CalculateNetworkFee(ctx, tx.Bytes())
	if err != nil {
		return nil, err
	}
	tx.NetworkFee = netFee + b.additionalNetworkFee
	tx.Witnesses = nil

	return tx, nil
}

func (b *Builder) accountFor(scriptHash util.Uint160) *wallet.Account {
	if b.wallet == nil {
		return nil
	}
	return b.wallet.GetAccount(scriptHash)
}

// Sign signs tx for every signer, in signer order, with keys from the
// builder's wallet: a single-sig account's own key, or, for a multi-sig
// account, the keys of wallet accounts that are among its participants
// (the first m of them in script order). It returns an InvalidState
// error, and no partially signed transaction, when a signer has no
// wallet account, its account is watch-only or has no key loaded, or
// the wallet holds fewer than m participant keys for a multi-sig signer.
func (b *Builder) Sign(ctx context.Context, tx *transaction.Transaction) (*transaction.Transaction, error) {
	if b.wallet == nil {
		return nil, neoerr.New(neoerr.InvalidState, "Builder.Sign", errors.New("builder has no wallet to sign with"))
	}
	magic, err := b.resolveNetworkMagic(ctx)
	if err != nil {
		return nil, err
	}
	msg := tx.SigningMessage(magic)

	witnesses := make([]transaction.Witness, len(tx.Signers))
	for i, s := range tx.Signers {
		acc := b.accountFor(s.Account)
		if acc == nil {
			return nil, neoerr.New(neoerr.InvalidState, "Builder.Sign",
				fmt.Errorf("no wallet account for signer %s", s.Account.StringLE()))
		}
		w, err := b.signWith(acc, msg)
		if err != nil {
			return nil, err
		}
		witnesses[i] = w
	}
	tx.Witnesses = witnesses
	return tx, nil
}

func (b *Builder) signWith(acc *wallet.Account, msg []byte) (transaction.Witness, error) {
	if acc.Contract == nil {
		return transaction.Witness{}, neoerr.New(neoerr.InvalidState, "Builder.Sign",
			fmt.Errorf("account %s is watch-only and cannot sign", acc.Address))
	}
	if m, pubs, err := keys.ParseMultiSigContract(acc.Contract.Script); err == nil {
		var sigs [][]byte
		for _, p := range pubs {
			for _, other := range b.wallet.Accounts {
				if priv := other.PrivateKey(); priv != nil && len(sigs) < m && priv.PublicKey().Equal(p) {
					sigs = append(sigs, priv.Sign(msg))
					break
				}
			}
		}
		if len(sigs) < m {
			return transaction.Witness{}, neoerr.New(neoerr.InvalidState, "Builder.Sign",
				fmt.Errorf("account %s: wallet holds only %d of %d required multisig signatures", acc.Address, len(sigs), m))
		}
		return transaction.MultiSigWitness(acc.Contract.Script, sigs), nil
	}
	priv := acc.PrivateKey()
	if priv == nil {
		return transaction.Witness{}, neoerr.New(neoerr.InvalidState, "Builder.Sign",
			fmt.Errorf("account %s has no key loaded (locked or watch-only)", acc.Address))
	}
	sig := priv.Sign(msg)
	return transaction.SingleSigWitness(priv.PublicKey(), sig), nil
}

// Send submits tx via sendrawtransaction and returns the accepted
// transaction's hash.
func (b *Builder) Send(ctx context.Context, tx *transaction.Transaction) (util.Uint256, error) {
	if len(tx.Witnesses) != len(tx.Signers) {
		return util.Uint256{}, neoerr.New(neoerr.InvalidState, "Builder.Send",
			errors.New("transaction has unsigned signers"))
	}
	res, err := b.client.SendRawTransaction(ctx, tx.Bytes())
	if err != nil {
		return util.Uint256{}, err
	}
	return res.Hash, nil
}

// SignAndSend is the common-case terminal: build, sign, and submit in
// one call.
func (b *Builder) SignAndSend(ctx context.Context) (*transaction.Transaction, util.Uint256, error) {
	tx, err := b.GetUnsignedTransaction(ctx)
	if err != nil {
		return nil, util.Uint256{}, err
	}
	tx, err = b.Sign(ctx, tx)
	if err != nil {
		return nil, util.Uint256{}, err
	}
	hash, err := b.Send(ctx, tx)
	if err != nil {
		return nil, util.Uint256{}, err
	}
	return tx, hash, nil
}
