package rpc

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-sdk-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
)

// gasAmount decodes the gasconsumed field Neo nodes encode as a
// decimal JSON string (large enough that a plain JSON number would
// risk float precision loss) back into a big.Int-backed value, and
// marshals it the same way. *big.Int's own UnmarshalJSON expects an
// unquoted number and would fail on the node's quoted form.
type gasAmount struct {
	*big.Int
}

func (g *gasAmount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("rpc: decoding gas amount %q", s)
	}
	g.Int = n
	return nil
}

func (g gasAmount) MarshalJSON() ([]byte, error) {
	if g.Int == nil {
		return []byte(`"0"`), nil
	}
	return []byte(`"` + g.String() + `"`), nil
}

// InvocationResult is the result of invokescript/invokefunction: the
// VM's final state, the gas it consumed, and (on HALT) the resulting
// stack, encoded the same way contract invocation parameters are.
type InvocationResult struct {
	State          string                    `json:"state"`
	GasConsumed    gasAmount                 `json:"gasconsumed"`
	Script         []byte                    `json:"script"`
	Stack          []smartcontract.Parameter `json:"stack"`
	FaultException string                    `json:"exception,omitempty"`
	Notifications  []NotificationEvent       `json:"notifications"`
	Session        string                    `json:"session,omitempty"`
	Transaction    []byte                    `json:"tx,omitempty"`
}

// NotificationEvent is one "Notify" event a contract invocation raised.
type NotificationEvent struct {
	ScriptHash util.Uint160             `json:"contract"`
	Name       string                   `json:"eventname"`
	State      []smartcontract.Parameter `json:"state"`
}

// VersionProtocol carries the protocol-constant subset getversion
// returns that this SDK actually consumes.
type VersionProtocol struct {
	Network                     uint32 `json:"network"`
	MSPerBlock                  uint32 `json:"msperblock"`
	MaxValidUntilBlockIncrement uint32 `json:"maxvaliduntilblockincrement"`
	AddressVersion              byte   `json:"addressversion"`
}

// VersionResult is the response to getversion.
type VersionResult struct {
	TCPPort   uint16          `json:"tcpport"`
	WSPort    uint16          `json:"wsport"`
	Nonce     uint32          `json:"nonce"`
	UserAgent string          `json:"useragent"`
	Protocol  VersionProtocol `json:"protocol"`
}

// ContractState is the subset of getcontractstate this SDK consumes:
// enough to resolve a contract's hash and confirm it exists.
type ContractState struct {
	ID         int32          `json:"id"`
	Hash       util.Uint160   `json:"hash"`
	UpdateCounter uint16      `json:"updatecounter"`
}

// ApplicationLog is the response to getapplicationlog: one VM
// execution's outcome, keyed by the triggering container id.
type ApplicationLog struct {
	TxID       util.Uint256        `json:"txid"`
	Executions []ExecutionResult   `json:"executions"`
}

// ExecutionResult is one entry of ApplicationLog.Executions.
type ExecutionResult struct {
	Trigger       string                    `json:"trigger"`
	VMState       string                    `json:"vmstate"`
	GasConsumed   gasAmount                 `json:"gasconsumed"`
	Stack         []smartcontract.Parameter `json:"stack"`
	Notifications []NotificationEvent       `json:"notifications"`
	Exception     string                    `json:"exception,omitempty"`
}

// SendResult is the response to sendrawtransaction: the accepted
// transaction's id.
type SendResult struct {
	Hash util.Uint256 `json:"hash"`
}

// NEP17Balance is one asset entry of a getnep17balances response.
type NEP17Balance struct {
	Asset       util.Uint160 `json:"assethash"`
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	Decimals    string       `json:"decimals"`
	Amount      string       `json:"amount"`
	LastUpdated uint32       `json:"lastupdatedblock"`
}

// NEP17Balances is the response to getnep17balances(address): the
// token tracker RPC family addresses accounts by Base58Check address,
// never by script-hash hex.
type NEP17Balances struct {
	Balances []NEP17Balance `json:"balance"`
	Address  string         `json:"address"`
}

// FindStatesResult is the response to findstates: a page of key/value
// pairs from the MPT state trie plus a flag telling the caller whether
// more pages remain.
type FindStatesResult struct {
	Results    []KeyValue `json:"results"`
	FirstProof []byte     `json:"firstProof,omitempty"`
	Truncated  bool       `json:"truncated"`
}

// KeyValue is one base64-decoded key/value pair from a findstates page.
type KeyValue struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// PluginInfo is one entry of a listplugins response, used to check
// whether a node advertises the plugin an RPC method requires before
// issuing it — a node missing the plugin rejects the call outright,
// so it's cheaper to check first and fail locally.
type PluginInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Interfaces  []string `json:"interfaces"`
}
