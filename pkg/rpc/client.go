package rpc

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-sdk-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-sdk-go/pkg/neoerr"
	"github.com/nspcc-dev/neo-sdk-go/pkg/transaction"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
	"go.uber.org/zap"
)

// Client drives a Neo node's JSON-RPC surface over a Transport,
// generating a unique request id per call and mapping the node's error
// envelope to *neoerr.Error. It is safe for concurrent use.
type Client struct {
	transport  Transport
	log        *zap.Logger
	includeRaw bool

	addressVersion byte
	contractCache  *hash.Cache

	lastRaw string
}

// SetContractStateCache attaches a shared hash.Cache that
// GetContractState consults before issuing getcontractstate: a
// contract's state only changes when it is redeployed, so repeated
// lookups of the same hash within the cache's TTL are served locally.
// A nil cache (the default) disables this and always round-trips to
// the node; the cache is an optimization only, never a correctness
// dependency, so a miss or a disabled cache always falls back cleanly.
func (c *Client) SetContractStateCache(cache *hash.Cache) {
	c.contractCache = cache
}

// NewClient builds a Client driving t. log defaults to zap.NewNop()
// when nil. includeRaw mirrors config.Options.IncludeRawResponses.
func NewClient(t Transport, log *zap.Logger, includeRaw bool) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{transport: t, log: log, includeRaw: includeRaw, addressVersion: address.NEO3Version}
}

// SetAddressVersion overrides the address version this Client uses to
// convert a script hash to the Base58Check address the token-tracker
// RPC family expects on the wire, instead of a script-hash hex string.
// pkg/builder calls this from the configured config.Options at
// construction time.
func (c *Client) SetAddressVersion(v byte) {
	c.addressVersion = v
}

// LastRawResponse returns the most recently received response body, if
// IncludeRawResponses was requested; otherwise it returns "".
func (c *Client) LastRawResponse() string {
	return c.lastRaw
}

// call issues method with params and decodes the result into out (a
// pointer), or returns a *neoerr.Error of Kind RPCError/TransportError/
// SerializationError.
func (c *Client) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	req := request{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	}
	reqBytes, err := json.Marshal(req)
	if err != nil {
		return neoerr.New(neoerr.SerializationError, method, err)
	}

	c.log.Info("rpc call", zap.String("method", method), zap.String("id", req.ID))
	respJSON, err := c.transport.Call(ctx, string(reqBytes))
	if err != nil {
		return neoerr.New(neoerr.TransportError, method, err)
	}
	if c.includeRaw {
		c.lastRaw = respJSON
	}

	var resp response
	if err := json.Unmarshal([]byte(respJSON), &resp); err != nil {
		return neoerr.New(neoerr.SerializationError, method, fmt.Errorf("decoding envelope: %w", err))
	}
	if resp.Error != nil {
		detail := &neoerr.RPCErrorDetail{Code: resp.Error.Code, Message: resp.Error.Message, Data: resp.Error.Data}
		return neoerr.New(neoerr.RPCError, method, detail)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return neoerr.New(neoerr.SerializationError, method, fmt.Errorf("decoding result: %w", err))
	}
	return nil
}

// InvokeScript issues invokescript(base64(script), signers_json) and
// returns the dry-run result, including the FAULT state if any; callers
// inspect InvocationResult.State themselves — a FAULT here is a valid
// script outcome, not an RPC failure, so this never turns it into an
// error. pkg/builder is the layer that decides whether a FAULT should
// abort a build.
func (c *Client) InvokeScript(ctx context.Context, script []byte, signers []transaction.Signer) (*InvocationResult, error) {
	params := []interface{}{base64.StdEncoding.EncodeToString(script)}
	if len(signers) > 0 {
		params = append(params, signers)
	}
	var out InvocationResult
	if err := c.call(ctx, "invokescript", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InvokeFunction issues invokefunction(hash_hex, method, params_json,
// signers_json).
func (c *Client) InvokeFunction(ctx context.Context, contract util.Uint160, method string, args []interface{}, signers []transaction.Signer) (*InvocationResult, error) {
	params := []interface{}{contract.String(), method, args}
	if len(signers) > 0 {
		params = append(params, signers)
	}
	var out InvocationResult
	if err := c.call(ctx, "invokefunction", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendRawTransaction issues sendrawtransaction(base64(raw_tx)).
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (*SendResult, error) {
	var out SendResult
	err := c.call(ctx, "sendrawtransaction", []interface{}{base64.StdEncoding.EncodeToString(raw)}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CalculateNetworkFee issues calculatenetworkfee(base64(raw_tx)) and
// returns the node-computed network fee.
func (c *Client) CalculateNetworkFee(ctx context.Context, raw []byte) (int64, error) {
	var out struct {
		NetworkFee flexibleInt64 `json:"networkfee"`
	}
	err := c.call(ctx, "calculatenetworkfee", []interface{}{base64.StdEncoding.EncodeToString(raw)}, &out)
	if err != nil {
		return 0, err
	}
	return int64(out.NetworkFee), nil
}

// GetBlockCount issues getblockcount().
func (c *Client) GetBlockCount(ctx context.Context) (uint32, error) {
	var out uint32
	if err := c.call(ctx, "getblockcount", nil, &out); err != nil {
		return 0, err
	}
	return out, nil
}

// GetVersion issues getversion().
func (c *Client) GetVersion(ctx context.Context) (*VersionResult, error) {
	var out VersionResult
	if err := c.call(ctx, "getversion", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetContractState issues getcontractstate(hash_hex), serving a cached
// result when a contract-state cache was attached via
// SetContractStateCache and holds a fresh (non-expired) entry for hash.
func (c *Client) GetContractState(ctx context.Context, contractHash util.Uint160) (*ContractState, error) {
	cacheKey := contractHash.String()
	if c.contractCache != nil {
		if cached, ok := c.contractCache.Get(cacheKey); ok {
			var out ContractState
			if err := json.Unmarshal(cached, &out); err == nil {
				return &out, nil
			}
		}
	}
	var out ContractState
	if err := c.call(ctx, "getcontractstate", []interface{}{cacheKey}, &out); err != nil {
		return nil, err
	}
	if c.contractCache != nil {
		if encoded, err := json.Marshal(&out); err == nil {
			c.contractCache.Put(cacheKey, encoded)
		}
	}
	return &out, nil
}

// GetApplicationLog issues getapplicationlog(hash_hex).
func (c *Client) GetApplicationLog(ctx context.Context, txid util.Uint256) (*ApplicationLog, error) {
	var out ApplicationLog
	if err := c.call(ctx, "getapplicationlog", []interface{}{txid.String()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetNEP17Balances issues getnep17balances(address). Unlike most
// methods here, the token-tracker RPC family takes the account's
// Base58Check address rather than a script-hash hex string, so this
// converts account using the Client's configured address version
// before placing it on the wire.
func (c *Client) GetNEP17Balances(ctx context.Context, account util.Uint160) (*NEP17Balances, error) {
	addr := address.Uint160ToString(account, c.addressVersion)
	var out NEP17Balances
	if err := c.call(ctx, "getnep17balances", []interface{}{addr}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStorageByHash issues getstorage(hash_hex, base64(key)) and
// base64-decodes the returned value.
func (c *Client) GetStorageByHash(ctx context.Context, contract util.Uint160, key []byte) ([]byte, error) {
	return c.getStorage(ctx, contract.String(), key)
}

// GetStorageByID issues getstorage(contractID, base64(key)), the
// variant that addresses a contract by its short integer ID instead
// of its script hash.
func (c *Client) GetStorageByID(ctx context.Context, id int32, key []byte) ([]byte, error) {
	return c.getStorage(ctx, id, key)
}

func (c *Client) getStorage(ctx context.Context, contractParam interface{}, key []byte) ([]byte, error) {
	var out []byte
	err := c.call(ctx, "getstorage", []interface{}{contractParam, base64.StdEncoding.EncodeToString(key)}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetState issues getstate(root_hash_hex, contract_hash_hex,
// base64(key)) against the state service plugin, returning the
// base64-decoded stored value for key at state root.
func (c *Client) GetState(ctx context.Context, root util.Uint256, contract util.Uint160, key []byte) ([]byte, error) {
	var out []byte
	params := []interface{}{root.String(), contract.String(), base64.StdEncoding.EncodeToString(key)}
	if err := c.call(ctx, "getstate", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProof issues getproof(root_hash_hex, contract_hash_hex,
// base64(key)) and returns the raw MPT inclusion proof bytes; this SDK
// treats the proof as an opaque blob rather than parsing its trie-node
// structure, which only a node verifying state needs to do.
func (c *Client) GetProof(ctx context.Context, root util.Uint256, contract util.Uint160, key []byte) ([]byte, error) {
	var out struct {
		Proof []byte `json:"proof"`
	}
	params := []interface{}{root.String(), contract.String(), base64.StdEncoding.EncodeToString(key)}
	if err := c.call(ctx, "getproof", params, &out); err != nil {
		return nil, err
	}
	return out.Proof, nil
}

// FindStates issues findstates(root_hash_hex, contract_hash_hex,
// base64(prefix), base64(from)[, count]) against the state service,
// returning one page of key/value pairs under prefix starting after
// from (an empty "from" starts at the beginning).
func (c *Client) FindStates(ctx context.Context, root util.Uint256, contract util.Uint160, prefix, from []byte, count *int) (*FindStatesResult, error) {
	params := []interface{}{
		root.String(), contract.String(),
		base64.StdEncoding.EncodeToString(prefix),
		base64.StdEncoding.EncodeToString(from),
	}
	if count != nil {
		params = append(params, *count)
	}
	var out FindStatesResult
	if err := c.call(ctx, "findstates", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPlugins issues listplugins(), used to confirm a node advertises
// a plugin (e.g. "StateService", "RpcNep17Tracker") before an RPC
// method requiring it is attempted.
func (c *Client) ListPlugins(ctx context.Context) ([]PluginInfo, error) {
	var out []PluginInfo
	if err := c.call(ctx, "listplugins", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RequirePlugin returns a *neoerr.Error of Kind UnsupportedOperation
// if the connected node's listplugins response does not advertise
// name, letting a caller fail fast with a clear diagnostic instead of
// an opaque method-not-found RPC error.
func (c *Client) RequirePlugin(ctx context.Context, op, name string) error {
	plugins, err := c.ListPlugins(ctx)
	if err != nil {
		return err
	}
	for _, p := range plugins {
		if strings.EqualFold(p.Name, name) {
			return nil
		}
	}
	return neoerr.New(neoerr.UnsupportedOperation, op, fmt.Errorf("node does not advertise plugin %q", name))
}

// SubmitBlock issues submitblock with raw's binary encoding. Neo nodes
// have varied across versions in whether they expect this encoding as
// base64 or legacy hex; this always tries base64 first, and only
// retries once with hex if the node's error response has the shape of
// an encoding mismatch (an "Invalid Params" family error code), rather
// than guessing up front.
func (c *Client) SubmitBlock(ctx context.Context, raw []byte) (util.Uint256, error) {
	blockHash, err := c.submitBlock(ctx, base64.StdEncoding.EncodeToString(raw))
	if err == nil || !looksLikeEncodingMismatch(err) {
		return blockHash, err
	}
	return c.submitBlock(ctx, hex.EncodeToString(raw))
}

func (c *Client) submitBlock(ctx context.Context, encoded string) (util.Uint256, error) {
	var out SendResult
	if err := c.call(ctx, "submitblock", []interface{}{encoded}, &out); err != nil {
		return util.Uint256{}, err
	}
	return out.Hash, nil
}

// looksLikeEncodingMismatch reports whether err is a JSON-RPC error in
// the "Invalid Params" family (-32602) or otherwise indicates the node
// rejected the request body's shape, rather than a real protocol
// rejection of block contents.
func looksLikeEncodingMismatch(err error) bool {
	var e *neoerr.Error
	if !errors.As(err, &e) || e.Kind != neoerr.RPCError {
		return false
	}
	detail, ok := e.Err.(*neoerr.RPCErrorDetail)
	if !ok {
		return false
	}
	return detail.Code == -32602 || strings.Contains(strings.ToLower(detail.Message), "invalid params")
}
