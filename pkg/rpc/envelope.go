package rpc

import (
	json "github.com/nspcc-dev/go-ordered-json"
)

// request is the outgoing JSON-RPC 2.0 envelope. Field order is
// preserved on the wire by go-ordered-json, matching the order a Neo
// node's own JSON output uses, the same way the corpus's manifest and
// NEP-6 round-trips preserve field order.
type request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// rpcError is the {code,message,data?} object a node returns on error.
type rpcError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// response is the incoming JSON-RPC 2.0 envelope: either Result is
// populated, or Error is.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}
