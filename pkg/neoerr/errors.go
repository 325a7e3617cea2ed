// Package neoerr defines the closed set of tagged error kinds the SDK
// reports as *neoerr.Error; callers can errors.As into it and switch on
// Kind. Not every error is tagged: some lower-level helpers (for example
// in pkg/crypto/keys and pkg/crypto/base58) return plain errors.
package neoerr

import (
	"errors"
	"fmt"
)

// Kind enumerates the closed set of error categories this SDK reports,
// letting callers branch on failure class without parsing error text.
type Kind string

// Error kinds.
const (
	InvalidArgument     Kind = "InvalidArgument"
	InvalidState        Kind = "InvalidState"
	SerializationError  Kind = "SerializationError"
	CryptoError         Kind = "CryptoError"
	TransportError      Kind = "TransportError"
	RPCError            Kind = "RpcError"
	InvocationFault     Kind = "InvocationFault"
	ResourceExhausted   Kind = "ResourceExhausted"
	UnsupportedOperation Kind = "UnsupportedOperation"
)

// Error is the tagged error value returned throughout the SDK.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "Transaction.Sign".
	Op string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap supports errors.Is/errors.As against the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs a tagged error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err's Kind matches kind, unwrapping through any
// wrapping errors.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// RPCErrorDetail carries the fields of a JSON-RPC 2.0 error object.
type RPCErrorDetail struct {
	Code    int64
	Message string
	Data    string
}

// Error implements the error interface for RPCErrorDetail, so it can be
// wrapped as the Err of an *Error of Kind RPCError.
func (d *RPCErrorDetail) Error() string {
	if d.Data != "" {
		return fmt.Sprintf("rpc error %d: %s (%s)", d.Code, d.Message, d.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", d.Code, d.Message)
}

// InvocationFaultDetail carries the NeoVM FAULT state.
type InvocationFaultDetail struct {
	Exception string
	Stack     []string
}

// Error implements the error interface for InvocationFaultDetail.
func (d *InvocationFaultDetail) Error() string {
	return fmt.Sprintf("invocation faulted: %s", d.Exception)
}
