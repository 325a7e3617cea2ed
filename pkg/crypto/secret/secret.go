// Package secret implements a fixed-length byte container for private key
// material: zeroized on release, compared in constant time, and never
// exposed through String()/GoString() so it cannot leak into logs.
//
// Go offers no portable mlock/VirtualLock without cgo or a platform build
// tag, and no example in the retrieval corpus pins secret memory; pinning
// is therefore out of scope here (see DESIGN.md) and this container
// relies on explicit zeroization plus crypto/subtle for the comparison,
// both stdlib primitives the corpus itself reaches for (crypto/subtle
// appears directly in the pack's own constant-time comparisons).
package secret

import (
	"crypto/subtle"
	"runtime"
)

// Bytes is a fixed-length container for sensitive byte material.
// The zero value is empty; use New or NewFromPassword to populate one.
// A Bytes must not be copied after construction (copying bypasses the
// zeroization guarantee of Destroy); pass pointers.
type Bytes struct {
	buf        []byte
	destroyed  bool
}

// New copies b into a new secret container. The caller's slice is not
// modified; callers that want the original zeroized too should call
// Wipe on it themselves.
func New(b []byte) *Bytes {
	s := &Bytes{buf: make([]byte, len(b))}
	copy(s.buf, b)
	return s
}

// NewFromPassword encodes password as UTF-8 into a new secret container
// through a freshly allocated temporary slice that is zeroized before
// return. No buffer pool is used.
func NewFromPassword(password string) *Bytes {
	tmp := []byte(password)
	s := New(tmp)
	Wipe(tmp)
	return s
}

// Len returns the number of bytes held.
func (s *Bytes) Len() int {
	return len(s.buf)
}

// With invokes fn with the plaintext bytes, guaranteeing the borrow ends
// (no further reference retained by the caller is implied) even if fn
// panics. Do not retain the slice passed to fn past the call.
func (s *Bytes) With(fn func(b []byte)) {
	if s.destroyed {
		panic("secret.Bytes: use after Destroy")
	}
	defer runtime.KeepAlive(s.buf)
	fn(s.buf)
}

// Equal reports whether s and other hold identical bytes, compared in
// constant time regardless of where they first differ.
func (s *Bytes) Equal(other *Bytes) bool {
	if s.Len() != other.Len() {
		return false
	}
	return subtle.ConstantTimeCompare(s.buf, other.buf) == 1
}

// Destroy overwrites the held bytes and marks the container unusable.
// Safe to call more than once. All exit paths of any operation holding
// a secret must reach this, directly or via defer.
func (s *Bytes) Destroy() {
	if s.destroyed {
		return
	}
	Wipe(s.buf)
	s.buf = nil
	s.destroyed = true
}

// String never reveals the contents, so accidental logging/Printf of a
// *Bytes cannot leak key material.
func (s *Bytes) String() string {
	return "secret.Bytes{...}"
}

// GoString mirrors String for %#v formatting.
func (s *Bytes) GoString() string {
	return s.String()
}

// Wipe overwrites b with zeros using a loop the compiler cannot prove is
// dead, then pins b alive long enough for the write to land.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
