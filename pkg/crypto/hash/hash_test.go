package hash

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSha256(t *testing.T) {
	h := Sha256([]byte("hello"))
	expected, err := hex.DecodeString("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824")
	require.NoError(t, err)
	assert.Equal(t, expected, h.BytesBE())
}

func TestHash160KnownAnswer(t *testing.T) {
	// Single-byte script 0x41 (SYSCALL), the script of the transaction
	// id test vector.
	h := Hash160([]byte{0x41})
	assert.Len(t, h.BytesBE(), 20)
	assert.Equal(t, "6ebb1a03e5a035dd08605491085e58f05449188d", h.String())
}

func TestChecksumLength(t *testing.T) {
	c := Checksum([]byte("payload"))
	assert.Len(t, c, 4)
}

func TestHMACSHA256(t *testing.T) {
	mac1 := HMACSHA256([]byte("key"), []byte("data"))
	mac2 := HMACSHA256([]byte("key"), []byte("data"))
	assert.Equal(t, mac1, mac2)
	mac3 := HMACSHA256([]byte("otherkey"), []byte("data"))
	assert.NotEqual(t, mac1, mac3)
}

func TestCachePutGet(t *testing.T) {
	c, err := NewCache(10, 1<<20, 0)
	require.NoError(t, err)
	c.Put("a", []byte{1, 2, 3})
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCacheTTLExpiry(t *testing.T) {
	c, err := NewCache(10, 1<<20, time.Millisecond)
	require.NoError(t, err)
	c.Put("a", []byte{1})
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCacheByteBound(t *testing.T) {
	c, err := NewCache(100, 10, 0)
	require.NoError(t, err)
	c.Put("a", make([]byte, 6))
	c.Put("b", make([]byte, 6))
	// Inserting b should have pushed total bytes over budget and
	// evicted the oldest entry (a).
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}
