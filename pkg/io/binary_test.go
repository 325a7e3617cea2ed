package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteU64LE(t *testing.T) {
	var (
		val     uint64 = 0xbadc0de15a11dead
		readval uint64
		bin            = []byte{0xad, 0xde, 0x11, 0x5a, 0xe1, 0x0d, 0xdc, 0xba}
	)
	bw := NewBufBinWriter()
	bw.WriteU64LE(val)
	assert.Nil(t, bw.Err)
	assert.Equal(t, bin, bw.Bytes())

	br := NewBinReaderFromBuf(bin)
	readval = br.ReadU64LE()
	assert.Nil(t, br.Err)
	assert.Equal(t, val, readval)
}

func TestWriteU32LE(t *testing.T) {
	var val uint32 = 0xdeadbeef
	bin := []byte{0xef, 0xbe, 0xad, 0xde}
	bw := NewBufBinWriter()
	bw.WriteU32LE(val)
	assert.Equal(t, bin, bw.Bytes())

	br := NewBinReaderFromBuf(bin)
	assert.Equal(t, val, br.ReadU32LE())
}

func TestVarUintEncoding(t *testing.T) {
	cases := []struct {
		val uint64
		enc []byte
	}{
		{0, []byte{0x00}},
		{0xfc, []byte{0xfc}},
		{0xfd, []byte{0xfd, 0xfd, 0x00}},
		{0xffff, []byte{0xfd, 0xff, 0xff}},
		{0x10000, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}},
		{0xffffffff, []byte{0xfe, 0xff, 0xff, 0xff, 0xff}},
		{0x100000000, []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
	}
	for _, c := range cases {
		bw := NewBufBinWriter()
		bw.WriteVarUint(c.val)
		assert.Equal(t, c.enc, bw.Bytes())

		br := NewBinReaderFromBuf(c.enc)
		assert.Equal(t, c.val, br.ReadVarUint())
		assert.NoError(t, br.Err)
	}
}

func TestVarBytesRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox")
	bw := NewBufBinWriter()
	bw.WriteVarBytes(data)
	br := NewBinReaderFromBuf(bw.Bytes())
	assert.Equal(t, data, br.ReadVarBytes())
	assert.NoError(t, br.Err)
}

func TestReadVarBytesMalformedLength(t *testing.T) {
	// Declares a length far larger than the maxSize ceiling.
	bw := NewBufBinWriter()
	bw.WriteVarUint(1000)
	bw.writeBytes(make([]byte, 10))
	br := NewBinReaderFromBuf(bw.Bytes())
	br.ReadVarBytes(100)
	require.ErrorIs(t, br.Err, ErrMalformedLength)
}

func TestReadTruncated(t *testing.T) {
	br := NewBinReaderFromBuf([]byte{0x01})
	_ = br.ReadU32LE()
	require.ErrorIs(t, br.Err, ErrTruncated)
}

func TestWriteArray(t *testing.T) {
	type fakeSer struct{ val byte }
	items := []Serializable{}
	vals := []byte{1, 2, 3}
	for _, v := range vals {
		items = append(items, &testByteSer{v})
	}
	bw := NewBufBinWriter()
	bw.WriteArray(items...)
	br := NewBinReaderFromBuf(bw.Bytes())
	out := br.ReadArray(func() Serializable { return new(testByteSer) })
	require.NoError(t, br.Err)
	require.Len(t, out, 3)
	for i, el := range out {
		assert.Equal(t, vals[i], el.(*testByteSer).val)
	}
}

type testByteSer struct{ val byte }

func (t *testByteSer) EncodeBinary(w *BinWriter) { w.WriteB(t.val) }
func (t *testByteSer) DecodeBinary(r *BinReader) { t.val = r.ReadB() }
