// Package io implements the binary codec shared by every wire-serializable
// type in the SDK: fixed-width little-endian integers plus the canonical
// Neo variable-length encodings (VarInt/VarBytes/VarArray).
package io

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// MaxArraySize is the maximum number of elements a VarArray may declare,
// matching the Neo protocol ceiling used to bound allocation on decode.
const MaxArraySize = 65536

// ErrTruncated is returned when the underlying reader runs out of bytes
// before a value is fully decoded.
var ErrTruncated = errors.New("unexpected EOF")

// ErrMalformedLength is returned when a VarInt-prefixed length exceeds
// the protocol ceiling, or, for VarBytes read from an in-memory buffer
// (NewBinReaderFromBuf), the number of bytes that remain in it.
var ErrMalformedLength = errors.New("malformed length")

// Serializable is implemented by every type with a canonical wire form.
type Serializable interface {
	EncodeBinary(w *BinWriter)
	DecodeBinary(r *BinReader)
}

// BinReader reads primitives and Neo variable-length encodings from an
// underlying io.Reader, latching the first error it sees (subsequent
// calls become no-ops so callers can chain reads and check Err once).
type BinReader struct {
	r   io.Reader
	Err error
}

// NewBinReaderFromIO creates a BinReader from any io.Reader.
func NewBinReaderFromIO(ior io.Reader) *BinReader {
	return &BinReader{r: ior}
}

// NewBinReaderFromBuf creates a BinReader over an in-memory byte slice.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return NewBinReaderFromIO(bytes.NewReader(b))
}

func (r *BinReader) readBytes(buf []byte) {
	if r.Err != nil {
		return
	}
	_, err := io.ReadFull(r.r, buf)
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			err = ErrTruncated
		}
		r.Err = err
	}
}

// ReadB reads a single byte.
func (r *BinReader) ReadB() byte {
	var b [1]byte
	r.readBytes(b[:])
	return b[0]
}

// ReadBytes fills buf entirely with no length prefix, for fixed-size
// fields like Uint160/Uint256.
func (r *BinReader) ReadBytes(buf []byte) {
	r.readBytes(buf)
}

// ReadBool reads a single byte as a boolean.
func (r *BinReader) ReadBool() bool {
	return r.ReadB() != 0
}

// ReadU16LE reads a little-endian uint16.
func (r *BinReader) ReadU16LE() uint16 {
	var b [2]byte
	r.readBytes(b[:])
	return binary.LittleEndian.Uint16(b[:])
}

// ReadU32LE reads a little-endian uint32.
func (r *BinReader) ReadU32LE() uint32 {
	var b [4]byte
	r.readBytes(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// ReadU64LE reads a little-endian uint64.
func (r *BinReader) ReadU64LE() uint64 {
	var b [8]byte
	r.readBytes(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// ReadI64LE reads a little-endian int64.
func (r *BinReader) ReadI64LE() int64 {
	return int64(r.ReadU64LE())
}

// ReadVarUint reads the canonical 1/3/5/9-byte VarInt form gated on
// 0xFD/0xFE/0xFF prefix bytes.
func (r *BinReader) ReadVarUint() uint64 {
	if r.Err != nil {
		return 0
	}
	b := r.ReadB()
	switch b {
	case 0xfd:
		return uint64(r.ReadU16LE())
	case 0xfe:
		return uint64(r.ReadU32LE())
	case 0xff:
		return r.ReadU64LE()
	default:
		return uint64(b)
	}
}

// ReadVarBytes reads a VarInt length prefix followed by that many bytes.
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.ReadVarUint()
	limit := uint64(math.MaxInt32)
	if len(maxSize) != 0 {
		limit = uint64(maxSize[0])
	}
	if r.Err != nil {
		return nil
	}
	if n > limit {
		r.Err = ErrMalformedLength
		return nil
	}
	if br, ok := r.r.(*bytes.Reader); ok && n > uint64(br.Len()) {
		r.Err = ErrMalformedLength
		return nil
	}
	b := make([]byte, n)
	r.readBytes(b)
	return b
}

// ReadString reads a VarBytes-prefixed UTF-8 string.
func (r *BinReader) ReadString(maxSize ...int) string {
	return string(r.ReadVarBytes(maxSize...))
}

// ReadArray reads a VarInt count followed by that many elements decoded
// by newElement/DecodeBinary. newElement must return a fresh Serializable
// each call.
func (r *BinReader) ReadArray(newElement func() Serializable, maxSize ...int) []Serializable {
	n := r.ReadVarUint()
	limit := uint64(MaxArraySize)
	if len(maxSize) != 0 {
		limit = uint64(maxSize[0])
	}
	if r.Err != nil {
		return nil
	}
	if n > limit {
		r.Err = ErrMalformedLength
		return nil
	}
	items := make([]Serializable, 0, n)
	for i := uint64(0); i < n && r.Err == nil; i++ {
		el := newElement()
		el.DecodeBinary(r)
		items = append(items, el)
	}
	return items
}

// BinWriter writes primitives and Neo variable-length encodings to an
// underlying io.Writer, latching the first error it sees.
type BinWriter struct {
	w   io.Writer
	Err error
}

// NewBinWriterFromIO creates a BinWriter over any io.Writer.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// BufBinWriter is a BinWriter backed by an in-memory, growable buffer.
type BufBinWriter struct {
	*BinWriter
	buf *bufio.Writer
	bin *bytes.Buffer
}

// NewBufBinWriter creates a BufBinWriter.
func NewBufBinWriter() *BufBinWriter {
	b := new(bytes.Buffer)
	buf := bufio.NewWriter(b)
	return &BufBinWriter{
		BinWriter: NewBinWriterFromIO(buf),
		buf:       buf,
		bin:       b,
	}
}

// Len flushes the buffer and returns the number of bytes written so far.
func (bw *BufBinWriter) Len() int {
	_ = bw.buf.Flush()
	return bw.bin.Len()
}

// Bytes flushes and returns a copy of the accumulated bytes, or nil if
// an error occurred mid-write.
func (bw *BufBinWriter) Bytes() []byte {
	if bw.Err != nil {
		return nil
	}
	_ = bw.buf.Flush()
	b := bw.bin.Bytes()
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Reset resets the BufBinWriter to an empty state, for reuse.
func (bw *BufBinWriter) Reset() {
	bw.Err = nil
	bw.bin.Reset()
	bw.buf.Reset(bw.bin)
}

func (w *BinWriter) writeBytes(b []byte) {
	if w.Err != nil {
		return
	}
	_, err := w.w.Write(b)
	if err != nil {
		w.Err = err
	}
}

// WriteB writes a single byte.
func (w *BinWriter) WriteB(b byte) {
	w.writeBytes([]byte{b})
}

// WriteBytes writes b verbatim with no length prefix, for fixed-size
// fields like Uint160/Uint256.
func (w *BinWriter) WriteBytes(b []byte) {
	w.writeBytes(b)
}

// WriteBool writes a single byte, 1 for true and 0 for false.
func (w *BinWriter) WriteBool(b bool) {
	if b {
		w.WriteB(1)
	} else {
		w.WriteB(0)
	}
}

// WriteU16LE writes a little-endian uint16.
func (w *BinWriter) WriteU16LE(u16 uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], u16)
	w.writeBytes(b[:])
}

// WriteU32LE writes a little-endian uint32.
func (w *BinWriter) WriteU32LE(u32 uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], u32)
	w.writeBytes(b[:])
}

// WriteU64LE writes a little-endian uint64.
func (w *BinWriter) WriteU64LE(u64 uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], u64)
	w.writeBytes(b[:])
}

// WriteI64LE writes a little-endian int64.
func (w *BinWriter) WriteI64LE(i64 int64) {
	w.WriteU64LE(uint64(i64))
}

// WriteVarUint writes the canonical 1/3/5/9-byte VarInt form.
func (w *BinWriter) WriteVarUint(val uint64) {
	if w.Err != nil {
		return
	}
	switch {
	case val < 0xfd:
		w.WriteB(byte(val))
	case val <= math.MaxUint16:
		w.WriteB(0xfd)
		w.WriteU16LE(uint16(val))
	case val <= math.MaxUint32:
		w.WriteB(0xfe)
		w.WriteU32LE(uint32(val))
	default:
		w.WriteB(0xff)
		w.WriteU64LE(val)
	}
}

// WriteVarBytes writes a VarInt length prefix followed by b.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.writeBytes(b)
}

// WriteString writes s as UTF-8 bytes with a VarInt length prefix.
func (w *BinWriter) WriteString(s string) {
	w.WriteVarBytes([]byte(s))
}

// WriteArray writes a VarInt count followed by each element's
// EncodeBinary output, in order.
func (w *BinWriter) WriteArray(arr ...Serializable) {
	w.WriteVarUint(uint64(len(arr)))
	for _, el := range arr {
		if w.Err != nil {
			return
		}
		el.EncodeBinary(w)
	}
}
