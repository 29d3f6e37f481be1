package guitarpro

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"golang.org/x/text/encoding/charmap"
)

// Strings in tablature files use an 8-bit charset, cp1252 in every file
// the official editor produces.
var tabCharset = charmap.Windows1252

// Bend points are stored with position in sixtieths of the beat duration
// and value in quarter-tone 25ths of a semitone.
const (
	bendPosition = 60
	bendSemitone = 25
)

// reader decodes the primitive values all dialects are built from.
// Errors are sticky: after the first failure every read returns a zero
// value and the error is reported once at a record boundary.
type reader struct {
	r   io.Reader
	off int64
	err error
}

func newReader(r io.Reader) *reader {
	return &reader{r: r}
}

func (r *reader) bytes(n int) []byte {
	if n < 0 {
		n = 0
	}
	if r.err != nil || n == 0 {
		return make([]byte, n)
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(r.r, buf)
	r.off += int64(got)
	if err != nil {
		r.err = TruncatedInputError{Offset: r.off - int64(got), Want: n, Got: got}
		return make([]byte, n)
	}
	return buf
}

func (r *reader) skip(n int) { r.bytes(n) }

func (r *reader) readByte() int       { return int(r.bytes(1)[0]) }
func (r *reader) readSignedByte() int { return int(int8(r.bytes(1)[0])) }
func (r *reader) readBool() bool      { return r.bytes(1)[0] != 0 }

func (r *reader) readShort() int {
	return int(int16(binary.LittleEndian.Uint16(r.bytes(2))))
}

func (r *reader) readInt() int {
	return int(int32(binary.LittleEndian.Uint32(r.bytes(4))))
}

func (r *reader) readFloat() float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(r.bytes(4))))
}

func (r *reader) readDouble() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(r.bytes(8)))
}

// readByteOr reads a byte but tolerates end of input, returning def.
// A few trailing records are absent in real files.
func (r *reader) readByteOr(def int) int {
	if r.err != nil {
		return def
	}
	b := r.readByte()
	var trunc TruncatedInputError
	if errors.As(r.err, &trunc) {
		r.err = nil
		return def
	}
	return b
}

// readString reads a string of length chars occupying size bytes on the
// wire. The trailing padding is skipped.
func (r *reader) readString(size, length int) string {
	count := size
	if size <= 0 {
		count = length
	}
	raw := r.bytes(count)
	if length >= 0 && length < len(raw) {
		raw = raw[:length]
	}
	return decodeTabString(raw)
}

// readByteSizeString reads a string whose length is stored in one byte,
// occupying size bytes after the length byte.
func (r *reader) readByteSizeString(size int) string {
	length := r.readByte()
	return r.readString(size, length)
}

// readIntSizeString reads a string prefixed with its byte length as an
// integer.
func (r *reader) readIntSizeString() string {
	return r.readString(r.readInt(), -1)
}

// readIntByteSizeString reads a string prefixed with its length plus one
// as an integer, then the length again in one byte.
func (r *reader) readIntByteSizeString() string {
	d := r.readInt() - 1
	return r.readByteSizeString(d)
}

func (r *reader) readVersion() string {
	return r.readByteSizeString(30)
}

func (r *reader) malformed(record, reason string) {
	if r.err == nil {
		r.err = MalformedRecordError{Offset: r.off, Record: record, Reason: reason}
	}
}

func decodeTabString(raw []byte) string {
	s, err := tabCharset.NewDecoder().Bytes(raw)
	if err != nil {
		// The charmap decoder substitutes rather than fails.
		return string(raw)
	}
	return string(s)
}

// writer encodes primitive values into an in-memory buffer, so a failed
// write leaves the destination untouched. Errors are sticky like the
// reader's.
type writer struct {
	buf bytes.Buffer
	err error
}

func newWriter() *writer {
	return &writer{}
}

func (w *writer) placeholder(n int) {
	w.buf.Write(make([]byte, n))
}

func (w *writer) writeByte(v int)       { w.buf.WriteByte(byte(v)) }
func (w *writer) writeSignedByte(v int) { w.buf.WriteByte(byte(int8(v))) }

func (w *writer) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *writer) writeShort(v int) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(int16(v)))
	w.buf.Write(b[:])
}

func (w *writer) writeInt(v int) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(int32(v)))
	w.buf.Write(b[:])
}

func (w *writer) writeFloat(v float64) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(v)))
	w.buf.Write(b[:])
}

func (w *writer) writeDouble(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

func (w *writer) encode(s string) []byte {
	raw, err := tabCharset.NewEncoder().Bytes([]byte(s))
	if err != nil {
		if w.err == nil {
			w.err = EncodingError{Str: s}
		}
		return nil
	}
	return raw
}

// writeString writes the string padded with zero bytes to size bytes.
// Strings longer than size are truncated; with size < 0 no padding is
// added.
func (w *writer) writeString(s string, size int) {
	raw := w.encode(s)
	if size >= 0 && len(raw) > size {
		raw = raw[:size]
	}
	w.buf.Write(raw)
	if size > len(raw) {
		w.placeholder(size - len(raw))
	}
}

// writeByteSizeString writes the string behind a one-byte length,
// padded to size bytes. Strings longer than the field, or than the 255
// bytes the length byte can state, are truncated.
func (w *writer) writeByteSizeString(s string, size int) {
	raw := w.encode(s)
	if size >= 0 && len(raw) > size {
		raw = raw[:size]
	}
	if len(raw) > 255 {
		raw = raw[:255]
	}
	w.writeByte(len(raw))
	w.buf.Write(raw)
	if size > len(raw) {
		w.placeholder(size - len(raw))
	}
}

func (w *writer) writeIntSizeString(s string) {
	raw := w.encode(s)
	w.writeInt(len(raw))
	w.buf.Write(raw)
}

func (w *writer) writeIntByteSizeString(s string) {
	raw := w.encode(s)
	if len(raw) > 255 {
		raw = raw[:255]
	}
	w.writeInt(len(raw) + 1)
	w.writeByte(len(raw))
	w.buf.Write(raw)
}

func (w *writer) writeVersion(v string) {
	w.writeByteSizeString(v, 30)
}
