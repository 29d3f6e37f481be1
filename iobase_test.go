package guitarpro

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	w := newWriter()
	w.writeByte(0xfe)
	w.writeSignedByte(-3)
	w.writeBool(true)
	w.writeShort(-12345)
	w.writeInt(-123456789)
	w.writeDouble(0.5)
	r := newReader(bytes.NewReader(w.buf.Bytes()))
	if got := r.readByte(); got != 0xfe {
		t.Fatalf("readByte got %v, expected 254", got)
	}
	if got := r.readSignedByte(); got != -3 {
		t.Fatalf("readSignedByte got %v, expected -3", got)
	}
	if got := r.readBool(); !got {
		t.Fatalf("readBool got false, expected true")
	}
	if got := r.readShort(); got != -12345 {
		t.Fatalf("readShort got %v, expected -12345", got)
	}
	if got := r.readInt(); got != -123456789 {
		t.Fatalf("readInt got %v, expected -123456789", got)
	}
	if got := r.readDouble(); got != 0.5 {
		t.Fatalf("readDouble got %v, expected 0.5", got)
	}
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}
}

func TestStringRoundTrip(t *testing.T) {
	w := newWriter()
	w.writeByteSizeString("Track 1", 40)
	w.writeIntByteSizeString("Café del Mar")
	w.writeIntSizeString("plain")
	if w.err != nil {
		t.Fatalf("unexpected write error: %v", w.err)
	}
	r := newReader(bytes.NewReader(w.buf.Bytes()))
	if got := r.readByteSizeString(40); got != "Track 1" {
		t.Fatalf("readByteSizeString got %q, expected %q", got, "Track 1")
	}
	if got := r.readIntByteSizeString(); got != "Café del Mar" {
		t.Fatalf("readIntByteSizeString got %q, expected %q", got, "Café del Mar")
	}
	if got := r.readIntSizeString(); got != "plain" {
		t.Fatalf("readIntSizeString got %q, expected %q", got, "plain")
	}
	if r.err != nil {
		t.Fatalf("unexpected read error: %v", r.err)
	}
}

func TestByteSizeStringTruncates(t *testing.T) {
	w := newWriter()
	long := "this name is longer than the field it goes into"
	w.writeByteSizeString(long, 8)
	if got := w.buf.Len(); got != 9 {
		t.Fatalf("field length got %v, expected 9", got)
	}
	r := newReader(bytes.NewReader(w.buf.Bytes()))
	if got := r.readByteSizeString(8); got != long[:8] {
		t.Fatalf("got %q, expected %q", got, long[:8])
	}
}

func TestLongStringKeepsStreamInSync(t *testing.T) {
	// The one-byte length field cannot state more than 255 bytes;
	// longer strings are cut there instead of wrapping the length
	// and shifting everything after them.
	long := strings.Repeat("x", 300)
	w := newWriter()
	w.writeIntByteSizeString(long)
	w.writeInt(42)
	r := newReader(bytes.NewReader(w.buf.Bytes()))
	if got := r.readIntByteSizeString(); got != long[:255] {
		t.Fatalf("got %d chars, expected 255", len(got))
	}
	if got := r.readInt(); got != 42 {
		t.Fatalf("value after the string got %v, expected 42", got)
	}
	if r.err != nil {
		t.Fatalf("unexpected read error: %v", r.err)
	}
}

func TestTruncatedInput(t *testing.T) {
	r := newReader(bytes.NewReader([]byte{1, 2}))
	r.readInt()
	var trunc TruncatedInputError
	if !errors.As(r.err, &trunc) {
		t.Fatalf("got %v, expected TruncatedInputError", r.err)
	}
	if trunc.Want != 4 || trunc.Got != 2 {
		t.Fatalf("got want %v got %v, expected 4 and 2", trunc.Want, trunc.Got)
	}
	// errors stay sticky
	if got := r.readByte(); got != 0 {
		t.Fatalf("read after error got %v, expected 0", got)
	}
}

func TestReadByteOrToleratesEOF(t *testing.T) {
	r := newReader(bytes.NewReader(nil))
	if got := r.readByteOr(7); got != 7 {
		t.Fatalf("got %v, expected 7", got)
	}
	if r.err != nil {
		t.Fatalf("error should be cleared, got %v", r.err)
	}
}

func TestChannelShortRoundTrip(t *testing.T) {
	for _, value := range []int{0, 8, 16, 64, 104, 128} {
		if got := toChannelShort(fromChannelShort(value)); got != value {
			t.Fatalf("channel short %v round-tripped to %v", value, got)
		}
	}
}

func TestVelocityRoundTrip(t *testing.T) {
	for velocity := MinVelocity; velocity < 127; velocity += VelocityIncrement {
		if got := unpackVelocity(packVelocity(velocity)); got != velocity {
			t.Fatalf("velocity %v round-tripped to %v", velocity, got)
		}
	}
}
