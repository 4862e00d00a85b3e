package codec

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf16"
)

// binaryInput is a cursor over a binary skeleton. The first error is
// sticky: later reads return zero values and leave err unchanged.
type binaryInput struct {
	data    []byte
	pos     int
	err     error
	strings []string
	// eventAudio records which events have an audio path; their keys
	// carry volume and balance.
	eventAudio []bool
}

func (in *binaryInput) fail(err error) {
	if in.err == nil {
		in.err = err
	}
}

// invalid fails with err, if any, as malformed input.
func (in *binaryInput) invalid(context string, err error) {
	if err != nil {
		in.fail(fmt.Errorf("%w: %s: %w", ErrInvalidSkeleton, context, err))
	}
}

// enum reads an ordinal of an enumeration with n values.
func (in *binaryInput) enum(n int, kind, context string) int {
	i := in.readVarint(true)
	if in.err == nil && (i < 0 || i >= n) {
		in.fail(invalid(kind, strconv.Itoa(i), context))
		return 0
	}
	return i
}

func (in *binaryInput) next(n int) []byte {
	if in.err != nil {
		return nil
	}
	if n < 0 || len(in.data)-in.pos < n {
		in.fail(fmt.Errorf("%w: %w at offset %d", ErrInvalidSkeleton, io.ErrUnexpectedEOF, in.pos))
		return nil
	}
	b := in.data[in.pos : in.pos+n]
	in.pos += n
	return b
}

func (in *binaryInput) readByte() byte {
	b := in.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (in *binaryInput) readSByte() int { return int(int8(in.readByte())) }

func (in *binaryInput) readBool() bool { return in.readByte() != 0 }

func (in *binaryInput) readShort() int {
	b := in.next(2)
	if b == nil {
		return 0
	}
	return int(int16(binary.BigEndian.Uint16(b)))
}

func (in *binaryInput) readUint32() uint32 {
	b := in.next(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (in *binaryInput) readInt32() int { return int(int32(in.readUint32())) }

func (in *binaryInput) readFloat() float64 {
	return float64(math.Float32frombits(in.readUint32()))
}

// readVarint reads 7 bits per byte, least significant group first, with
// the top bit set on every byte but the last. Values that may be negative
// are zig-zag encoded; optimizePositive skips that step.
func (in *binaryInput) readVarint(optimizePositive bool) int {
	var result uint32
	for shift := 0; shift < 35; shift += 7 {
		b := in.readByte()
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
	}
	if !optimizePositive {
		result = (result >> 1) ^ -(result & 1)
	}
	return int(int32(result))
}

// count reads a non-negative element count. Every element takes at least
// one byte, so larger counts than the remaining input are rejected before
// anything is allocated for them.
func (in *binaryInput) count() int {
	n := in.readVarint(true)
	if in.err != nil {
		return 0
	}
	if n < 0 || n > len(in.data)-in.pos {
		in.fail(fmt.Errorf("%w: count %d at offset %d exceeds input", ErrInvalidSkeleton, n, in.pos))
		return 0
	}
	return n
}

// index reads a reference into a list of n entities.
func (in *binaryInput) index(n int, kind, context string) int {
	i := in.readVarint(true)
	if in.err != nil {
		return 0
	}
	if i < 0 || i >= n {
		in.fail(unresolved(kind, "#"+strconv.Itoa(i), context))
		return 0
	}
	return i
}

// readString reads a length-prefixed string. A zero length is a null
// string, reported with ok false. Characters use one byte, or two or three
// for leading bytes 110x and 1110, as modified UTF-8 does; surrogate pairs
// are recombined.
func (in *binaryInput) readString() (s string, ok bool) {
	n := in.readVarint(true)
	switch {
	case in.err != nil || n == 0:
		return "", false
	case n == 1:
		return "", true
	}
	b := in.next(n - 1)
	if b == nil {
		return "", false
	}
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch c >> 4 {
		case 12, 13:
			if i+1 >= len(b) {
				in.fail(fmt.Errorf("%w: truncated string at offset %d", ErrInvalidSkeleton, in.pos))
				return "", false
			}
			units = append(units, uint16(c&0x1f)<<6|uint16(b[i+1]&0x3f))
			i += 2
		case 14:
			if i+2 >= len(b) {
				in.fail(fmt.Errorf("%w: truncated string at offset %d", ErrInvalidSkeleton, in.pos))
				return "", false
			}
			units = append(units, uint16(c&0x0f)<<12|uint16(b[i+1]&0x3f)<<6|uint16(b[i+2]&0x3f))
			i += 3
		default:
			units = append(units, uint16(c))
			i++
		}
	}
	return string(utf16.Decode(units)), true
}

// readStringRef reads an index into the string table; zero is null.
func (in *binaryInput) readStringRef() (string, bool) {
	i := in.readVarint(true)
	if in.err != nil || i == 0 {
		return "", false
	}
	if i > len(in.strings) {
		in.fail(unresolved("string", "#"+strconv.Itoa(i-1), "string table"))
		return "", false
	}
	return in.strings[i-1], true
}

func (in *binaryInput) readFloats(n int, scale float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = in.readFloat() * scale
	}
	return out
}

func (in *binaryInput) readShorts() []int {
	n := in.count()
	out := make([]int, n)
	for i := range out {
		out[i] = in.readShort()
	}
	return out
}
