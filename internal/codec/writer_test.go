package codec

import (
	"bytes"
	"encoding/binary"
	"math"
)

// writer encodes binary skeleton values for tests.
type writer struct {
	bytes.Buffer
}

func (w *writer) u8(b byte) { w.WriteByte(b) }

func (w *writer) sbyte(v int) { w.WriteByte(byte(int8(v))) }

func (w *writer) boolean(b bool) {
	if b {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) short(v int) { w.Write([]byte{byte(v >> 8), byte(v)}) }

func (w *writer) u32(v uint32) { w.Write(binary.BigEndian.AppendUint32(nil, v)) }

func (w *writer) i32(v int32) { w.u32(uint32(v)) }

func (w *writer) i64(v int64) { w.Write(binary.BigEndian.AppendUint64(nil, uint64(v))) }

func (w *writer) float(v float64) { w.u32(math.Float32bits(float32(v))) }

func (w *writer) floats(vs ...float64) {
	for _, v := range vs {
		w.float(v)
	}
}

func (w *writer) varint(v int, optimizePositive bool) {
	u := uint32(int32(v))
	if !optimizePositive {
		u = uint32((int32(v) << 1) ^ (int32(v) >> 31))
	}
	for u >= 0x80 {
		w.u8(byte(u) | 0x80)
		u >>= 7
	}
	w.u8(byte(u))
}

// uvar writes a count or index.
func (w *writer) uvar(v int) { w.varint(v, true) }

func (w *writer) str(s string) {
	w.uvar(len(s) + 1)
	w.WriteString(s)
}

func (w *writer) null() { w.u8(0) }

// ref writes a string table reference, where 0 is null.
func (w *writer) ref(i int) { w.uvar(i) }

// emptyHeader writes a header and string table with no nonessential data.
func (w *writer) emptyHeader() {
	w.i64(0)
	w.str("4.0.64")
	w.floats(0, 0, 0, 0)
	w.boolean(false)
	w.uvar(0) // strings
}

// minimalSkeleton is a header followed by empty sections.
func minimalSkeleton() []byte {
	var w writer
	w.i64(0)
	w.str("")
	w.floats(0, 0, 0, 0)
	w.boolean(false)
	for range 10 {
		w.uvar(0)
	}
	return w.Bytes()
}
