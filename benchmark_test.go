package msgpack

import (
	"encoding/binary"
	"testing"
)

func BenchmarkReadMarker(b *testing.B) {
	data := []byte{0xcc, 0xff}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, _ := NewReader(NewBytesReader(data))
		_, _ = ReadMarker(r)
	}
}

// Baseline comparison reading the same single byte directly, to see the
// overhead of the marker table lookup.
func BenchmarkStandardByteRead(b *testing.B) {
	data := []byte{0xcc, 0xff}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := NewBytesReader(data)
		_, _ = r.Read(data[:1])
	}
}

func BenchmarkReadUint64Loose(b *testing.B) {
	data := []byte{0xcf, 0, 0, 0, 0, 0, 0, 1, 0}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, _ := NewReader(NewBytesReader(data))
		_, _ = ReadUint64Loose(r)
	}
}

func BenchmarkReadInteger(b *testing.B) {
	data := []byte{0xd3, 0, 0, 0, 0, 0, 0, 1, 0}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, _ := NewReader(NewBytesReader(data))
		_, _ = ReadInteger(r)
	}
}

func BenchmarkReadStr(b *testing.B) {
	data := append([]byte{0xaa}, []byte("le message")...)
	dest := make([]byte, 16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, _ := NewReader(NewBytesReader(data))
		_, _ = ReadStr(r, dest)
	}
}

func BenchmarkReadStrRef(b *testing.B) {
	data := append([]byte{0xaa}, []byte("le message")...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ReadStrRef(data)
	}
}

func BenchmarkDecodeFixedExt(b *testing.B) {
	type payload struct {
		V uint32
	}
	data := []byte{0xd6, 0x09, 0x00, 0x00, 0x00, 0x2a}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, _ := NewReader(NewBytesReader(data))
		_, _, _ = DecodeFixedExt[payload](r, KindFixExt4)
	}
}

// Baseline comparison using only binary.Decode directly, to see the overhead
// of the marker and type-id handling DecodeFixedExt adds on top.
func BenchmarkStandardBinaryDecodeFixedExt(b *testing.B) {
	type payload struct {
		V uint32
	}
	data := []byte{0x00, 0x00, 0x00, 0x2a}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var p payload
		_, _ = binary.Decode(data, Order, &p)
	}
}

func BenchmarkReadArray(b *testing.B) {
	data := []byte{0x93, 0x01, 0x02, 0x03}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, _ := NewReader(NewBytesReader(data))
		_, _ = ReadArray(r, ReadInt64Loose)
	}
}
