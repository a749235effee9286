package msgpack

import "io"

// MarkerKind classifies a MessagePack marker byte into one of the 36 wire
// cases. Byte 0xc1 is reserved and has no MarkerKind; markerTable reports it
// as KindInvalid.
type MarkerKind uint8

const (
	KindInvalid MarkerKind = iota
	KindPositiveFixnum
	KindNegativeFixnum
	KindFixedMap
	KindFixedArray
	KindFixedString
	KindNil
	KindTrue
	KindFalse
	KindBin8
	KindBin16
	KindBin32
	KindExt8
	KindExt16
	KindExt32
	KindF32
	KindF64
	KindU8
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindFixExt1
	KindFixExt2
	KindFixExt4
	KindFixExt8
	KindFixExt16
	KindStr8
	KindStr16
	KindStr32
	KindArray16
	KindArray32
	KindMap16
	KindMap32
)

// Marker is a decoded marker byte: a kind plus whatever small payload the
// fix-family markers pack into the low bits of the byte itself.
type Marker struct {
	Kind MarkerKind
	N    uint8 // low-bits payload for fix-family kinds; meaningless otherwise.
	Byte byte  // the raw marker byte, kept for error reporting.
}

// Uint8 reinterprets N as the positive fixnum value it packs.
func (m Marker) Uint8() uint8 { return m.N }

// Int8 reinterprets the marker byte as the negative fixnum value it packs.
func (m Marker) Int8() int8 { return int8(m.Byte) }

// markerTable maps every byte 0x00..0xff to its decoded Marker, built once
// at init time so ReadMarker never branches on ranges at call time.
var markerTable [256]Marker

func init() {
	for b := 0; b < 256; b++ {
		markerTable[b] = classifyMarker(byte(b))
	}
}

func classifyMarker(b byte) Marker {
	switch {
	case b <= 0x7f:
		return Marker{Kind: KindPositiveFixnum, N: b, Byte: b}
	case b >= 0xe0:
		return Marker{Kind: KindNegativeFixnum, N: b, Byte: b}
	case b >= 0x80 && b <= 0x8f:
		return Marker{Kind: KindFixedMap, N: b & 0x0f, Byte: b}
	case b >= 0x90 && b <= 0x9f:
		return Marker{Kind: KindFixedArray, N: b & 0x0f, Byte: b}
	case b >= 0xa0 && b <= 0xbf:
		return Marker{Kind: KindFixedString, N: b & 0x1f, Byte: b}
	}

	switch b {
	case 0xc0:
		return Marker{Kind: KindNil, Byte: b}
	case 0xc1:
		return Marker{Kind: KindInvalid, Byte: b}
	case 0xc2:
		return Marker{Kind: KindFalse, Byte: b}
	case 0xc3:
		return Marker{Kind: KindTrue, Byte: b}
	case 0xc4:
		return Marker{Kind: KindBin8, Byte: b}
	case 0xc5:
		return Marker{Kind: KindBin16, Byte: b}
	case 0xc6:
		return Marker{Kind: KindBin32, Byte: b}
	case 0xc7:
		return Marker{Kind: KindExt8, Byte: b}
	case 0xc8:
		return Marker{Kind: KindExt16, Byte: b}
	case 0xc9:
		return Marker{Kind: KindExt32, Byte: b}
	case 0xca:
		return Marker{Kind: KindF32, Byte: b}
	case 0xcb:
		return Marker{Kind: KindF64, Byte: b}
	case 0xcc:
		return Marker{Kind: KindU8, Byte: b}
	case 0xcd:
		return Marker{Kind: KindU16, Byte: b}
	case 0xce:
		return Marker{Kind: KindU32, Byte: b}
	case 0xcf:
		return Marker{Kind: KindU64, Byte: b}
	case 0xd0:
		return Marker{Kind: KindI8, Byte: b}
	case 0xd1:
		return Marker{Kind: KindI16, Byte: b}
	case 0xd2:
		return Marker{Kind: KindI32, Byte: b}
	case 0xd3:
		return Marker{Kind: KindI64, Byte: b}
	case 0xd4:
		return Marker{Kind: KindFixExt1, Byte: b}
	case 0xd5:
		return Marker{Kind: KindFixExt2, Byte: b}
	case 0xd6:
		return Marker{Kind: KindFixExt4, Byte: b}
	case 0xd7:
		return Marker{Kind: KindFixExt8, Byte: b}
	case 0xd8:
		return Marker{Kind: KindFixExt16, Byte: b}
	case 0xd9:
		return Marker{Kind: KindStr8, Byte: b}
	case 0xda:
		return Marker{Kind: KindStr16, Byte: b}
	case 0xdb:
		return Marker{Kind: KindStr32, Byte: b}
	case 0xdc:
		return Marker{Kind: KindArray16, Byte: b}
	case 0xdd:
		return Marker{Kind: KindArray32, Byte: b}
	case 0xde:
		return Marker{Kind: KindMap16, Byte: b}
	case 0xdf:
		return Marker{Kind: KindMap32, Byte: b}
	}

	// unreachable: the range switch above and this switch together cover
	// every byte value.
	return Marker{Kind: KindInvalid, Byte: b}
}

// ReadMarker reads exactly one byte from r and classifies it. It advances r
// by one byte on success and on an unmapped byte (0xc1); it does not advance
// on a read failure.
func ReadMarker(r *Reader) (Marker, error) {
	b, err := r.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Marker{}, &MarkerReadError{Err: err}
	}
	m := markerTable[b]
	if m.Kind == KindInvalid {
		return m, &UnexpectedMarkerError{Byte: b}
	}
	return m, nil
}
