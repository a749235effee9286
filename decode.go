package msgpack

import (
	"io"
	"unicode/utf8"
	"unsafe"
)

// Integer preserves the width/sign of whichever integer marker produced it.
// Exactly one of U/I is meaningful; Signed discriminates which.
type Integer struct {
	U      uint64
	I      int64
	Signed bool
}

// ValueKind discriminates the cases Value can hold.
type ValueKind uint8

const (
	ValueInvalid ValueKind = iota
	ValueNil
	ValueBool
	ValueInteger
	ValueString
)

// Value is the minimal tagged value ReadValue understands. It is not a
// general value tree: every MessagePack type outside this small set remains
// the caller's responsibility via the primitive readers.
type Value struct {
	Kind ValueKind
	Bool bool
	Int  Integer
	Str  string
}

// ExtMeta is the header of a MessagePack extension value: its type-id and
// the size, in bytes, of the payload that follows. The payload itself is
// consumed by the caller after ReadExtMeta returns.
type ExtMeta struct {
	TypeID int8
	Size   uint32
}

// --- 4.3.1 Strict readers ---

// ReadNil accepts only Null.
func ReadNil(r *Reader) error {
	m, err := ReadMarker(r)
	if err != nil {
		return err
	}
	if m.Kind != KindNil {
		return errTypeMismatch(m)
	}
	return nil
}

// ReadBool accepts True or False.
func ReadBool(r *Reader) (bool, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return false, err
	}
	switch m.Kind {
	case KindTrue:
		return true, nil
	case KindFalse:
		return false, nil
	default:
		return false, errTypeMismatch(m)
	}
}

// ReadPfix accepts only PositiveFixnum, returning its embedded value (0..127).
func ReadPfix(r *Reader) (uint8, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	if m.Kind != KindPositiveFixnum {
		return 0, errTypeMismatch(m)
	}
	return m.Uint8(), nil
}

// ReadNfix accepts only NegativeFixnum, returning its embedded value (-32..-1).
func ReadNfix(r *Reader) (int8, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	if m.Kind != KindNegativeFixnum {
		return 0, errTypeMismatch(m)
	}
	return m.Int8(), nil
}

// ReadUint8 accepts only U8.
func ReadUint8(r *Reader) (uint8, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	if m.Kind != KindU8 {
		return 0, errTypeMismatch(m)
	}
	return readU8(r)
}

// ReadUint16 accepts only U16.
func ReadUint16(r *Reader) (uint16, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	if m.Kind != KindU16 {
		return 0, errTypeMismatch(m)
	}
	return readU16(r)
}

// ReadUint32 accepts only U32.
func ReadUint32(r *Reader) (uint32, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	if m.Kind != KindU32 {
		return 0, errTypeMismatch(m)
	}
	return readU32(r)
}

// ReadUint64 accepts only U64.
func ReadUint64(r *Reader) (uint64, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	if m.Kind != KindU64 {
		return 0, errTypeMismatch(m)
	}
	return readU64(r)
}

// ReadInt8 accepts only I8.
func ReadInt8(r *Reader) (int8, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	if m.Kind != KindI8 {
		return 0, errTypeMismatch(m)
	}
	return readI8(r)
}

// ReadInt16 accepts only I16.
func ReadInt16(r *Reader) (int16, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	if m.Kind != KindI16 {
		return 0, errTypeMismatch(m)
	}
	return readI16(r)
}

// ReadInt32 accepts only I32.
func ReadInt32(r *Reader) (int32, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	if m.Kind != KindI32 {
		return 0, errTypeMismatch(m)
	}
	return readI32(r)
}

// ReadInt64 accepts only I64.
func ReadInt64(r *Reader) (int64, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	if m.Kind != KindI64 {
		return 0, errTypeMismatch(m)
	}
	return readI64(r)
}

// ReadFloat32 accepts only F32.
func ReadFloat32(r *Reader) (float32, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	if m.Kind != KindF32 {
		return 0, errTypeMismatch(m)
	}
	return readF32(r)
}

// ReadFloat64 accepts only F64.
func ReadFloat64(r *Reader) (float64, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	if m.Kind != KindF64 {
		return 0, errTypeMismatch(m)
	}
	return readF64(r)
}

// --- 4.3.2 Lax integer readers ---

// ReadUint64Loose accepts PositiveFixnum, U8, U16, U32, U64 and widens every
// variant to u64. Signed markers are rejected with TypeMismatch.
func ReadUint64Loose(r *Reader) (uint64, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	switch m.Kind {
	case KindPositiveFixnum:
		return widenUnsigned(m.Uint8()), nil
	case KindU8:
		v, err := readU8(r)
		return widenUnsigned(v), err
	case KindU16:
		v, err := readU16(r)
		return widenUnsigned(v), err
	case KindU32:
		v, err := readU32(r)
		return widenUnsigned(v), err
	case KindU64:
		return readU64(r)
	default:
		return 0, errTypeMismatch(m)
	}
}

// ReadInt64Loose accepts NegativeFixnum, I8, I16, I32, I64, and (per an
// explicit extension of the original narrower contract) PositiveFixnum, and
// widens every variant to i64. A caller asking for "a signed integer,
// loosely" has no reason to reject a non-negative fixnum.
func ReadInt64Loose(r *Reader) (int64, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	switch m.Kind {
	case KindPositiveFixnum:
		return int64(m.Uint8()), nil
	case KindNegativeFixnum:
		return int64(m.Int8()), nil
	case KindI8:
		v, err := readI8(r)
		return widenSigned(v), err
	case KindI16:
		v, err := readI16(r)
		return widenSigned(v), err
	case KindI32:
		v, err := readI32(r)
		return widenSigned(v), err
	case KindI64:
		return readI64(r)
	default:
		return 0, errTypeMismatch(m)
	}
}

// ReadInteger accepts the full integer marker family (PositiveFixnum,
// NegativeFixnum, U8..U64, I8..I64) and returns the Integer sum, preserving
// the source's width and sign.
func ReadInteger(r *Reader) (Integer, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return Integer{}, err
	}
	switch m.Kind {
	case KindPositiveFixnum:
		return Integer{U: widenUnsigned(m.Uint8())}, nil
	case KindNegativeFixnum:
		return Integer{I: int64(m.Int8()), Signed: true}, nil
	case KindU8:
		v, err := readU8(r)
		return Integer{U: widenUnsigned(v)}, err
	case KindU16:
		v, err := readU16(r)
		return Integer{U: widenUnsigned(v)}, err
	case KindU32:
		v, err := readU32(r)
		return Integer{U: widenUnsigned(v)}, err
	case KindU64:
		v, err := readU64(r)
		return Integer{U: v}, err
	case KindI8:
		v, err := readI8(r)
		return Integer{I: widenSigned(v), Signed: true}, err
	case KindI16:
		v, err := readI16(r)
		return Integer{I: widenSigned(v), Signed: true}, err
	case KindI32:
		v, err := readI32(r)
		return Integer{I: widenSigned(v), Signed: true}, err
	case KindI64:
		v, err := readI64(r)
		return Integer{I: v, Signed: true}, err
	default:
		return Integer{}, errTypeMismatch(m)
	}
}

// --- 4.3.3 Length-prefixed metadata readers ---

// ReadStrLen accepts FixedString, Str8, Str16, Str32 and returns the
// declared payload length.
func ReadStrLen(r *Reader) (uint32, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	switch m.Kind {
	case KindFixedString:
		return uint32(m.N), nil
	case KindStr8:
		v, err := readU8(r)
		return uint32(v), err
	case KindStr16:
		v, err := readU16(r)
		return uint32(v), err
	case KindStr32:
		return readU32(r)
	default:
		return 0, errTypeMismatch(m)
	}
}

// ReadBinLen accepts Bin8, Bin16, Bin32 and returns the declared payload length.
func ReadBinLen(r *Reader) (uint32, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	switch m.Kind {
	case KindBin8:
		v, err := readU8(r)
		return uint32(v), err
	case KindBin16:
		v, err := readU16(r)
		return uint32(v), err
	case KindBin32:
		return readU32(r)
	default:
		return 0, errTypeMismatch(m)
	}
}

// ReadArraySize accepts FixedArray, Array16, Array32 and returns the
// declared element count.
func ReadArraySize(r *Reader) (uint32, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	switch m.Kind {
	case KindFixedArray:
		return uint32(m.N), nil
	case KindArray16:
		v, err := readU16(r)
		return uint32(v), err
	case KindArray32:
		return readU32(r)
	default:
		return 0, errTypeMismatch(m)
	}
}

// ReadMapSize accepts FixedMap, Map16, Map32 and returns the declared
// key-value pair count.
func ReadMapSize(r *Reader) (uint32, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, err
	}
	switch m.Kind {
	case KindFixedMap:
		return uint32(m.N), nil
	case KindMap16:
		v, err := readU16(r)
		return uint32(v), err
	case KindMap32:
		return readU32(r)
	default:
		return 0, errTypeMismatch(m)
	}
}

// --- 4.3.4 String payload readers ---

// ReadStr decodes a str marker and copies its payload into dest, validating
// UTF-8. If dest is smaller than the declared length, it fails with
// BufferTooSmallError without consuming any payload bytes (only the marker
// and length have been read at that point). On success it returns a string
// backed by dest[:L].
func ReadStr(r *Reader, dest []byte) (string, error) {
	l, err := ReadStrLen(r)
	if err != nil {
		return "", err
	}
	if uint64(len(dest)) < uint64(l) {
		return "", &BufferTooSmallError{N: l}
	}

	buf := dest[:l]
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return "", &DataCopyError{N: uint32(n), Err: err}
	}

	if !utf8.Valid(buf) {
		return "", &Utf8Error{N: l, ValidUpTo: utf8ValidUpTo(buf), Err: err}
	}

	return unsafe.String(unsafe.SliceData(buf), len(buf)), nil
}

// utf8ValidUpTo returns the byte offset of the first invalid UTF-8 sequence
// in b, mirroring Rust's str::Utf8Error::valid_up_to.
func utf8ValidUpTo(b []byte) int {
	valid := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			break
		}
		valid += size
		b = b[size:]
	}
	return valid
}

// ReadStrRef decodes a str marker from the start of buf and returns a
// zero-copy slice of the payload range, without copying or validating
// UTF-8. buf must already hold the complete marker, length, and payload.
func ReadStrRef(buf []byte) ([]byte, error) {
	br := NewBytesReader(buf)
	r, err := NewReader(br)
	if err != nil {
		return nil, err
	}

	l, err := ReadStrLen(r)
	if err != nil {
		return nil, err
	}

	start := br.Len()
	end := start + int(l)
	if end > len(buf) {
		return nil, &DataCopyError{N: uint32(len(buf) - start), Err: io.ErrUnexpectedEOF}
	}
	return buf[start:end], nil
}

// --- 4.3.5 Fixed-extension readers ---

// ReadFixExt1 accepts only FixExt1, returning the type-id and 1-byte payload.
func ReadFixExt1(r *Reader) (int8, uint8, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, 0, err
	}
	if m.Kind != KindFixExt1 {
		return 0, 0, errTypeMismatch(m)
	}
	typeID, err := readI8(r)
	if err != nil {
		return 0, 0, err
	}
	v, err := readU8(r)
	return typeID, v, err
}

// ReadFixExt2 accepts only FixExt2, returning the type-id and 2-byte payload
// decoded big-endian.
func ReadFixExt2(r *Reader) (int8, uint16, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return 0, 0, err
	}
	if m.Kind != KindFixExt2 {
		return 0, 0, errTypeMismatch(m)
	}
	typeID, err := readI8(r)
	if err != nil {
		return 0, 0, err
	}
	v, err := readU16(r)
	return typeID, v, err
}

// ReadFixExt4 accepts only FixExt4, returning the type-id and the 4 payload
// bytes in source (wire) order. Unlike the reference implementation this
// does not reinterpret the bytes through a little-endian integer load.
func ReadFixExt4(r *Reader) (int8, [4]byte, error) {
	var payload [4]byte
	m, err := ReadMarker(r)
	if err != nil {
		return 0, payload, err
	}
	if m.Kind != KindFixExt4 {
		return 0, payload, errTypeMismatch(m)
	}
	typeID, err := readI8(r)
	if err != nil {
		return 0, payload, err
	}
	buf := r.readFull(4)
	if r.err != nil {
		return 0, payload, &DataReadError{Err: r.err}
	}
	copy(payload[:], buf)
	return typeID, payload, nil
}

// ReadFixExt8 accepts only FixExt8, returning the type-id and 8 raw payload bytes.
func ReadFixExt8(r *Reader) (int8, [8]byte, error) {
	var payload [8]byte
	m, err := ReadMarker(r)
	if err != nil {
		return 0, payload, err
	}
	if m.Kind != KindFixExt8 {
		return 0, payload, errTypeMismatch(m)
	}
	typeID, err := readI8(r)
	if err != nil {
		return 0, payload, err
	}
	buf := r.readFull(8)
	if r.err != nil {
		return 0, payload, &DataReadError{Err: r.err}
	}
	copy(payload[:], buf)
	return typeID, payload, nil
}

// ReadFixExt16 accepts only FixExt16, returning the type-id and 16 raw payload bytes.
func ReadFixExt16(r *Reader) (int8, [16]byte, error) {
	var payload [16]byte
	m, err := ReadMarker(r)
	if err != nil {
		return 0, payload, err
	}
	if m.Kind != KindFixExt16 {
		return 0, payload, errTypeMismatch(m)
	}
	typeID, err := readI8(r)
	if err != nil {
		return 0, payload, err
	}
	buf := r.readFull(16)
	if r.err != nil {
		return 0, payload, &DataReadError{Err: r.err}
	}
	copy(payload[:], buf)
	return typeID, payload, nil
}

// --- 4.3.6 Extension meta reader ---

// ReadExtMeta accepts FixExt1/2/4/8/16 and Ext8/16/32, returning the
// extension's type-id and payload size. The payload itself is left for the
// caller to consume.
func ReadExtMeta(r *Reader) (ExtMeta, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return ExtMeta{}, err
	}

	var size uint32
	switch m.Kind {
	case KindFixExt1:
		size = 1
	case KindFixExt2:
		size = 2
	case KindFixExt4:
		size = 4
	case KindFixExt8:
		size = 8
	case KindFixExt16:
		size = 16
	case KindExt8:
		v, err := readU8(r)
		if err != nil {
			return ExtMeta{}, err
		}
		size = uint32(v)
	case KindExt16:
		v, err := readU16(r)
		if err != nil {
			return ExtMeta{}, err
		}
		size = uint32(v)
	case KindExt32:
		v, err := readU32(r)
		if err != nil {
			return ExtMeta{}, err
		}
		size = v
	default:
		return ExtMeta{}, errTypeMismatch(m)
	}

	typeID, err := readI8(r)
	if err != nil {
		return ExtMeta{}, err
	}
	return ExtMeta{TypeID: typeID, Size: size}, nil
}

// --- 4.4 Minimal value reader ---

// ReadValue decodes I32 into Value{Kind: ValueInteger}, Str8 into
// Value{Kind: ValueString}, and (an explicit extension of the reference
// decoder's documented minimal surface) Nil/True/False into
// Value{Kind: ValueNil} / Value{Kind: ValueBool}. Every other marker is
// unimplemented and reported as a type mismatch.
func ReadValue(r *Reader) (Value, error) {
	m, err := ReadMarker(r)
	if err != nil {
		return Value{}, err
	}
	switch m.Kind {
	case KindNil:
		return Value{Kind: ValueNil}, nil
	case KindTrue:
		return Value{Kind: ValueBool, Bool: true}, nil
	case KindFalse:
		return Value{Kind: ValueBool, Bool: false}, nil
	case KindI32:
		v, err := readI32(r)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueInteger, Int: Integer{I: int64(v), Signed: true}}, nil
	case KindStr8:
		ln, err := readU8(r)
		if err != nil {
			return Value{}, err
		}
		buf := make([]byte, ln)
		n, err := io.ReadFull(r, buf)
		if err != nil {
			return Value{}, &DataCopyError{N: uint32(n), Err: err}
		}
		if !utf8.Valid(buf) {
			return Value{}, &Utf8Error{N: uint32(ln), ValidUpTo: utf8ValidUpTo(buf)}
		}
		return Value{Kind: ValueString, Str: string(buf)}, nil
	default:
		return Value{}, errTypeMismatch(m)
	}
}
