package msgpack

import (
	"math"

	"golang.org/x/exp/constraints"
)

// L2: fixed-width big-endian reads. Every failure here — EOF or a host I/O
// error — is classified as a *DataReadError, never as a marker error; L3
// callers rely on this separation to distinguish a truncated marker phase
// from a truncated payload phase.

func readU8(r *Reader) (uint8, error) {
	buf := r.readFull(1)
	if r.err != nil {
		return 0, &DataReadError{Err: r.err}
	}
	return buf[0], nil
}

func readU16(r *Reader) (uint16, error) {
	buf := r.readFull(2)
	if r.err != nil {
		return 0, &DataReadError{Err: r.err}
	}
	return Order.Uint16(buf), nil
}

func readU32(r *Reader) (uint32, error) {
	buf := r.readFull(4)
	if r.err != nil {
		return 0, &DataReadError{Err: r.err}
	}
	return Order.Uint32(buf), nil
}

func readU64(r *Reader) (uint64, error) {
	buf := r.readFull(8)
	if r.err != nil {
		return 0, &DataReadError{Err: r.err}
	}
	return Order.Uint64(buf), nil
}

func readI8(r *Reader) (int8, error) {
	buf := r.readFull(1)
	if r.err != nil {
		return 0, &DataReadError{Err: r.err}
	}
	return int8(buf[0]), nil
}

func readI16(r *Reader) (int16, error) {
	buf := r.readFull(2)
	if r.err != nil {
		return 0, &DataReadError{Err: r.err}
	}
	return int16(Order.Uint16(buf)), nil
}

func readI32(r *Reader) (int32, error) {
	buf := r.readFull(4)
	if r.err != nil {
		return 0, &DataReadError{Err: r.err}
	}
	return int32(Order.Uint32(buf)), nil
}

func readI64(r *Reader) (int64, error) {
	buf := r.readFull(8)
	if r.err != nil {
		return 0, &DataReadError{Err: r.err}
	}
	return int64(Order.Uint64(buf)), nil
}

func readF32(r *Reader) (float32, error) {
	buf := r.readFull(4)
	if r.err != nil {
		return 0, &DataReadError{Err: r.err}
	}
	return math.Float32frombits(Order.Uint32(buf)), nil
}

func readF64(r *Reader) (float64, error) {
	buf := r.readFull(8)
	if r.err != nil {
		return 0, &DataReadError{Err: r.err}
	}
	return math.Float64frombits(Order.Uint64(buf)), nil
}

// widenUnsigned widens any unsigned integer width to the full u64 domain,
// backing the lax readers that widen a family of unsigned markers to one
// return type.
func widenUnsigned[T constraints.Unsigned](v T) uint64 { return uint64(v) }

// widenSigned widens any signed integer width to the full i64 domain.
func widenSigned[T constraints.Signed](v T) int64 { return int64(v) }
