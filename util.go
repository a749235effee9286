package msgpack

import (
	"encoding/binary"
	"io"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is the wire's byte order: MessagePack is always big-endian.
	Order = BE
)

const BUFFER_SIZE = 4096

var discard [BUFFER_SIZE]byte

func Ptr[T any](v T) *T { return &v } // ptr is a helper function to create a pointer to a value, making test setup cleaner.

func Discard(r io.Reader, n int64) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 {
		return 0, ErrDiscardNegative
	}
	if n <= BUFFER_SIZE {
		skip, err := r.Read(discard[:n])
		return int64(skip), err
	}
	return io.CopyN(io.Discard, r, n)
}
