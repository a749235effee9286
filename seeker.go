package msgpack

import (
	"fmt"
	"io"
)

// forwardSeeker wraps an io.Reader that has no native Seek support (e.g. a
// net.Conn or a pipe) so NewReaderSize's bufio adapter can still satisfy
// ReaderPro's Seek requirement. It simulates seeking by reading and
// discarding data; this is only ever forward-only, since a decode stream
// can't un-consume bytes already handed to a caller.
type forwardSeeker struct {
	r      io.Reader
	offset int64
}

// ForwardSeeker wraps an io.Reader to make it a forward-only io.ReadSeeker.
// If the provided reader already implements io.ReadSeeker, it is returned directly.
func ForwardSeeker(r io.Reader) io.ReadSeeker {
	if r == nil {
		panic("msgpack: ForwardSeeker called with a nil io.Reader")
	}
	if seeker, ok := r.(io.ReadSeeker); ok {
		return seeker
	}
	return &forwardSeeker{r: r}
}

// Read implements the io.Reader interface.
func (s *forwardSeeker) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.offset += int64(n)
	return n, err
}

// Seek provides forward-only seeking.
// It supports io.SeekCurrent and io.SeekStart, but will return an error
// for any backward seek attempts.
func (s *forwardSeeker) Seek(offset int64, whence int) (int64, error) {
	var skip int64

	switch whence {
	case io.SeekCurrent:
		skip = offset
	case io.SeekStart:
		if offset < s.offset {
			return s.offset, fmt.Errorf("%w: cannot seek from start to %d (current: %d)", ErrUnsupportedNegativeSeek, offset, s.offset)
		}
		skip = offset - s.offset
	default:
		return s.offset, fmt.Errorf("%w: value %d is not supported", ErrInvalidWhence, whence)
	}

	if skip < 0 {
		return s.offset, ErrUnsupportedNegativeSeek
	}
	if skip == 0 {
		return s.offset, nil
	}

	// Discard data efficiently to perform the "seek".
	written, err := Discard(s.r, skip)
	s.offset += written
	return s.offset, err
}
