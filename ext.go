package msgpack

import (
	"fmt"
	"io"

	"github.com/puzpuzpuz/xsync/v4"
)

// PeekMarker classifies the next marker byte of pr without consuming it.
// Unlike ReadMarker it does not advance the reader backing pr on success;
// the byte remains available to a subsequent ReadMarker/ReadFoo call made
// against the same *PeekableReader.
func PeekMarker(pr *PeekableReader) (Marker, error) {
	b, err := pr.Peek(1)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Marker{}, &MarkerReadError{Err: err}
	}
	m := markerTable[b[0]]
	if m.Kind == KindInvalid {
		return m, &UnexpectedMarkerError{Byte: b[0]}
	}
	return m, nil
}

// ExtPayload bounds r to exactly meta.Size bytes, the declared length of an
// extension's payload, so a caller can decode it (or simply discard it)
// without risking a read past the payload into whatever follows in the
// stream.
func ExtPayload(r *Reader, meta ExtMeta) io.Reader {
	return LimitReader(r, int64(meta.Size))
}

// DecodeExtAndContinue reads exactly an extension's declared payload,
// handing it to payloadFn as a bounded io.Reader, then resumes decoding the
// same underlying stream through afterFn: a "body then trailer" chained read
// where payloadFn only ever sees meta.Size bytes, and afterFn only ever sees
// what comes after them, regardless of how much of the payload payloadFn
// itself chose to consume.
func DecodeExtAndContinue(r *Reader, meta ExtMeta, payloadFn func(io.Reader) error, afterFn func(io.Reader) error) error {
	cr := ChainReader(r, int64(meta.Size), func(trailer io.Reader) error {
		if afterFn != nil {
			return afterFn(trailer)
		}
		return nil
	})

	// The payload reader reports io.EOF together with its last bytes, so a
	// payloadFn passing that io.EOF on has still read the whole payload.
	if payloadFn != nil {
		if err := payloadFn(cr); err != nil && err != io.EOF {
			return err
		}
	}

	// Drain whatever payloadFn left unread so the chained callback (and
	// thus afterFn) always fires before DecodeExtAndContinue returns.
	if _, err := io.Copy(io.Discard, cr); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// ExtDecoderFunc decodes the size-byte payload of a registered extension
// type-id into a caller-defined Go value.
type ExtDecoderFunc func(r *Reader, size uint32) (any, error)

// extRegistry maps an extension type-id to its decoder. A concurrent-safe
// map lets multiple goroutines register and resolve decoders against a
// shared module-level registry without a mutex.
var extRegistry = xsync.NewMap[int8, ExtDecoderFunc]()

// RegisterExtDecoder installs fn as the decoder for typeID, replacing any
// previously registered decoder for that id.
func RegisterExtDecoder(typeID int8, fn ExtDecoderFunc) {
	extRegistry.Store(typeID, fn)
}

// DecodeRegisteredExt reads an extension's meta and, if a decoder is
// registered for its type-id, invokes it bounded to the declared payload
// size and returns the decoded value. If nothing is registered, it returns
// the raw ExtMeta as the value and lets the caller consume the payload
// itself, preserving the "payload is consumed by the caller after reading
// the meta" contract for the unregistered case.
func DecodeRegisteredExt(r *Reader) (int8, any, error) {
	meta, err := ReadExtMeta(r)
	if err != nil {
		return 0, nil, err
	}

	fn, ok := extRegistry.Load(meta.TypeID)
	if !ok {
		return meta.TypeID, meta, nil
	}

	bounded := LimitReader(r, int64(meta.Size))
	payload := NewReaderFrom(bounded)
	v, err := fn(payload, meta.Size)
	if err != nil {
		return meta.TypeID, nil, err
	}

	// Ensure r advances past the entire declared payload even if fn itself
	// consumed less than meta.Size, so the caller's next read starts
	// exactly where the extension ends.
	if _, err := io.Copy(io.Discard, bounded); err != nil && err != io.EOF {
		return meta.TypeID, nil, &DataReadError{Err: err}
	}

	return meta.TypeID, v, nil
}

// NewReaderFrom wraps an already-bounded io.Reader (such as ExtPayload's
// result) in a fresh *Reader so registered decoders can use the same L1-L3
// primitives as top-level decoding.
func NewReaderFrom(r io.Reader) *Reader {
	rd, err := NewReaderSize(r, BUFFER_SIZE)
	if err != nil {
		// r is never nil here: ExtPayload always returns a non-nil LimitedReader.
		panic(err)
	}
	return rd
}

// TimestampExtType is the well-known MessagePack extension type-id for the
// timestamp format (-1 on the wire, per the wire spec's "reserved for
// timestamp" assignment).
const TimestampExtType int8 = -1

// Timestamp is the decoded form of the timestamp extension: a signed count
// of seconds since the Unix epoch, plus a nanosecond fraction in [0, 1e9).
type Timestamp struct {
	Seconds     int64
	Nanoseconds uint32
}

func init() {
	RegisterExtDecoder(TimestampExtType, DecodeTimestamp)
}

// DecodeTimestamp decodes a timestamp extension payload. MessagePack
// defines three wire shapes, distinguished by payload size:
//   - 4 bytes (FixExt4): seconds only, as a big-endian uint32.
//   - 8 bytes (FixExt8): a big-endian uint64 packing 30 bits of nanoseconds
//     in the high bits and 34 bits of seconds in the low bits.
//   - 12 bytes (Ext8): a big-endian uint32 of nanoseconds followed by a
//     big-endian int64 of seconds.
//
// Any other size is rejected; this is a domain-level extension format
// error, not one of the six core error kinds.
func DecodeTimestamp(r *Reader, size uint32) (any, error) {
	switch size {
	case 4:
		secs, err := readU32(r)
		if err != nil {
			return nil, err
		}
		return Timestamp{Seconds: int64(secs)}, nil

	case 8:
		packed, err := readU64(r)
		if err != nil {
			return nil, err
		}
		nanos := uint32(packed >> 34)
		secs := int64(packed & 0x3FFFFFFFF)
		return Timestamp{Seconds: secs, Nanoseconds: nanos}, nil

	case 12:
		nanos, err := readU32(r)
		if err != nil {
			return nil, err
		}
		secs, err := readI64(r)
		if err != nil {
			return nil, err
		}
		return Timestamp{Seconds: secs, Nanoseconds: nanos}, nil

	default:
		return nil, fmt.Errorf("msgpack: timestamp extension has invalid payload size %d", size)
	}
}
