package msgpack

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// sizeCache avoids the high performance cost of reflection in `binary.Size`
// on every call. Using a concurrent-safe map lets multiple goroutines decode
// the same fixed extension shape without contending on a mutex.
var sizeCache = xsync.NewMap[reflect.Type, int]()

// fixExtSize returns the implicit payload size of a FixExt marker kind, or
// false if kind is not one of the five FixExt kinds.
func fixExtSize(kind MarkerKind) (int, bool) {
	switch kind {
	case KindFixExt1:
		return 1, true
	case KindFixExt2:
		return 2, true
	case KindFixExt4:
		return 4, true
	case KindFixExt8:
		return 8, true
	case KindFixExt16:
		return 16, true
	default:
		return 0, false
	}
}

func sizeOf[Payload any]() int {
	t := reflect.TypeOf((*Payload)(nil)).Elem()
	if size, ok := sizeCache.Load(t); ok {
		return size
	}
	var zero Payload
	size := binary.Size(&zero)
	sizeCache.Store(t, size)
	return size
}

// DecodeFixedExt reads a fixed-layout MessagePack extension: a FixExt1/2/4/8/16
// marker, its type-id, and a payload whose wire layout matches Payload exactly
// (struct fields in declaration order, no variable-length members). kind must
// name one of the five FixExt marker kinds and its implicit size must equal
// binary.Size(Payload); mismatches are reported as a type mismatch, the same
// way any other strict reader rejects a marker it doesn't accept.
func DecodeFixedExt[Payload any](r *Reader, kind MarkerKind) (int8, Payload, error) {
	var payload Payload

	implicit, ok := fixExtSize(kind)
	if !ok || implicit != sizeOf[Payload]() {
		return 0, payload, ErrMarkerTypeMismatch
	}

	m, err := ReadMarker(r)
	if err != nil {
		return 0, payload, err
	}
	if m.Kind != kind {
		return 0, payload, ErrMarkerTypeMismatch
	}

	typeID, err := readI8(r)
	if err != nil {
		return 0, payload, err
	}

	buf := r.readFull(implicit)
	if r.err != nil {
		return 0, payload, &DataReadError{Err: r.err}
	}
	if _, err := binary.Decode(buf, Order, &payload); err != nil {
		return 0, payload, fmt.Errorf("msgpack: fixed extension payload does not match %T: %w", payload, err)
	}
	return typeID, payload, nil
}
