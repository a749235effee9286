package msgpack

// ReadArray decodes an array marker via ReadArraySize, then calls elem once
// per declared element, collecting results in order. It stops and returns
// the first element-decode error without attempting to skip or realign the
// remaining elements — the length was already declared, and per this
// module's general non-resumability, the caller should treat the stream as
// positioned wherever the failed elem call left it.
func ReadArray[T any](r *Reader, elem func(*Reader) (T, error)) ([]T, error) {
	n, err := ReadArraySize(r)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := elem(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadMap decodes a map marker via ReadMapSize, then calls key and val
// alternately once per declared pair, collecting results into a map. It
// stops and returns the first decode error from either side, with the same
// non-resumability caveat as ReadArray.
func ReadMap[K comparable, V any](r *Reader, key func(*Reader) (K, error), val func(*Reader) (V, error)) (map[K]V, error) {
	n, err := ReadMapSize(r)
	if err != nil {
		return nil, err
	}

	out := make(map[K]V, n)
	for i := uint32(0); i < n; i++ {
		k, err := key(r)
		if err != nil {
			return nil, err
		}
		v, err := val(r)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
