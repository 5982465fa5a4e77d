package util

import "sort"

type ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~string
}

// OrderedKeys returns the keys of m in sorted order.
func OrderedKeys[M ~map[K]V, K ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))

	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})

	return keys
}

// SortedElements returns the elements of s as a sorted slice. It exists so
// that iteration over a set can be made deterministic where the order would
// otherwise leak into generated output.
func SortedElements[E ordered](s KeySet[E]) []E {
	elems := s.Elements()

	sort.Slice(elems, func(i, j int) bool {
		return elems[i] < elems[j]
	})

	return elems
}
