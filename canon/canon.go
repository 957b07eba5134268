// Package canon holds the ordering and deduplication helpers shared by every
// list-bearing entity. Each entity supplies its own sort key, equality and
// validity functions; there is no common base type.
package canon

import "sort"

// Less compares two sort keys lexicographically. A shorter key that is a
// prefix of a longer one compares earlier.
func Less(a, b []int) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Sort stably orders xs by the key function, in place. Items with equal keys
// keep their insertion order, so sorting an already-sorted list is a no-op.
func Sort[T any](xs []T, key func(T) []int) {
	sort.SliceStable(xs, func(i, j int) bool {
		return Less(key(xs[i]), key(xs[j]))
	})
}

// RemoveDuplicate drops consecutive items that compare equal, keeping the
// first occurrence. Call it on a sorted list; it is then idempotent.
func RemoveDuplicate[T any](xs []T, equal func(a, b T) bool) []T {
	if len(xs) < 2 {
		return xs
	}
	out := xs[:1]
	for _, x := range xs[1:] {
		if !equal(out[len(out)-1], x) {
			out = append(out, x)
		}
	}
	return out
}

// RemoveInvalid filters xs in place, keeping only items the predicate
// accepts and preserving their relative order.
func RemoveInvalid[T any](xs []T, valid func(T) bool) []T {
	out := xs[:0]
	for _, x := range xs {
		if valid(x) {
			out = append(out, x)
		}
	}
	return out
}
