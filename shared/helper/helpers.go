package helper

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// GetTypedValueOf safely asserts the result of a getter function to the expected type T.
// Returns an error if type assertion fails.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, fmt.Errorf("failed to get value: %w", err)
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T", ErrUnexpectedType, res)
	}

	return val, nil
}

// MustGetTypedValue is the panic-on-failure variant of GetTypedValueOf.
// Use when failure should be fatal (e.g., when effect handler is guaranteed to exist).
func MustGetTypedValue[T any](getFn func() (any, error)) T {
	res, err := GetTypedValueOf[T](getFn)
	if err != nil {
		panic(err)
	}
	return res
}

var ErrUnexpectedType = errors.New("unexpected type")

// Keys returns the keys of m in ascending order.
func Keys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Pick copies the entries of m whose keys are listed. Unknown keys are ignored.
func Pick[M ~map[K]V, K comparable, V any](m M, keys ...K) M {
	out := make(M, len(keys))
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Omit copies m without the listed keys.
func Omit[M ~map[K]V, K comparable, V any](m M, keys ...K) M {
	out := make(M, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

var ErrDuplicate = errors.New("duplicate element")

// Unique checks that no element of xs appears twice.
func Unique[T comparable](xs ...T) error {
	seen := make(map[T]int, len(xs))
	for i, x := range xs {
		if first, ok := seen[x]; ok {
			return fmt.Errorf("%w: %v at %d and %d", ErrDuplicate, x, first, i)
		}
		seen[x] = i
	}
	return nil
}

// MustUnique is the panic-on-failure variant of Unique, meant for
// package-level tables that must never repeat.
func MustUnique[T comparable](xs ...T) []T {
	if err := Unique(xs...); err != nil {
		panic(err)
	}
	return xs
}
