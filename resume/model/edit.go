package model

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when an edit targets a missing list position.
var ErrIndexOutOfRange = errors.New("index out of range")

// Append returns a new slice holding list followed by item. list is not modified.
func Append[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item)
}

// ReplaceAt returns a copy of list with the element at index swapped for item.
func ReplaceAt[T any](list []T, index int, item T) ([]T, error) {
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("replace %d of %d: %w", index, len(list), ErrIndexOutOfRange)
	}
	out := cloneSlice(list)
	out[index] = item
	return out, nil
}

// RemoveAt returns a copy of list without the element at index.
func RemoveAt[T any](list []T, index int) ([]T, error) {
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("remove %d of %d: %w", index, len(list), ErrIndexOutOfRange)
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...), nil
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
