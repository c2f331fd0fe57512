package reorder

import (
	"fmt"
	"strings"
)

// Move returns a new slice where the item at from has been removed and
// reinserted at to. items is never modified. Out of range indexes yield an
// unchanged copy.
func Move[T any](items []T, from, to int) []T {
	out := make([]T, len(items))
	copy(out, items)
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) || from == to {
		return out
	}
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out
}

// IndexOf returns the position of the item whose identity is id, or -1.
func IndexOf[T any](items []T, id func(T) string, want string) int {
	for i, item := range items {
		if id(item) == want {
			return i
		}
	}
	return -1
}

// ByID moves the item identified by activeID to the position currently held
// by overID. It reports false and returns items untouched when the drop
// landed outside any target, on the dragged item itself, or on an unknown
// identity.
func ByID[T any](items []T, id func(T) string, activeID, overID string) ([]T, bool) {
	if overID == "" || activeID == overID {
		return items, false
	}
	from := IndexOf(items, id, activeID)
	to := IndexOf(items, id, overID)
	if from < 0 || to < 0 {
		return items, false
	}
	return Move(items, from, to), true
}

// UniqueIDs derives drag identities from raw keys. Repeated keys get a "#n"
// suffix so every rendered item keeps a distinct handle.
func UniqueIDs(keys []string) []string {
	used := make(map[string]bool, len(keys))
	out := make([]string, len(keys))
	for i, k := range keys {
		id := k
		for n := 1; used[id]; n++ {
			id = fmt.Sprintf("%s#%d", k, n)
		}
		used[id] = true
		out[i] = id
	}
	return out
}

// KeyedIDs computes identities for lists whose elements carry no id field of
// their own, from a content key such as a skill name.
func KeyedIDs[T any](items []T, key func(T) string) []string {
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = strings.TrimSpace(key(item))
	}
	return UniqueIDs(keys)
}

// ByKeys is ByID for lists identified by a parallel identity slice, as
// returned by KeyedIDs.
func ByKeys[T any](items []T, ids []string, activeID, overID string) ([]T, bool) {
	if len(ids) != len(items) {
		return items, false
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	moved, ok := ByID(idx, func(i int) string { return ids[i] }, activeID, overID)
	if !ok {
		return items, false
	}
	out := make([]T, len(items))
	for i, j := range moved {
		out[i] = items[j]
	}
	return out, true
}

// Arrange orders items so that their identities follow order. ids holds
// the current identity of each item. It reports false when order is not a
// permutation of ids or when nothing moves.
func Arrange[T any](items []T, ids, order []string) ([]T, bool) {
	if len(ids) != len(items) || len(order) != len(ids) {
		return items, false
	}
	at := make(map[string]int, len(ids))
	for i, id := range ids {
		at[id] = i
	}
	out := make([]T, 0, len(items))
	moved := false
	for i, id := range order {
		j, ok := at[id]
		if !ok {
			return items, false
		}
		delete(at, id)
		if j != i {
			moved = true
		}
		out = append(out, items[j])
	}
	if !moved {
		return items, false
	}
	return out, true
}
