package kv

import (
	"maps"
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
func SortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}

// CloneMap copies m. A nil map yields an empty map.
func CloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	maps.Copy(out, m)
	return out
}
