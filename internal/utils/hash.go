package utils

import (
	"hash/fnv"
	"strings"
)

// TextHash returns a stable FNV-1a hash of s, ignoring case and
// surrounding whitespace so "Help " and "help" collide.
func TextHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(s))))
	return h.Sum64()
}

// Bucket maps s onto [0, n). n must be positive.
func Bucket(s string, n int) int {
	return int(TextHash(s) % uint64(n))
}
