// Package pairkey normalizes an unordered two-user relationship into a
// canonical form so match and conversation lookups are order-independent.
package pairkey

import "fmt"

// Canonical returns the pair ordered as (lo, hi).
func Canonical(a, b uint64) (uint64, uint64) {
	if a > b {
		return b, a
	}
	return a, b
}

// Key returns the canonical string key "lo:hi" for the unordered pair.
func Key(a, b uint64) string {
	lo, hi := Canonical(a, b)
	return fmt.Sprintf("%d:%d", lo, hi)
}
