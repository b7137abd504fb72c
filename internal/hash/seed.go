// Package hash derives deterministic identifiers from strings. Simulation
// scenarios are seeded from their labels so reruns of the same scenario
// reproduce the exact same channel noise.
package hash

import "github.com/cespare/xxhash/v2"

// Seed computes the xxHash64 of the given label.
func Seed(label string) uint64 {
	return xxhash.Sum64String(label)
}
