// Package fphash implements the hash-combine accumulator used by the
// fingerprint cache and by bitmap content hashing. Both callers need the
// same mixing function so that a cache comparison and a dedup comparison
// made from the same bytes always agree.
package fphash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// combineConstant is the classic boost::hash_combine magic number.
const combineConstant = 0x9e3779b9

// Combine folds v into h using h ^= v + C + (h<<6) + (h>>2).
func Combine(h uint64, v uint64) uint64 {
	return h ^ (v + combineConstant + (h << 6) + (h >> 2))
}

// HashString reduces s to a single uint64 with a stable, deterministic hash.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// HashBytes reduces b to a single uint64 with a stable, deterministic hash.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// CombineString hashes s and folds it into h.
func CombineString(h uint64, s string) uint64 {
	return Combine(h, HashString(s))
}

// CombineBytes hashes b and folds it into h.
func CombineBytes(h uint64, b []byte) uint64 {
	return Combine(h, HashBytes(b))
}

// CombineUint64 folds a raw integer value into h without re-hashing it.
// Bitmap content hashing does not use it: dimensions go through CombineInt.
func CombineUint64(h uint64, v uint64) uint64 {
	return Combine(h, v)
}

// CombineInt folds a small integer (e.g. a bitmap dimension) into h.
func CombineInt(h uint64, v int) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return CombineBytes(h, buf[:])
}
