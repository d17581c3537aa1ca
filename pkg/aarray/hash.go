package aarray

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/sha3"
)

// HashStrategy selects the function mapping a key to a start index.
//
// Every strategy is pure: the same (key, capacity) always yields the same
// index in [0, capacity).
type HashStrategy uint8

const (
	// HashSum sums the key bytes. The default.
	HashSum HashStrategy = iota
	// HashLength uses only the key length.
	HashLength
	// HashWeighted sums each byte times its 1-based position.
	HashWeighted
	// HashFNV is 64-bit FNV-1a.
	HashFNV
	// HashXX is 64-bit xxHash.
	HashXX
	// HashSHA3 takes the first 8 bytes of SHA3-256.
	HashSHA3

	numHashStrategies
)

var hashNames = [numHashStrategies]string{
	HashSum:      "sum",
	HashLength:   "length",
	HashWeighted: "weighted",
	HashFNV:      "fnv",
	HashXX:       "xxh",
	HashSHA3:     "sha3",
}

func (h HashStrategy) String() string {
	if h >= numHashStrategies {
		return "invalid"
	}

	return hashNames[h]
}

// HashStrategies lists every hash strategy in declaration order.
func HashStrategies() []HashStrategy {
	out := make([]HashStrategy, 0, numHashStrategies)
	for h := range numHashStrategies {
		out = append(out, h)
	}

	return out
}

// Index maps key to a slot index in [0, capacity). capacity must be > 0.
func (h HashStrategy) Index(key []byte, capacity int) int {
	return int(h.sum(key) % uint64(capacity))
}

func (h HashStrategy) sum(key []byte) uint64 {
	switch h {
	case HashLength:
		return uint64(len(key))
	case HashWeighted:
		var sum uint64
		for i, b := range key {
			sum += uint64(b) * uint64(i+1)
		}

		return sum
	case HashFNV:
		return fnv1a64(key)
	case HashXX:
		return xxhash.Sum64(key)
	case HashSHA3:
		digest := sha3.Sum256(key)

		return binary.LittleEndian.Uint64(digest[:8])
	default:
		var sum uint64
		for _, b := range key {
			sum += uint64(b)
		}

		return sum
	}
}

const (
	fnv1aOffsetBasis uint64 = 14695981039346656037
	fnv1aPrime       uint64 = 1099511628211
)

// fnv1a64 computes the FNV-1a 64-bit hash over key bytes.
func fnv1a64(key []byte) uint64 {
	hash := fnv1aOffsetBasis
	for _, b := range key {
		hash ^= uint64(b)
		hash *= fnv1aPrime
	}

	return hash
}
