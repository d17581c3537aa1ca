package workload

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
)

// ErrKeySpace indicates the generator could not produce enough distinct keys
// (for example random keys of length 1 beyond 256).
var ErrKeySpace = errors.New("key space too small")

// keyGen produces the i-th candidate key. Candidates may repeat; callers
// deduplicate.
type keyGen func(i int) ([]byte, error)

func newKeyGen(kind string, keyLen int, seed uint64) (keyGen, error) {
	switch kind {
	case KeysSeq:
		return func(i int) ([]byte, error) {
			return strconv.AppendInt(nil, int64(i), 10), nil
		}, nil

	case KeysRandom:
		src := rand.NewChaCha8(chachaSeed(seed))

		return func(int) ([]byte, error) {
			key := make([]byte, keyLen)
			_, _ = src.Read(key)

			return key, nil
		}, nil

	case KeysUUID:
		src := rand.NewChaCha8(chachaSeed(seed))

		return func(int) ([]byte, error) {
			id, err := uuid.NewRandomFromReader(src)
			if err != nil {
				return nil, fmt.Errorf("generate uuid: %w", err)
			}

			return []byte(id.String()), nil
		}, nil

	case KeysWords:
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

		return func(int) ([]byte, error) {
			return appendWord(nil, rng, keyLen), nil
		}, nil
	}

	return nil, fmt.Errorf("%w: unknown key generator %q", ErrConfigInvalid, kind)
}

func chachaSeed(seed uint64) [32]byte {
	var s [32]byte

	binary.LittleEndian.PutUint64(s[:8], seed)

	return s
}

var (
	consonants = []byte("bcdfghjklmnprstvwz")
	vowels     = []byte("aeiou")
)

// appendWord appends a pronounceable lowercase word of n letters.
func appendWord(dst []byte, rng *rand.Rand, n int) []byte {
	for i := range n {
		if i%2 == 0 {
			dst = append(dst, consonants[rng.IntN(len(consonants))])
		} else {
			dst = append(dst, vowels[rng.IntN(len(vowels))])
		}
	}

	return dst
}

// GenerateKeys returns n distinct keys from the configured generator.
func GenerateKeys(kind string, keyLen int, seed uint64, n int) ([][]byte, error) {
	gen, err := newKeyGen(kind, keyLen, seed)
	if err != nil {
		return nil, err
	}

	keys := make([][]byte, 0, n)
	seen := make(map[string]struct{}, n)

	// Collisions are rare for every generator except short random/words keys;
	// give up once the generator is clearly saturated.
	maxAttempts := 8*n + 64

	for i := 0; len(keys) < n; i++ {
		if i >= maxAttempts {
			return nil, fmt.Errorf("%w: %s keys of length %d: got %d of %d distinct",
				ErrKeySpace, kind, keyLen, len(keys), n)
		}

		key, err := gen(i)
		if err != nil {
			return nil, err
		}

		if _, dup := seen[string(key)]; dup {
			continue
		}

		seen[string(key)] = struct{}{}
		keys = append(keys, key)
	}

	return keys, nil
}
