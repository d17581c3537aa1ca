// Package primes maps requested table capacities to prime table sizes.
//
// The domain is bounded: primes are precomputed once with a sieve up to
// [MaxPrime]. Requests above that bound fail with [ErrTooLarge].
package primes

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// MaxPrime is the largest prime the sizer knows about (largest prime < 2^20).
const MaxPrime = 1_048_573

var (
	// ErrTooLarge indicates the request exceeds [MaxPrime].
	ErrTooLarge = errors.New("primes: request exceeds known maximum")

	// ErrInvalidRequest indicates a request below 1.
	ErrInvalidRequest = errors.New("primes: invalid request")
)

// Table is the default prime sizer. The zero value is ready to use.
type Table struct{}

var (
	sieveOnce sync.Once
	known     []int
)

func load() []int {
	sieveOnce.Do(func() {
		composite := make([]bool, MaxPrime+1)
		known = make([]int, 0, 82_025)

		for n := 2; n <= MaxPrime; n++ {
			if composite[n] {
				continue
			}

			known = append(known, n)

			for m := n * n; m <= MaxPrime; m += n {
				composite[m] = true
			}
		}
	})

	return known
}

// LargerPrime returns the smallest known prime >= n.
func (Table) LargerPrime(n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRequest, n)
	}

	if n > MaxPrime {
		return 0, fmt.Errorf("%w: %d > %d", ErrTooLarge, n, MaxPrime)
	}

	ps := load()
	i := sort.SearchInts(ps, n)

	return ps[i], nil
}

// Max returns the largest capacity the table can produce.
func (Table) Max() int {
	return MaxPrime
}

// IsPrime reports whether n is a prime within the known domain.
func IsPrime(n int) bool {
	if n < 2 || n > MaxPrime {
		return false
	}

	ps := load()
	i := sort.SearchInts(ps, n)

	return i < len(ps) && ps[i] == n
}
