package primes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/probekit/pkg/primes"
)

func Test_LargerPrime_Returns_Smallest_Prime_At_Or_Above_Request(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		request int
		want    int
	}{
		{1, 2},
		{2, 2},
		{3, 3},
		{4, 5},
		{7, 7},
		{8, 11},
		{100, 101},
		{1000, 1009},
		{4990, 4993},
		{primes.MaxPrime, primes.MaxPrime},
	}

	for _, tc := range testCases {
		got, err := primes.Table{}.LargerPrime(tc.request)
		require.NoError(t, err, "request=%d", tc.request)
		assert.Equal(t, tc.want, got, "request=%d", tc.request)
	}
}

func Test_LargerPrime_Returns_ErrTooLarge_When_Request_Exceeds_Max(t *testing.T) {
	t.Parallel()

	_, err := primes.Table{}.LargerPrime(primes.MaxPrime + 1)
	require.ErrorIs(t, err, primes.ErrTooLarge)
}

func Test_LargerPrime_Returns_ErrInvalidRequest_When_Request_Below_One(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1, -1000} {
		_, err := primes.Table{}.LargerPrime(n)
		require.ErrorIs(t, err, primes.ErrInvalidRequest, "request=%d", n)
	}
}

func Test_IsPrime_Matches_Trial_Division(t *testing.T) {
	t.Parallel()

	trial := func(n int) bool {
		if n < 2 {
			return false
		}

		for d := 2; d*d <= n; d++ {
			if n%d == 0 {
				return false
			}
		}

		return true
	}

	for n := -2; n < 5000; n++ {
		if got, want := primes.IsPrime(n), trial(n); got != want {
			t.Fatalf("IsPrime(%d)=%v, want=%v", n, got, want)
		}
	}

	assert.False(t, primes.IsPrime(primes.MaxPrime+2))
	assert.Equal(t, primes.MaxPrime, primes.Table{}.Max())
}
