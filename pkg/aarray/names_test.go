package aarray_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/probekit/pkg/aarray"
)

func Test_ParseProbeStrategy_Matches_First_Three_Chars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want aarray.ProbeStrategy
	}{
		{"linear", aarray.ProbeLinear},
		{"lin", aarray.ProbeLinear},
		{"lineage", aarray.ProbeLinear},
		{"quadratic", aarray.ProbeQuadratic},
		{"quack", aarray.ProbeQuadratic},
		{"double", aarray.ProbeDouble},
		{"dou", aarray.ProbeDouble},
	}

	for _, tt := range tests {
		got, err := aarray.ParseProbeStrategy(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func Test_ParseProbeStrategy_Returns_Default_And_Error_When_Unknown(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "li", "Linear", "LIN", "cuckoo"} {
		got, err := aarray.ParseProbeStrategy(name)
		require.ErrorIs(t, err, aarray.ErrUnknownStrategy, "name=%q", name)
		assert.Equal(t, aarray.ProbeLinear, got)
	}
}

func Test_ParseHashStrategy_Matches_First_Three_Chars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want aarray.HashStrategy
	}{
		{"sum", aarray.HashSum},
		{"summation", aarray.HashSum},
		{"length", aarray.HashLength},
		{"len", aarray.HashLength},
		{"weighted", aarray.HashWeighted},
		{"fnv1a", aarray.HashFNV},
		{"xxhash", aarray.HashXX},
		{"sha3", aarray.HashSHA3},
	}

	for _, tt := range tests {
		got, err := aarray.ParseHashStrategy(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func Test_ParseHashStrategy_Returns_Default_And_Error_When_Unknown(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "su", "Sum", "md5"} {
		got, err := aarray.ParseHashStrategy(name)
		require.ErrorIs(t, err, aarray.ErrUnknownStrategy, "name=%q", name)
		assert.Equal(t, aarray.HashSum, got)
	}
}

func Test_Strategy_Names_Round_Trip_Through_Parse(t *testing.T) {
	t.Parallel()

	for _, p := range aarray.ProbeStrategies() {
		got, err := aarray.ParseProbeStrategy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	for _, h := range aarray.HashStrategies() {
		got, err := aarray.ParseHashStrategy(h.String())
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}

	assert.Equal(t, "invalid", aarray.ProbeStrategy(200).String())
	assert.Equal(t, "invalid", aarray.HashStrategy(200).String())
	assert.Equal(t, "invalid", aarray.Validity(9).String())
}
