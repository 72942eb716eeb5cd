package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"50000000", 50000000},
		{"50,000,000", 50000000},
		{"$50,000,000.00", 50000000},
		{"$52.5 million", 52500000},
		{"52.5million", 52500000},
		{"€75 million", 75000000},
		{"£1.2 billion", 1200000000},
		{"25mm", 25000000},
		{"10m", 10000000},
		{"2bn", 2000000000},
		{"4.75%", 4.75},
		{"4.75", 4.75},
		{"  100  ", 100},
		{"0", 0},
	}

	for _, tc := range cases {
		got, err := Parse(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, "input %q", tc.in)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "million", "m", "$", "12.3.4"} {
		_, err := Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseSuffixLongestFirst(t *testing.T) {
	// "mil" must not be consumed as a bare "m" leaving "il" behind.
	got, err := Parse("3 mil")
	require.NoError(t, err)
	assert.InDelta(t, 3000000, got, 1e-9)
}
