package worker

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screa/seedvanity/internal/crypto"
	"github.com/screa/seedvanity/pkg/types"
)

func TestMatches(t *testing.T) {
	const addr = "AbCd9xyzQRst"
	tests := []struct {
		name     string
		pattern  types.Pattern
		expected bool
	}{
		{"prefix match", types.Pattern{Prefix: "AbC", CaseSensitive: true}, true},
		{"prefix case mismatch", types.Pattern{Prefix: "abc", CaseSensitive: true}, false},
		{"prefix folded", types.Pattern{Prefix: "ABC"}, true},
		{"suffix match", types.Pattern{Suffix: "Rst", CaseSensitive: true}, true},
		{"suffix folded", types.Pattern{Suffix: "rST"}, true},
		{"both match", types.Pattern{Prefix: "Ab", Suffix: "st", CaseSensitive: true}, true},
		{"both, suffix misses", types.Pattern{Prefix: "Ab", Suffix: "zz", CaseSensitive: true}, false},
		{"longer than address", types.Pattern{Prefix: addr + "1"}, false},
		{"whole address", types.Pattern{Prefix: addr, CaseSensitive: true}, true},
		{"no match", types.Pattern{Prefix: "9999"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Matches(addr, tt.pattern))
		})
	}
}

func TestMatcherDoesNotMutatePattern(t *testing.T) {
	p := types.Pattern{Prefix: "AB", Suffix: "Cd"}
	m := NewMatcher(p)
	assert.True(t, m.Matches("abxxxcd"))
	assert.Equal(t, "AB", p.Prefix)
	assert.Equal(t, "Cd", p.Suffix)
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern types.Pattern
		err     error
	}{
		{"empty", types.Pattern{}, types.ErrNoPattern},
		{"prefix", types.Pattern{Prefix: "Sol"}, nil},
		{"suffix", types.Pattern{Suffix: "xyz", CaseSensitive: true}, nil},
		{"zero", types.Pattern{Prefix: "0x"}, types.ErrInvalidPattern},
		{"lower l sensitive", types.Pattern{Prefix: "l", CaseSensitive: true}, types.ErrInvalidPattern},
		{"lower l folded", types.Pattern{Prefix: "l"}, nil},
		{"too long", types.Pattern{Prefix: "1111111111111111111111111111111111111111111", Suffix: "22"}, types.ErrInvalidPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePattern(tt.pattern)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDecimalSeedStream(t *testing.T) {
	s, err := NewSeedStream(types.SeedStyleDecimal, 98)
	require.NoError(t, err)

	buf := make([]byte, 0, types.MaxSeedLen)
	assert.Equal(t, "98", string(s.Next(buf)))
	assert.Equal(t, "99", string(s.Next(buf)))
	assert.Equal(t, "100", string(s.Next(buf)))

	s, err = NewSeedStream("", math.MaxUint64)
	require.NoError(t, err)
	seed := s.Next(buf)
	assert.Equal(t, strconv.FormatUint(math.MaxUint64, 10), string(seed))
	assert.LessOrEqual(t, len(seed), types.MaxSeedLen)
}

func TestAlnumSeedStream(t *testing.T) {
	s, err := NewSeedStream(types.SeedStyleAlnum, 0)
	require.NoError(t, err)

	buf := make([]byte, 0, types.MaxSeedLen)
	first := string(s.Next(buf))
	assert.Equal(t, "AAAAAAAAAAAAAAAA", first)

	for i := 0; i < 1000; i++ {
		seed := string(s.Next(buf))
		assert.Len(t, seed, alnumSeedLen)
		for _, c := range seed {
			assert.Contains(t, alnumChars, string(c))
		}
	}

	base, owner := types.PublicKey{1}, types.PublicKey{2}
	_, err = crypto.Derive(base, types.Seed(first), owner)
	assert.NoError(t, err)
}
