package crypto

import (
	stdsha256 "crypto/sha256"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screa/seedvanity/pkg/types"
)

func testKeys() (types.PublicKey, types.PublicKey) {
	var base, owner types.PublicKey
	for i := range base {
		base[i] = byte(i + 1)
		owner[i] = byte(0xff - i)
	}
	return base, owner
}

func TestDeriveMatchesConcatenatedHash(t *testing.T) {
	base, owner := testKeys()

	got, err := Derive(base, "vanity-seed", owner)
	require.NoError(t, err)

	input := append(append(append([]byte{}, base[:]...), "vanity-seed"...), owner[:]...)
	want := stdsha256.Sum256(input)
	assert.Equal(t, types.PublicKey(want), got)
}

func TestDeriveIsDeterministic(t *testing.T) {
	base, owner := testKeys()
	for _, seed := range []types.Seed{"", "7", "abcdefghijklmnopqrstuvwxyz012345"} {
		a, err := Derive(base, seed, owner)
		require.NoError(t, err)
		b, err := Derive(base, seed, owner)
		require.NoError(t, err)
		assert.Equal(t, a, b, "seed %q", seed)
	}
}

func TestDeriveRejectsLongSeed(t *testing.T) {
	base, owner := testKeys()

	_, err := Derive(base, types.Seed(strings.Repeat("a", types.MaxSeedLen)), owner)
	require.NoError(t, err)

	_, err = Derive(base, types.Seed(strings.Repeat("a", types.MaxSeedLen+1)), owner)
	require.ErrorIs(t, err, types.ErrSeedTooLong)
}

func TestDeriveRejectsNonASCII(t *testing.T) {
	base, owner := testKeys()
	_, err := Derive(base, "sé", owner)
	require.Error(t, err)
}

func TestDeriveIntoReusesHasher(t *testing.T) {
	base, owner := testKeys()
	h := NewHasher()

	var first, second types.PublicKey
	require.NoError(t, DeriveInto(h, base, []byte("1"), owner, &first))
	require.NoError(t, DeriveInto(h, base, []byte("2"), owner, &second))

	want, err := Derive(base, "2", owner)
	require.NoError(t, err)
	assert.Equal(t, want, second)
	assert.NotEqual(t, first, second)
}

func TestEncodeAlphabet(t *testing.T) {
	base, owner := testKeys()
	for i := 0; i < 200; i++ {
		addr, err := Derive(base, types.Seed(strings.Repeat("x", i%types.MaxSeedLen)), owner)
		require.NoError(t, err)
		enc := Encode(addr)
		assert.True(t, IsValidBase58(enc), enc)
		assert.LessOrEqual(t, len(enc), MaxEncodedLen)
		assert.Equal(t, enc, Encode(addr))
	}
}

func TestEncodeZeroKey(t *testing.T) {
	assert.Equal(t, strings.Repeat("1", 32), Encode(types.PublicKey{}))
}

func TestParsePublicKey(t *testing.T) {
	base, _ := testKeys()

	got, err := ParsePublicKey(base.String())
	require.NoError(t, err)
	assert.Equal(t, base, got)

	_, err = ParsePublicKey("")
	assert.Error(t, err)

	_, err = ParsePublicKey("0OIl")
	assert.Error(t, err)

	_, err = ParsePublicKey("abc")
	assert.Error(t, err)
}

func TestCheckOwner(t *testing.T) {
	_, owner := testKeys()
	assert.NoError(t, CheckOwner(owner))

	copy(owner[types.PublicKeySize-len(PDAMarker):], PDAMarker)
	assert.ErrorIs(t, CheckOwner(owner), types.ErrIllegalOwner)
}

func TestInvalidBase58Chars(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		caseSensitive bool
		want          []rune
	}{
		{"valid", "AbC9", true, nil},
		{"zero", "A0", true, []rune{'0'}},
		{"capital o", "O", true, []rune{'O'}},
		{"lower l sensitive", "l", true, []rune{'l'}},
		{"lower l folded", "l", false, nil},
		{"capital I folded", "I", false, nil},
		{"zero folded", "0", false, []rune{'0'}},
		{"non ascii", "é", false, []rune{'é'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InvalidBase58Chars(tt.input, tt.caseSensitive))
		})
	}
}
