package crypto

import (
	"bytes"
	"fmt"
	"hash"
	"strings"

	"github.com/minio/sha256-simd"
	"github.com/mr-tron/base58"

	"github.com/screa/seedvanity/pkg/types"
)

const (
	// Base58 alphabet (Bitcoin/Solana style - excludes 0, O, I, l)
	Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

	// MaxEncodedLen is the longest base-58 encoding of a 32-byte value.
	MaxEncodedLen = 44

	// PDAMarker may not appear at the end of an owner key.
	PDAMarker = "ProgramDerivedAddress"
)

// NewHasher returns the hash used by the derivation scheme.
func NewHasher() hash.Hash {
	return sha256.New()
}

// Derive computes sha256(base || seed || owner).
// Safe for concurrent use; it allocates its own hasher.
func Derive(base types.PublicKey, seed types.Seed, owner types.PublicKey) (types.PublicKey, error) {
	var out types.PublicKey
	if err := DeriveInto(NewHasher(), base, []byte(seed), owner, &out); err != nil {
		return types.PublicKey{}, err
	}
	return out, nil
}

// DeriveInto is the allocation-free form of Derive used by the search loop.
// The hasher is reset before use and must not be shared between goroutines.
func DeriveInto(hasher hash.Hash, base types.PublicKey, seed []byte, owner types.PublicKey, out *types.PublicKey) error {
	if len(seed) > types.MaxSeedLen {
		return fmt.Errorf("%w: %d bytes, max %d", types.ErrSeedTooLong, len(seed), types.MaxSeedLen)
	}
	for _, c := range seed {
		if c >= 0x80 {
			return fmt.Errorf("seed is not ASCII: byte 0x%02x", c)
		}
	}
	hasher.Reset()
	hasher.Write(base[:])
	hasher.Write(seed)
	hasher.Write(owner[:])
	sum := hasher.Sum(out[:0])
	if len(sum) != types.PublicKeySize {
		return fmt.Errorf("unexpected digest size %d", len(sum))
	}
	return nil
}

// Encode returns the base-58 form of a derived address (no checksum).
func Encode(addr types.PublicKey) string {
	return base58.Encode(addr[:])
}

// DeriveAddress derives and encodes in one step.
func DeriveAddress(base types.PublicKey, seed types.Seed, owner types.PublicKey) (string, error) {
	addr, err := Derive(base, seed, owner)
	if err != nil {
		return "", err
	}
	return Encode(addr), nil
}

// ParsePublicKey decodes a base-58 key string into 32 bytes.
func ParsePublicKey(s string) (types.PublicKey, error) {
	var key types.PublicKey
	s = strings.TrimSpace(s)
	if s == "" {
		return key, fmt.Errorf("empty public key")
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return key, fmt.Errorf("invalid base58 public key %q: %w", s, err)
	}
	if len(raw) != types.PublicKeySize {
		return key, fmt.Errorf("invalid public key length: got %d bytes, want %d", len(raw), types.PublicKeySize)
	}
	copy(key[:], raw)
	return key, nil
}

// CheckOwner rejects owner keys that end with the program derived address marker.
func CheckOwner(owner types.PublicKey) error {
	if bytes.HasSuffix(owner[:], []byte(PDAMarker)) {
		return types.ErrIllegalOwner
	}
	return nil
}

// IsValidBase58 checks if a string contains only valid Base58 characters.
func IsValidBase58(s string) bool {
	return len(InvalidBase58Chars(s, true)) == 0
}

// InvalidBase58Chars returns any runes that can never appear in an encoded address.
// With caseSensitive false a rune is accepted when its lower-case form
// matches the lower-case form of some alphabet rune.
func InvalidBase58Chars(s string, caseSensitive bool) []rune {
	var invalid []rune
	for _, c := range s {
		if caseSensitive {
			if !strings.ContainsRune(Alphabet, c) {
				invalid = append(invalid, c)
			}
			continue
		}
		if c >= 0x80 || !strings.ContainsRune(foldedAlphabet, rune(ToLowerASCII(byte(c)))) {
			invalid = append(invalid, c)
		}
	}
	return invalid
}

var foldedAlphabet = strings.ToLower(Alphabet)

// ToLowerASCII lower-cases a single ASCII letter.
func ToLowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
