package worker

import (
	"fmt"
	"strings"

	"github.com/screa/seedvanity/internal/crypto"
	"github.com/screa/seedvanity/pkg/types"
)

// Matcher checks encoded addresses against a prefix/suffix pattern.
// Case folding is done on local copies; the pattern itself is never modified.
type Matcher struct {
	prefix string
	suffix string
	fold   bool
}

// NewMatcher compiles a pattern for the search loop.
func NewMatcher(p types.Pattern) *Matcher {
	m := &Matcher{
		prefix: p.Prefix,
		suffix: p.Suffix,
		fold:   !p.CaseSensitive,
	}
	if m.fold {
		m.prefix = strings.ToLower(m.prefix)
		m.suffix = strings.ToLower(m.suffix)
	}
	return m
}

// Matches reports whether encoded satisfies the pattern.
func Matches(encoded string, p types.Pattern) bool {
	return NewMatcher(p).Matches(encoded)
}

// Matches checks prefix and suffix. Without fold this is a plain byte compare;
// with fold the address is lower-cased byte by byte to avoid an allocation.
func (m *Matcher) Matches(encoded string) bool {
	if len(encoded) < len(m.prefix) || len(encoded) < len(m.suffix) {
		return false
	}
	if !m.fold {
		return strings.HasPrefix(encoded, m.prefix) && strings.HasSuffix(encoded, m.suffix)
	}

	for i := 0; i < len(m.prefix); i++ {
		if crypto.ToLowerASCII(encoded[i]) != m.prefix[i] {
			return false
		}
	}
	off := len(encoded) - len(m.suffix)
	for i := 0; i < len(m.suffix); i++ {
		if crypto.ToLowerASCII(encoded[off+i]) != m.suffix[i] {
			return false
		}
	}
	return true
}

// ValidatePattern rejects patterns that are empty or can never match.
func ValidatePattern(p types.Pattern) error {
	if p.Empty() {
		return types.ErrNoPattern
	}
	if bad := crypto.InvalidBase58Chars(p.Prefix+p.Suffix, p.CaseSensitive); len(bad) > 0 {
		return fmt.Errorf("%w: characters %q are not in the base58 alphabet", types.ErrInvalidPattern, string(bad))
	}
	if n := len(p.Prefix) + len(p.Suffix); n > crypto.MaxEncodedLen {
		return fmt.Errorf("%w: %d characters, encoded addresses have at most %d", types.ErrInvalidPattern, n, crypto.MaxEncodedLen)
	}
	return nil
}
