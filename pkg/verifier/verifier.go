// Package verifier independently recomputes a search result before it is accepted.
package verifier

import (
	"github.com/screa/seedvanity/internal/crypto"
	"github.com/screa/seedvanity/pkg/types"
)

// Verify re-derives the address for result.Seed and compares it with result.Address.
// It returns a *types.VerificationError on mismatch or if the seed cannot be derived.
func Verify(base, owner types.PublicKey, result *types.Result) error {
	if result == nil {
		return &types.VerificationError{Reason: "no result"}
	}
	actual, err := crypto.DeriveAddress(base, result.Seed, owner)
	if err != nil {
		return &types.VerificationError{
			Seed:     result.Seed,
			Expected: result.Address,
			Reason:   err.Error(),
		}
	}
	if actual != result.Address {
		return &types.VerificationError{
			Seed:     result.Seed,
			Expected: result.Address,
			Actual:   actual,
		}
	}
	return nil
}
