package types

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrNoPattern      = errors.New("must specify a prefix, a suffix, or both")
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrSeedTooLong    = errors.New("seed exceeds maximum length")
	ErrIllegalOwner   = errors.New("owner key ends with the program derived address marker")
	ErrTimeout        = errors.New("search timed out without a match")
	ErrCancelled      = errors.New("search cancelled")
	ErrSessionRunning = errors.New("a search is already running")
	ErrWorker         = errors.New("worker failed")
	ErrVerification   = errors.New("verification failed")
)

// WorkerError reports a fatal failure inside a search worker.
type WorkerError struct {
	WorkerID int
	Err      error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d failed: %v", e.WorkerID, e.Err)
}

// Unwrap lets errors.Is match both ErrWorker and the underlying cause.
func (e *WorkerError) Unwrap() []error {
	return []error{ErrWorker, e.Err}
}

// VerificationError reports a match that did not survive recomputation.
type VerificationError struct {
	Seed     Seed
	Expected string // address reported by the search
	Actual   string // address recomputed from the seed
	Reason   string
}

func (e *VerificationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("verification failed for seed %q: %s", e.Seed, e.Reason)
	}
	return fmt.Sprintf("verification failed for seed %q: reported %s, recomputed %s", e.Seed, e.Expected, e.Actual)
}

func (e *VerificationError) Unwrap() error {
	return ErrVerification
}
