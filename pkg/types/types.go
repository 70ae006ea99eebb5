package types

import (
	"time"

	"github.com/mr-tron/base58"
)

// PublicKeySize is the length of base, owner and derived keys.
const PublicKeySize = 32

// MaxSeedLen is the longest seed the derivation scheme accepts, in bytes.
const MaxSeedLen = 32

// PublicKey is an opaque 32-byte key
type PublicKey [PublicKeySize]byte

// String returns the base-58 form of the key.
func (k PublicKey) String() string {
	return base58.Encode(k[:])
}

// Seed is the ASCII string mixed into the derivation
type Seed string

// Pattern describes the vanity constraint a search is looking for.
type Pattern struct {
	Prefix        string
	Suffix        string
	CaseSensitive bool
}

// Empty reports whether neither prefix nor suffix is set.
func (p Pattern) Empty() bool {
	return p.Prefix == "" && p.Suffix == ""
}

// Description returns a human-readable description of the pattern
func (p Pattern) Description() string {
	desc := ""
	switch {
	case p.Prefix != "" && p.Suffix != "":
		desc = "prefix: " + p.Prefix + ", suffix: " + p.Suffix
	case p.Prefix != "":
		desc = "prefix: " + p.Prefix
	case p.Suffix != "":
		desc = "suffix: " + p.Suffix
	default:
		return "none"
	}
	if !p.CaseSensitive {
		desc += " (case-insensitive)"
	}
	return desc
}

// Result represents a verified search result
type Result struct {
	Address  string
	Seed     Seed
	Attempts uint64
	WorkerID int
	Duration time.Duration
}

// Progress is the telemetry handed to progress callbacks.
type Progress struct {
	Attempts   uint64
	Throughput float64 // attempts per second since session start
	Elapsed    time.Duration
	Workers    int
}

// Status is the overall state of a search session.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusFound
	StatusStopped
	StatusTimedOut
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusFound:
		return "found"
	case StatusStopped:
		return "stopped"
	case StatusTimedOut:
		return "timed out"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// SeedStyle selects how a worker turns its counter into seed strings.
type SeedStyle string

const (
	SeedStyleDecimal SeedStyle = "decimal"
	SeedStyleAlnum   SeedStyle = "alnum"
)

// WorkerConfig contains configuration for individual workers.
// Base, Owner and Pattern are shared read-only between all workers of a session.
type WorkerConfig struct {
	ID      int
	Base    PublicKey
	Owner   PublicKey
	Pattern Pattern
	Offset  uint64

	SeedStyle     SeedStyle
	BatchSize     int
	ProgressEvery uint64
}

// EventKind tags a message sent from a worker to its coordinator.
type EventKind int

const (
	EventProgress EventKind = iota
	EventFound
	EventError
)

// WorkerEvent is a one-way message from a worker to the coordinator.
type WorkerEvent struct {
	WorkerID int
	Kind     EventKind
	Attempts uint64 // cumulative for this worker

	// Set on EventFound
	Address string
	Seed    Seed

	// Set on EventError
	Err error
}
