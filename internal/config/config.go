package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/screa/seedvanity/internal/crypto"
	"github.com/screa/seedvanity/pkg/types"
)

// Errors
var (
	ErrNoBaseKey      = errors.New("must specify --base")
	ErrNoOwnerKey     = errors.New("must specify --owner")
	ErrInvalidWorkers = errors.New("--workers must be positive")
	ErrInvalidTimeout = errors.New("--timeout must be positive")
)

// DefaultTimeout is the hard ceiling on a single search session.
const DefaultTimeout = 5 * time.Minute

// Config holds the application configuration
type Config struct {
	Workers         int
	Base            string // base58
	Owner           string // base58
	Prefix          string
	Suffix          string
	CaseInsensitive bool
	Timeout         time.Duration
	BatchSize       int
	ProgressEvery   uint64
	SeedStyle       string
	RandomOffsets   bool
	Verbose         bool
	LogFile         string
	LogInterval     int // Logging interval in seconds
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Workers:       runtime.NumCPU(),
		Timeout:       DefaultTimeout,
		BatchSize:     250_000,
		ProgressEvery: 1_000,
		SeedStyle:     string(types.SeedStyleDecimal),
		LogInterval:   5, // Default 5 seconds
	}
}

// Validate validates the configuration for a search
func (c *Config) Validate() error {
	if c.Prefix == "" && c.Suffix == "" {
		return types.ErrNoPattern
	}
	if c.Base == "" {
		return ErrNoBaseKey
	}
	if c.Owner == "" {
		return ErrNoOwnerKey
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	switch types.SeedStyle(c.SeedStyle) {
	case types.SeedStyleDecimal, types.SeedStyleAlnum:
	default:
		return fmt.Errorf("unknown seed style %q (want %s or %s)", c.SeedStyle, types.SeedStyleDecimal, types.SeedStyleAlnum)
	}
	if _, _, err := c.Keys(); err != nil {
		return err
	}
	return nil
}

// Keys decodes the base and owner keys
func (c *Config) Keys() (types.PublicKey, types.PublicKey, error) {
	base, err := crypto.ParsePublicKey(c.Base)
	if err != nil {
		return types.PublicKey{}, types.PublicKey{}, fmt.Errorf("base key: %w", err)
	}
	owner, err := crypto.ParsePublicKey(c.Owner)
	if err != nil {
		return types.PublicKey{}, types.PublicKey{}, fmt.Errorf("owner key: %w", err)
	}
	return base, owner, nil
}

// Pattern returns the search pattern described by the flags
func (c *Config) Pattern() types.Pattern {
	return types.Pattern{
		Prefix:        c.Prefix,
		Suffix:        c.Suffix,
		CaseSensitive: !c.CaseInsensitive,
	}
}

// GetTargetDescription returns a human-readable description of the target
func (c *Config) GetTargetDescription() string {
	return c.Pattern().Description()
}
