package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/screa/seedvanity/internal/config"
	"github.com/screa/seedvanity/internal/crypto"
	logpkg "github.com/screa/seedvanity/internal/logger"
	minerpkg "github.com/screa/seedvanity/pkg/miner"
	"github.com/screa/seedvanity/pkg/types"
	"github.com/screa/seedvanity/pkg/verifier"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger

	seedFlag    string
	addressFlag string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "seedvanity",
		Short: "Vanity search for seed-derived account addresses",
		Long: `A command line utility that searches for a seed whose derived address
sha256(base || seed || owner) has a chosen base58 prefix and/or suffix.`,
		SilenceUsage: true,
		RunE:         runSearch,
	}

	rootCmd.PersistentFlags().StringVarP(&cfg.Base, "base", "b", "", "Base public key (base58) (required)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Owner, "owner", "o", "", "Owner public key (base58) (required)")

	rootCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")
	rootCmd.Flags().StringVarP(&cfg.Prefix, "prefix", "p", "", "Address prefix to match")
	rootCmd.Flags().StringVarP(&cfg.Suffix, "suffix", "s", "", "Address suffix to match")
	rootCmd.Flags().BoolVarP(&cfg.CaseInsensitive, "case-insensitive", "i", false, "Ignore case when matching")
	rootCmd.Flags().DurationVarP(&cfg.Timeout, "timeout", "t", config.DefaultTimeout, "Give up after this long")
	rootCmd.Flags().IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "Candidates per worker batch")
	rootCmd.Flags().Uint64Var(&cfg.ProgressEvery, "progress-every", cfg.ProgressEvery, "Attempts between worker progress reports")
	rootCmd.Flags().StringVar(&cfg.SeedStyle, "seed-style", cfg.SeedStyle, "Seed generator: decimal or alnum")
	rootCmd.Flags().BoolVar(&cfg.RandomOffsets, "random-offsets", false, "Start each worker at a random counter offset")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for progress tracking (default: stdout)")
	rootCmd.Flags().IntVar(&cfg.LogInterval, "log-interval", 5, "Logging interval in seconds")

	rootCmd.AddCommand(newDeriveCmd(), newVerifyCmd())
	return rootCmd
}

func newDeriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the address derived from a seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, owner, err := cfg.Keys()
			if err != nil {
				return err
			}
			addr, err := crypto.DeriveAddress(base, types.Seed(seedFlag), owner)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&seedFlag, "seed", "", "Seed string (at most 32 ASCII bytes)")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that a seed derives to the given address",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, owner, err := cfg.Keys()
			if err != nil {
				return err
			}
			result := &types.Result{Address: addressFlag, Seed: types.Seed(seedFlag)}
			if err := verifier.Verify(base, owner, result); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: seed %q derives %s\n", seedFlag, addressFlag)
			return nil
		},
	}
	cmd.Flags().StringVar(&seedFlag, "seed", "", "Seed string")
	cmd.Flags().StringVar(&addressFlag, "address", "", "Expected base58 address")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return err
	}
	base, owner, err := cfg.Keys()
	if err != nil {
		return err
	}

	// Setup logging
	cleanup, err := setupLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Printf("Starting seed vanity search with %d workers...", cfg.Workers)
	logger.Printf("Target: %s", cfg.GetTargetDescription())
	logger.Printf("Base: %s", base)
	logger.Printf("Owner: %s", owner)

	miner := minerpkg.NewMiner(cfg, logger)

	// Ctrl+C cancels the search context, even before the session registers.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Progress callbacks arrive far more often than we log; keep the latest.
	var latest atomic.Pointer[types.Progress]
	logDone := make(chan struct{})
	defer close(logDone)
	go periodicLogger(time.Duration(cfg.LogInterval)*time.Second, &latest, logDone)

	result, err := miner.Search(ctx, base, owner, cfg.Pattern(), cfg.Workers, func(p types.Progress) {
		latest.Store(&p)
	})
	switch {
	case err == nil:
		logger.Printf("🎉 Found match!")
		logger.Printf("Seed: %s", result.Seed)
		logger.Printf("Address: %s", result.Address)
		logger.Printf("Attempts: %d", result.Attempts)
		logger.Printf("Duration: %v", result.Duration)
		logger.Printf("Rate: %.2f hashes/sec", rate(result.Attempts, result.Duration))
		return nil
	case errors.Is(err, types.ErrCancelled):
		logger.Println("Received interrupt signal (Ctrl+C). Workers stopped.")
		logger.Printf("Search stopped by user after %d attempts.", miner.Snapshot().Attempts)
		return nil
	case errors.Is(err, types.ErrTimeout):
		logger.Printf("No match found within %s (%d attempts).", cfg.Timeout, miner.Snapshot().Attempts)
		return err
	default:
		return err
	}
}

// periodicLogger logs search progress at regular intervals
func periodicLogger(interval time.Duration, latest *atomic.Pointer[types.Progress], done <-chan struct{}) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if p := latest.Load(); p != nil {
				logger.Printf("Progress: %d attempts, %.2f hashes/sec, elapsed %s",
					p.Attempts, p.Throughput, p.Elapsed.Truncate(time.Second))
			} else {
				logger.Printf("Progress: warming up, no reports yet")
			}
		case <-done:
			return
		}
	}
}

// setupLogging installs the global logger. The returned cleanup is never nil.
func setupLogging() (func(), error) {
	if cfg.LogFile != "" {
		// Log to file
		l, file, err := logpkg.NewFile(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger = l
		logger.SetVerbose(cfg.Verbose)
		return func() { file.Close() }, nil
	}
	// Log to stdout
	logger = logpkg.New()
	logger.SetVerbose(cfg.Verbose)
	return func() {}, nil
}

func rate(attempts uint64, d time.Duration) float64 {
	if d.Seconds() <= 0 {
		return 0
	}
	return float64(attempts) / d.Seconds()
}
