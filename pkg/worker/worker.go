package worker

import (
	"context"
	"errors"
	"fmt"
	"hash"
	"runtime"
	"sync/atomic"

	"github.com/screa/seedvanity/internal/crypto"
	"github.com/screa/seedvanity/pkg/types"
)

const (
	DefaultBatchSize     = 250_000
	DefaultProgressEvery = 1_000
)

// ErrAlreadyStarted is returned when Run is called twice on the same worker.
var ErrAlreadyStarted = errors.New("worker already started")

// State of a single worker. Workers are single-use: Idle -> Running -> Found|Stopped|Error.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateFound
	StateStopped
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFound:
		return "found"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// DeriveFunc computes the derived address for one candidate seed.
type DeriveFunc func(hasher hash.Hash, base types.PublicKey, seed []byte, owner types.PublicKey, out *types.PublicKey) error

// Worker handles seed generation and matching for one slice of the seed space
type Worker struct {
	config  *types.WorkerConfig
	matcher *Matcher
	seeds   SeedStream
	derive  DeriveFunc
	state   atomic.Int32

	// Owned by the Run goroutine
	attempts uint64
	reported uint64

	// Pre-allocated buffers for performance
	hasher  hash.Hash
	seedBuf [types.MaxSeedLen]byte
	addr    types.PublicKey
}

// NewWorker creates a new worker instance
func NewWorker(config *types.WorkerConfig) (*Worker, error) {
	seeds, err := NewSeedStream(config.SeedStyle, config.Offset)
	if err != nil {
		return nil, err
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.ProgressEvery == 0 {
		config.ProgressEvery = DefaultProgressEvery
	}
	return &Worker{
		config:  config,
		matcher: NewMatcher(config.Pattern),
		seeds:   seeds,
		derive:  crypto.DeriveInto,
		hasher:  crypto.NewHasher(),
	}, nil
}

// SetDeriveFunc replaces the derivation step. Must be called before Run.
func (w *Worker) SetDeriveFunc(fn DeriveFunc) {
	w.derive = fn
}

// ID returns the worker identity assigned by the coordinator.
func (w *Worker) ID() int {
	return w.config.ID
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	return State(w.state.Load())
}

// Run searches until a match is found, ctx is cancelled, or an error occurs.
// Cancellation is only observed between batches and while a message is pending.
// Nothing is sent on out once ctx is done.
func (w *Worker) Run(ctx context.Context, out chan<- types.WorkerEvent) error {
	if !w.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyStarted
	}

	defer func() {
		if r := recover(); r != nil {
			w.fail(ctx, out, fmt.Errorf("panic: %v", r))
		}
	}()

	for {
		if ctx.Err() != nil {
			w.state.Store(int32(StateStopped))
			return nil
		}

		match, err := w.processBatch(ctx, out)
		switch {
		case err != nil:
			w.fail(ctx, out, err)
			return nil
		case match != nil:
			if w.send(ctx, out, *match) {
				w.state.Store(int32(StateFound))
			} else {
				w.state.Store(int32(StateStopped))
			}
			return nil
		}

		// Batch boundary: let the scheduler run the coordinator and other workers.
		runtime.Gosched()
	}
}

// processBatch runs one batch of candidates. It returns a Found event on match,
// nil when the batch was exhausted or a progress report could not be delivered.
func (w *Worker) processBatch(ctx context.Context, out chan<- types.WorkerEvent) (*types.WorkerEvent, error) {
	cfg := w.config
	for i := 0; i < cfg.BatchSize; i++ {
		seed := w.seeds.Next(w.seedBuf[:0])
		w.attempts++

		if err := w.derive(w.hasher, cfg.Base, seed, cfg.Owner, &w.addr); err != nil {
			return nil, fmt.Errorf("derive seed %q: %w", seed, err)
		}
		encoded := crypto.Encode(w.addr)

		if w.matcher.Matches(encoded) {
			return &types.WorkerEvent{
				WorkerID: cfg.ID,
				Kind:     types.EventFound,
				Attempts: w.attempts,
				Address:  encoded,
				Seed:     types.Seed(seed),
			}, nil
		}

		if w.attempts-w.reported >= cfg.ProgressEvery {
			w.reported = w.attempts
			progress := types.WorkerEvent{WorkerID: cfg.ID, Kind: types.EventProgress, Attempts: w.attempts}
			if !w.send(ctx, out, progress) {
				return nil, nil
			}
		}
	}
	return nil, nil
}

func (w *Worker) fail(ctx context.Context, out chan<- types.WorkerEvent, err error) {
	w.state.Store(int32(StateError))
	w.send(ctx, out, types.WorkerEvent{
		WorkerID: w.config.ID,
		Kind:     types.EventError,
		Attempts: w.attempts,
		Err:      err,
	})
}

// send delivers ev unless the session has been stopped.
func (w *Worker) send(ctx context.Context, out chan<- types.WorkerEvent, ev types.WorkerEvent) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
