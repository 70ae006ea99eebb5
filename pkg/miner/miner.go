package miner

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"maps"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/screa/seedvanity/internal/config"
	"github.com/screa/seedvanity/internal/crypto"
	"github.com/screa/seedvanity/internal/logger"
	"github.com/screa/seedvanity/pkg/types"
	"github.com/screa/seedvanity/pkg/verifier"
	"github.com/screa/seedvanity/pkg/worker"
)

// ProgressFunc receives aggregate telemetry. It runs on the coordinator
// goroutine and must return quickly.
type ProgressFunc func(types.Progress)

// Snapshot is a copy of the coordinator's aggregate counters.
type Snapshot struct {
	Attempts  uint64
	PerWorker map[int]uint64
}

// session is the stop handle of the running search.
type session struct {
	id       string
	stop     chan struct{}
	stopOnce sync.Once
}

func (s *session) cancel() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Miner coordinates a pool of search workers
type Miner struct {
	config *config.Config
	logger *logger.Logger

	mu          sync.Mutex
	current     *session
	pendingStop bool
	status      types.Status
	counts      map[int]uint64
	total       uint64

	// Overridable in tests
	offsets func(n int) ([]uint64, error)
	derive  worker.DeriveFunc
	verify  func(base, owner types.PublicKey, result *types.Result) error
}

// NewMiner creates a new miner instance
func NewMiner(cfg *config.Config, log *logger.Logger) *Miner {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	m := &Miner{
		config: cfg,
		logger: log,
		status: types.StatusIdle,
		verify: verifier.Verify,
	}
	m.offsets = m.assignOffsets
	return m
}

// Search runs one session and returns a verified match.
// Failures are types.ErrNoPattern, types.ErrInvalidPattern, types.ErrIllegalOwner,
// *types.WorkerError, types.ErrTimeout, types.ErrCancelled and *types.VerificationError.
func (m *Miner) Search(ctx context.Context, base, owner types.PublicKey, pattern types.Pattern, workers int, onProgress ProgressFunc) (*types.Result, error) {
	if err := worker.ValidatePattern(pattern); err != nil {
		return nil, err
	}
	if err := crypto.CheckOwner(owner); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = m.config.Workers
	}

	offsets, err := m.offsets(workers)
	if err != nil {
		return nil, fmt.Errorf("assign offsets: %w", err)
	}

	s, err := m.begin(workers)
	if err != nil {
		return nil, err
	}
	defer m.end(s)

	select {
	case <-s.stop:
		m.setStatus(types.StatusStopped)
		return nil, types.ErrCancelled
	default:
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := make([]*worker.Worker, workers)
	for i := range pool {
		w, err := worker.NewWorker(&types.WorkerConfig{
			ID:            i,
			Base:          base,
			Owner:         owner,
			Pattern:       pattern,
			Offset:        offsets[i],
			SeedStyle:     types.SeedStyle(m.config.SeedStyle),
			BatchSize:     m.config.BatchSize,
			ProgressEvery: m.config.ProgressEvery,
		})
		if err != nil {
			m.setStatus(types.StatusError)
			return nil, err
		}
		if m.derive != nil {
			w.SetDeriveFunc(m.derive)
		}
		pool[i] = w
	}

	m.logger.Debugf("session %s: %d workers, %s, timeout %s", s.id, workers, pattern.Description(), m.config.Timeout)

	events := make(chan types.WorkerEvent, 2*workers)
	var g errgroup.Group
	for _, w := range pool {
		w := w
		g.Go(func() error {
			return w.Run(sessionCtx, events)
		})
	}

	var teardownOnce sync.Once
	teardown := func() {
		teardownOnce.Do(func() {
			cancel()
			if err := g.Wait(); err != nil {
				m.logger.Printf("session %s: worker shutdown: %v", s.id, err)
			}
		})
	}
	defer teardown()

	start := time.Now()
	timer := time.NewTimer(m.config.Timeout)
	defer timer.Stop()

	// Only the first Found event is honoured.
	var found bool
	for {
		select {
		case ev := <-events:
			switch ev.Kind {
			case types.EventProgress:
				total := m.record(ev.WorkerID, ev.Attempts)
				if onProgress != nil {
					elapsed := time.Since(start)
					onProgress(types.Progress{
						Attempts:   total,
						Throughput: throughput(total, elapsed),
						Elapsed:    elapsed,
						Workers:    workers,
					})
				}

			case types.EventFound:
				if found {
					continue
				}
				found = true
				teardown()
				total := m.record(ev.WorkerID, ev.Attempts)

				result := &types.Result{
					Address:  ev.Address,
					Seed:     ev.Seed,
					Attempts: total,
					WorkerID: ev.WorkerID,
					Duration: time.Since(start),
				}
				if err := m.check(base, owner, pattern, result); err != nil {
					m.setStatus(types.StatusError)
					m.logger.Debugf("session %s: match from worker %d rejected: %v", s.id, ev.WorkerID, err)
					return nil, err
				}
				m.setStatus(types.StatusFound)
				m.logger.Debugf("session %s: worker %d found %s after %d attempts", s.id, ev.WorkerID, result.Address, total)
				return result, nil

			case types.EventError:
				m.record(ev.WorkerID, ev.Attempts)
				teardown()
				m.setStatus(types.StatusError)
				return nil, &types.WorkerError{WorkerID: ev.WorkerID, Err: ev.Err}
			}

		case <-timer.C:
			teardown()
			m.setStatus(types.StatusTimedOut)
			m.logger.Debugf("session %s: timed out after %s", s.id, m.config.Timeout)
			return nil, types.ErrTimeout

		case <-ctx.Done():
			teardown()
			m.setStatus(types.StatusStopped)
			return nil, fmt.Errorf("%w: %v", types.ErrCancelled, context.Cause(ctx))

		case <-s.stop:
			teardown()
			m.setStatus(types.StatusStopped)
			return nil, types.ErrCancelled
		}
	}
}

// check verifies a candidate before it is handed to the caller.
func (m *Miner) check(base, owner types.PublicKey, pattern types.Pattern, result *types.Result) error {
	if err := m.verify(base, owner, result); err != nil {
		return err
	}
	if !worker.Matches(result.Address, pattern) {
		return &types.VerificationError{
			Seed:     result.Seed,
			Expected: result.Address,
			Reason:   "address does not match " + pattern.Description(),
		}
	}
	return nil
}

// Stop cancels the running search. Safe to call from any goroutine.
// If no session is registered yet, the stop is held and the next session
// starts already cancelled.
func (m *Miner) Stop() {
	m.mu.Lock()
	s := m.current
	if s == nil {
		m.pendingStop = true
	}
	m.mu.Unlock()
	if s != nil {
		s.cancel()
	}
}

// Status returns the state of the current or most recent session
func (m *Miner) Status() types.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Snapshot returns the aggregate counters of the current or most recent session
func (m *Miner) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Attempts:  m.total,
		PerWorker: maps.Clone(m.counts),
	}
}

func (m *Miner) begin(workers int) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		return nil, types.ErrSessionRunning
	}
	m.current = &session{
		id:   uuid.NewString(),
		stop: make(chan struct{}),
	}
	if m.pendingStop {
		m.pendingStop = false
		m.current.cancel()
	}
	m.status = types.StatusRunning
	m.counts = make(map[int]uint64, workers)
	m.total = 0
	return m.current, nil
}

func (m *Miner) end(s *session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == s {
		m.current = nil
	}
}

// record stores a worker's last reported count and recomputes the total.
func (m *Miner) record(id int, attempts uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if attempts > m.counts[id] {
		m.counts[id] = attempts
	}
	var total uint64
	for _, n := range m.counts {
		total += n
	}
	m.total = total
	return total
}

func (m *Miner) setStatus(s types.Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

// assignOffsets gives every worker a distinct starting point in the counter space.
func (m *Miner) assignOffsets(n int) ([]uint64, error) {
	if m.config.RandomOffsets {
		return randomOffsets(n)
	}
	return partitionOffsets(n), nil
}

// partitionOffsets splits the counter space into n equal slices.
func partitionOffsets(n int) []uint64 {
	stride := math.MaxUint64 / uint64(n)
	offsets := make([]uint64, n)
	for i := range offsets {
		offsets[i] = uint64(i) * stride
	}
	return offsets
}

// randomOffsets draws n distinct offsets from crypto/rand.
func randomOffsets(n int) ([]uint64, error) {
	seen := make(map[uint64]struct{}, n)
	offsets := make([]uint64, 0, n)
	var buf [8]byte
	for len(offsets) < n {
		if _, err := rand.Read(buf[:]); err != nil {
			return nil, err
		}
		off := binary.LittleEndian.Uint64(buf[:])
		if _, dup := seen[off]; dup {
			continue
		}
		seen[off] = struct{}{}
		offsets = append(offsets, off)
	}
	return offsets, nil
}

func throughput(attempts uint64, elapsed time.Duration) float64 {
	if elapsed.Seconds() <= 0 {
		return 0
	}
	return float64(attempts) / elapsed.Seconds()
}
