package stores

import (
	"context"
	"sync"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/models"
	"github.com/tracetrail/tracetrail/internal/logging"
)

const msgDashboardLoadFailed = "Failed to load dashboard data"

// SnapshotSource fetches the dashboard aggregate; services.DashboardService
// implements it.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*models.DashboardData, error)
}

// DashboardState is a copy of the dashboard store. Snapshot is nil until the
// first successful load.
type DashboardState struct {
	Snapshot *models.DashboardData
	Loading  bool
	Error    string
}

// DashboardStore holds the latest dashboard snapshot. Loads are numbered:
// issuing a load cancels the one in flight, and only the most recently
// issued load may change the state.
type DashboardStore struct {
	src    SnapshotSource
	logger logging.Logger

	mu     sync.Mutex
	state  DashboardState
	gen    uint64
	cancel context.CancelFunc
	closed bool
	subs   observers[DashboardState]
}

func NewDashboardStore(src SnapshotSource, logger logging.Logger) *DashboardStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &DashboardStore{src: src, logger: logger.With("component", "dashboard")}
}

func (s *DashboardStore) State() DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *DashboardStore) Subscribe(fn func(DashboardState)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.subs.add(fn)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.subs.remove(id)
		s.mu.Unlock()
	}
}

// Close cancels the load in flight and detaches observers.
func (s *DashboardStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.subs.reset()
}

// Load fetches a fresh snapshot. On success the snapshot is replaced as a
// whole; on failure the error message is recorded and the previous snapshot
// kept. A load overtaken by a newer one returns ErrSuperseded and leaves the
// state alone.
func (s *DashboardStore) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.cancel = cancel
	s.state.Loading = true
	s.state.Error = ""
	st, fns := s.state, s.subs.snapshot()
	s.mu.Unlock()

	notify(fns, st)

	data, err := s.src.Snapshot(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Debug(ctx, "discarding superseded load", "generation", gen, "latest", s.latest())
		return ErrSuperseded
	}
	s.cancel = nil
	s.state.Loading = false
	if err != nil {
		s.state.Error = client.Message(err, msgDashboardLoadFailed)
	} else {
		s.state.Snapshot = data
	}
	st, fns = s.state, s.subs.snapshot()
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn(ctx, "dashboard load failed", "generation", gen, "error", err)
	}
	notify(fns, st)
	return err
}

// Refresh is Load under the name the dashboard view uses.
func (s *DashboardStore) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *DashboardStore) latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}
