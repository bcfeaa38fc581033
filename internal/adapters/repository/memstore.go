package repository

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/okian/riichi/internal/domain/model"
	"github.com/okian/riichi/pkg/metrics"
)

const defaultRetainedRuns = 10

// published is a replay plus the indices built once at publish time.
type published struct {
	replay *Replay
	rankOf map[string]int // player -> index into Standings
	logs   map[string][]model.Snapshot
}

func index(r *Replay) *published {
	p := &published{
		replay: r,
		rankOf: make(map[string]int, len(r.Standings)),
		logs:   make(map[string][]model.Snapshot, len(r.Standings)),
	}
	for i, s := range r.Standings {
		p.rankOf[s.Player] = i
	}
	for _, s := range r.History {
		p.logs[s.Player] = append(p.logs[s.Player], s)
	}
	for _, log := range p.logs {
		slices.SortStableFunc(log, func(a, b model.Snapshot) int { return a.GameID - b.GameID })
	}
	return p
}

// MemoryStore keeps the latest replay behind an atomic pointer, so reads
// take no locks.
type MemoryStore struct {
	current atomic.Pointer[published]

	retain int
	mu     sync.Mutex
	runs   []RunInfo
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{retain: defaultRetainedRuns}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish implements Store.Publish.
func (s *MemoryStore) Publish(_ context.Context, r *Replay) error {
	if r == nil {
		return ErrNilReplay
	}
	s.current.Store(index(r))

	s.mu.Lock()
	s.runs = append([]RunInfo{r.Info()}, s.runs...)
	if len(s.runs) > s.retain {
		s.runs = s.runs[:s.retain]
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) load() (*published, error) {
	p := s.current.Load()
	if p == nil {
		metrics.RecordErrorByComponent("repository", "not_ready")
		return nil, ErrNotReady
	}
	return p, nil
}

// Current implements Store.Current.
func (s *MemoryStore) Current(_ context.Context) (*Replay, error) {
	p, err := s.load()
	if err != nil {
		return nil, err
	}
	return p.replay, nil
}

// TopN implements Store.TopN. n larger than the player count returns everyone.
func (s *MemoryStore) TopN(_ context.Context, n int) ([]model.Standing, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	p, err := s.load()
	if err != nil {
		return nil, err
	}
	standings := p.replay.Standings
	n = min(n, len(standings))
	return slices.Clone(standings[:n]), nil
}

// Rank implements Store.Rank.
func (s *MemoryStore) Rank(_ context.Context, player string) (model.Standing, error) {
	p, err := s.load()
	if err != nil {
		return model.Standing{}, err
	}
	i, ok := p.rankOf[player]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Standing{}, ErrNotFound
	}
	return p.replay.Standings[i], nil
}

// History implements Store.History.
func (s *MemoryStore) History(_ context.Context, player string) ([]model.Snapshot, error) {
	p, err := s.load()
	if err != nil {
		return nil, err
	}
	log, ok := p.logs[player]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrNotFound
	}
	return slices.Clone(log), nil
}

// Count implements Store.Count. It is zero before the first publish.
func (s *MemoryStore) Count(_ context.Context) int {
	p := s.current.Load()
	if p == nil {
		return 0
	}
	return len(p.replay.Standings)
}

// Runs implements Store.Runs.
func (s *MemoryStore) Runs(_ context.Context) []RunInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.runs)
}
