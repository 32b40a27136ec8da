package snapshot

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"MarketBoard/internal/domain/models"
	"MarketBoard/pkg/cache"
	"MarketBoard/pkg/logger"
)

// keepFor is how long snapshots persist in the shared cache backend. Much
// longer than any source TTL so a stale copy survives provider outages and
// process restarts.
const keepFor = time.Hour

// persisted wraps a snapshot with its TTL, which the model keeps out of its
// JSON form.
type persisted struct {
	Snapshot  *models.SourceSnapshot `json:"snapshot"`
	TTLMillis int64                  `json:"ttlMillis"`
}

// Store holds the latest snapshot per source. Reads and writes are atomic;
// a snapshot is replaced whole, never patched. An optional cache backend
// makes snapshots survive restarts and shares them between replicas, with
// every read still served from local memory.
type Store struct {
	mu      sync.RWMutex
	snaps   map[string]*models.SourceSnapshot
	backend cache.Service
	log     *logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithBackend attaches a shared cache behind the in-memory map.
func WithBackend(backend cache.Service) Option {
	return func(s *Store) {
		s.backend = backend
	}
}

// NewStore creates an empty snapshot store.
func NewStore(log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		snaps: make(map[string]*models.SourceSnapshot),
		log:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func backendKey(sourceID string) string {
	return cache.GenerateKey("snapshot", sourceID)
}

// Put replaces the stored snapshot for its source and writes through to the
// backend. Backend errors are logged, never surfaced: the local copy is the
// source of truth.
func (s *Store) Put(ctx context.Context, snap *models.SourceSnapshot) {
	s.mu.Lock()
	s.snaps[snap.SourceID] = snap
	s.mu.Unlock()

	if s.backend == nil {
		return
	}
	// Stored as a JSON string so every backend round-trips it the same way.
	raw, err := json.Marshal(persisted{Snapshot: snap, TTLMillis: snap.TTL.Milliseconds()})
	if err != nil {
		s.log.Warn("snapshot marshal failed",
			logger.String("source", snap.SourceID),
			logger.Error(err))
		return
	}
	if err := s.backend.Set(ctx, backendKey(snap.SourceID), string(raw), keepFor); err != nil {
		s.log.Warn("snapshot backend write failed",
			logger.String("source", snap.SourceID),
			logger.Error(err))
	}
}

// Get returns the stored snapshot for a source, consulting the backend on a
// local miss. The boolean is false when neither layer has one.
func (s *Store) Get(ctx context.Context, sourceID string) (*models.SourceSnapshot, bool) {
	s.mu.RLock()
	snap, ok := s.snaps[sourceID]
	s.mu.RUnlock()
	if ok {
		return snap, true
	}
	if s.backend == nil {
		return nil, false
	}

	var raw string
	if err := s.backend.Get(ctx, backendKey(sourceID), &raw); err != nil {
		return nil, false
	}
	var p persisted
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.Snapshot == nil {
		return nil, false
	}
	p.Snapshot.TTL = time.Duration(p.TTLMillis) * time.Millisecond

	s.mu.Lock()
	// Another goroutine may have refreshed meanwhile; keep the newer one.
	if cur, ok := s.snaps[sourceID]; !ok || cur.FetchedAt.Before(p.Snapshot.FetchedAt) {
		s.snaps[sourceID] = p.Snapshot
	}
	snap = s.snaps[sourceID]
	s.mu.Unlock()
	return snap, true
}

// Fresh returns the snapshot only when it is still within its TTL.
func (s *Store) Fresh(ctx context.Context, sourceID string, now time.Time) (*models.SourceSnapshot, bool) {
	snap, ok := s.Get(ctx, sourceID)
	if !ok || snap.Stale(now) {
		return nil, false
	}
	return snap, true
}

// IDs lists sources with a locally held snapshot.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.snaps))
	for id := range s.snaps {
		out = append(out, id)
	}
	return out
}
