package genstore

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type localEntry struct {
	gen     uint64       // guarded by Local.mu
	touched atomic.Int64 // unix nanos of the last bump or read
}

// Local keeps generations in-process.
// A background loop prunes idle slots when both interval and retention are
// set. Reads count as activity, so a slot is idle only while nothing bumps or
// reads its generation. A pruned slot reports 0 and its stored record is then
// dropped as stale, so retention must outlast the longest gap between reads
// of an open slot.
type Local struct {
	mu        sync.RWMutex
	entries   map[string]*localEntry
	retention time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

var _ GenStore = (*Local)(nil)

// NewLocal returns a Local. With pruneEvery or retention <= 0 nothing is ever
// pruned.
func NewLocal(pruneEvery, retention time.Duration) *Local {
	s := &Local{entries: make(map[string]*localEntry)}
	if pruneEvery <= 0 || retention <= 0 {
		return s
	}
	s.retention = retention
	s.ticker = time.NewTicker(pruneEvery)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.ticker.C:
				s.Prune(retention)
			case <-s.stop:
				return
			}
		}
	}()
	return s
}

// Retention is the idle time after which the prune loop drops a slot;
// 0 means the loop is off.
func (s *Local) Retention() time.Duration { return s.retention }

func (s *Local) Current(_ context.Context, k string) (uint64, error) {
	now := time.Now().UnixNano()
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[k]
	if !ok {
		return 0, nil
	}
	e.touched.Store(now)
	return e.gen, nil
}

// CurrentMany takes the read lock once for the whole batch.
func (s *Local) CurrentMany(_ context.Context, ks []string) (map[string]uint64, error) {
	now := time.Now().UnixNano()
	out := make(map[string]uint64, len(ks))
	s.mu.RLock()
	for _, k := range ks {
		if e, ok := s.entries[k]; ok {
			e.touched.Store(now)
			out[k] = e.gen
		} else {
			out[k] = 0
		}
	}
	s.mu.RUnlock()
	return out, nil
}

func (s *Local) Bump(_ context.Context, k string) (uint64, error) {
	now := time.Now().UnixNano()
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[k]
	if !ok {
		e = &localEntry{}
		s.entries[k] = e
	}
	e.gen++
	e.touched.Store(now)
	return e.gen, nil
}

func (s *Local) Prune(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention).UnixNano()
	s.mu.Lock()
	for k, e := range s.entries {
		if e.touched.Load() < cutoff {
			delete(s.entries, k)
		}
	}
	s.mu.Unlock()
}

// Close stops the prune loop. Safe to call more than once.
func (s *Local) Close(context.Context) error {
	s.once.Do(func() {
		if s.stop == nil {
			return
		}
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
	})
	return nil
}
