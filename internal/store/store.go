// Package store implements the record sink hosted by every floodgated node.
//
// Records are kept in memory keyed by their request ID. The store can be told
// to behave like a slow or flaky storage engine: every Put waits for the
// configured latency and every FailEvery-th Put fails with ErrInjectedFailure.
// That makes a single node enough to exercise backpressure and partial batch
// failures end to end.
package store

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

// ErrInjectedFailure is returned by Put when fault injection fails a write.
var ErrInjectedFailure = errors.New("injected write failure")

// Record is one stored write.
type Record struct {
	ID       uint64    `json:"id"`
	Payload  []byte    `json:"payload"`
	StoredAt time.Time `json:"stored_at"`
}

// Options configures fault injection. The zero value stores every write
// immediately.
type Options struct {
	// Latency is added to every Put.
	Latency time.Duration

	// FailEvery fails every n-th Put. Zero disables failures.
	FailEvery int
}

// Stats summarizes store activity.
type Stats struct {
	Records  int   `json:"records"`
	Writes   int64 `json:"writes"`
	Failures int64 `json:"failures"`

	// Bytes is the payload size of the records currently stored.
	Bytes int64 `json:"bytes"`
}

// Store is a concurrency-safe in-memory record sink.
type Store struct {
	opts Options

	mu      sync.RWMutex
	records map[uint64]Record

	writes   atomic.Int64
	failures atomic.Int64
	bytes    atomic.Int64
}

// New creates an empty store.
func New(opts Options) *Store {
	return &Store{
		opts:    opts,
		records: make(map[uint64]Record),
	}
}

// Put stores payload under id, replacing any previous record. The payload is
// copied. Put honors ctx while waiting for the injected latency.
func (s *Store) Put(ctx context.Context, id uint64, payload []byte) error {
	n := s.writes.Add(1)

	if s.opts.Latency > 0 {
		timer := time.NewTimer(s.opts.Latency)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	if s.opts.FailEvery > 0 && n%int64(s.opts.FailEvery) == 0 {
		s.failures.Add(1)
		return ErrInjectedFailure
	}

	rec := Record{
		ID:       id,
		Payload:  slices.Clone(payload),
		StoredAt: time.Now().UTC(),
	}

	s.mu.Lock()
	old, replaced := s.records[id]
	s.records[id] = rec
	delta := int64(len(rec.Payload))
	if replaced {
		delta -= int64(len(old.Payload))
	}
	s.bytes.Add(delta)
	s.mu.Unlock()

	return nil
}

// Get returns the record stored under id.
func (s *Store) Get(id uint64) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Stats returns a snapshot of store counters.
func (s *Store) Stats() Stats {
	return Stats{
		Records:  s.Len(),
		Writes:   s.writes.Load(),
		Failures: s.failures.Load(),
		Bytes:    s.bytes.Load(),
	}
}

// Reset drops every record and zeroes the counters.
func (s *Store) Reset() {
	s.mu.Lock()
	s.records = make(map[uint64]Record)
	s.bytes.Store(0)
	s.mu.Unlock()

	s.writes.Store(0)
	s.failures.Store(0)
}

// Snapshot writes every record as a JSON array ordered by ID.
func (s *Store) Snapshot(w io.Writer) error {
	s.mu.RLock()
	records := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	slices.SortFunc(records, func(a, b Record) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	return json.NewEncoder(w).Encode(records)
}
