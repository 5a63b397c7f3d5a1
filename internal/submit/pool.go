package submit

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// TokenPool is the counting pool of admission tokens shared by every batch of
// a submitter. A token is held by exactly one in-flight write and must be
// returned with Release once that write has finished, whatever its result.
type TokenPool struct {
	sem      *semaphore.Weighted
	capacity int64

	acquired atomic.Int64
	released atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
}

// PoolStats is a point-in-time view of a TokenPool.
type PoolStats struct {
	Capacity     int   `json:"capacity"`
	Acquired     int64 `json:"acquired"`
	Released     int64 `json:"released"`
	InFlight     int64 `json:"in_flight"`
	PeakInFlight int64 `json:"peak_in_flight"`
}

// NewTokenPool creates a pool of k tokens. k must be positive.
func NewTokenPool(k int) *TokenPool {
	return &TokenPool{
		sem:      semaphore.NewWeighted(int64(k)),
		capacity: int64(k),
	}
}

// Acquire blocks until a token is available or ctx is done. A done context
// never yields a token, even when one is free.
func (p *TokenPool) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	p.take()
	return nil
}

// TryAcquire takes a token without blocking and reports whether it did.
func (p *TokenPool) TryAcquire() bool {
	if !p.sem.TryAcquire(1) {
		return false
	}
	p.take()
	return true
}

// Release returns a token to the pool. The in-flight count drops before the
// semaphore slot is handed back so it never exceeds the capacity.
func (p *TokenPool) Release() {
	p.inFlight.Add(-1)
	p.released.Add(1)
	p.sem.Release(1)
}

// Capacity returns the number of tokens in the pool.
func (p *TokenPool) Capacity() int {
	return int(p.capacity)
}

// Stats returns the current counters. The fields are read independently, so
// a snapshot taken while writes are running may be off by the writes that
// moved between reads.
func (p *TokenPool) Stats() PoolStats {
	return PoolStats{
		Capacity:     int(p.capacity),
		Acquired:     p.acquired.Load(),
		Released:     p.released.Load(),
		InFlight:     p.inFlight.Load(),
		PeakInFlight: p.peak.Load(),
	}
}

func (p *TokenPool) take() {
	p.acquired.Add(1)
	n := p.inFlight.Add(1)
	for {
		cur := p.peak.Load()
		if n <= cur || p.peak.CompareAndSwap(cur, n) {
			return
		}
	}
}
