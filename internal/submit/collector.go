package submit

import (
	"context"
	"sync"
)

// ticket is one offered request. seq is unique within a batch even when the
// caller reuses request IDs.
type ticket struct {
	seq uint64
	req Request
}

// collector gathers exactly one result per ticket. Once sealed, late results
// from abandoned writes are dropped.
type collector struct {
	mu      sync.Mutex
	results []Result
	pending map[uint64]uint64
	sealed  bool
}

func newCollector() *collector {
	return &collector{pending: make(map[uint64]uint64)}
}

// register marks a ticket as owed a result.
func (c *collector) register(t ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[t.seq] = t.req.ID
}

// record stores the result of a ticket and reports whether it was accepted.
func (c *collector) record(t ticket, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return false
	}
	if _, ok := c.pending[t.seq]; !ok {
		return false
	}
	delete(c.pending, t.seq)
	c.results = append(c.results, Result{ID: t.req.ID, Err: err})
	return true
}

// seal closes the collector. Tickets still pending are recorded as cancelled
// with the cause of ctx. It returns every collected result.
func (c *collector) seal(ctx context.Context) []Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sealed {
		for seq, id := range c.pending {
			c.results = append(c.results, Result{ID: id, Err: failure(id, cancelled(ctx))})
			delete(c.pending, seq)
		}
		c.sealed = true
	}

	out := make([]Result, len(c.results))
	copy(out, c.results)
	return out
}

// abandoned returns how many tickets are still owed a result.
func (c *collector) abandoned() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
