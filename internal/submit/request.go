// Package submit implements bounded concurrent batch submission of asynchronous
// writes against an external sink.
//
// A Submitter owns a pool of K admission tokens. Every write that runs against
// the sink holds exactly one token for its whole duration, so at most K writes
// are ever in flight no matter how many requests a batch carries or how many
// batches share the submitter. Producers are slowed down at admission rather
// than letting pending work pile up in memory.
//
// ADMISSION STRATEGIES:
//   - Block: the producer waits for a free token before each dispatch
//   - BufferedStaging(B): a FIFO stage of B requests decouples the producer
//     from token acquisition
//   - FailFast(Q): K workers drain a queue of Q requests and offers to a full
//     queue are rejected immediately
//
// Every request offered to a batch produces exactly one Result. Failures never
// cancel sibling writes and are never retried here; retry, timeout and rate
// limiting are layered onto the WriteFunc with the decorators in decorate.go.
package submit

import (
	"context"
	"fmt"
)

// Request is a single write handed to the submitter. The ID is assigned by the
// caller and is carried through to the matching Result. Payload is opaque and
// must not be mutated after the request has been offered.
type Request struct {
	ID      uint64
	Payload []byte
}

// Result is the terminal state of one request: it succeeded when Err is nil,
// otherwise it failed with Err as the cause.
type Result struct {
	ID  uint64
	Err error
}

// Succeeded reports whether the write completed without error.
func (r Result) Succeeded() bool {
	return r.Err == nil
}

// String renders the result for logs and test failures.
func (r Result) String() string {
	if r.Err == nil {
		return fmt.Sprintf("Succeeded(%d)", r.ID)
	}
	return fmt.Sprintf("Failed(%d, %v)", r.ID, r.Err)
}

// WriteFunc performs one asynchronous write against the backing store. It is
// called at most ConcurrencyLimit times concurrently per submitter. The context
// passed in is detached from batch cancellation so an admitted write is allowed
// to finish.
type WriteFunc func(ctx context.Context, req Request) error
