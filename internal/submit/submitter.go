package submit

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/concave-dev/floodgate/internal/logging"
)

// Submitter admits writes through a shared TokenPool of ConcurrencyLimit
// tokens. A Submitter is safe for concurrent use and may run several batches
// at once; they compete for the same tokens.
type Submitter struct {
	cfg      Config
	pool     *TokenPool
	observer Observer
}

// Option customizes a Submitter.
type Option func(*Submitter)

// WithObserver routes submission events to o.
func WithObserver(o Observer) Option {
	return func(s *Submitter) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithMode overrides the admission strategy of the config.
func WithMode(m QueueMode) Option {
	return func(s *Submitter) {
		s.cfg.Mode = m
	}
}

// WithDrainTimeout bounds how long a cancelled batch waits for in-flight
// writes before reporting them as cancelled.
func WithDrainTimeout(d time.Duration) Option {
	return func(s *Submitter) {
		s.cfg.DrainTimeout = d
	}
}

// New creates a Submitter. It fails with an ErrInvalidConfig error when the
// configuration is structurally invalid.
func New(cfg Config, opts ...Option) (*Submitter, error) {
	s := &Submitter{
		cfg:      cfg,
		observer: NoOpObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	s.pool = NewTokenPool(s.cfg.ConcurrencyLimit)
	return s, nil
}

// Submit runs requests through a one-off submitter with concurrency limit k.
// Options select the admission strategy, drain timeout and observer.
func Submit(ctx context.Context, requests []Request, k int, op WriteFunc, opts ...Option) (Outcome, error) {
	s, err := New(Config{ConcurrencyLimit: k, Mode: Block()}, opts...)
	if err != nil {
		return Outcome{}, err
	}
	return s.Submit(ctx, requests, op)
}

// Config returns the effective configuration.
func (s *Submitter) Config() Config {
	return s.cfg
}

// Stats returns the counters of the submitter's token pool.
func (s *Submitter) Stats() PoolStats {
	return s.pool.Stats()
}

// Submit offers every request in order and waits for all of them. The error
// is non-nil only for structural misuse; write failures, rejections and
// cancellations are reported in the Outcome.
func (s *Submitter) Submit(ctx context.Context, requests []Request, op WriteFunc) (Outcome, error) {
	b, err := s.Begin(ctx, op)
	if err != nil {
		return Outcome{}, err
	}

	for _, req := range requests {
		// Rejected and cancelled requests are already recorded.
		_ = b.Offer(req)
	}

	return b.Wait(), nil
}

// SubmitSeq is Submit for a lazily produced sequence. It stops pulling from
// seq once ctx is cancelled, so it is safe with unbounded sequences.
func (s *Submitter) SubmitSeq(ctx context.Context, seq iter.Seq[Request], op WriteFunc) (Outcome, error) {
	b, err := s.Begin(ctx, op)
	if err != nil {
		return Outcome{}, err
	}

	for req := range seq {
		_ = b.Offer(req)
		if ctx.Err() != nil {
			break
		}
	}

	return b.Wait(), nil
}

// Begin starts a batch whose writes run op. Requests are added with Offer and
// the batch is joined with Wait.
func (s *Submitter) Begin(ctx context.Context, op WriteFunc) (*Batch, error) {
	if op == nil {
		return nil, invalid("write operation cannot be nil")
	}

	b := &Batch{
		s:        s,
		ctx:      ctx,
		writeCtx: context.WithoutCancel(ctx),
		op:       op,
		col:      newCollector(),
		started:  time.Now(),
	}
	b.adm = newAdmitter(b)

	logging.Debug("Batch started (mode=%s, limit=%d)", s.cfg.Mode, s.cfg.ConcurrencyLimit)
	return b, nil
}

// Batch is one in-progress submission. Offer may be called from several
// goroutines; Wait must be called exactly once after the last Offer.
type Batch struct {
	s        *Submitter
	ctx      context.Context
	writeCtx context.Context
	op       WriteFunc
	adm      admitter
	col      *collector
	started  time.Time

	// mu excludes Offer from Wait so no ticket is offered after close.
	mu     sync.RWMutex
	closed bool
	seq    atomic.Uint64

	writes   sync.WaitGroup
	waitOnce sync.Once
	outcome  Outcome
}

// Offer hands req to the admission strategy. It returns nil once the request
// is accepted. A non-nil error means the request has already been recorded as
// failed: ErrAdmissionRejected when a FailFast queue is full and ErrCancelled
// when the batch context is done. Both are wrapped in a *WriteError.
func (b *Batch) Offer(req Request) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBatchClosed
	}

	t := ticket{seq: b.seq.Add(1), req: req}
	b.col.register(t)

	if b.ctx.Err() != nil {
		return b.cancel(t)
	}
	return b.adm.offer(b.ctx, t)
}

// Wait closes the batch and blocks until every offered request has a result.
// With a drain timeout configured and the batch context cancelled, writes
// still running after the timeout are reported as cancelled and Wait returns
// without them; their tokens are released when they finish.
func (b *Batch) Wait() Outcome {
	b.waitOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()

		drained := make(chan struct{})
		go func() {
			b.adm.close()
			b.writes.Wait()
			close(drained)
		}()
		b.awaitDrain(drained)

		b.outcome = Tally(b.col.seal(b.ctx))
		elapsed := time.Since(b.started)
		b.s.observer.BatchFinished(b.outcome, elapsed)

		logging.Debug("Batch finished in %v: %d succeeded, %d failed (%d rejected, %d cancelled)",
			elapsed, b.outcome.Succeeded, b.outcome.Failed, b.outcome.Rejected, b.outcome.Cancelled)
	})
	return b.outcome
}

func (b *Batch) awaitDrain(drained <-chan struct{}) {
	d := b.s.cfg.DrainTimeout
	if d <= 0 {
		<-drained
		return
	}

	select {
	case <-drained:
		return
	case <-b.ctx.Done():
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-drained:
	case <-timer.C:
		logging.Warn("Batch drain timed out after %v, abandoning %d writes", d, b.col.abandoned())
	}
}

// cancel records t as cancelled and returns the recorded error.
func (b *Batch) cancel(t ticket) error {
	err := failure(t.req.ID, cancelled(b.ctx))
	b.col.record(t, err)
	return err
}

// dispatch runs t on its own goroutine. The caller must hold a token.
func (b *Batch) dispatch(t ticket) {
	b.writes.Add(1)
	go func() {
		defer b.writes.Done()
		b.run(t)
	}()
}

// run performs the write of t, returns its token and records the result. The
// caller must hold a token.
func (b *Batch) run(t ticket) {
	b.s.observer.Admitted(t.req)

	start := time.Now()
	err := b.invoke(t.req)
	latency := time.Since(start)
	b.s.pool.Release()

	if err != nil {
		err = failure(t.req.ID, err)
	}
	b.s.observer.Completed(Result{ID: t.req.ID, Err: err}, latency)
	b.col.record(t, err)
}

func (b *Batch) invoke(req Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("write panicked: %v", r)
		}
	}()
	return b.op(b.writeCtx, req)
}
