package submit

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// admitter decides when an offered ticket obtains a token and runs. Every
// ticket passed to offer must end up recorded exactly once, either by the
// admitter itself or by the write it dispatches.
type admitter interface {
	// offer admits t. A non-nil error means t has already been recorded as
	// failed with that error.
	offer(ctx context.Context, t ticket) error

	// close stops accepting tickets and returns once every accepted ticket
	// has been dispatched or recorded.
	close()
}

func newAdmitter(b *Batch) admitter {
	switch b.s.cfg.Mode.Kind {
	case ModeBuffered:
		return newStagingAdmitter(b, b.s.cfg.Mode.Size)
	case ModeFailFast:
		return newFailFastAdmitter(b, b.s.cfg.ConcurrencyLimit, b.s.cfg.Mode.Size)
	default:
		return &blockAdmitter{b: b}
	}
}

// ============================================================================
// BLOCK - the producer waits for a token
// ============================================================================

type blockAdmitter struct {
	b *Batch
}

func (a *blockAdmitter) offer(ctx context.Context, t ticket) error {
	if err := a.b.s.pool.Acquire(ctx); err != nil {
		return a.b.cancel(t)
	}
	a.b.dispatch(t)
	return nil
}

func (a *blockAdmitter) close() {}

// ============================================================================
// BUFFERED STAGING - a FIFO stage ahead of token acquisition
// ============================================================================

type stagingAdmitter struct {
	b     *Batch
	stage chan ticket
	done  chan struct{}
}

func newStagingAdmitter(b *Batch, size int) *stagingAdmitter {
	a := &stagingAdmitter{
		b:     b,
		stage: make(chan ticket, size),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

// run moves staged tickets to dispatch in FIFO order, one token at a time.
// After cancellation the remaining staged tickets are recorded as cancelled.
func (a *stagingAdmitter) run() {
	defer close(a.done)

	for t := range a.stage {
		if err := a.b.s.pool.Acquire(a.b.ctx); err != nil {
			a.b.cancel(t)
			continue
		}
		a.b.dispatch(t)
	}
}

func (a *stagingAdmitter) offer(ctx context.Context, t ticket) error {
	select {
	case a.stage <- t:
		return nil
	case <-ctx.Done():
		return a.b.cancel(t)
	}
}

func (a *stagingAdmitter) close() {
	close(a.stage)
	<-a.done
}

// ============================================================================
// FAIL FAST - K workers drain a bounded queue, overflow is rejected
// ============================================================================

type failFastAdmitter struct {
	b     *Batch
	queue chan ticket
	group *errgroup.Group
}

func newFailFastAdmitter(b *Batch, workers, size int) *failFastAdmitter {
	a := &failFastAdmitter{
		b:     b,
		queue: make(chan ticket, size),
		group: new(errgroup.Group),
	}
	for range workers {
		a.group.Go(a.work)
	}
	return a
}

// work runs queued tickets one at a time. Workers still take a token from the
// shared pool so concurrent batches of one submitter stay within its limit.
func (a *failFastAdmitter) work() error {
	for t := range a.queue {
		if err := a.b.s.pool.Acquire(a.b.ctx); err != nil {
			a.b.cancel(t)
			continue
		}
		a.b.run(t)
	}
	return nil
}

func (a *failFastAdmitter) offer(ctx context.Context, t ticket) error {
	select {
	case a.queue <- t:
		return nil
	default:
	}

	a.b.s.observer.Rejected(t.req)
	err := failure(t.req.ID, ErrAdmissionRejected)
	a.b.col.record(t, err)
	return err
}

func (a *failFastAdmitter) close() {
	close(a.queue)
	_ = a.group.Wait()
}
