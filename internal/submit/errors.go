package submit

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrAdmissionRejected is recorded for requests offered to a FailFast batch
	// whose queue is full. The batch keeps going.
	ErrAdmissionRejected = errors.New("admission rejected: queue full")

	// ErrCancelled is recorded for requests that never completed because the
	// batch context was cancelled.
	ErrCancelled = errors.New("batch cancelled")

	// ErrInvalidConfig wraps every structural misuse detected before dispatch.
	ErrInvalidConfig = errors.New("invalid submitter configuration")

	// ErrBatchClosed is returned by Offer once Wait has been called.
	ErrBatchClosed = errors.New("batch already closed")
)

// WriteError carries the request ID alongside the cause of a failed request.
// Every failure recorded in an Outcome is a *WriteError so callers can recover
// the ID with errors.As and the cause with errors.Is.
type WriteError struct {
	ID  uint64
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("request %d: %v", e.ID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// failure builds the recorded error for a request.
func failure(id uint64, cause error) error {
	return &WriteError{ID: id, Err: cause}
}

// cancelled wraps the cause of the batch context's cancellation.
func cancelled(ctx context.Context) error {
	cause := context.Cause(ctx)
	if cause == nil {
		return ErrCancelled
	}
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// invalid wraps a structural error with ErrInvalidConfig.
func invalid(format string, v ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, v...))
}
