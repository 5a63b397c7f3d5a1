package submit

import (
	"cmp"
	"errors"
	"slices"
)

// Failure is one failed request in an Outcome.
type Failure struct {
	ID  uint64
	Err error
}

// Outcome aggregates the results of a batch. Succeeded + Failed always equals
// Total. Rejected and Cancelled are the subsets of Failed caused by
// ErrAdmissionRejected and ErrCancelled.
type Outcome struct {
	Total     int
	Succeeded int
	Failed    int
	Rejected  int
	Cancelled int

	// Failures is sorted by request ID, then by error text.
	Failures []Failure
}

// Tally aggregates results into an Outcome. The result does not depend on the
// order of results.
func Tally(results []Result) Outcome {
	o := Outcome{Total: len(results)}

	for _, r := range results {
		if r.Err == nil {
			o.Succeeded++
			continue
		}

		o.Failed++
		switch {
		case errors.Is(r.Err, ErrAdmissionRejected):
			o.Rejected++
		case errors.Is(r.Err, ErrCancelled):
			o.Cancelled++
		}
		o.Failures = append(o.Failures, Failure{ID: r.ID, Err: r.Err})
	}

	slices.SortFunc(o.Failures, func(a, b Failure) int {
		if c := cmp.Compare(a.ID, b.ID); c != 0 {
			return c
		}
		return cmp.Compare(a.Err.Error(), b.Err.Error())
	})

	return o
}

// OK reports whether every request succeeded.
func (o Outcome) OK() bool {
	return o.Failed == 0
}

// Err joins the failure causes, or returns nil when the batch fully succeeded.
func (o Outcome) Err() error {
	if len(o.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(o.Failures))
	for i, f := range o.Failures {
		errs[i] = f.Err
	}
	return errors.Join(errs...)
}

// FailedIDs returns the IDs of failed requests in ascending order.
func (o Outcome) FailedIDs() []uint64 {
	ids := make([]uint64, len(o.Failures))
	for i, f := range o.Failures {
		ids[i] = f.ID
	}
	return ids
}
