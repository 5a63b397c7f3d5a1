package submit

import "time"

// Observer receives submission events. Implementations must be safe for
// concurrent use since writes complete on many goroutines at once.
type Observer interface {
	// Admitted is called when a request obtains a token and is dispatched.
	Admitted(req Request)

	// Completed is called once per dispatched request with the time the write
	// held its token.
	Completed(res Result, latency time.Duration)

	// Rejected is called when a FailFast queue refuses a request.
	Rejected(req Request)

	// BatchFinished is called when Wait returns.
	BatchFinished(o Outcome, elapsed time.Duration)
}

// NoOpObserver discards every event.
type NoOpObserver struct{}

func (NoOpObserver) Admitted(Request) {}
func (NoOpObserver) Completed(Result, time.Duration) {}
func (NoOpObserver) Rejected(Request) {}
func (NoOpObserver) BatchFinished(Outcome, time.Duration) {}
