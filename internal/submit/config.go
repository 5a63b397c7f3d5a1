package submit

import (
	"time"

	"github.com/concave-dev/floodgate/internal/validate"
)

const (
	// DefaultConcurrencyLimit is the number of admission tokens used when no
	// limit is configured explicitly.
	DefaultConcurrencyLimit = 16

	// DefaultStagingSize is the stage size used by the daemon for buffered mode
	// when the operator does not provide one.
	DefaultStagingSize = 64
)

// Config holds the settings of a Submitter.
type Config struct {
	// ConcurrencyLimit is K, the maximum number of writes in flight.
	ConcurrencyLimit int

	// Mode selects the admission strategy.
	Mode QueueMode

	// DrainTimeout bounds how long Wait keeps waiting for in-flight writes
	// after the batch context is cancelled. Zero waits for every write.
	DrainTimeout time.Duration
}

// DefaultConfig returns a blocking submitter with DefaultConcurrencyLimit
// tokens that drains every in-flight write on cancellation.
func DefaultConfig() Config {
	return Config{
		ConcurrencyLimit: DefaultConcurrencyLimit,
		Mode:             Block(),
	}
}

// Validate checks the configuration for structural errors. Every returned
// error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	if err := validate.ValidateField(c.ConcurrencyLimit, "gt=0"); err != nil {
		return invalid("concurrency limit must be positive, got %d", c.ConcurrencyLimit)
	}

	switch c.Mode.Kind {
	case ModeBlock:
	case ModeBuffered, ModeFailFast:
		if err := validate.ValidateField(c.Mode.Size, "gt=0"); err != nil {
			return invalid("%s queue size must be positive, got %d", c.Mode, c.Mode.Size)
		}
	default:
		return invalid("unknown queue mode %d", int(c.Mode.Kind))
	}

	if c.DrainTimeout < 0 {
		return invalid("drain timeout cannot be negative, got %v", c.DrainTimeout)
	}

	return nil
}
