package submit

import (
	"fmt"
	"strconv"
	"strings"
)

// ModeKind selects the admission strategy of a submitter.
type ModeKind int

const (
	// ModeBlock suspends the producer until a token is free.
	ModeBlock ModeKind = iota
	// ModeBuffered stages up to Size requests ahead of token acquisition.
	ModeBuffered
	// ModeFailFast rejects offers once Size requests are queued.
	ModeFailFast
)

// QueueMode is the admission strategy plus its queue size. Size is ignored for
// ModeBlock.
type QueueMode struct {
	Kind ModeKind
	Size int
}

// Block returns the counting-semaphore strategy.
func Block() QueueMode {
	return QueueMode{Kind: ModeBlock}
}

// BufferedStaging returns a strategy with a FIFO stage of b requests between
// the producer and token acquisition.
func BufferedStaging(b int) QueueMode {
	return QueueMode{Kind: ModeBuffered, Size: b}
}

// FailFast returns a strategy that queues at most q requests and rejects the
// rest with ErrAdmissionRejected.
func FailFast(q int) QueueMode {
	return QueueMode{Kind: ModeFailFast, Size: q}
}

// String renders the mode in the form accepted by ParseQueueMode.
func (m QueueMode) String() string {
	switch m.Kind {
	case ModeBlock:
		return "block"
	case ModeBuffered:
		return fmt.Sprintf("buffered:%d", m.Size)
	case ModeFailFast:
		return fmt.Sprintf("failfast:%d", m.Size)
	default:
		return fmt.Sprintf("unknown(%d)", int(m.Kind))
	}
}

// ParseQueueMode parses "block", "buffered:<B>" or "failfast:<Q>". It does not
// range-check the size; Config.Validate does.
func ParseQueueMode(s string) (QueueMode, error) {
	name, size, hasSize := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")

	switch name {
	case "block", "semaphore":
		if hasSize {
			return QueueMode{}, fmt.Errorf("queue mode %q takes no size", name)
		}
		return Block(), nil
	case "buffered", "failfast":
		if !hasSize {
			return QueueMode{}, fmt.Errorf("queue mode %q requires a size, e.g. %s:64", name, name)
		}
		n, err := strconv.Atoi(size)
		if err != nil {
			return QueueMode{}, fmt.Errorf("invalid queue size %q: %w", size, err)
		}
		if name == "buffered" {
			return BufferedStaging(n), nil
		}
		return FailFast(n), nil
	default:
		return QueueMode{}, fmt.Errorf("unknown queue mode %q (want block, buffered:<n> or failfast:<n>)", s)
	}
}
