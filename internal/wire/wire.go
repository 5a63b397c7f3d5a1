// Package wire defines the JSON bodies exchanged between floodgated nodes and
// floodctl. Every response is wrapped in an Envelope.
package wire

import (
	"time"

	"github.com/concave-dev/floodgate/internal/store"
	"github.com/concave-dev/floodgate/internal/submit"
)

// MaxReportedFailures caps the failures listed in a BatchResult.
const MaxReportedFailures = 100

// Envelope is the response wrapper used by every endpoint.
type Envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data,omitempty"`
	Count  int    `json:"count,omitempty"`
	Error  string `json:"error,omitempty"`
}

// RecordRequest is the body of POST /api/v1/records. Payload is base64
// encoded on the wire.
type RecordRequest struct {
	ID      uint64 `json:"id"`
	Payload []byte `json:"payload"`
}

// RecordResponse acknowledges a stored record.
type RecordResponse struct {
	ID   uint64 `json:"id"`
	Node string `json:"node"`
}

// MaxQueueSize caps the queue size a batch request may ask for in Mode.
const MaxQueueSize = 1 << 16

// BatchRequest is the body of POST /api/v1/batches. The node generates Count
// records of PayloadSize random bytes with IDs starting at StartID and submits
// them with its own submitter settings unless Concurrency or Mode override
// them. An overridden Concurrency cannot exceed the node's limit.
type BatchRequest struct {
	Count       int    `json:"count" binding:"required,min=1,max=10000000"`
	PayloadSize int    `json:"payload_size" binding:"min=0,max=1048576"`
	StartID     uint64 `json:"start_id"`
	Concurrency int    `json:"concurrency,omitempty" binding:"min=0,max=65536"`
	Mode        string `json:"mode,omitempty"`
	Target      string `json:"target,omitempty" binding:"omitempty,oneof=local cluster"`
	Retries     uint   `json:"retries,omitempty"`
	TimeoutMs   int64  `json:"timeout_ms,omitempty" binding:"min=0"`
}

// Failure is one failed request of a batch.
type Failure struct {
	ID    uint64 `json:"id"`
	Error string `json:"error"`
}

// BatchResult reports the outcome of a batch.
type BatchResult struct {
	BatchID     string    `json:"batch_id"`
	Mode        string    `json:"mode"`
	Concurrency int       `json:"concurrency"`
	Target      string    `json:"target"`
	Total       int       `json:"total"`
	Succeeded   int       `json:"succeeded"`
	Failed      int       `json:"failed"`
	Rejected    int       `json:"rejected"`
	Cancelled   int       `json:"cancelled"`
	DurationMs  int64     `json:"duration_ms"`
	Failures    []Failure `json:"failures,omitempty"`
	Truncated   bool      `json:"truncated,omitempty"`
}

// NewBatchResult converts an Outcome, keeping at most MaxReportedFailures
// failures.
func NewBatchResult(id string, cfg submit.Config, target string, o submit.Outcome, elapsed time.Duration) BatchResult {
	res := BatchResult{
		BatchID:     id,
		Mode:        cfg.Mode.String(),
		Concurrency: cfg.ConcurrencyLimit,
		Target:      target,
		Total:       o.Total,
		Succeeded:   o.Succeeded,
		Failed:      o.Failed,
		Rejected:    o.Rejected,
		Cancelled:   o.Cancelled,
		DurationMs:  elapsed.Milliseconds(),
	}

	for i, f := range o.Failures {
		if i == MaxReportedFailures {
			res.Truncated = true
			break
		}
		res.Failures = append(res.Failures, Failure{ID: f.ID, Error: f.Err.Error()})
	}

	return res
}

// NodeStats is the body of GET /api/v1/stats.
type NodeStats struct {
	Node    string           `json:"node"`
	Mode    string           `json:"mode"`
	Pool    submit.PoolStats `json:"pool"`
	Store   store.Stats      `json:"store"`
	Batches int64            `json:"batches"`
}

// Member is one node of the cluster as reported by GET /api/v1/cluster/members.
type Member struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Address  string            `json:"address"`
	APIAddr  string            `json:"api_addr,omitempty"`
	Status   string            `json:"status"`
	Tags     map[string]string `json:"tags,omitempty"`
	LastSeen time.Time         `json:"last_seen"`
}

// Health is the body of GET /api/v1/health.
type Health struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}
