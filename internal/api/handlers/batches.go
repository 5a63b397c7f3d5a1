package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/concave-dev/floodgate/internal/backend"
	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/concave-dev/floodgate/internal/wire"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	TargetLocal   = "local"
	TargetCluster = "cluster"
)

// errNoMembership is returned for cluster batches on a standalone node.
var errNoMembership = errors.New("cluster membership is disabled on this node")

// BatchDeps are the collaborators of the batch endpoint.
type BatchDeps struct {
	Submitter *submit.Submitter
	Store     RecordStore

	// Members is nil on standalone nodes; cluster batches are refused then.
	Members backend.MemberSource
	Client  *resty.Client

	// Observer receives the events of batches run with overridden settings.
	Observer submit.Observer

	// Batches counts finished batches.
	Batches *atomic.Int64
}

// HandleRunBatch generates the requested records and submits them through a
// submitter, answering with the batch outcome once every record has a result.
// Dropping the connection cancels the batch.
func HandleRunBatch(deps BatchDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wire.BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid batch request: %v", err)
			return
		}

		sub, err := batchSubmitter(deps, req)
		if err != nil {
			respondError(c, http.StatusBadRequest, "%v", err)
			return
		}

		target := req.Target
		if target == "" {
			target = TargetLocal
		}
		op, err := batchWriter(deps, req, target)
		if err != nil {
			respondError(c, http.StatusBadRequest, "%v", err)
			return
		}
		if sub != deps.Submitter {
			op = deps.Submitter.Throttle(op)
		}

		id := uuid.NewString()
		cfg := sub.Config()
		logging.Info("Batch %s: submitting %d records (mode=%s, limit=%d, target=%s)",
			logging.FormatID(id), req.Count, cfg.Mode, cfg.ConcurrencyLimit, target)

		start := time.Now()
		out, err := sub.SubmitSeq(c.Request.Context(), backend.RandomRecords(req.StartID, req.Count, req.PayloadSize), op)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "batch failed: %v", err)
			return
		}
		elapsed := time.Since(start)

		if deps.Batches != nil {
			deps.Batches.Add(1)
		}

		if out.OK() {
			logging.Success("Batch %s: %d records stored in %v", logging.FormatID(id), out.Succeeded, elapsed)
		} else {
			logging.Warn("Batch %s: %d of %d records failed (%d rejected, %d cancelled)",
				logging.FormatID(id), out.Failed, out.Total, out.Rejected, out.Cancelled)
		}

		c.JSON(http.StatusOK, wire.Envelope[wire.BatchResult]{
			Status: "success",
			Data:   wire.NewBatchResult(id, cfg, target, out, elapsed),
		})
	}
}

// batchSubmitter returns the node submitter, or a dedicated one when the
// request overrides the concurrency limit or the queue mode. An override may
// lower the limit but never raise it above the node's.
func batchSubmitter(deps BatchDeps, req wire.BatchRequest) (*submit.Submitter, error) {
	if req.Concurrency == 0 && req.Mode == "" {
		return deps.Submitter, nil
	}

	cfg := deps.Submitter.Config()
	if req.Concurrency > cfg.ConcurrencyLimit {
		return nil, fmt.Errorf("concurrency %d exceeds the node limit of %d", req.Concurrency, cfg.ConcurrencyLimit)
	}
	if req.Concurrency > 0 {
		cfg.ConcurrencyLimit = req.Concurrency
	}
	if req.Mode != "" {
		mode, err := submit.ParseQueueMode(req.Mode)
		if err != nil {
			return nil, err
		}
		if mode.Size > wire.MaxQueueSize {
			return nil, fmt.Errorf("queue size %d exceeds the maximum of %d", mode.Size, wire.MaxQueueSize)
		}
		cfg.Mode = mode
	}

	var opts []submit.Option
	if deps.Observer != nil {
		opts = append(opts, submit.WithObserver(deps.Observer))
	}
	return submit.New(cfg, opts...)
}

func batchWriter(deps BatchDeps, req wire.BatchRequest, target string) (submit.WriteFunc, error) {
	var op submit.WriteFunc

	switch target {
	case TargetLocal:
		op = func(ctx context.Context, r submit.Request) error {
			return deps.Store.Put(ctx, r.ID, r.Payload)
		}
	case TargetCluster:
		if deps.Members == nil {
			return nil, errNoMembership
		}
		op = backend.NewClusterWriter(deps.Client, deps.Members).Write
	default:
		return nil, fmt.Errorf("unknown target %q", target)
	}

	if req.TimeoutMs > 0 {
		op = submit.WithTimeout(op, time.Duration(req.TimeoutMs)*time.Millisecond)
	}
	if req.Retries > 0 {
		policy := submit.DefaultRetryPolicy()
		policy.MaxTries = req.Retries + 1
		policy.Retryable = backend.IsRetryable
		op = submit.WithRetry(op, policy)
	}

	return op, nil
}
