package handlers

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/concave-dev/floodgate/cmd/floodctl/client"
	"github.com/concave-dev/floodgate/cmd/floodctl/config"
	"github.com/concave-dev/floodgate/cmd/floodctl/display"
	"github.com/concave-dev/floodgate/cmd/floodctl/utils"
	"github.com/concave-dev/floodgate/internal/backend"
	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/concave-dev/floodgate/internal/wire"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// TargetNode labels results of batches submitted from the CLI
const TargetNode = "node"

// HandleWrite handles the write command. Records are generated here and
// submitted through a local submitter, each write a POST to the node.
// Ctrl-C stops admission; writes already in flight are drained.
func HandleWrite(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	cfg, err := config.WriteSubmitConfig()
	if err != nil {
		return err
	}

	sub, err := submit.New(cfg)
	if err != nil {
		return err
	}

	writer := backend.NewNodeWriter(client.NewRecordClient(), config.Global.APIAddr)
	op := WriteOp(writer.Write)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("Writing %d records to %s (concurrency %d, mode %s)",
		config.Write.Count, config.Global.APIAddr, cfg.ConcurrencyLimit, cfg.Mode)

	start := time.Now()
	out, err := sub.SubmitSeq(ctx, backend.RandomRecords(config.Write.StartID, config.Write.Count, config.Write.PayloadSize), op)
	if err != nil {
		return err
	}

	result := wire.NewBatchResult(uuid.NewString(), cfg, TargetNode, out, time.Since(start))
	display.DisplayBatchResult(result)

	if !out.OK() {
		return fmt.Errorf("%d of %d writes failed", out.Failed, out.Total)
	}
	return nil
}

// WriteOp layers the write flags onto op. Each attempt waits on the rate
// limiter and runs under its own timeout; retries apply to errors
// backend.IsRetryable accepts.
func WriteOp(op submit.WriteFunc) submit.WriteFunc {
	op = submit.WithTimeout(op, config.Write.WriteTimeout)

	if config.Write.Rate > 0 {
		op = submit.WithRateLimit(op, rate.NewLimiter(rate.Limit(config.Write.Rate), config.Write.Burst))
	}

	if config.Write.Retries > 0 {
		policy := submit.DefaultRetryPolicy()
		policy.MaxTries = config.Write.Retries + 1
		policy.Retryable = backend.IsRetryable
		op = submit.WithRetry(op, policy)
	}

	return op
}
