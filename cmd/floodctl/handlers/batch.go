package handlers

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/concave-dev/floodgate/cmd/floodctl/client"
	"github.com/concave-dev/floodgate/cmd/floodctl/config"
	"github.com/concave-dev/floodgate/cmd/floodctl/display"
	"github.com/concave-dev/floodgate/cmd/floodctl/utils"
	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/concave-dev/floodgate/internal/wire"
	"github.com/spf13/cobra"
)

// HandleBatch handles the batch command. The node generates and submits the
// records; Ctrl-C drops the request, which cancels the batch on the node.
func HandleBatch(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	if err := config.ValidateBatchFlags(); err != nil {
		return err
	}

	req := BatchRequest()
	logging.Info("Running batch of %d records on %s (target %s)", req.Count, config.Global.APIAddr, req.Target)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := client.CreateAPIClient().RunBatch(ctx, req)
	if err != nil {
		return err
	}

	display.DisplayBatchResult(*result)
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d writes failed", result.Failed, result.Total)
	}
	return nil
}

// BatchRequest builds the request body from the batch flags
func BatchRequest() wire.BatchRequest {
	return wire.BatchRequest{
		Count:       config.Batch.Count,
		PayloadSize: config.Batch.PayloadSize,
		StartID:     config.Batch.StartID,
		Concurrency: config.Batch.Concurrency,
		Mode:        config.Batch.Mode,
		Target:      config.Batch.Target,
		Retries:     config.Batch.Retries,
		TimeoutMs:   config.Batch.Timeout.Milliseconds(),
	}
}
