package commands

import (
	"time"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run a batch on the node",
	Long: `Ask the node behind --api to generate and submit a batch itself.

With --target=local the records go into the node's own store. With
--target=cluster the node spreads them round-robin over every alive storage
node. The node's submitter settings apply unless --concurrency or --mode
override them for this batch.`,
	Example: `  floodctl batch --count=100000
  floodctl batch --count=100000 --target=cluster --retries=2 --write-timeout=500ms
  floodctl batch --count=1000 --mode=failfast:8 -o json`,
	Args: cobra.NoArgs,
}

// SetupBatchFlags configures the batch command flags
func SetupBatchFlags(count, payloadSize *int, startID *uint64, concurrency *int, mode, target *string,
	retries *uint, timeout *time.Duration) {
	f := batchCmd.Flags()
	f.IntVarP(count, "count", "n", 1000, "Number of records in the batch")
	f.IntVar(payloadSize, "payload-size", 256, "Payload size of each record in bytes")
	f.Uint64Var(startID, "start-id", 0, "ID of the first record")
	f.IntVarP(concurrency, "concurrency", "c", 0, "Maximum writes in flight (0 keeps the node's limit, may not exceed it)")
	f.StringVar(mode, "mode", "", "Queue mode override: block, buffered:N, failfast:N")
	f.StringVar(target, "target", "local", "Where records go: local, cluster")
	f.UintVar(retries, "retries", 0, "Retries per record on retryable errors")
	f.DurationVar(timeout, "write-timeout", 0, "Per-write timeout applied by the node (0 for none)")
}

// GetBatchCommand returns the batch command for handler assignment
func GetBatchCommand() *cobra.Command {
	return batchCmd
}
