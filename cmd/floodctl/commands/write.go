package commands

import (
	"time"

	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Submit generated records to a node from the CLI",
	Long: `Generate records and submit them from the CLI through a local
submitter. At most --concurrency writes are in flight; --mode decides what
happens to the rest:

  block        wait for a free slot before each write
  buffered:N   stage up to N records ahead of the slots
  failfast:N   queue up to N records and reject the rest immediately

Ctrl-C stops admission and waits for writes already in flight.`,
	Example: `  floodctl write --count=1000
  floodctl write --count=50000 --concurrency=64 --mode=buffered:256
  floodctl write --count=1000 --retries=3 --write-timeout=2s --rate=500`,
	Args: cobra.NoArgs,
}

// SetupWriteFlags configures the write command flags
func SetupWriteFlags(count, payloadSize *int, startID *uint64, concurrency *int, mode *string,
	retries *uint, writeTimeout *time.Duration, rate *float64, burst *int, drainTimeout *time.Duration) {
	f := writeCmd.Flags()
	f.IntVarP(count, "count", "n", 1000, "Number of records to write")
	f.IntVar(payloadSize, "payload-size", 256, "Payload size of each record in bytes")
	f.Uint64Var(startID, "start-id", 0, "ID of the first record")
	f.IntVarP(concurrency, "concurrency", "c", 16, "Maximum writes in flight")
	f.StringVar(mode, "mode", "block", "Queue mode: block, buffered:N, failfast:N")
	f.UintVar(retries, "retries", 0, "Retries per record on retryable errors")
	f.DurationVar(writeTimeout, "write-timeout", 10*time.Second, "Timeout of each write attempt")
	f.Float64Var(rate, "rate", 0, "Maximum writes per second (0 for unlimited)")
	f.IntVar(burst, "burst", 1, "Rate limiter burst size")
	f.DurationVar(drainTimeout, "drain-timeout", 5*time.Second,
		"How long to wait for in-flight writes after Ctrl-C (0 waits for all)")
}

// GetWriteCommand returns the write command for handler assignment
func GetWriteCommand() *cobra.Command {
	return writeCmd
}
