package config

import (
	"fmt"

	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/concave-dev/floodgate/internal/validate"
	"github.com/spf13/cobra"
)

// ValidateGlobalFlags validates all global flags before running any command
func ValidateGlobalFlags(cmd *cobra.Command, args []string) error {
	if err := ValidateAPIAddress(); err != nil {
		return err
	}

	if err := ValidateOutputFormat(); err != nil {
		return err
	}

	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return err
	}

	if err := validate.ValidatePositiveInt(Global.Timeout, "timeout"); err != nil {
		return err
	}

	return nil
}

// ValidateAPIAddress validates the --api flag
func ValidateAPIAddress() error {
	if _, err := validate.ValidateRoutableAddress(Global.APIAddr); err != nil {
		logging.Error("Invalid API address '%s': %v", Global.APIAddr, err)
		return fmt.Errorf("invalid API address - expected a routable host:port (e.g., 127.0.0.1:8008)")
	}
	return nil
}

// ValidateOutputFormat validates the --output flag
func ValidateOutputFormat() error {
	validOutputs := map[string]bool{
		OutputTable: true,
		OutputJSON:  true,
	}
	if !validOutputs[Global.Output] {
		logging.Error("Invalid output format '%s' - valid formats are: table, json", Global.Output)
		return fmt.Errorf("invalid output format - valid: table, json")
	}
	return nil
}

// WriteSubmitConfig validates the write flags and returns the submitter
// configuration they describe.
func WriteSubmitConfig() (submit.Config, error) {
	if err := validate.ValidatePositiveInt(Write.Count, "count"); err != nil {
		return submit.Config{}, err
	}
	if Write.PayloadSize < 0 {
		return submit.Config{}, fmt.Errorf("payload size cannot be negative, got %d", Write.PayloadSize)
	}
	if err := validate.ValidatePositiveTimeout(Write.WriteTimeout, "write timeout"); err != nil {
		return submit.Config{}, err
	}
	if Write.Rate < 0 {
		return submit.Config{}, fmt.Errorf("rate cannot be negative, got %g", Write.Rate)
	}
	if Write.Rate > 0 && Write.Burst < 1 {
		return submit.Config{}, fmt.Errorf("burst must be at least 1 when a rate is set, got %d", Write.Burst)
	}

	mode, err := submit.ParseQueueMode(Write.Mode)
	if err != nil {
		return submit.Config{}, err
	}

	cfg := submit.Config{
		ConcurrencyLimit: Write.Concurrency,
		Mode:             mode,
		DrainTimeout:     Write.DrainTimeout,
	}
	if err := cfg.Validate(); err != nil {
		return submit.Config{}, err
	}
	return cfg, nil
}

// ValidateBatchFlags validates the batch flags. Mode is parsed here too so a
// typo fails before the request leaves the CLI.
func ValidateBatchFlags() error {
	if err := validate.ValidatePositiveInt(Batch.Count, "count"); err != nil {
		return err
	}
	if Batch.PayloadSize < 0 {
		return fmt.Errorf("payload size cannot be negative, got %d", Batch.PayloadSize)
	}
	if Batch.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative, got %d", Batch.Concurrency)
	}
	if Batch.Mode != "" {
		if _, err := submit.ParseQueueMode(Batch.Mode); err != nil {
			return err
		}
	}
	if err := validate.ValidateField(Batch.Target, "oneof=local cluster"); err != nil {
		return fmt.Errorf("invalid target %q - valid: local, cluster", Batch.Target)
	}
	if Batch.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %v", Batch.Timeout)
	}
	return nil
}
