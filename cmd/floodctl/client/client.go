// Package client provides the HTTP client floodctl uses to talk to a
// floodgated node.
//
// Control requests (health, stats, members, reset, batch) go through FloodAPIClient.
// Record writes of the write command go through backend.NodeWriter on a
// client built by NewRecordClient. Both are configured by
// backend.NewHTTPClient and share its logging and JSON codec.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/concave-dev/floodgate/cmd/floodctl/config"
	"github.com/concave-dev/floodgate/internal/backend"
	"github.com/concave-dev/floodgate/internal/wire"
	"github.com/go-resty/resty/v2"
)

// FloodAPIClient wraps the resty client with the floodgated endpoints
type FloodAPIClient struct {
	client  *resty.Client
	batch   *resty.Client // no timeout and no retries
	apiAddr string
}

// NewFloodAPIClient creates a client for the node at apiAddr. timeout bounds
// control requests only; batch requests last as long as the batch does.
func NewFloodAPIClient(apiAddr string, timeout time.Duration) *FloodAPIClient {
	userAgent := "floodctl/" + config.Version
	client := backend.NewHTTPClient(backend.APIBaseURL(apiAddr), timeout, userAgent)

	// Connection errors are retried on control requests; HTTP errors are not
	client.
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil
		})

	return &FloodAPIClient{
		client:  client,
		batch:   backend.NewHTTPClient(backend.APIBaseURL(apiAddr), 0, userAgent),
		apiAddr: apiAddr,
	}
}

// CreateAPIClient creates a client from the global CLI configuration
func CreateAPIClient() *FloodAPIClient {
	return NewFloodAPIClient(config.Global.APIAddr, time.Duration(config.Global.Timeout)*time.Second)
}

// GetHealth fetches GET /health
func (c *FloodAPIClient) GetHealth() (*wire.Health, error) {
	var health wire.Health
	if err := c.get("/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetStats fetches GET /stats
func (c *FloodAPIClient) GetStats() (*wire.NodeStats, error) {
	var env wire.Envelope[wire.NodeStats]
	if err := c.get("/stats", &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// GetMembers fetches GET /cluster/members
func (c *FloodAPIClient) GetMembers() ([]wire.Member, error) {
	var env wire.Envelope[[]wire.Member]
	if err := c.get("/cluster/members", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ResetRecords clears the node's record store with DELETE /records
func (c *FloodAPIClient) ResetRecords() error {
	var errEnv wire.Envelope[any]

	resp, err := c.client.R().
		SetError(&errEnv).
		Delete("/records")
	if err != nil {
		return fmt.Errorf("failed to connect to API server at %s: %w", c.apiAddr, err)
	}
	if resp.IsError() {
		return apiError(resp, errEnv.Error)
	}
	return nil
}

// RunBatch asks the node to run a batch and waits for its result. The
// request is never retried since a retry would run the batch twice.
// Cancelling ctx drops the connection, which cancels the batch on the node.
func (c *FloodAPIClient) RunBatch(ctx context.Context, req wire.BatchRequest) (*wire.BatchResult, error) {
	var (
		env    wire.Envelope[wire.BatchResult]
		errEnv wire.Envelope[any]
	)

	resp, err := c.batch.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&env).
		SetError(&errEnv).
		Post("/batches")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to API server at %s: %w", c.apiAddr, err)
	}
	if resp.IsError() {
		return nil, apiError(resp, errEnv.Error)
	}

	return &env.Data, nil
}

func (c *FloodAPIClient) get(path string, result any) error {
	var errEnv wire.Envelope[any]

	resp, err := c.client.R().
		SetResult(result).
		SetError(&errEnv).
		Get(path)
	if err != nil {
		return fmt.Errorf("failed to connect to API server at %s: %w", c.apiAddr, err)
	}
	if resp.IsError() {
		return apiError(resp, errEnv.Error)
	}
	return nil
}

func apiError(resp *resty.Response, msg string) error {
	if msg == "" {
		msg = resp.Status()
	}
	return fmt.Errorf("API request %s failed with status %d: %s",
		resp.Request.URL, resp.StatusCode(), msg)
}

// NewRecordClient returns the client used for record writes. It has neither
// a timeout nor retries of its own; the write command layers both on with
// submit.WithTimeout and submit.WithRetry.
func NewRecordClient() *resty.Client {
	return backend.NewHTTPClient("", 0, "floodctl/"+config.Version)
}
