// Package backend provides the write operations the submitter runs against a
// floodgate storage cluster.
//
// WRITERS:
//   - StoreWriter: writes straight into the node-local record store
//   - NodeWriter: POSTs each record to one node's HTTP API
//   - ClusterWriter: spreads records round-robin over the alive storage nodes
//
// The HTTP writers share a resty client configured by NewHTTPClient. The
// client never retries on its own; retry policy belongs to the caller and is
// layered on with submit.WithRetry and IsRetryable.
package backend

import (
	"fmt"
	"time"

	"github.com/concave-dev/floodgate/internal/logging"
	json "github.com/goccy/go-json"
	"github.com/go-resty/resty/v2"
)

// RestyLogger routes resty's internal logging through the logging package.
type RestyLogger struct{}

func (RestyLogger) Errorf(format string, v ...any) {
	logging.Error(format, v...)
}

func (RestyLogger) Warnf(format string, v ...any) {
	logging.Warn(format, v...)
}

func (RestyLogger) Debugf(format string, v ...any) {
	logging.Debug(format, v...)
}

// NewHTTPClient returns a resty client for floodgated APIs. baseURL may be
// empty when requests use absolute URLs, as the cluster writer does.
func NewHTTPClient(baseURL string, timeout time.Duration, userAgent string) *resty.Client {
	client := resty.New()

	client.SetLogger(RestyLogger{})
	client.SetJSONMarshaler(json.Marshal)
	client.SetJSONUnmarshaler(json.Unmarshal)

	client.
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", userAgent)

	if baseURL != "" {
		client.SetBaseURL(baseURL)
	}

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("API request: %s %s", req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("API response: %d %s (took %v)", resp.StatusCode(), resp.Request.URL, resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return client
}

// APIBaseURL returns the /api/v1 base URL of a node API address.
func APIBaseURL(apiAddr string) string {
	return fmt.Sprintf("http://%s/api/v1", apiAddr)
}
