package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorObservesSubmitter(t *testing.T) {
	c := NewCollector("floodgate_test")

	reqs := make([]submit.Request, 30)
	for i := range reqs {
		reqs[i] = submit.Request{ID: uint64(i)}
	}

	out, err := submit.Submit(context.Background(), reqs, 3, func(_ context.Context, req submit.Request) error {
		if req.ID%5 == 0 {
			return errors.New("boom")
		}
		return nil
	}, submit.WithObserver(c))
	require.NoError(t, err)
	require.Equal(t, 6, out.Failed)

	assert.Equal(t, 30.0, testutil.ToFloat64(c.writesAdmitted))
	assert.Equal(t, 24.0, testutil.ToFloat64(c.writesCompleted.WithLabelValues("success")))
	assert.Equal(t, 6.0, testutil.ToFloat64(c.writesCompleted.WithLabelValues("failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.writesInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.batchesTotal.WithLabelValues("partial")))
	assert.Equal(t, 6.0, testutil.ToFloat64(c.batchRequests.WithLabelValues("failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.writeDuration))
}

func TestCollectorCountsRejections(t *testing.T) {
	c := NewCollector("floodgate_test")

	c.Rejected(submit.Request{ID: 1})
	c.Rejected(submit.Request{ID: 2})
	c.BatchFinished(submit.Outcome{Total: 2, Failed: 2, Rejected: 2}, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.writesRejected))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.batchRequests.WithLabelValues("rejected")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.batchRequests.WithLabelValues("failed")))
}

func TestHandlerExposesPoolAndHTTPMetrics(t *testing.T) {
	c := NewCollector("floodgate_test")

	s, err := submit.New(submit.Config{ConcurrencyLimit: 7})
	require.NoError(t, err)
	require.NoError(t, c.Register(NewPoolCollector("floodgate_test", s.Stats)))

	c.RecordHTTPRequest("POST", "/api/v1/records", 201, 3*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, "floodgate_test_token_pool_capacity 7"), text)
	assert.Contains(t, text, `floodgate_test_http_requests_total{method="POST",path="/api/v1/records",status="201"} 1`)
	assert.Contains(t, text, "go_goroutines")
}
