package api

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/concave-dev/floodgate/internal/metrics"
	"github.com/concave-dev/floodgate/internal/store"
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/gin-gonic/gin"
)

// TestCORSMiddleware tests CORS header setting
func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server, err := NewServer(testConfig(t, store.New(store.Options{})))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	router := gin.New()
	router.Use(server.corsMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ok"})
	})

	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{"GET request with CORS headers", "GET", 200},
		{"OPTIONS preflight request", "OPTIONS", 204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, "/test", nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
			}
		})
	}
}

// TestMetricsMiddleware tests that requests are counted by route template
func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	config := testConfig(t, store.New(store.Options{}))
	config.Metrics = metrics.NewCollector("floodgate")

	sub, err := submit.New(submit.Config{ConcurrencyLimit: 2}, submit.WithObserver(config.Metrics))
	if err != nil {
		t.Fatalf("submit.New() error = %v", err)
	}
	config.Submitter = sub

	server, err := NewServer(config)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	router := server.Handler()

	for range 3 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/records/count", nil))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(w.Body)

	want := `floodgate_http_requests_total{method="GET",path="/api/v1/records/count",status="200"} 3`
	if !strings.Contains(string(body), want) {
		t.Errorf("metrics output missing %q", want)
	}
}
