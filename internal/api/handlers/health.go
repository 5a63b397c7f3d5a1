// Package handlers provides HTTP request handlers for the floodgate API
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/concave-dev/floodgate/internal/wire"
	"github.com/gin-gonic/gin"
)

// HandleHealth returns the health status of the API server
func HandleHealth(version string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		uptime := time.Since(startTime)

		response := wire.Health{
			Status:    "healthy",
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    uptime.Truncate(time.Second).String(),
		}

		c.JSON(http.StatusOK, response)
	}
}

// respondError writes an error envelope and aborts the request.
func respondError(c *gin.Context, status int, format string, args ...any) {
	c.AbortWithStatusJSON(status, wire.Envelope[any]{
		Status: "error",
		Error:  fmt.Sprintf(format, args...),
	})
}
