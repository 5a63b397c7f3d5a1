package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/concave-dev/floodgate/internal/store"
	"github.com/concave-dev/floodgate/internal/wire"
	"github.com/gin-gonic/gin"
)

// RecordStore is the node-local record sink.
type RecordStore interface {
	Put(ctx context.Context, id uint64, payload []byte) error
	Len() int
}

// HandlePutRecord stores one record. Injected store failures and aborted
// writes answer 503 so writers may retry them.
func HandlePutRecord(s RecordStore, node string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wire.RecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid record: %v", err)
			return
		}

		if err := s.Put(c.Request.Context(), req.ID, req.Payload); err != nil {
			switch {
			case errors.Is(err, store.ErrInjectedFailure),
				errors.Is(err, context.Canceled),
				errors.Is(err, context.DeadlineExceeded):
				respondError(c, http.StatusServiceUnavailable, "record %d not stored: %v", req.ID, err)
			default:
				logging.Error("Failed to store record %d: %v", req.ID, err)
				respondError(c, http.StatusInternalServerError, "record %d not stored: %v", req.ID, err)
			}
			return
		}

		c.JSON(http.StatusCreated, wire.Envelope[wire.RecordResponse]{
			Status: "success",
			Data:   wire.RecordResponse{ID: req.ID, Node: node},
		})
	}
}

// HandleRecordCount returns the number of stored records
func HandleRecordCount(s RecordStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, wire.Envelope[any]{
			Status: "success",
			Count:  s.Len(),
		})
	}
}

// RecordExporter can dump and clear the node-local store.
type RecordExporter interface {
	Snapshot(w io.Writer) error
	Reset()
}

// HandleExportRecords streams every stored record as a JSON array ordered by ID
func HandleExportRecords(s RecordExporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.Status(http.StatusOK)

		// Headers are already sent; a failure here can only be logged
		if err := s.Snapshot(c.Writer); err != nil {
			logging.Error("Failed to export records: %v", err)
		}
	}
}

// HandleResetRecords drops every record and zeroes the store counters
func HandleResetRecords(s RecordExporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.Reset()
		logging.Info("Record store reset")
		c.JSON(http.StatusOK, wire.Envelope[any]{Status: "success"})
	}
}
