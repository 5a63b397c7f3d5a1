package api

import (
	"github.com/concave-dev/floodgate/internal/api/handlers"
	"github.com/concave-dev/floodgate/internal/backend"
	"github.com/concave-dev/floodgate/internal/version"
	"github.com/gin-gonic/gin"
)

// Configures all API routes
func (s *Server) setupRoutes(router *gin.Engine) {
	// API version prefix
	v1 := router.Group("/api/v1")

	v1.GET("/health", handlers.HandleHealth(version.FloodgatedVersion, s.startTime))
	v1.GET("/stats", handlers.HandleStats(s.config.NodeName, s.config.Submitter, s.config.Store, &s.batches))

	// Record ingestion
	records := v1.Group("/records")
	{
		records.POST("", handlers.HandlePutRecord(s.config.Store, s.config.NodeName))
		records.GET("/count", handlers.HandleRecordCount(s.config.Store))
		records.GET("/export", handlers.HandleExportRecords(s.config.Store))
		records.DELETE("", handlers.HandleResetRecords(s.config.Store))
	}

	v1.POST("/batches", handlers.HandleRunBatch(s.batchDeps()))

	// Cluster information endpoints
	cluster := v1.Group("/cluster")
	{
		cluster.GET("/members", handlers.HandleMembers(s.memberLister()))
	}

	if s.config.Metrics != nil {
		router.GET("/metrics", gin.WrapH(s.config.Metrics.Handler()))
	}
}

func (s *Server) batchDeps() handlers.BatchDeps {
	deps := handlers.BatchDeps{
		Submitter: s.config.Submitter,
		Store:     s.config.Store,
		Client:    backend.NewHTTPClient("", s.config.WriteTimeout, s.userAgent()),
		Batches:   &s.batches,
	}
	if s.config.Cluster != nil {
		deps.Members = s.config.Cluster
	}
	if s.config.Metrics != nil {
		deps.Observer = s.config.Metrics
	}
	return deps
}

// memberLister keeps a nil ClusterView from becoming a non-nil interface
func (s *Server) memberLister() handlers.MemberLister {
	if s.config.Cluster == nil {
		return nil
	}
	return s.config.Cluster
}
