package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Import routes
		v1.POST("/imports", handler.UploadImport)
		v1.GET("/imports/:id", handler.GetImportStatus)
		v1.GET("/imports/:id/records", handler.ListImportRecords)

		// Sync routes
		v1.GET("/batches/:id", handler.GetBatchStatus)
		v1.POST("/sync/retry", handler.TriggerRetry)
		v1.POST("/sync/reset", handler.ResetExhausted)
		v1.GET("/sync/exhausted", handler.ListExhausted)

		// Company routes
		v1.POST("/companies/:id/bayzat/test", handler.TestBayzatConnection)
	}
}
