package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spacemudd/clarimount2025-sub000/internal/bayzat"
	"github.com/spacemudd/clarimount2025-sub000/internal/config"
	"github.com/spacemudd/clarimount2025-sub000/internal/db"
	"github.com/spacemudd/clarimount2025-sub000/internal/logger"
	"github.com/spacemudd/clarimount2025-sub000/internal/model"
	"github.com/spacemudd/clarimount2025-sub000/internal/queue"
	"github.com/spacemudd/clarimount2025-sub000/internal/storage"
	syncpkg "github.com/spacemudd/clarimount2025-sub000/internal/sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Handler struct {
	repo      db.Repository
	producer  *queue.Producer
	store     storage.Storage
	scheduler *syncpkg.RetryScheduler
	configs   bayzat.ConfigProvider
	client    *bayzat.Client
	cfg       *config.Config
	log       zerolog.Logger
}

func NewHandler(
	repo db.Repository,
	producer *queue.Producer,
	store storage.Storage,
	scheduler *syncpkg.RetryScheduler,
	configs bayzat.ConfigProvider,
	client *bayzat.Client,
	cfg *config.Config,
) *Handler {
	return &Handler{
		repo:      repo,
		producer:  producer,
		store:     store,
		scheduler: scheduler,
		configs:   configs,
		client:    client,
		cfg:       cfg,
		log:       logger.Get(),
	}
}

// UploadImport accepts a multipart attendance export, stores it and
// queues it for parsing.
func (h *Handler) UploadImport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}
	if fileHeader.Size > h.cfg.Server.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable file upload"})
		return
	}
	defer file.Close()

	storageKey := fmt.Sprintf("uploads/%s/%s%s",
		time.Now().Format("2006/01/02"), uuid.NewString(), filepath.Ext(fileHeader.Filename))

	if err := h.store.Upload(c.Request.Context(), storageKey, file); err != nil {
		h.log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}

	imp := &model.Import{
		Filename:   fileHeader.Filename,
		StorageKey: storageKey,
		UploadedBy: c.PostForm("uploaded_by"),
	}
	if teamID, err := strconv.ParseInt(c.PostForm("team_id"), 10, 64); err == nil {
		imp.TeamID = &teamID
	}

	if err := h.repo.CreateImport(c.Request.Context(), imp); err != nil {
		h.log.Error().Err(err).Msg("Failed to create import")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create import"})
		return
	}

	job := model.ImportJob{ImportID: imp.ID, StorageKey: storageKey}
	if err := h.producer.EnqueueImportJob(c.Request.Context(), job); err != nil {
		h.log.Error().Err(err).Int64("import_id", imp.ID).Msg("Failed to enqueue import job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue import job"})
		return
	}

	h.log.Info().
		Int64("import_id", imp.ID).
		Str("filename", imp.Filename).
		Msg("Import queued")

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Import queued successfully",
		"import":  imp,
	})
}

func (h *Handler) GetImportStatus(c *gin.Context) {
	importID, ok := pathID(c, "id")
	if !ok {
		return
	}

	imp, err := h.repo.GetImport(c.Request.Context(), importID)
	if err != nil {
		h.log.Error().Err(err).Int64("import_id", importID).Msg("Import not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Import not found"})
		return
	}

	c.JSON(http.StatusOK, model.ImportStatusResponse{
		ImportID:            imp.ID,
		Filename:            imp.Filename,
		Status:              imp.Status,
		TotalRows:           imp.TotalRows,
		ProcessedRows:       imp.ProcessedRows,
		SucceededRows:       imp.SucceededRows,
		FailedRows:          imp.FailedRows,
		Errors:              imp.Errors,
		UnmappedDepartments: imp.UnmappedDepartments,
		StartedAt:           imp.StartedAt,
		CompletedAt:         imp.CompletedAt,
	})
}

func (h *Handler) ListImportRecords(c *gin.Context) {
	importID, ok := pathID(c, "id")
	if !ok {
		return
	}

	records, err := h.repo.ListImportRecords(c.Request.Context(), importID)
	if err != nil {
		h.log.Error().Err(err).Int64("import_id", importID).Msg("Failed to list import records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := records[:0]
		for _, rec := range records {
			if string(rec.BayzatSyncStatus) == status {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"import_id": importID,
		"count":     len(records),
		"records":   records,
	})
}

func (h *Handler) GetBatchStatus(c *gin.Context) {
	batchID, ok := pathID(c, "id")
	if !ok {
		return
	}

	batch, err := h.repo.GetSyncBatch(c.Request.Context(), batchID)
	if err != nil {
		h.log.Error().Err(err).Int64("batch_id", batchID).Msg("Batch not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
		return
	}

	c.JSON(http.StatusOK, model.BatchStatusResponse{
		BatchID:         batch.ID,
		CompanyID:       batch.CompanyID,
		ImportID:        batch.ImportID,
		Status:          batch.Status,
		TotalRecords:    batch.TotalRecords,
		SyncedRecords:   batch.SyncedRecords,
		FailedRecords:   batch.FailedRecords,
		PercentComplete: batch.PercentComplete(),
		SuccessRate:     batch.SuccessRate(),
		ErrorMessage:    batch.ErrorMessage,
		StartedAt:       batch.StartedAt,
		CompletedAt:     batch.CompletedAt,
	})
}

// TriggerRetry immediately sweeps retry-eligible failed records within
// the requested scope instead of waiting for the scheduled sweep.
func (h *Handler) TriggerRetry(c *gin.Context) {
	var req model.RetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	scope := model.RetryScope{CompanyID: req.CompanyID, ImportID: req.ImportID}
	if req.BatchID != nil {
		// a batch is one company x one import, so its scope is both
		batch, err := h.repo.GetSyncBatch(c.Request.Context(), *req.BatchID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
			return
		}
		scope.CompanyID = &batch.CompanyID
		scope.ImportID = &batch.ImportID
	}

	batches, err := h.scheduler.Run(c.Request.Context(), scope)
	if err != nil {
		h.log.Error().Err(err).Msg("Manual retry failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Retry failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Retry triggered",
		"batches": batches,
	})
}

// ResetExhausted returns records that hit the retry ceiling to pending
// with a zeroed retry counter and replans them.
func (h *Handler) ResetExhausted(c *gin.Context) {
	var req model.RetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	scope := model.RetryScope{CompanyID: req.CompanyID, ImportID: req.ImportID}
	batches, err := h.scheduler.ResetExhausted(c.Request.Context(), scope)
	if err != nil {
		h.log.Error().Err(err).Msg("Exhausted reset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reset failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Exhausted records reset",
		"batches": batches,
	})
}

// ListExhausted surfaces records that exhausted their retries and need
// operator attention.
func (h *Handler) ListExhausted(c *gin.Context) {
	scope := model.RetryScope{}
	if companyID, err := strconv.ParseInt(c.Query("company_id"), 10, 64); err == nil {
		scope.CompanyID = &companyID
	}
	if importID, err := strconv.ParseInt(c.Query("import_id"), 10, 64); err == nil {
		scope.ImportID = &importID
	}

	records, err := h.scheduler.ExhaustedRecords(c.Request.Context(), scope)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list exhausted records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
	})
}

// TestBayzatConnection probes a company's configured endpoint with its
// decrypted key, without touching any records.
func (h *Handler) TestBayzatConnection(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	cfg, err := h.configs.CompanyConfig(c.Request.Context(), companyID)
	if err != nil {
		h.log.Warn().Err(err).Int64("company_id", companyID).Msg("Bayzat config unavailable")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	result := h.client.TestConnection(c.Request.Context(), cfg.Endpoint, cfg.APIKey)
	status := http.StatusOK
	if result.Status != bayzat.ProbeOK {
		status = http.StatusBadGateway
	}
	c.JSON(status, result)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
