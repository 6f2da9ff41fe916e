package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rim-zghida/plagiasm-detector/internal/detector"
	"github.com/rim-zghida/plagiasm-detector/internal/middleware"
	"github.com/rim-zghida/plagiasm-detector/internal/service"
)

type AnalysisHandler interface {
	Analyze(c *gin.Context)
	ListBatches(c *gin.Context)
	BatchResults(c *gin.Context)
	DetectOnly(c *gin.Context)
	DetectionHealth(c *gin.Context)
}

type analysisHandler struct {
	analysisService service.AnalysisService
	resultsService  service.ResultsService
	registry        *detector.Registry
	defaults        service.AnalysisOptions
	log             *logrus.Logger
}

func NewAnalysisHandler(
	analysisService service.AnalysisService,
	resultsService service.ResultsService,
	registry *detector.Registry,
	defaults service.AnalysisOptions,
	log *logrus.Logger,
) AnalysisHandler {
	return &analysisHandler{
		analysisService: analysisService,
		resultsService:  resultsService,
		registry:        registry,
		defaults:        defaults,
		log:             log,
	}
}

// Analyze accepts multipart submissions: zero or more "files" parts, an
// optional "text" field and an optional "options" JSON field.
func (h *analysisHandler) Analyze(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(uuid.UUID)

	opts := h.defaults
	if raw := c.PostForm("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid options JSON: " + err.Error()})
			return
		}
	}
	if opts.Provider == "" {
		opts.Provider = h.defaults.Provider
	}

	text := c.PostForm("text")

	var files []service.FileUpload
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		for _, fh := range form.File["files"] {
			f, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload: " + err.Error()})
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload: " + err.Error()})
				return
			}
			files = append(files, service.FileUpload{Filename: fh.Filename, Data: data})
		}
	}

	batch, err := h.analysisService.Submit(c.Request.Context(), userID, text, files, opts)
	if err != nil {
		if errors.Is(err, service.ErrNoContent) || errors.Is(err, service.ErrInvalidOptions) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf("Failed to submit batch: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit analysis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batch_id": batch.ID.String(),
		"status":   batch.Status,
		"message":  "Analysis started successfully",
	})
}

func (h *analysisHandler) ListBatches(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(uuid.UUID)

	batches, err := h.resultsService.ListBatches(userID)
	if err != nil {
		h.log.Errorf("Failed to list batches: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list batches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": batches})
}

func (h *analysisHandler) BatchResults(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(uuid.UUID)

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid batch id"})
		return
	}

	results, err := h.resultsService.GetBatchResults(userID, batchID)
	if err != nil {
		if errors.Is(err, service.ErrBatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
			return
		}
		h.log.Errorf("Failed to load batch results: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load results"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": results})
}

type DetectRequest struct {
	Text      string   `json:"text" binding:"required"`
	Provider  string   `json:"provider"`
	Threshold *float64 `json:"threshold"`
}

// DetectOnly scores a single text directly, bypassing all persistence.
func (h *analysisHandler) DetectOnly(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider := req.Provider
	if provider == "" {
		provider = h.defaults.Provider
	}
	threshold := h.defaults.AIThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold < 0 || threshold > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be in [0,1]"})
		return
	}

	result, err := h.registry.Get(provider).Detect(c.Request.Context(), req.Text, threshold)
	if err != nil {
		h.log.Errorf("AI detection failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI detection failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *analysisHandler) DetectionHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "ai_detection",
		"health":  h.registry.Health(c.Request.Context()),
	})
}
