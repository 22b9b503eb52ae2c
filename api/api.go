package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rental-analyzer/models"
	"rental-analyzer/services"
	"rental-analyzer/storage"
	"rental-analyzer/utils"
)

// Handler exposes the analysis pipeline over HTTP.
type Handler struct {
	analyzer *services.Analyzer
	logger   *utils.Logger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(analyzer *services.Analyzer, logger *utils.Logger) *gin.Engine {
	h := &Handler{analyzer: analyzer, logger: logger}

	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analyze", h.Analyze)
		v1.POST("/analyze/csv", h.AnalyzeCSV)
	}

	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// runBatch decodes the request, fills in default assumptions when the body
// omits them, and runs one batch.
func (h *Handler) runBatch(c *gin.Context) (*models.BatchReport, bool) {
	var req models.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return nil, false
	}
	if req.Assumptions == (models.Assumptions{}) {
		req.Assumptions = models.DefaultAssumptions()
	}

	report, err := h.analyzer.Analyze(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrNoZipCodes) || errors.Is(err, services.ErrBatchTooLarge) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, false
	}
	return report, true
}

// Analyze runs a batch and returns the full report as JSON. An empty result
// set is a normal 200 response.
func (h *Handler) Analyze(c *gin.Context) {
	report, ok := h.runBatch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// AnalyzeCSV runs a batch and streams the results as a CSV attachment.
func (h *Handler) AnalyzeCSV(c *gin.Context) {
	report, ok := h.runBatch(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="analysis.csv"`)
	c.Status(http.StatusOK)
	if err := storage.EncodeCSV(c.Writer, report.Results); err != nil {
		h.logger.Error("[api] CSV stream failed: %v", err)
	}
}
