package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/ydl-go/internal/app"
	"github.com/yourusername/ydl-go/internal/domain"
	"github.com/yourusername/ydl-go/pkg/logger"
	"go.uber.org/zap"
)

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	queueMgr  *app.QueueManager
	logReader *logger.LogReader
	logger    *zap.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(queueMgr *app.QueueManager, logsDir string, log *zap.Logger) *JobHandler {
	return &JobHandler{
		queueMgr:  queueMgr,
		logReader: logger.NewLogReader(logsDir),
		logger:    log,
	}
}

// AddJobRequest represents a request to queue a URL
type AddJobRequest struct {
	URL string `json:"url" binding:"required"`
}

// AddJob handles POST /api/v1/jobs
func (h *JobHandler) AddJob(c *gin.Context) {
	var req AddJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.queueMgr.AddJob(req.URL)
	if err != nil {
		h.logger.Error("Failed to add job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJob handles GET /api/v1/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.queueMgr.GetJob(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobs handles GET /api/v1/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	filters := make(map[string]interface{})

	if status := c.Query("status"); status != "" {
		if !domain.ValidJobStatus(domain.JobStatus(status)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		filters["status"] = status
	}

	jobs, err := h.queueMgr.ListJobs(filters)
	if err != nil {
		h.logger.Error("Failed to list jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if jobs == nil {
		jobs = []*domain.Job{}
	}

	c.JSON(http.StatusOK, jobs)
}

// GetStats handles GET /api/v1/jobs/stats
func (h *JobHandler) GetStats(c *gin.Context) {
	stats, err := h.queueMgr.GetStats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// StopJob handles POST /api/v1/jobs/:id/stop
func (h *JobHandler) StopJob(c *gin.Context) {
	id := c.Param("id")

	if err := h.queueMgr.StopJob(id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "stop requested", "id": id})
}

// DeleteJob handles DELETE /api/v1/jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id := c.Param("id")

	if err := h.queueMgr.DeleteJob(id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "job deleted", "id": id})
}

// GetJobLog handles GET /api/v1/jobs/:id/log
func (h *JobHandler) GetJobLog(c *gin.Context) {
	job, err := h.queueMgr.GetJob(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "200"))
	if err != nil || limit < 0 {
		limit = 200
	}

	day := job.CreatedAt
	if job.StartedAt != nil {
		day = *job.StartedAt
	}
	if d := c.Query("date"); d != "" {
		day, err = time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
			return
		}
	}

	entries, err := h.logReader.ReadJobLogs(job.ID, day, limit)
	if err != nil {
		h.logger.Error("Failed to read job log", zap.String("id", job.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      job.ID,
		"date":    day.Format("2006-01-02"),
		"count":   len(entries),
		"entries": entries,
	})
}

func (h *JobHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
	case errors.Is(err, domain.ErrJobFinished), errors.Is(err, domain.ErrJobActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Job request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
