package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/ydl-go/internal/app"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// HealthHandler reports whether the queue and its store are usable
type HealthHandler struct {
	queueMgr    *app.QueueManager
	downloadMgr *app.DownloadManager
	startedAt   time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(queueMgr *app.QueueManager, downloadMgr *app.DownloadManager) *HealthHandler {
	return &HealthHandler{
		queueMgr:    queueMgr,
		downloadMgr: downloadMgr,
		startedAt:   time.Now(),
	}
}

// QueueHealth summarizes the queue for health checks
type QueueHealth struct {
	Running bool  `json:"running"`
	Active  int   `json:"active"`
	Queued  int64 `json:"queued"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Uptime  string      `json:"uptime"`
	Queue   QueueHealth `json:"queue"`
	Error   string      `json:"error,omitempty"`
}

// Health handles GET /health. A job store that cannot be read makes the
// service degraded.
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: Version,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Queue: QueueHealth{
			Running: h.queueMgr.IsRunning(),
			Active:  h.downloadMgr.ActiveCount(),
		},
	}

	stats, err := h.queueMgr.GetStats()
	if err != nil {
		response.Status = "degraded"
		response.Error = err.Error()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	response.Queue.Queued = stats.Queued

	c.JSON(http.StatusOK, response)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.queueMgr.IsRunning() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "queue manager not running",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
