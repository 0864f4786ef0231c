package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/ydl-go/internal/domain"
	"github.com/yourusername/ydl-go/pkg/logger"
)

// QueueManager polls the job store and hands queued jobs to the download manager
type QueueManager struct {
	repo        domain.JobRepository
	downloadMgr *DownloadManager
	config      *domain.QueueConfig
	multiLogger *logger.MultiLogger

	mu         sync.RWMutex
	running    bool
	stopChan   chan struct{}
	exitChan   chan struct{}
	exitOnce   sync.Once
	dispatched map[string]bool
	workerWg   sync.WaitGroup
}

// NewQueueManager creates a new queue manager. multiLogger may be nil.
func NewQueueManager(
	repo domain.JobRepository,
	downloadMgr *DownloadManager,
	config *domain.QueueConfig,
	multiLogger *logger.MultiLogger,
) *QueueManager {
	return &QueueManager{
		repo:        repo,
		downloadMgr: downloadMgr,
		config:      config,
		multiLogger: multiLogger,
		exitChan:    make(chan struct{}),
		dispatched:  make(map[string]bool),
	}
}

// Start requeues jobs orphaned by a previous run and starts the poll loop
func (qm *QueueManager) Start(ctx context.Context) error {
	qm.mu.Lock()
	if qm.running {
		qm.mu.Unlock()
		return fmt.Errorf("queue manager already running")
	}
	qm.running = true
	qm.stopChan = make(chan struct{})
	qm.mu.Unlock()

	if n, err := qm.repo.ResetOrphanedRunning(); err != nil {
		qm.logAppError("Failed to requeue orphaned jobs", zap.Error(err))
	} else if n > 0 {
		qm.logEvent("orphaned_jobs_requeued", zap.Int64("count", n))
	}

	qm.logEvent("queue_started")

	qm.workerWg.Add(1)
	go qm.processQueue(ctx, qm.stopChan)
	return nil
}

// Stop stops the poll loop, cancels running downloads and waits for them
func (qm *QueueManager) Stop() error {
	qm.mu.Lock()
	if !qm.running {
		qm.mu.Unlock()
		return fmt.Errorf("queue manager not running")
	}
	qm.running = false
	close(qm.stopChan)
	qm.mu.Unlock()

	qm.logEvent("queue_stopped")
	qm.workerWg.Wait()
	return nil
}

// IsRunning returns whether the queue manager is running
func (qm *QueueManager) IsRunning() bool {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	return qm.running
}

// ExitChan is closed when the queue exits after staying empty for EmptyWaitTime
func (qm *QueueManager) ExitChan() <-chan struct{} {
	return qm.exitChan
}

// AddJob queues url. A URL that is already queued or running returns the existing job.
func (qm *QueueManager) AddJob(url string) (*domain.Job, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}

	existing, err := qm.repo.FindByURL(url, []domain.JobStatus{domain.JobQueued, domain.JobRunning})
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if existing != nil {
		qm.logEvent("job_duplicate", zap.String("id", existing.ID), zap.String("url", url))
		return existing, nil
	}

	job := domain.NewJob(url)
	if err := qm.repo.Create(job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	qm.logEvent("job_added", zap.String("id", job.ID), zap.String("url", url))
	return job, nil
}

// GetJob retrieves a job by ID
func (qm *QueueManager) GetJob(id string) (*domain.Job, error) {
	return qm.repo.FindByID(id)
}

// ListJobs lists all jobs with optional filters
func (qm *QueueManager) ListJobs(filters map[string]interface{}) ([]*domain.Job, error) {
	return qm.repo.FindAll(filters)
}

// GetStats returns queue statistics
func (qm *QueueManager) GetStats() (*domain.JobStats, error) {
	return qm.repo.GetStats()
}

// StopJob stops a running or queued job
func (qm *QueueManager) StopJob(id string) error {
	if err := qm.downloadMgr.StopJob(id); err != nil {
		return err
	}
	qm.logEvent("job_stop_requested", zap.String("id", id))
	return nil
}

// DeleteJob removes a job that is not running
func (qm *QueueManager) DeleteJob(id string) error {
	if err := qm.downloadMgr.DeleteJob(id); err != nil {
		return err
	}
	qm.logEvent("job_deleted", zap.String("id", id))
	return nil
}

func (qm *QueueManager) processQueue(ctx context.Context, stop <-chan struct{}) {
	defer qm.workerWg.Done()

	// running downloads follow the loop's lifetime
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := time.NewTicker(qm.config.CheckInterval)
	defer ticker.Stop()

	emptyStartTime := time.Time{}

	for {
		select {
		case <-ctx.Done():
			qm.logEvent("queue_processor_stopped", zap.String("reason", "context_cancelled"))
			return
		case <-stop:
			qm.logEvent("queue_processor_stopped", zap.String("reason", "stop_signal"))
			return
		case <-ticker.C:
			pending, err := qm.repo.FindPending()
			if err != nil {
				qm.logAppError("Failed to fetch pending jobs", zap.Error(err))
				continue
			}

			if len(pending) == 0 && qm.downloadMgr.ActiveCount() == 0 {
				if emptyStartTime.IsZero() {
					emptyStartTime = time.Now()
					qm.logEvent("queue_empty")
				} else if qm.config.AutoExitOnEmpty && time.Since(emptyStartTime) > qm.config.EmptyWaitTime {
					qm.logEvent("queue_auto_exit", zap.String("reason", "empty_timeout"))
					qm.mu.Lock()
					qm.running = false
					qm.mu.Unlock()
					qm.exitOnce.Do(func() { close(qm.exitChan) })
					return
				}
				continue
			}

			emptyStartTime = time.Time{}
			for _, job := range pending {
				qm.dispatch(runCtx, job)
			}
		}
	}
}

// dispatch starts a worker for job unless one is already waiting for it
func (qm *QueueManager) dispatch(ctx context.Context, job *domain.Job) {
	qm.mu.Lock()
	if qm.dispatched[job.ID] {
		qm.mu.Unlock()
		return
	}
	qm.dispatched[job.ID] = true
	qm.mu.Unlock()

	qm.logEvent("job_dispatched", zap.String("id", job.ID), zap.String("url", job.URL))

	// the semaphore in DownloadManager bounds actual concurrency
	qm.workerWg.Add(1)
	go func() {
		defer qm.workerWg.Done()
		defer func() {
			qm.mu.Lock()
			delete(qm.dispatched, job.ID)
			qm.mu.Unlock()
		}()

		if err := qm.downloadMgr.ProcessJob(ctx, job.ID); err != nil {
			qm.logEvent("job_failed", zap.String("id", job.ID), zap.Error(err))
			qm.logAppError("Failed to process job", zap.String("id", job.ID), zap.Error(err))
			return
		}

		if finished, err := qm.repo.FindByID(job.ID); err == nil {
			qm.logEvent("job_finished",
				zap.String("id", finished.ID),
				zap.String("status", string(finished.Status)),
				zap.Strings("files", finished.Files))
		}
	}()
}

func (qm *QueueManager) logEvent(event string, fields ...zap.Field) {
	if qm.multiLogger != nil {
		qm.multiLogger.LogQueueEvent(event, fields...)
	}
}

func (qm *QueueManager) logAppError(msg string, fields ...zap.Field) {
	if qm.multiLogger != nil {
		qm.multiLogger.LogAppError(msg, fields...)
	}
}
