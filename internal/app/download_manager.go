package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/ydl-go/internal/domain"
	"github.com/yourusername/ydl-go/internal/infrastructure"
	"go.uber.org/zap"
)

// progressPersistInterval bounds how often a running job's progress is saved
const progressPersistInterval = time.Second

// DownloaderFactory creates a fresh downloader for one job
type DownloaderFactory func(jobID string) domain.Downloader

// DownloadManager runs queued jobs through the external downloader
type DownloadManager struct {
	repo          domain.JobRepository
	newDownloader DownloaderFactory
	hub           *ProgressHub
	notifier      *infrastructure.NotificationService
	options       domain.Options
	logger        *zap.Logger
	semaphore     chan struct{}

	mu     sync.Mutex
	active map[string]domain.Downloader
}

// NewDownloadManager creates a new download manager running at most
// concurrentLimit downloads at once. hub and notifier may be nil.
func NewDownloadManager(
	repo domain.JobRepository,
	newDownloader DownloaderFactory,
	hub *ProgressHub,
	notifier *infrastructure.NotificationService,
	options domain.Options,
	concurrentLimit int,
	logger *zap.Logger,
) *DownloadManager {
	if concurrentLimit < 1 {
		concurrentLimit = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DownloadManager{
		repo:          repo,
		newDownloader: newDownloader,
		hub:           hub,
		notifier:      notifier,
		options:       options,
		logger:        logger,
		semaphore:     make(chan struct{}, concurrentLimit),
		active:        make(map[string]domain.Downloader),
	}
}

// ProcessJob runs one queued job to completion. A job that is no longer
// queued when a slot frees up is skipped. The returned error covers
// bookkeeping and spawn failures; downloader failures end up in the job.
func (dm *DownloadManager) ProcessJob(ctx context.Context, jobID string) error {
	select {
	case dm.semaphore <- struct{}{}:
		defer func() { <-dm.semaphore }()
	case <-ctx.Done():
		return ctx.Err()
	}

	job, downloader, err := dm.claim(jobID)
	if err != nil || job == nil {
		return err
	}
	defer dm.release(jobID)

	dm.logger.Info("Processing job",
		zap.String("id", job.ID),
		zap.String("url", job.URL))

	lastSave := time.Now()
	downloader.SetObserver(func(state domain.ProgressState) {
		job.Progress = &state
		dm.publish(domain.ProgressEvent{JobID: job.ID, State: state})

		if time.Since(lastSave) >= progressPersistInterval {
			lastSave = time.Now()
			if err := dm.repo.Update(job); err != nil {
				dm.logger.Warn("Failed to save progress", zap.String("id", job.ID), zap.Error(err))
			}
		}
	})

	result, runErr := downloader.Download(ctx, job.URL, dm.options)
	if runErr != nil {
		job.MarkFailed(runErr)
		dm.logger.Error("Downloader could not run",
			zap.String("id", job.ID),
			zap.Error(runErr))
	} else {
		if result == domain.ResultOK && dm.options.ClearDashFiles && infrastructure.IsDashMux(dm.options) {
			downloader.ClearDashFiles()
		}
		job.MarkFinished(result, downloader.Files())
		dm.logger.Info("Job finished",
			zap.String("id", job.ID),
			zap.String("result", result.String()),
			zap.Int("files", len(job.Files)))
	}

	// the final state is saved even when ctx is done
	if err := dm.repo.Update(job); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	final := domain.ProgressEvent{JobID: job.ID, Status: job.Status}
	if job.Progress != nil {
		final.State = *job.Progress
	}
	dm.publish(final)

	if dm.notifier != nil {
		dm.notifier.NotifyJobFinished(job)
	}
	return runErr
}

// claim marks a queued job running and registers its downloader. It returns
// a nil job when there is nothing to run.
func (dm *DownloadManager) claim(jobID string) (*domain.Job, domain.Downloader, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	job, err := dm.repo.FindByID(jobID)
	if errors.Is(err, domain.ErrJobNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job.Status != domain.JobQueued {
		return nil, nil, nil
	}

	job.MarkRunning()
	if err := dm.repo.Update(job); err != nil {
		return nil, nil, fmt.Errorf("failed to update job status: %w", err)
	}

	downloader := dm.newDownloader(job.ID)
	dm.active[job.ID] = downloader
	return job, downloader, nil
}

func (dm *DownloadManager) release(jobID string) {
	dm.mu.Lock()
	delete(dm.active, jobID)
	dm.mu.Unlock()
}

func (dm *DownloadManager) publish(ev domain.ProgressEvent) {
	if dm.hub != nil {
		dm.hub.Publish(ev)
	}
}

// StopJob stops a running job or withdraws a queued one
func (dm *DownloadManager) StopJob(id string) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if downloader, ok := dm.active[id]; ok {
		downloader.Stop()
		dm.logger.Info("Stop requested", zap.String("id", id))
		return nil
	}

	job, err := dm.repo.FindByID(id)
	if err != nil {
		return err
	}
	if job.Status != domain.JobQueued {
		return domain.ErrJobFinished
	}

	job.MarkStopped()
	if err := dm.repo.Update(job); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	dm.publish(domain.ProgressEvent{JobID: id, Status: job.Status})
	dm.logger.Info("Queued job stopped", zap.String("id", id))
	return nil
}

// DeleteJob removes a job that is not running. It holds the same lock as
// claim, so a job cannot start between the check and the delete.
func (dm *DownloadManager) DeleteJob(id string) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if _, ok := dm.active[id]; ok {
		return domain.ErrJobActive
	}
	return dm.repo.Delete(id)
}

// IsActive reports whether a downloader is running for the job
func (dm *DownloadManager) IsActive(id string) bool {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	_, ok := dm.active[id]
	return ok
}

// ActiveCount returns the number of running downloads
func (dm *DownloadManager) ActiveCount() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return len(dm.active)
}
