package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a queued download job
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobAlready   JobStatus = "already"
	JobToolError JobStatus = "error"   // downloader wrote to stderr
	JobStopped   JobStatus = "stopped" // stopped on request
	JobFailed    JobStatus = "failed"  // could not be run at all
)

// Job is one URL submitted to the queue, persisted across restarts
type Job struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	URL          string         `json:"url" gorm:"not null"`
	Status       JobStatus      `json:"status" gorm:"not null;index"`
	Result       string         `json:"result,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Files        []string       `json:"files,omitempty" gorm:"serializer:json"`
	Progress     *ProgressState `json:"progress,omitempty" gorm:"serializer:json"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// NewJob creates a queued job for url
func NewJob(url string) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.New().String(),
		URL:       url,
		Status:    JobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkRunning marks the job as handed to a supervisor
func (j *Job) MarkRunning() {
	j.Status = JobRunning
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkFinished records the terminal result of the downloader invocation
func (j *Job) MarkFinished(result Result, files []string) {
	j.Status = StatusFromResult(result)
	j.Result = result.String()
	j.Files = files
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkFailed marks a job that could not be run
func (j *Job) MarkFailed(err error) {
	j.Status = JobFailed
	j.Result = ResultError.String()
	j.ErrorMessage = err.Error()
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkStopped marks a job stopped before it was started
func (j *Job) MarkStopped() {
	j.Status = JobStopped
	j.Result = ResultStopped.String()
	j.UpdatedAt = time.Now()
}

// IsTerminal checks if the job will not change anymore
func (j *Job) IsTerminal() bool {
	return j.Status != JobQueued && j.Status != JobRunning
}

// IsActive checks if the job is queued or running
func (j *Job) IsActive() bool {
	return !j.IsTerminal()
}

// StatusFromResult maps a downloader result to the terminal job status
func StatusFromResult(result Result) JobStatus {
	switch result {
	case ResultOK:
		return JobCompleted
	case ResultAlready:
		return JobAlready
	case ResultStopped:
		return JobStopped
	default:
		return JobToolError
	}
}

// ValidJobStatus checks if s names a job status
func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobQueued, JobRunning, JobCompleted, JobAlready, JobToolError, JobStopped, JobFailed:
		return true
	}
	return false
}
