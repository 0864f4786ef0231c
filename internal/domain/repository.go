package domain

// JobRepository defines the interface for job persistence
type JobRepository interface {
	// Create creates a new job
	Create(job *Job) error

	// Update updates an existing job
	Update(job *Job) error

	// Delete deletes a job by ID
	Delete(id string) error

	// FindByID finds a job by ID, returning ErrJobNotFound when missing
	FindByID(id string) (*Job, error)

	// FindByURL returns the newest job for url in one of statuses, or nil
	FindByURL(url string, statuses []JobStatus) (*Job, error)

	// FindPending finds all queued jobs, oldest first
	FindPending() ([]*Job, error)

	// FindAll finds all jobs with optional column filters
	FindAll(filters map[string]interface{}) ([]*Job, error)

	// ResetOrphanedRunning puts jobs left running by a previous process back in the queue
	ResetOrphanedRunning() (int64, error)

	// GetStats returns job statistics
	GetStats() (*JobStats, error)
}

// JobStats represents job statistics
type JobStats struct {
	Total     int64 `json:"total"`
	Queued    int64 `json:"queued"`
	Running   int64 `json:"running"`
	Completed int64 `json:"completed"`
	Already   int64 `json:"already"`
	Error     int64 `json:"error"`
	Stopped   int64 `json:"stopped"`
	Failed    int64 `json:"failed"`
}
