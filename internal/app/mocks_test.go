package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yourusername/ydl-go/internal/domain"
)

// mockRepo is an in-memory domain.JobRepository handing out copies
type mockRepo struct {
	mu   sync.Mutex
	jobs []*domain.Job

	findErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{}
}

func cloneJob(job *domain.Job) *domain.Job {
	c := *job
	c.Files = append([]string(nil), job.Files...)
	return &c
}

func (m *mockRepo) Create(job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, cloneJob(job))
	return nil
}

func (m *mockRepo) Update(job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, j := range m.jobs {
		if j.ID == job.ID {
			m.jobs[i] = cloneJob(job)
			return nil
		}
	}
	return domain.ErrJobNotFound
}

func (m *mockRepo) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, j := range m.jobs {
		if j.ID == id {
			m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
			return nil
		}
	}
	return domain.ErrJobNotFound
}

func (m *mockRepo) FindByID(id string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, j := range m.jobs {
		if j.ID == id {
			return cloneJob(j), nil
		}
	}
	return nil, domain.ErrJobNotFound
}

func (m *mockRepo) FindByURL(url string, statuses []domain.JobStatus) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.jobs) - 1; i >= 0; i-- {
		j := m.jobs[i]
		if j.URL != url {
			continue
		}
		for _, s := range statuses {
			if j.Status == s {
				return cloneJob(j), nil
			}
		}
	}
	return nil, nil
}

func (m *mockRepo) FindPending() ([]*domain.Job, error) {
	return m.FindAll(map[string]interface{}{"status": domain.JobQueued})
}

func (m *mockRepo) FindAll(filters map[string]interface{}) ([]*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Job
	for _, j := range m.jobs {
		if status, ok := filters["status"]; ok && status != j.Status {
			continue
		}
		out = append(out, cloneJob(j))
	}
	return out, nil
}

func (m *mockRepo) ResetOrphanedRunning() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, j := range m.jobs {
		if j.Status == domain.JobRunning {
			j.Status = domain.JobQueued
			j.StartedAt = nil
			n++
		}
	}
	return n, nil
}

func (m *mockRepo) GetStats() (*domain.JobStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.JobStats{Total: int64(len(m.jobs))}
	for _, j := range m.jobs {
		if j.Status == domain.JobQueued {
			stats.Queued++
		}
	}
	return stats, nil
}

func (m *mockRepo) status(id string) domain.JobStatus {
	job, err := m.FindByID(id)
	if err != nil {
		return ""
	}
	return job.Status
}

// fakeDownloader replays canned progress and returns a canned result.
// With block set it runs until stopped or cancelled.
type fakeDownloader struct {
	states []domain.ProgressState
	result domain.Result
	err    error
	files  []string
	block  bool

	started chan struct{}
	stop    chan struct{}

	mu       sync.Mutex
	observer domain.ProgressObserver
	stopped  bool
	cleared  bool
	options  domain.Options
}

func newFakeDownloader() *fakeDownloader {
	return &fakeDownloader{
		started: make(chan struct{}),
		stop:    make(chan struct{}),
	}
}

func (f *fakeDownloader) Download(ctx context.Context, url string, options domain.Options) (domain.Result, error) {
	f.mu.Lock()
	observer := f.observer
	f.options = options
	f.mu.Unlock()
	close(f.started)

	if f.err != nil {
		return domain.ResultError, f.err
	}
	for _, s := range f.states {
		if observer != nil {
			observer(s)
		}
	}
	if f.block {
		select {
		case <-f.stop:
		case <-ctx.Done():
		}
		return domain.ResultStopped, nil
	}
	return f.result, nil
}

func (f *fakeDownloader) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.stopped {
		f.stopped = true
		close(f.stop)
	}
}

func (f *fakeDownloader) ClearDashFiles() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = true
}

func (f *fakeDownloader) Files() []string {
	return f.files
}

func (f *fakeDownloader) SetObserver(observer domain.ProgressObserver) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observer = observer
}

func (f *fakeDownloader) wasCleared() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleared
}

func waitStarted(f *fakeDownloader) error {
	select {
	case <-f.started:
		return nil
	case <-time.After(5 * time.Second):
		return errors.New("downloader did not start")
	}
}

// fakeFactory hands out prepared downloaders by job id and counts calls
type fakeFactory struct {
	mu          sync.Mutex
	downloaders map[string]*fakeDownloader
	fallback    func() *fakeDownloader
	calls       int
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		downloaders: make(map[string]*fakeDownloader),
		fallback:    newFakeDownloader,
	}
}

func (f *fakeFactory) set(jobID string, d *fakeDownloader) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloaders[jobID] = d
}

func (f *fakeFactory) New(jobID string) domain.Downloader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if d, ok := f.downloaders[jobID]; ok {
		return d
	}
	d := f.fallback()
	f.downloaders[jobID] = d
	return d
}

func (f *fakeFactory) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
