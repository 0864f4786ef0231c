package infrastructure

import (
	"path/filepath"
	"sync"

	"github.com/yourusername/ydl-go/internal/domain"
)

// FileRecord is the ordered list of destination paths a supervisor has seen.
// It outlives single invocations until Reset is called.
type FileRecord struct {
	mu    sync.Mutex
	paths []string
}

// Add appends path unless it is already recorded
func (r *FileRecord) Add(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.paths {
		if p == path {
			return
		}
	}
	r.paths = append(r.paths, path)
}

// Paths returns a copy of the recorded paths
func (r *FileRecord) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Reset forgets every recorded path
func (r *FileRecord) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = nil
}

// ProgressTracker accumulates the sparse events of one invocation
type ProgressTracker struct {
	state   domain.ProgressState
	files   *FileRecord
	pending domain.Result
}

// NewProgressTracker creates an empty tracker recording filenames into files
func NewProgressTracker(files *FileRecord) *ProgressTracker {
	if files == nil {
		files = &FileRecord{}
	}
	return &ProgressTracker{
		files:   files,
		pending: domain.ResultOK,
	}
}

// Merge writes every field present in ev over the accumulated state and
// reports whether anything was written. Fields absent from ev are untouched.
func (t *ProgressTracker) Merge(ev domain.Event) bool {
	updated := false

	if ev.PlaylistIndex != nil {
		t.state.PlaylistIndex = domain.IntPtr(*ev.PlaylistIndex)
		updated = true
	}
	if ev.PlaylistSize != nil {
		t.state.PlaylistSize = domain.IntPtr(*ev.PlaylistSize)
		updated = true
	}
	if ev.Filesize != nil {
		t.state.Filesize = domain.StringPtr(*ev.Filesize)
		updated = true
	}
	if ev.Filename != nil {
		t.files.Add(*ev.Filename)
		t.state.Filename = domain.StringPtr(filepath.Base(*ev.Filename))
		updated = true
	}
	if ev.Percent != nil {
		t.state.Percent = domain.StringPtr(*ev.Percent)
		updated = true
	}
	if ev.Status != nil {
		if *ev.Status == domain.ProgressAlreadyDownloaded {
			// transient signal: becomes the result, not a persisted status
			t.pending = domain.ResultAlready
			t.state.Status = nil
		} else {
			t.state.Status = domain.StatusPtr(*ev.Status)
		}
		updated = true
	}
	if ev.Speed != nil {
		t.state.Speed = domain.StringPtr(*ev.Speed)
		updated = true
	}
	if ev.ETA != nil {
		t.state.ETA = domain.StringPtr(*ev.ETA)
		updated = true
	}

	return updated
}

// MarkError records that the downloader wrote to stderr
func (t *ProgressTracker) MarkError() {
	t.pending = domain.ResultError
}

// Pending returns the result observed closest to now
func (t *ProgressTracker) Pending() domain.Result {
	return t.pending
}

// Snapshot returns a copy of the state that later merges will not modify
func (t *ProgressTracker) Snapshot() domain.ProgressState {
	return t.state
}
