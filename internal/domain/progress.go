package domain

import "fmt"

// ProgressStatus is the coarse stage reported by the downloader output
type ProgressStatus string

const (
	ProgressDownloading       ProgressStatus = "Downloading"
	ProgressAlreadyDownloaded ProgressStatus = "Already Downloaded"
	ProgressPostProcessing    ProgressStatus = "Post Processing"
	ProgressPreProcessing     ProgressStatus = "Pre Processing"
)

// Result is the terminal code of one downloader invocation
type Result int

const (
	ResultOK Result = iota
	ResultError
	ResultStopped
	ResultAlready
)

// String returns the result name
func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultError:
		return "error"
	case ResultStopped:
		return "stopped"
	case ResultAlready:
		return "already"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Event is a sparse progress update. A nil field was not determined by the line.
type Event struct {
	PlaylistIndex *int
	PlaylistSize  *int
	Filesize      *string
	Filename      *string
	Percent       *string
	Status        *ProgressStatus
	Speed         *string
	ETA           *string
}

// IsEmpty reports whether the event carries no field at all
func (e Event) IsEmpty() bool {
	return e.PlaylistIndex == nil && e.PlaylistSize == nil && e.Filesize == nil &&
		e.Filename == nil && e.Percent == nil && e.Status == nil &&
		e.Speed == nil && e.ETA == nil
}

// ProgressState is the latest known progress of one invocation.
// Unset fields are nil and encode as JSON null.
//
// Values behind the pointers are never mutated in place, so a shallow copy
// of a ProgressState is an independent snapshot.
type ProgressState struct {
	PlaylistIndex *int            `json:"playlist_index"`
	PlaylistSize  *int            `json:"playlist_size"`
	Filesize      *string         `json:"filesize"`
	Filename      *string         `json:"filename"`
	Percent       *string         `json:"percent"`
	Status        *ProgressStatus `json:"status"`
	Speed         *string         `json:"speed"`
	ETA           *string         `json:"eta"`
}

// ProgressObserver receives a full snapshot every time the state changes
type ProgressObserver func(state ProgressState)

// ToolLogger receives raw text the downloader wrote to stderr
type ToolLogger interface {
	Log(text string)
}

// ProgressEvent ties a progress snapshot to the job it belongs to.
// Status is set on the final event of a job.
type ProgressEvent struct {
	JobID  string        `json:"job_id"`
	State  ProgressState `json:"state"`
	Status JobStatus     `json:"status,omitempty"`
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to i
func IntPtr(i int) *int {
	return &i
}

// StatusPtr returns a pointer to s
func StatusPtr(s ProgressStatus) *ProgressStatus {
	return &s
}
