package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewJob(t *testing.T) {
	url := "https://www.youtube.com/watch?v=abc"

	job := NewJob(url)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, url, job.URL)
	assert.Equal(t, JobQueued, job.Status)
	assert.Empty(t, job.Result)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
	assert.NotEqual(t, job.ID, NewJob(url).ID)
}

func TestJob_MarkRunning(t *testing.T) {
	job := NewJob("https://youtu.be/abc")

	job.MarkRunning()

	assert.Equal(t, JobRunning, job.Status)
	assert.NotNil(t, job.StartedAt)
	assert.True(t, job.IsActive())
}

func TestJob_MarkFinished(t *testing.T) {
	tests := []struct {
		result Result
		status JobStatus
	}{
		{ResultOK, JobCompleted},
		{ResultAlready, JobAlready},
		{ResultError, JobToolError},
		{ResultStopped, JobStopped},
	}

	for _, tt := range tests {
		t.Run(tt.result.String(), func(t *testing.T) {
			job := NewJob("https://youtu.be/abc")
			job.MarkRunning()

			job.MarkFinished(tt.result, []string{"/tmp/a.mp4"})

			assert.Equal(t, tt.status, job.Status)
			assert.Equal(t, tt.result.String(), job.Result)
			assert.Equal(t, []string{"/tmp/a.mp4"}, job.Files)
			assert.NotNil(t, job.CompletedAt)
			assert.True(t, job.IsTerminal())
		})
	}
}

func TestJob_MarkFailed(t *testing.T) {
	job := NewJob("https://youtu.be/abc")

	job.MarkFailed(errors.New("exec: \"yt-dlp\": executable file not found in $PATH"))

	assert.Equal(t, JobFailed, job.Status)
	assert.Equal(t, "error", job.Result)
	assert.Contains(t, job.ErrorMessage, "executable file not found")
	assert.True(t, job.IsTerminal())
}

func TestJob_MarkStopped(t *testing.T) {
	job := NewJob("https://youtu.be/abc")

	job.MarkStopped()

	assert.Equal(t, JobStopped, job.Status)
	assert.Equal(t, "stopped", job.Result)
	assert.Nil(t, job.CompletedAt)
	assert.True(t, job.IsTerminal())
}

func TestJob_IsTerminal(t *testing.T) {
	tests := []struct {
		status   JobStatus
		terminal bool
	}{
		{JobQueued, false},
		{JobRunning, false},
		{JobCompleted, true},
		{JobAlready, true},
		{JobToolError, true},
		{JobStopped, true},
		{JobFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			job := &Job{Status: tt.status}
			assert.Equal(t, tt.terminal, job.IsTerminal())
			assert.Equal(t, !tt.terminal, job.IsActive())
		})
	}
}

func TestValidJobStatus(t *testing.T) {
	assert.True(t, ValidJobStatus(JobCompleted))
	assert.True(t, ValidJobStatus("error"))
	assert.False(t, ValidJobStatus("processing"))
	assert.False(t, ValidJobStatus(""))
}
