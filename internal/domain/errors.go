package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError
	ErrConfiguration = errors.New("configuration error")

	// ErrAlreadyRunning is returned when a supervisor is asked to start a
	// second process while one is still alive
	ErrAlreadyRunning = errors.New("downloader already running")

	// ErrJobNotFound is returned when no job has the requested id
	ErrJobNotFound = errors.New("job not found")

	// ErrJobFinished is returned when stopping a job that already ended
	ErrJobFinished = errors.New("job already finished")

	// ErrJobActive is returned when deleting a job that is still running
	ErrJobActive = errors.New("job is running")
)

// ConfigurationError reports an option value that has no downloader equivalent
type ConfigurationError struct {
	Option string
	Value  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Option, e.Value)
}

// Is makes errors.Is(err, ErrConfiguration) true
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ProcessSpawnError reports that the downloader executable could not be started
type ProcessSpawnError struct {
	Binary string
	Err    error
}

func (e *ProcessSpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Binary, e.Err)
}

func (e *ProcessSpawnError) Unwrap() error {
	return e.Err
}
