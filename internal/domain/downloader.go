package domain

import "context"

// Downloader supervises one external downloader process at a time
type Downloader interface {
	// Download runs the downloader for url and blocks until it exits
	Download(ctx context.Context, url string, options Options) (Result, error)

	// Stop kills the running process, if any, and forces ResultStopped
	Stop()

	// ClearDashFiles removes the recorded files that still exist
	ClearDashFiles()

	// Files returns every destination path recorded so far
	Files() []string

	// SetObserver registers the progress observer
	SetObserver(observer ProgressObserver)
}
