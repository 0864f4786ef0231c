package infrastructure

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/ydl-go/internal/domain"
)

const maxLineSize = 1024 * 1024

// Supervisor runs the external downloader and turns its output into progress
// updates. One Supervisor drives at most one process at a time; separate
// instances are independent.
type Supervisor struct {
	binary     string
	toolLogger domain.ToolLogger
	logger     *zap.Logger
	files      FileRecord

	mu         sync.Mutex
	classifier LineClassifier
	observer   domain.ProgressObserver
	cmd        *exec.Cmd
	exited     bool
	stopped    bool
}

// NewSupervisor creates a supervisor for the downloader at binary.
// Raw stderr lines go to toolLogger; both collaborators may be nil.
func NewSupervisor(binary string, toolLogger domain.ToolLogger, logger *zap.Logger) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supervisor{
		binary:     binary,
		toolLogger: toolLogger,
		logger:     logger,
		classifier: NewFixedPositionClassifier(),
	}
}

// SetObserver registers the function called with a snapshot on every change
func (s *Supervisor) SetObserver(observer domain.ProgressObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = observer
}

// SetClassifier replaces the output line classifier
func (s *Supervisor) SetClassifier(classifier LineClassifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classifier = classifier
}

// Files returns every destination path seen since the last ResetFiles
func (s *Supervisor) Files() []string {
	return s.files.Paths()
}

// ResetFiles clears the recorded destination paths
func (s *Supervisor) ResetFiles() {
	s.files.Reset()
}

// Download runs the downloader for url and blocks until the process exits
// and both of its output streams are drained. The streams stay open while
// any process that inherited them is alive, so a helper the downloader
// leaves running in the background keeps Download waiting and its output is
// still classified. Only configuration and spawn failures are returned as
// errors; everything the downloader reports ends up in the result code, the
// observer and the tool logger.
func (s *Supervisor) Download(ctx context.Context, url string, options domain.Options) (domain.Result, error) {
	args, err := BuildArgs(options)
	if err != nil {
		return domain.ResultError, err
	}
	args = append(args, url)

	cmd, stdout, stderr, err := s.start(args)
	if err != nil {
		return domain.ResultError, err
	}

	s.mu.Lock()
	classifier := s.classifier
	observer := s.observer
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-done:
		}
	}()

	tracker := NewProgressTracker(&s.files)
	stdoutLines := scanLines(stdout)
	stderrLines := scanLines(stderr)

	for stdoutLines != nil || stderrLines != nil {
		// a ready stdout line always goes first
		select {
		case line, ok := <-stdoutLines:
			if !ok {
				stdoutLines = nil
				continue
			}
			s.handleStdout(tracker, classifier, observer, line)
			continue
		default:
		}

		select {
		case line, ok := <-stdoutLines:
			if !ok {
				stdoutLines = nil
				continue
			}
			s.handleStdout(tracker, classifier, observer, line)
		case line, ok := <-stderrLines:
			if !ok {
				stderrLines = nil
				continue
			}
			s.handleStderr(tracker, line)
		}
	}

	// once reaped, the process group id can be reused, so Stop is disabled
	// while the exited child is still a zombie
	if waitExited(cmd) {
		s.markExited()
	}
	waitErr := cmd.Wait()
	s.markExited()
	close(done)

	s.mu.Lock()
	result := tracker.Pending()
	if s.stopped {
		result = domain.ResultStopped
	}
	s.cmd = nil
	s.mu.Unlock()

	s.logger.Debug("Downloader exited",
		zap.String("url", url),
		zap.Int("exit_code", exitCode(waitErr)),
		zap.String("result", result.String()))

	return result, nil
}

// Stop kills the running downloader and forces the result to stopped.
// It does nothing when no process is running and is safe to call from any
// goroutine.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// a reaped process's group id may already belong to someone else
	if s.cmd == nil || s.exited {
		return
	}
	s.stopped = true
	killProcess(s.cmd)
	s.logger.Debug("Downloader stop requested", zap.Int("pid", s.cmd.Process.Pid))
}

func (s *Supervisor) markExited() {
	s.mu.Lock()
	s.exited = true
	s.mu.Unlock()
}

// ClearDashFiles removes every recorded file that still exists. Used after
// ffmpeg has muxed separate DASH video and audio streams.
func (s *Supervisor) ClearDashFiles() {
	for _, path := range s.files.Paths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			s.logger.Warn("Failed to remove DASH file", zap.String("path", path), zap.Error(err))
			continue
		}
		s.logger.Debug("Removed DASH file", zap.String("path", path))
	}
}

// start spawns the process while holding the lock so Stop and a concurrent
// Download observe a consistent state
func (s *Supervisor) start(args []string) (*exec.Cmd, io.Reader, io.Reader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return nil, nil, nil, domain.ErrAlreadyRunning
	}

	cmd := exec.Command(s.binary, args...)
	configureProcess(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get stderr pipe: %w", err)
	}

	s.logger.Debug("Starting downloader", zap.String("command", FormatCommandLine(s.binary, args...)))

	if err := cmd.Start(); err != nil {
		return nil, nil, nil, &domain.ProcessSpawnError{Binary: s.binary, Err: err}
	}

	s.cmd = cmd
	s.exited = false
	s.stopped = false
	return cmd, stdout, stderr, nil
}

func (s *Supervisor) handleStdout(tracker *ProgressTracker, classifier LineClassifier, observer domain.ProgressObserver, line string) {
	if !tracker.Merge(classifier.Classify(line)) {
		return
	}
	if observer != nil {
		observer(tracker.Snapshot())
	}
}

func (s *Supervisor) handleStderr(tracker *ProgressTracker, line string) {
	if line == "" {
		return
	}
	tracker.MarkError()
	if s.toolLogger != nil {
		s.toolLogger.Log(line)
	}
}

// scanLines delivers r line by line until EOF. The channel is unbuffered so
// a line is only pending while the reader is blocked on the send.
func scanLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		scanner.Split(scanProgressLines)
		for scanner.Scan() {
			lines <- strings.TrimRightFunc(scanner.Text(), isTrailingSpace)
		}

		// keep the pipe drained so the child never blocks on a full buffer
		_, _ = io.Copy(io.Discard, r)
	}()
	return lines
}

// scanProgressLines splits on \n and on the bare \r used to redraw the
// progress line in place
func scanProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func isTrailingSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
