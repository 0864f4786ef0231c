//go:build !windows

package infrastructure

import (
	"os/exec"
	"syscall"
)

// configureProcess puts the downloader in its own process group so that
// helpers it spawns (ffmpeg, a python interpreter) die with it
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcess(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	if cmd.Process.Pid > 0 {
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	_ = cmd.Process.Kill()
}

// DetachProcess starts cmd in a new session so it outlives the caller's
// terminal
func DetachProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
