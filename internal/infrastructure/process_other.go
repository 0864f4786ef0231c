//go:build !linux

package infrastructure

import "os/exec"

// waitExited is only implemented on Linux; elsewhere the exit is noticed
// when cmd.Wait returns
func waitExited(cmd *exec.Cmd) bool {
	return false
}
