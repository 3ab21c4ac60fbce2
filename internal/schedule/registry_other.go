//go:build !unix

package schedule

import "os/exec"

// setProcessGroup is a no-op on platforms without POSIX process groups;
// use_process_groups has no effect there.
func setProcessGroup(cmd *exec.Cmd) {}

func killCmd(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	cmd.Process.Kill()
}
