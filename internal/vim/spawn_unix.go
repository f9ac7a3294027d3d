//go:build unix

package vim

import (
	"fmt"
	"os/exec"
	"syscall"
)

// spawnDetached starts cmd without waiting for it.
// On Unix, Setsid puts the editor in a new session so it outlives the terminal.
func spawnDetached(cmd *exec.Cmd) (int, error) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start editor: %w", err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return 0, fmt.Errorf("failed to release editor process: %w", err)
	}

	return pid, nil
}
