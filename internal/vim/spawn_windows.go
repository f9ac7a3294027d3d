//go:build windows

package vim

import (
	"fmt"
	"os/exec"
	"syscall"
)

// DETACHED_PROCESS is the Windows process creation flag that creates a process
// without a console window, allowing it to run independently of the parent.
const DETACHED_PROCESS = 0x00000008

// spawnDetached starts cmd without waiting for it.
// On Windows, the editor gets its own process group and no console.
func spawnDetached(cmd *exec.Cmd) (int, error) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | DETACHED_PROCESS,
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
