//go:build windows

// Package osutil holds small platform-specific process helpers.
package osutil

import (
	"os"
	"os/exec"
)

// SetProcessGroup configures the command to run in its own process group.
// Windows has no Setpgid equivalent for foreground processes, so this is
// a no-op.
func SetProcessGroup(_ *exec.Cmd) {
}

// SetProcessGroupKill installs a cancel function that terminates the
// process. Only the main process can be signalled here; Windows has no
// Unix-style process groups for children.
func SetProcessGroupKill(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Kill)
	}
}
