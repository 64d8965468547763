//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

func configureDetached(cmd *exec.Cmd, _ string, _ []string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
