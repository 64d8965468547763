//go:build windows

package process

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// detachedFlags starts the child in its own process group, so console
// control events sent to ours do not reach it, and without a console.
const detachedFlags = windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS

func configureDetached(cmd *exec.Cmd, program string, args []string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine:       commandLine(program, args),
		CreationFlags: uint32(detachedFlags),
	}
}
