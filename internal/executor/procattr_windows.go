//go:build windows

package executor

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// sysProcAttr maps window options onto process creation flags.
func sysProcAttr(c Command) *syscall.SysProcAttr {
	switch {
	case c.NewConsole:
		return &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_CONSOLE}
	case c.Hidden:
		return &syscall.SysProcAttr{HideWindow: true, CreationFlags: windows.CREATE_NO_WINDOW}
	}
	return nil
}
