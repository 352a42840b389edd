//go:build !windows

package executor

import "syscall"

// sysProcAttr is a no-op: without a window system the options have no meaning.
func sysProcAttr(Command) *syscall.SysProcAttr {
	return nil
}
