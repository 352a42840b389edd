//go:build !windows

package executor

import "os"

const elevator = "sudo"

// isRoot reports whether the effective user is root.
func isRoot() bool {
	return os.Geteuid() == 0
}
