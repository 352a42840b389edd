package executor

import "os/exec"

// IsRoot returns true if the current process runs as root/administrator.
func IsRoot() bool {
	return isRoot()
}

// Elevator returns the path of the program that requests elevation: sudo on
// Unix, powershell.exe (for the UAC prompt) on Windows.
func Elevator() (string, error) {
	return exec.LookPath(elevator)
}

// CanElevate returns true if the process is elevated or can ask for elevation.
func CanElevate() bool {
	if isRoot() {
		return true
	}
	_, err := Elevator()
	return err == nil
}
