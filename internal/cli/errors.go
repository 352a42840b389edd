package cli

import "errors"

var (
	// ErrAborted is returned when the user aborts an operation.
	ErrAborted = errors.New("operation aborted by user")

	// ErrLaunchFailed is returned when winget could not be started or
	// elevation was declined.
	ErrLaunchFailed = errors.New("winget could not be launched")

	// ErrInvalidID is returned for a history ID that is not a positive number.
	ErrInvalidID = errors.New("invalid history entry ID")

	// ErrDiagnostics is returned when doctor finds at least one issue.
	ErrDiagnostics = errors.New("diagnostics found issues")
)
