// Package history records check, install and console runs in a bbolt database.
package history

import (
	"fmt"
	"time"
)

// Operation is the kind of package-manager run that was recorded.
type Operation string

const (
	OpCheck   Operation = "check"
	OpInstall Operation = "install"
	OpConsole Operation = "console"
)

// Trigger says what started a run.
type Trigger string

const (
	TriggerStartup  Trigger = "startup"
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// Entry represents a single run in the history.
type Entry struct {
	ID        uint64    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation Operation `json:"operation"`
	Trigger   Trigger   `json:"trigger"`
	Upgrades  int       `json:"upgrades"`
	Packages  []string  `json:"packages,omitempty"` // package IDs
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// NewEntry creates a new history entry. The ID is assigned by Store.Record.
func NewEntry(op Operation, trigger Trigger) *Entry {
	return &Entry{
		Timestamp: time.Now(),
		Operation: op,
		Trigger:   trigger,
	}
}

// SetPackages stores the IDs of the packages that had upgrades available.
func (e *Entry) SetPackages(ids []string) {
	e.Packages = ids
	e.Upgrades = len(ids)
}

// MarkSuccess marks the entry as successful.
func (e *Entry) MarkSuccess() {
	e.Success = true
}

// MarkFailed marks the entry as failed with an error message.
func (e *Entry) MarkFailed(err error) {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
}

// FormatTime returns a human-readable timestamp.
func (e *Entry) FormatTime() string {
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Status returns "success" or "failed".
func (e *Entry) Status() string {
	if e.Success {
		return "success"
	}
	return "failed"
}

// Summary returns a brief summary of the run.
func (e *Entry) Summary() string {
	if e.Operation != OpCheck || !e.Success {
		return fmt.Sprintf("%s %s [%s] (%s)", e.FormatTime(), e.Operation, e.Trigger, e.Status())
	}
	return fmt.Sprintf("%s %s [%s] %d upgrade(s) (%s)", e.FormatTime(), e.Operation, e.Trigger, e.Upgrades, e.Status())
}
