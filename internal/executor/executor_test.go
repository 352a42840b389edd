//go:build !windows

package executor

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	exec := New(false, false)
	if exec == nil {
		t.Fatal("New() returned nil")
	}
	if exec.DryRun() {
		t.Error("New(false, false) should not be in dry-run mode")
	}
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "sh", Args: []string{"-c", "echo hi"}}
	if got := c.String(); got != "sh -c echo hi" {
		t.Errorf("String() = %q", got)
	}
	if got := (Command{Name: "winget"}).String(); got != "winget" {
		t.Errorf("String() without args = %q", got)
	}
}

func TestCapture(t *testing.T) {
	exec := New(false, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stdout, stderr, err := exec.Capture(ctx, Command{Name: "sh", Args: []string{"-c", "echo out; echo err >&2"}})
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if stdout != "out\n" {
		t.Errorf("stdout = %q, want %q", stdout, "out\n")
	}
	if stderr != "err\n" {
		t.Errorf("stderr = %q, want %q", stderr, "err\n")
	}
}

func TestCaptureExitStatus(t *testing.T) {
	exec := New(false, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stdout, _, err := exec.Capture(ctx, Command{Name: "sh", Args: []string{"-c", "echo partial; exit 3"}})
	if err == nil {
		t.Fatal("Capture() should report a non-zero exit")
	}
	if !IsExitError(err) {
		t.Errorf("expected an exit error, got %T: %v", err, err)
	}
	if !strings.Contains(stdout, "partial") {
		t.Errorf("output before the failure should be kept, got %q", stdout)
	}
}

func TestCaptureMissingBinary(t *testing.T) {
	exec := New(false, false)

	_, _, err := exec.Capture(context.Background(), Command{Name: "/nonexistent/upkeep-test-binary"})
	if err == nil {
		t.Fatal("Capture() should fail for a missing binary")
	}
	if IsExitError(err) {
		t.Error("a missing binary is a start failure, not an exit error")
	}
}

func TestCaptureDryRun(t *testing.T) {
	exec := New(true, false)
	var buf bytes.Buffer
	exec.SetOutput(&buf)

	stdout, stderr, err := exec.Capture(context.Background(), Command{Name: "false"})
	if err != nil {
		t.Fatalf("Capture() in dry-run mode error: %v", err)
	}
	if stdout != "" || stderr != "" {
		t.Errorf("dry-run output should be empty, got %q / %q", stdout, stderr)
	}
	if !strings.Contains(buf.String(), "[dry-run] Would execute: false") {
		t.Errorf("dry-run message missing: %q", buf.String())
	}
}

func TestAttach(t *testing.T) {
	exec := New(false, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := exec.Attach(ctx, Command{Name: "true"}); err != nil {
		t.Fatalf("Attach() error: %v", err)
	}

	err := exec.Attach(ctx, Command{Name: "false"})
	if err == nil {
		t.Fatal("Attach() should return error for failing command")
	}
	if !IsExitError(err) {
		t.Errorf("expected an exit error, got %v", err)
	}
}

func TestVerbose(t *testing.T) {
	exec := New(false, false)
	exec.SetVerbose(true)
	var buf bytes.Buffer
	exec.SetOutput(&buf)

	if _, _, err := exec.Capture(context.Background(), Command{Name: "true"}); err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if !strings.Contains(buf.String(), "Executing: true") {
		t.Errorf("verbose message missing: %q", buf.String())
	}
}

func TestContextCancellation(t *testing.T) {
	exec := New(false, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := exec.Capture(ctx, Command{Name: "sleep", Args: []string{"10"}}); err == nil {
		t.Error("Capture() should error with cancelled context")
	}
}

func TestIsRoot(t *testing.T) {
	result := IsRoot()

	if os.Geteuid() != 0 && result {
		t.Error("IsRoot() should return false when not running as root")
	}
	if os.Geteuid() == 0 && !result {
		t.Error("IsRoot() should return true when running as root")
	}
}

func TestCanElevate(t *testing.T) {
	if IsRoot() && !CanElevate() {
		t.Error("CanElevate() should return true when running as root")
	}
}

func TestElevator(t *testing.T) {
	path, err := Elevator()
	if err != nil {
		if CanElevate() != IsRoot() {
			t.Error("without an elevator only root can elevate")
		}
		return
	}
	if !strings.HasSuffix(path, "sudo") {
		t.Errorf("Elevator() = %s, want a sudo binary", path)
	}
	if !CanElevate() {
		t.Error("CanElevate() should be true when an elevator exists")
	}
}
