//go:build darwin

package notify

import (
	"context"
	"fmt"

	"upkeep/internal/executor"
)

type darwinNotifier struct {
	exec *executor.Executor
}

func newPlatformNotifier(exec *executor.Executor) Notifier {
	return &darwinNotifier{exec: exec}
}

func (d *darwinNotifier) Send(ctx context.Context, n Notification) error {
	script := fmt.Sprintf(`display notification %q with title %q`, n.Message, n.Title)
	_, _, err := d.exec.Capture(ctx, executor.Command{Name: "osascript", Args: []string{"-e", script}})
	return err
}

func (d *darwinNotifier) Name() string { return "darwin" }
