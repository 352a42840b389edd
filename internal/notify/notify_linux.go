//go:build linux

package notify

import (
	"context"
	"errors"
	"os/exec"

	"upkeep/internal/executor"
)

// ErrUnavailable is returned when notify-send is not installed.
var ErrUnavailable = errors.New("notify-send not found")

type linuxNotifier struct {
	exec *executor.Executor
}

func newPlatformNotifier(exec *executor.Executor) Notifier {
	return &linuxNotifier{exec: exec}
}

func (l *linuxNotifier) Send(ctx context.Context, n Notification) error {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		return ErrUnavailable
	}

	_, _, err = l.exec.Capture(ctx, executor.Command{
		Name: path,
		Args: []string{"--app-name=" + Title, n.Title, n.Message},
	})
	return err
}

func (l *linuxNotifier) Name() string { return "linux" }
