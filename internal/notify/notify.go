// Package notify shows desktop notifications when upgrades are found.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"upkeep/internal/checker"
	"upkeep/internal/executor"
	"upkeep/internal/history"
)

// Title is used for every upgrade notification.
const Title = "upkeep"

const sendTimeout = 15 * time.Second

// Notification represents a notification to be sent.
type Notification struct {
	Title   string
	Message string
}

// Notifier sends notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	Name() string
}

// NewDesktopNotifier returns the notifier for the current platform. The
// helper process is started through exec.
func NewDesktopNotifier(exec *executor.Executor) Notifier {
	return newPlatformNotifier(exec)
}

// UpgradeObserver notifies the user when a background check finds upgrades.
// Manual checks are shown directly and never notify.
type UpgradeObserver struct {
	notifier Notifier
	log      *zap.Logger
}

// NewUpgradeObserver creates an observer that sends through n.
func NewUpgradeObserver(n Notifier, log *zap.Logger) *UpgradeObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &UpgradeObserver{notifier: n, log: log}
}

// ObserveReport implements checker.Observer.
func (o *UpgradeObserver) ObserveReport(report checker.Report) {
	if report.Trigger == history.TriggerManual || report.LaunchFailed || len(report.Upgrades) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	n := Notification{Title: Title, Message: report.Summary()}
	if err := o.notifier.Send(ctx, n); err != nil {
		o.log.Warn("desktop notification failed", zap.String("notifier", o.notifier.Name()), zap.Error(err))
		return
	}
	o.log.Debug("desktop notification sent", zap.String("message", n.Message))
}
