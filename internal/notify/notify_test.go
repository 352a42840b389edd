package notify

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"upkeep/internal/checker"
	"upkeep/internal/executor"
	"upkeep/internal/history"
	"upkeep/pkg/upgrade"
)

type mockNotifier struct {
	name   string
	sendFn func(n Notification) error
	sent   []Notification
}

func (m *mockNotifier) Send(_ context.Context, n Notification) error {
	m.sent = append(m.sent, n)
	if m.sendFn != nil {
		return m.sendFn(n)
	}
	return nil
}

func (m *mockNotifier) Name() string { return m.name }

func TestUpgradeObserver(t *testing.T) {
	two := []upgrade.Upgrade{{Name: "Git", ID: "Git.Git"}, {Name: "Firefox", ID: "Mozilla.Firefox"}}

	tests := []struct {
		name    string
		report  checker.Report
		message string
	}{
		{
			name:    "scheduled check with upgrades",
			report:  checker.Report{Trigger: history.TriggerSchedule, Upgrades: two},
			message: "2 upgrades available",
		},
		{
			name:    "startup check with one upgrade",
			report:  checker.Report{Trigger: history.TriggerStartup, Upgrades: two[:1]},
			message: "1 upgrade available: Git",
		},
		{
			name:   "manual check",
			report: checker.Report{Trigger: history.TriggerManual, Upgrades: two},
		},
		{
			name:   "nothing to upgrade",
			report: checker.Report{Trigger: history.TriggerSchedule},
		},
		{
			name:   "launch failure",
			report: checker.Report{Trigger: history.TriggerSchedule, LaunchFailed: true, Upgrades: two},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockNotifier{name: "mock"}
			NewUpgradeObserver(mock, nil).ObserveReport(tt.report)

			if tt.message == "" {
				if len(mock.sent) != 0 {
					t.Errorf("expected no notification, got %+v", mock.sent)
				}
				return
			}
			if len(mock.sent) != 1 {
				t.Fatalf("expected one notification, got %d", len(mock.sent))
			}
			if mock.sent[0].Title != Title || mock.sent[0].Message != tt.message {
				t.Errorf("notification = %+v, want message %q", mock.sent[0], tt.message)
			}
		})
	}
}

func TestUpgradeObserverSwallowsErrors(t *testing.T) {
	mock := &mockNotifier{name: "mock", sendFn: func(Notification) error { return errors.New("no display") }}
	report := checker.Report{Trigger: history.TriggerSchedule, Upgrades: []upgrade.Upgrade{{ID: "a"}}, CheckedAt: time.Now()}

	NewUpgradeObserver(mock, nil).ObserveReport(report)

	if len(mock.sent) != 1 {
		t.Errorf("expected one attempt, got %d", len(mock.sent))
	}
}

func TestDesktopNotifierDryRun(t *testing.T) {
	exec := executor.New(true, false)
	exec.SetOutput(io.Discard)
	n := NewDesktopNotifier(exec)

	if n.Name() == "" {
		t.Error("Name() should not be empty")
	}
	err := n.Send(context.Background(), Notification{Title: Title, Message: "2 upgrades available"})
	if err != nil && !isUnavailable(err) {
		t.Errorf("dry-run Send() error: %v", err)
	}
}
