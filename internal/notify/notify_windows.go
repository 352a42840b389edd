//go:build windows

package notify

import (
	"context"
	"fmt"
	"strings"

	"upkeep/internal/executor"
)

type windowsNotifier struct {
	exec *executor.Executor
}

func newPlatformNotifier(exec *executor.Executor) Notifier {
	return &windowsNotifier{exec: exec}
}

// Send shows a toast through the WinRT API, which needs no extra modules on
// Windows 10 and later.
func (w *windowsNotifier) Send(ctx context.Context, n Notification) error {
	script := fmt.Sprintf(`
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] > $null
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$textNodes = $template.GetElementsByTagName("text")
$textNodes.Item(0).AppendChild($template.CreateTextNode(%s)) > $null
$textNodes.Item(1).AppendChild($template.CreateTextNode(%s)) > $null
$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show($toast)
`, psLiteral(n.Title), psLiteral(n.Message), psLiteral(Title))

	_, stderr, err := w.exec.Capture(ctx, executor.Command{
		Name:   "powershell.exe",
		Args:   []string{"-NoProfile", "-NonInteractive", "-Command", script},
		Hidden: true,
	})
	if err != nil {
		return fmt.Errorf("toast notification failed: %w: %s", err, strings.TrimSpace(stderr))
	}
	return nil
}

func (w *windowsNotifier) Name() string { return "windows" }

func psLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
