package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// fallbackOutput receives alerts when no desktop notifier is available.
var fallbackOutput io.Writer = os.Stderr

// Notify sends a desktop notification for the given alert. On macOS it uses
// osascript, on Linux notify-send. Anything else, or a failing notifier,
// falls back to printing to stderr.
func Notify(alert Alert) error {
	switch runtime.GOOS {
	case "darwin":
		return notifyMacOS(alert)
	case "linux":
		return notifyLinux(alert)
	default:
		return notifyFallback(alert)
	}
}

// Format renders an alert as a single log line.
func Format(alert Alert) string {
	return fmt.Sprintf("[%s] %s: %s", alert.Level, alert.Title, alert.Message)
}

func notifyMacOS(alert Alert) error {
	script := fmt.Sprintf(
		`display notification %q with title "roicalc" subtitle %q`,
		alert.Message, alert.Title,
	)
	if alert.Level == LevelCritical {
		script += ` sound name "Basso"`
	}
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return notifyFallback(alert)
	}
	return nil
}

func notifyLinux(alert Alert) error {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return notifyFallback(alert)
	}

	cmd := exec.Command("notify-send",
		"-a", "roicalc",
		"-u", urgency(alert.Level),
		"roicalc: "+alert.Title, alert.Message,
	)
	if err := cmd.Run(); err != nil {
		return notifyFallback(alert)
	}
	return nil
}

// urgency maps an alert level to a notify-send urgency.
func urgency(level string) string {
	switch level {
	case LevelCritical:
		return "critical"
	case LevelInfo:
		return "low"
	default:
		return "normal"
	}
}

func notifyFallback(alert Alert) error {
	_, err := fmt.Fprintln(fallbackOutput, Format(alert))
	return err
}
