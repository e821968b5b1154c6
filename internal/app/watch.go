package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/roicalc/internal/config"
	"github.com/blackwell-systems/roicalc/internal/output"
	"github.com/blackwell-systems/roicalc/internal/watcher"
	"github.com/spf13/cobra"
)

// minWatchInterval is the shortest accepted polling interval.
const minWatchInterval = time.Second

var (
	watchScenario string
	watchDaemon   bool
	watchInterval string
	watchStop     bool
	watchQuiet    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompute a scenario file when it changes",
	Long: `Poll a scenario file and recompute every scenario whenever the file is
modified. Desktop notifications and terminal alerts are emitted when a
scenario's ROI changes sign, its payback crosses the configured warning
threshold, scenarios are added or removed, or the file fails to load.

Examples:
  roicalc watch --scenario plans.yaml                # foreground (ctrl-c to stop)
  roicalc watch --scenario plans.yaml --interval 10s
  roicalc watch --scenario plans.yaml --daemon       # write PID file, log to file
  roicalc watch --stop                               # stop the background daemon`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchScenario, "scenario", "", "Scenario YAML file to watch")
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "Run in background mode (write PID file, log to file)")
	watchCmd.Flags().StringVar(&watchInterval, "interval", "2s", "Check interval as duration string (e.g. 2s, 1m)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "Stop a running background daemon")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output, only send notifications")
	rootCmd.AddCommand(watchCmd)
}

// pidFilePath returns the path to the daemon PID file.
func pidFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.pid")
}

// logFilePath returns the path to the daemon log file.
func logFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.log")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchStop {
		return stopDaemon()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if watchScenario == "" {
		return errors.New("--scenario is required")
	}
	path, err := filepath.Abs(watchScenario)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", watchScenario, err)
	}

	interval, err := parseWatchInterval(watchInterval)
	if err != nil {
		return err
	}

	if watchDaemon {
		return runDaemon(cmd.Context(), cfg, path, interval)
	}
	return runForeground(cmd.Context(), cfg, path, interval)
}

// parseWatchInterval parses and bounds the --interval flag.
func parseWatchInterval(raw string) (time.Duration, error) {
	interval, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", raw, err)
	}
	if interval < minWatchInterval {
		return 0, fmt.Errorf("interval must be at least %s, got %s", minWatchInterval, interval)
	}
	return interval, nil
}

// newWatcher builds a watcher for path using the configured thresholds.
func newWatcher(cfg *config.Config, path string, interval time.Duration, alertFn func(watcher.Alert)) *watcher.Watcher {
	w := watcher.New(path, interval, newEvaluator(cfg), alertFn)
	w.PaybackWarningMonths = cfg.Advise.PaybackWarningMonths
	return w
}

// runForeground runs the watcher in the foreground with live terminal output.
func runForeground(parent context.Context, cfg *config.Config, path string, interval time.Duration) error {
	ctx, cancel := signalContext(parent)
	defer cancel()

	if !watchQuiet {
		fmt.Printf("roicalc watching %s (checking every %s)\n", path, interval)
	}

	alertFn := func(a watcher.Alert) {
		_ = watcher.Notify(a)
		if !watchQuiet {
			printAlert(a)
		}
	}

	w := newWatcher(cfg, path, interval, alertFn)

	initial, err := w.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("initial snapshot failed: %w", err)
	}
	if !watchQuiet {
		fmt.Printf("[%s] %s Baseline: %s\n",
			time.Now().Format("15:04:05"),
			checkMark(),
			baselineSummary(initial))
	}

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		if !watchQuiet {
			fmt.Println("\nStopped.")
		}
		return nil
	}
	return err
}

// runDaemon sets up PID and log files, then runs the watcher. The actual
// backgrounding should be done by the caller (nohup, &, etc.) since Go
// cannot reliably fork.
func runDaemon(parent context.Context, cfg *config.Config, path string, interval time.Duration) error {
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if pid, err := readPID(); err == nil {
		if processExists(pid) {
			return fmt.Errorf("daemon already running (PID %d). Use --stop to stop it", pid)
		}
		// Stale PID file.
		_ = os.Remove(pidFilePath())
	}

	pid := os.Getpid()
	if err := os.WriteFile(pidFilePath(), []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer func() { _ = os.Remove(pidFilePath()) }()

	logFile, err := os.OpenFile(logFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	log := newLogger(logFile)

	ctx, cancel := signalContext(parent)
	defer cancel()

	log.Info("daemon started", "pid", pid, "scenario", path, "interval", interval)

	alertFn := func(a watcher.Alert) {
		_ = watcher.Notify(a)
		log.Log(ctx, alertLevel(a.Level), a.Title, "message", a.Message)
	}

	err = newWatcher(cfg, path, interval, alertFn).Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("daemon stopped")
		return nil
	}
	if err != nil {
		log.Error("watcher failed", "err", err)
	}
	return err
}

// alertLevel maps an alert level to a log level.
func alertLevel(level string) slog.Level {
	switch level {
	case watcher.LevelCritical:
		return slog.LevelError
	case watcher.LevelWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// readPID reads the daemon PID from the PID file.
func readPID() (int, error) {
	data, err := os.ReadFile(pidFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// baselineSummary describes the initial state in one line.
func baselineSummary(s *watcher.WatchState) string {
	negative := 0
	for _, sc := range s.Scenarios {
		if sc.NetAnnual < 0 {
			negative++
		}
	}
	return fmt.Sprintf("%d scenario(s), %d with negative annual net", len(s.Order), negative)
}

// printAlert formats and prints an alert to the terminal.
func printAlert(a watcher.Alert) {
	timestamp := a.Time.Format("15:04:05")
	fmt.Printf("[%s] %s %s\n", timestamp, alertIcon(a.Level), a.Title)
	if a.Message != "" {
		fmt.Printf("           %s\n", a.Message)
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case watcher.LevelCritical:
		return output.StyleError.Render("✖")
	case watcher.LevelWarning:
		return output.StyleWarning.Render("!")
	case watcher.LevelInfo:
		return output.StyleInfo.Render(checkMark())
	default:
		return " "
	}
}

// checkMark returns a terminal check mark indicator.
func checkMark() string {
	return "✓"
}
