// Package app contains the Cobra command tree for roicalc.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/blackwell-systems/roicalc/internal/config"
	"github.com/blackwell-systems/roicalc/internal/output"
	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "roicalc",
	Short: "ROI projections for police voice AI deployments",
	Long: `roicalc projects the annual savings, costs, three-year ROI, and payback
period of deploying voice AI use cases across a police department. It works
from a fixed catalog of use cases with per-officer savings estimates.

Run 'roicalc' with no arguments to see the available commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("roicalc", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  catalog    List the use case catalog")
		fmt.Println("  project    Compute a projection for one department")
		fmt.Println("  sweep      Compare projections across officer counts")
		fmt.Println("  scenarios  Evaluate every scenario in a YAML file")
		fmt.Println("  history    List saved projections")
		fmt.Println("  compare    Show deltas between two saved projections")
		fmt.Println("  watch      Recompute a scenario file when it changes")
		fmt.Println("  doctor     Check whether the setup is healthy")
		fmt.Println("  serve      Run the HTTP API")
		fmt.Println("  mcp        Run an MCP stdio server")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/roicalc/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}

// loadConfig loads the configuration and applies its output settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	output.ConfigureColor(flagNoColor, cfg.Output.Color)
	return cfg, nil
}

// newLogger returns a text logger writing to w, at debug level when
// --verbose is set.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, shutdownSignals...)
}
