package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/config"
	"github.com/blackwell-systems/roicalc/internal/output"
	"github.com/blackwell-systems/roicalc/internal/projection"
	"github.com/blackwell-systems/roicalc/internal/store"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether the roicalc setup is healthy",
	Long: `Run a series of health checks against the roicalc configuration, the
use case catalog, the history database and the watch daemon. Prints a
pass/fail line for each check and a summary of how many checks passed.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck holds the result of a single health check.
type doctorCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// doctorOutput is the JSON-serializable result of the doctor command.
type doctorOutput struct {
	Checks      []doctorCheck `json:"checks"`
	PassedCount int           `json:"passed"`
	TotalCount  int           `json:"total"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	uses := catalog.Default()
	checks := []doctorCheck{
		checkConfigFile(flagConfig),
		checkCatalog(uses),
		checkDefaultSelection(uses, cfg.Defaults.UseCases),
		checkDefaultProjection(cfg, uses),
		checkDatabase(cfg.Store.Path),
		checkServerEnv(),
		checkWatchDaemon(),
	}

	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	if flagJSON {
		out := doctorOutput{
			Checks:      checks,
			PassedCount: passed,
			TotalCount:  len(checks),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println(output.Section("Doctor"))
	fmt.Println()

	for _, c := range checks {
		renderDoctorCheck(c)
	}

	fmt.Println()
	summary := fmt.Sprintf("%d/%d checks passed", passed, len(checks))
	if passed == len(checks) {
		fmt.Printf(" %s\n\n", output.StyleSuccess.Render(summary))
	} else {
		fmt.Printf(" %s\n\n", output.StyleWarning.Render(summary))
	}

	return nil
}

// renderDoctorCheck prints a single check result line.
func renderDoctorCheck(c doctorCheck) {
	var indicator string
	if c.Passed {
		indicator = output.StyleSuccess.Render(checkMark())
	} else {
		indicator = output.StyleWarning.Render("✗")
	}
	label := output.StyleBold.Render(c.Name)
	detail := output.StyleMuted.Render(c.Message)
	fmt.Printf("  %s  %-30s %s\n", indicator, label, detail)
}

// checkConfigFile reports which config file is in effect. A missing default
// file passes since built-in defaults apply.
func checkConfigFile(cfgFile string) doctorCheck {
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), config.DefaultConfigFile)
	}
	if _, err := os.Stat(path); err != nil {
		if cfgFile != "" {
			return doctorCheck{Name: "Config file", Passed: false, Message: fmt.Sprintf("%s: %v", path, err)}
		}
		return doctorCheck{Name: "Config file", Passed: true, Message: "none found, using built-in defaults"}
	}
	return doctorCheck{Name: "Config file", Passed: true, Message: path}
}

// checkCatalog validates the use case catalog.
func checkCatalog(uses []catalog.UseCase) doctorCheck {
	if err := catalog.Validate(uses); err != nil {
		return doctorCheck{Name: "Use case catalog", Passed: false, Message: err.Error()}
	}
	return doctorCheck{Name: "Use case catalog", Passed: true, Message: fmt.Sprintf("%d use cases", len(uses))}
}

// checkDefaultSelection verifies every configured default use case exists.
func checkDefaultSelection(uses []catalog.UseCase, ids []string) doctorCheck {
	var unknown []string
	for _, id := range ids {
		if _, ok := catalog.Lookup(uses, id); !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return doctorCheck{
			Name:    "Default selection",
			Passed:  false,
			Message: "unknown use case(s): " + strings.Join(unknown, ", "),
		}
	}
	return doctorCheck{Name: "Default selection", Passed: true, Message: joinIDs(ids, 3)}
}

// checkDefaultProjection computes the configured default projection and
// fails when it never pays back.
func checkDefaultProjection(cfg *config.Config, uses []catalog.UseCase) doctorCheck {
	p := projection.ComputeWithRates(uses, projection.NewSelection(cfg.Defaults.UseCases...), cfg.DefaultParams(), cfg.ProjectionRates())
	msg := fmt.Sprintf("net annual %s, payback %s", output.Currency(p.NetAnnualSavings), output.Months(p.PaybackMonths))
	return doctorCheck{
		Name:    "Default projection",
		Passed:  p.NetAnnualSavings > 0 && p.PaybackMonths.Valid(),
		Message: msg,
	}
}

// checkDatabase opens the history database, creating it if needed.
func checkDatabase(path string) doctorCheck {
	db, err := store.Open(path)
	if err != nil {
		return doctorCheck{Name: "History database", Passed: false, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	defer func() { _ = db.Close() }()

	recent, err := db.GetRecentScenarios(1)
	if err != nil {
		return doctorCheck{Name: "History database", Passed: false, Message: err.Error()}
	}
	msg := path + " (empty)"
	if len(recent) > 0 {
		msg = fmt.Sprintf("%s (last save %q)", path, recent[0].Name)
	}
	return doctorCheck{Name: "History database", Passed: true, Message: msg}
}

// checkServerEnv parses the HTTP listener settings.
func checkServerEnv() doctorCheck {
	env, err := config.ParseServerEnv()
	if err != nil {
		return doctorCheck{Name: "Server settings", Passed: false, Message: err.Error()}
	}
	return doctorCheck{Name: "Server settings", Passed: true, Message: "listen " + env.Addr}
}

// checkWatchDaemon checks whether the watch daemon PID file exists and the
// process is running. Not running is reported but not a failure.
func checkWatchDaemon() doctorCheck {
	pid, err := readPID()
	if err != nil {
		if os.IsNotExist(err) {
			return doctorCheck{Name: "Watch daemon", Passed: true, Message: "not running"}
		}
		return doctorCheck{Name: "Watch daemon", Passed: false, Message: fmt.Sprintf("unreadable PID file: %v", err)}
	}
	if !processExists(pid) {
		return doctorCheck{Name: "Watch daemon", Passed: false, Message: fmt.Sprintf("PID %d is not running (stale PID file)", pid)}
	}
	return doctorCheck{Name: "Watch daemon", Passed: true, Message: fmt.Sprintf("running (PID %d)", pid)}
}
