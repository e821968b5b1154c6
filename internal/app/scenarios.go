package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blackwell-systems/roicalc/internal/config"
	"github.com/blackwell-systems/roicalc/internal/output"
	"github.com/blackwell-systems/roicalc/internal/scenario"
	"github.com/blackwell-systems/roicalc/internal/store"
	"github.com/spf13/cobra"
)

var scenariosSave bool

var scenariosCmd = &cobra.Command{
	Use:   "scenarios FILE",
	Short: "Evaluate every scenario in a YAML file",
	Long: `Evaluate each scenario in a YAML file and print a comparison table.
Scenarios omit fields to take the configured defaults; an explicit empty
use_cases list selects nothing.

  scenarios:
    - name: pilot
      officer_count: 25
      use_cases: [voice-queries, policy-lookup]
    - name: full-rollout
      officer_count: 400

Use --save to store every result in history under its scenario name.`,
	Args: cobra.ExactArgs(1),
	RunE: runScenarios,
}

func init() {
	scenariosCmd.Flags().BoolVar(&scenariosSave, "save", false, "Save every result to history")
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scenarios, err := scenario.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading scenarios: %w", err)
	}

	results, err := newEvaluator(cfg).EvaluateAll(cmd.Context(), scenarios)
	if err != nil {
		return fmt.Errorf("evaluating scenarios: %w", err)
	}

	if scenariosSave {
		if err := saveResults(cfg, results); err != nil {
			return err
		}
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"results": results})
	}

	renderScenarios(results)
	if scenariosSave {
		fmt.Printf("\n Saved %d scenario(s) to history.\n", len(results))
	}
	return nil
}

func saveResults(cfg *config.Config, results []scenario.Result) error {
	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	for _, r := range results {
		if _, err := db.SaveScenario(r.Scenario.Name, appVersion, r.Projection); err != nil {
			return fmt.Errorf("saving scenario %q: %w", r.Scenario.Name, err)
		}
	}
	return nil
}

func renderScenarios(results []scenario.Result) {
	fmt.Println(output.Section("Scenario Comparison"))
	fmt.Println()

	tbl := output.NewTable("Scenario", "Officers", "Use Cases", "Annual Savings", "Annual Net", "3-Yr ROI", "Payback").
		AlignRight(1, 2, 3, 4, 5, 6)
	for _, r := range results {
		p := r.Projection
		tbl.AddRow(
			r.Scenario.Name,
			output.Number(float64(p.OfficerCount)),
			fmt.Sprintf("%d", p.SelectedCount),
			output.Currency(p.TotalAnnualSavings),
			output.Signed(p.NetAnnualSavings, output.Currency(p.NetAnnualSavings)),
			output.Signed(p.ThreeYearROI, output.Percent(p.ThreeYearROI)),
			output.Months(p.PaybackMonths),
		)
	}
	tbl.Print()
}
