package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/blackwell-systems/roicalc/internal/advise"
	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/config"
	"github.com/blackwell-systems/roicalc/internal/input"
	"github.com/blackwell-systems/roicalc/internal/projection"
	"github.com/blackwell-systems/roicalc/internal/scenario"
	"github.com/blackwell-systems/roicalc/internal/store"
	"github.com/spf13/cobra"
)

var (
	projectOfficers string
	projectSalary   string
	projectSel      selectionFlags
	projectScenario string
	projectName     string
	projectSave     string
	projectExport   string
	projectAdvise   bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Compute a projection for one department",
	Long: `Compute annual savings, costs, three-year ROI, and payback period for a
department. Inputs come from flags, a named scenario in a YAML file, or the
configured defaults. Out-of-range values are clamped.

Examples:
  roicalc project                                   # configured defaults
  roicalc project --officers 250 --salary 82000
  roicalc project --use-case voice-queries --use-case report-generation
  roicalc project --all --advise
  roicalc project --scenario plans.yaml --name pilot --save pilot-2026
  roicalc project --officers 40 --toggle radio-control --export pilot.yaml`,
	RunE: runProject,
}

func init() {
	projectCmd.Flags().StringVar(&projectOfficers, "officers", "", "Number of officers (1-10000)")
	projectCmd.Flags().StringVar(&projectSalary, "salary", "", "Average officer salary in USD (30000-200000)")
	projectCmd.Flags().StringSliceVar(&projectSel.useCases, "use-case", nil, "Use case ID to include (repeatable or comma-separated)")
	projectCmd.Flags().BoolVar(&projectSel.all, "all", false, "Select every use case")
	projectCmd.Flags().BoolVar(&projectSel.none, "none", false, "Select no use cases")
	projectCmd.Flags().StringSliceVar(&projectSel.toggles, "toggle", nil, "Flip a use case on or off after the selection is resolved (repeatable)")
	projectCmd.Flags().StringVar(&projectScenario, "scenario", "", "Scenario YAML file to read inputs from")
	projectCmd.Flags().StringVar(&projectName, "name", "", "Scenario name within --scenario (optional if the file has one)")
	projectCmd.Flags().StringVar(&projectSave, "save", "", "Save the projection to history under this name")
	projectCmd.Flags().StringVar(&projectExport, "export", "", "Write the resolved inputs to this file as a scenario")
	projectCmd.Flags().BoolVar(&projectAdvise, "advise", false, "Append ranked recommendations")
	rootCmd.AddCommand(projectCmd)
}

// projectResult is the JSON shape of the project command.
type projectResult struct {
	Projection      projection.Projection   `json:"projection"`
	Recommendations []advise.Recommendation `json:"recommendations,omitempty"`
	Saved           *store.SavedScenario    `json:"saved,omitempty"`
	Exported        string                  `json:"exported,omitempty"`
}

func runProject(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	uses := catalog.Default()
	params, sel, err := projectInputs(cfg, uses)
	if err != nil {
		return err
	}
	warnUnknown(uses, sel)

	p := projection.ComputeWithRates(uses, sel, params, cfg.ProjectionRates())
	result := projectResult{Projection: p}

	if projectAdvise {
		result.Recommendations = advise.NewEngine().Run(&advise.Context{
			Projection: p,
			Catalog:    uses,
			Thresholds: advise.Thresholds{
				PaybackWarningMonths: cfg.Advise.PaybackWarningMonths,
				MinROIPercent:        cfg.Advise.MinROIPercent,
			},
		})
	}

	if name := strings.TrimSpace(projectSave); name != "" {
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() { _ = db.Close() }()

		result.Saved, err = db.SaveScenario(name, appVersion, p)
		if err != nil {
			return fmt.Errorf("saving scenario: %w", err)
		}
	}

	if projectExport != "" {
		if err := exportScenario(projectExport, exportName(), params, sel); err != nil {
			return fmt.Errorf("exporting scenario: %w", err)
		}
		result.Exported = projectExport
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	writeReport(os.Stdout, p)
	if projectAdvise {
		writeRecommendations(os.Stdout, result.Recommendations)
	}
	if result.Saved != nil {
		fmt.Printf("\n Saved as %q (%s)\n", result.Saved.Name, result.Saved.ID)
	}
	if result.Exported != "" {
		fmt.Printf("\n Exported scenario to %s\n", result.Exported)
	}
	return nil
}

// exportName picks the scenario name for --export: the saved name, then the
// scenario read with --name, then "projection".
func exportName() string {
	for _, n := range []string{projectSave, projectName} {
		if n = strings.TrimSpace(n); n != "" {
			return n
		}
	}
	return "projection"
}

// exportScenario writes params and sel to path as a single-scenario file
// that project --scenario reads back to the same inputs.
func exportScenario(path, name string, params projection.Params, sel projection.Selection) error {
	officers, salary := params.OfficerCount, params.AvgSalary
	sc := scenario.Scenario{
		Name:         name,
		OfficerCount: &officers,
		AvgSalary:    &salary,
		UseCases:     sel.IDs(),
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := scenario.Write(f, []scenario.Scenario{sc}); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// projectInputs resolves engine parameters and the selection from flags, an
// optional scenario file, and configured defaults. Explicit flags win over
// the scenario.
func projectInputs(cfg *config.Config, uses []catalog.UseCase) (projection.Params, projection.Selection, error) {
	params := cfg.DefaultParams()
	var sel projection.Selection

	if projectScenario != "" {
		scenarios, err := scenario.Load(projectScenario)
		if err != nil {
			return projection.Params{}, nil, fmt.Errorf("loading scenarios: %w", err)
		}
		sc, err := pickScenario(scenarios, projectName)
		if err != nil {
			return projection.Params{}, nil, err
		}
		params, sel = sc.Resolve(scenario.Defaults{Params: params, UseCases: cfg.Defaults.UseCases})
	}

	if projectOfficers != "" {
		params.OfficerCount = input.ParseOfficerCount(projectOfficers)
	}
	if projectSalary != "" {
		params.AvgSalary = input.ParseAvgSalary(projectSalary)
	}

	flagged := projectSel.all || projectSel.none || len(projectSel.useCases) > 0
	if sel == nil || flagged {
		var err error
		sel, err = projectSel.resolve(uses, cfg.Defaults.UseCases)
		if err != nil {
			return projection.Params{}, nil, err
		}
	}

	return input.ClampParams(params), projectSel.applyToggles(sel), nil
}

// pickScenario returns the named scenario, or the only one when name is
// empty.
func pickScenario(scenarios []scenario.Scenario, name string) (scenario.Scenario, error) {
	if name == "" {
		if len(scenarios) == 1 {
			return scenarios[0], nil
		}
		names := make([]string, 0, len(scenarios))
		for _, s := range scenarios {
			names = append(names, s.Name)
		}
		return scenario.Scenario{}, fmt.Errorf("file has %d scenarios; pick one with --name (%s)", len(scenarios), strings.Join(names, ", "))
	}
	sc, ok := scenario.Find(scenarios, name)
	if !ok {
		return scenario.Scenario{}, fmt.Errorf("scenario %q not found", name)
	}
	return sc, nil
}
