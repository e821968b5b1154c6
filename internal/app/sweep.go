package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/input"
	"github.com/blackwell-systems/roicalc/internal/output"
	"github.com/blackwell-systems/roicalc/internal/scenario"
	"github.com/spf13/cobra"
)

var (
	sweepFrom   int
	sweepTo     int
	sweepStep   int
	sweepSalary string
	sweepSel    selectionFlags
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compare projections across officer counts",
	Long: `Compute the projection for one selection at a range of officer counts
and print them side by side. Counts are clamped to 1-10000.

Examples:
  roicalc sweep --from 50 --to 500 --step 50
  roicalc sweep --from 10 --to 100 --step 10 --use-case radio-control`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().IntVar(&sweepFrom, "from", 50, "First officer count")
	sweepCmd.Flags().IntVar(&sweepTo, "to", 500, "Last officer count (inclusive)")
	sweepCmd.Flags().IntVar(&sweepStep, "step", 50, "Officer count increment")
	sweepCmd.Flags().StringVar(&sweepSalary, "salary", "", "Average officer salary in USD")
	sweepCmd.Flags().StringSliceVar(&sweepSel.useCases, "use-case", nil, "Use case ID to include (repeatable or comma-separated)")
	sweepCmd.Flags().BoolVar(&sweepSel.all, "all", false, "Select every use case")
	sweepCmd.Flags().BoolVar(&sweepSel.none, "none", false, "Select no use cases")
	sweepCmd.Flags().StringSliceVar(&sweepSel.toggles, "toggle", nil, "Flip a use case on or off after the selection is resolved (repeatable)")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	uses := catalog.Default()
	sel, err := sweepSel.resolve(uses, cfg.Defaults.UseCases)
	if err != nil {
		return err
	}
	sel = sweepSel.applyToggles(sel)
	warnUnknown(uses, sel)

	salary := cfg.Defaults.AvgSalary
	if sweepSalary != "" {
		salary = input.ParseAvgSalary(sweepSalary)
	}

	points, err := newEvaluator(cfg).Sweep(cmd.Context(), sel, salary, sweepFrom, sweepTo, sweepStep)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"points": points})
	}

	renderSweep(points, sel.IDs())
	return nil
}

func renderSweep(points []scenario.SweepPoint, ids []string) {
	fmt.Println(output.Section("Officer Count Sweep"))
	fmt.Println()
	fmt.Printf(" Use cases: %s\n\n", joinIDs(ids, 0))

	tbl := output.NewTable("Officers", "Annual Savings", "First-Year Net", "Annual Net", "3-Yr ROI", "Payback").
		AlignRight(0, 1, 2, 3, 4, 5)
	for _, pt := range points {
		p := pt.Projection
		tbl.AddRow(
			output.Number(float64(pt.OfficerCount)),
			output.Currency(p.TotalAnnualSavings),
			output.Signed(p.NetFirstYearSavings, output.Currency(p.NetFirstYearSavings)),
			output.Signed(p.NetAnnualSavings, output.Currency(p.NetAnnualSavings)),
			output.Signed(p.ThreeYearROI, output.Percent(p.ThreeYearROI)),
			output.Months(p.PaybackMonths),
		)
	}
	tbl.Print()
}
