package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/blackwell-systems/roicalc/internal/output"
	"github.com/blackwell-systems/roicalc/internal/store"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

var compareDiff bool

var compareCmd = &cobra.Command{
	Use:   "compare [A] [B]",
	Short: "Show deltas between two saved projections",
	Long: `Compare two saved projections metric by metric. A and B are scenario IDs
from 'roicalc history', or a number N meaning the Nth most recent save.

With no arguments the two most recent saves are compared. With one argument
it is compared against the most recent save.

Use --diff to show a unified diff of the two reports instead.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareDiff, "diff", false, "Show a unified diff of the two reports")
	rootCmd.AddCommand(compareCmd)
}

// metricDirection maps metric names to whether higher values are better.
var metricDirection = map[string]bool{
	store.MetricTotalAnnualSavings:  true,
	store.MetricTotalTimeSavings:    true,
	store.MetricImplementationCost:  false,
	store.MetricAnnualLicenseCost:   false,
	store.MetricNetFirstYearSavings: true,
	store.MetricNetAnnualSavings:    true,
	store.MetricThreeYearROI:        true,
	store.MetricPaybackMonths:       false, // sooner payback is better
	store.MetricSelectedCount:       true,
}

// metricShortName returns a compact label for display.
func metricShortName(name string) string {
	short := map[string]string{
		store.MetricTotalAnnualSavings:  "Annual Savings",
		store.MetricTotalTimeSavings:    "Hours Saved",
		store.MetricImplementationCost:  "Implementation",
		store.MetricAnnualLicenseCost:   "Annual License",
		store.MetricNetFirstYearSavings: "First-Year Net",
		store.MetricNetAnnualSavings:    "Annual Net",
		store.MetricThreeYearROI:        "3-Yr ROI",
		store.MetricPaybackMonths:       "Payback",
		store.MetricSelectedCount:       "Use Cases",
	}
	if s, ok := short[name]; ok {
		return s
	}
	return name
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	refs := []string{"2", "1"}
	switch len(args) {
	case 1:
		refs = []string{args[0], "1"}
	case 2:
		refs = args
	}

	prev, err := resolveSaved(db, refs[0])
	if err != nil {
		return err
	}
	curr, err := resolveSaved(db, refs[1])
	if err != nil {
		return err
	}

	prevMetrics, err := db.GetMetrics(prev.ID)
	if err != nil {
		return fmt.Errorf("loading metrics for %s: %w", prev.ID, err)
	}
	currMetrics, err := db.GetMetrics(curr.ID)
	if err != nil {
		return fmt.Errorf("loading metrics for %s: %w", curr.ID, err)
	}

	if compareDiff {
		text, err := reportDiff(prev, prevMetrics, curr, currMetrics)
		if err != nil {
			return err
		}
		if text == "" {
			fmt.Println(" Reports are identical.")
			return nil
		}
		fmt.Print(text)
		return nil
	}

	diff := store.ScenarioDiff{
		Previous: prev,
		Current:  curr,
		Deltas:   computeDeltas(prevMetrics, currMetrics),
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diff)
	}

	renderCompare(diff)
	return nil
}

// resolveSaved looks up a saved scenario by ID, or by recency when ref is a
// positive number.
func resolveSaved(db *store.DB, ref string) (*store.SavedScenario, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n <= 0 {
			return nil, fmt.Errorf("position must be positive, got %d", n)
		}
		s, err := db.GetScenarioN(n)
		if err != nil {
			return nil, fmt.Errorf("loading save #%d: %w", n, err)
		}
		if s == nil {
			return nil, fmt.Errorf("no save #%d in history; save more projections with 'roicalc project --save NAME'", n)
		}
		return s, nil
	}

	s, err := db.GetScenario(ref)
	if errors.Is(err, store.ErrScenarioNotFound) {
		return nil, fmt.Errorf("no saved projection with ID %q", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", ref, err)
	}
	return s, nil
}

// computeDeltas compares two sets of saved metrics and returns a MetricDelta
// per metric in current order, followed by metrics only the previous set has.
// A missing value on one side leaves Delta at zero; gaining a value counts as
// an improvement and losing one as a regression.
func computeDeltas(prev, curr []store.Metric) []store.MetricDelta {
	prevMap := store.MetricMap(prev)
	seen := make(map[string]bool, len(curr))

	var deltas []store.MetricDelta
	for _, m := range curr {
		seen[m.Name] = true
		deltas = append(deltas, metricDelta(m.Name, prevMap[m.Name], m.Value))
	}
	for _, m := range prev {
		if !seen[m.Name] {
			deltas = append(deltas, metricDelta(m.Name, m.Value, nil))
		}
	}
	return deltas
}

func metricDelta(name string, prev, curr *float64) store.MetricDelta {
	d := store.MetricDelta{Name: name, Previous: prev, Current: curr, Direction: "unchanged"}

	switch {
	case prev == nil && curr == nil:
	case prev == nil:
		d.Direction = "improved"
	case curr == nil:
		d.Direction = "regressed"
	default:
		d.Delta = *curr - *prev
		if d.Delta != 0 {
			higherIsBetter, known := metricDirection[name]
			if !known {
				higherIsBetter = true
			}
			if (d.Delta > 0) == higherIsBetter {
				d.Direction = "improved"
			} else {
				d.Direction = "regressed"
			}
		}
	}
	return d
}

// formatMetric renders a stored metric value by its kind.
func formatMetric(name string, v *float64) string {
	switch name {
	case store.MetricPaybackMonths:
		return paybackCell(v)
	case store.MetricThreeYearROI:
		if v == nil {
			return output.NotApplicable
		}
		return output.Percent(*v)
	case store.MetricTotalTimeSavings, store.MetricSelectedCount:
		if v == nil {
			return output.NotApplicable
		}
		return output.Number(*v)
	default:
		if v == nil {
			return output.NotApplicable
		}
		return output.Currency(*v)
	}
}

func renderCompare(diff store.ScenarioDiff) {
	fmt.Println(output.Section("Compare Projections"))
	fmt.Println()
	fmt.Printf(" %s  %q  %s\n", output.StyleMuted.Render("A"), diff.Previous.Name, diff.Previous.SavedAt.Local().Format("Jan 02 15:04"))
	fmt.Printf(" %s  %q  %s\n\n", output.StyleMuted.Render("B"), diff.Current.Name, diff.Current.SavedAt.Local().Format("Jan 02 15:04"))

	tbl := output.NewTable("Metric", "A", "B", "Change").AlignRight(1, 2)
	for _, d := range diff.Deltas {
		higherIsBetter, known := metricDirection[d.Name]
		if !known {
			higherIsBetter = true
		}

		var trend string
		switch {
		case d.Previous == nil || d.Current == nil:
			if d.Direction == "improved" {
				trend = output.StyleSuccess.Render(d.Direction)
			} else if d.Direction == "regressed" {
				trend = output.StyleError.Render(d.Direction)
			} else {
				trend = output.StyleMuted.Render("─")
			}
		case d.Name == store.MetricThreeYearROI:
			trend = output.TrendArrowPercent(d.Delta, higherIsBetter)
		default:
			trend = output.TrendArrow(d.Delta, higherIsBetter)
		}

		tbl.AddRow(metricShortName(d.Name), formatMetric(d.Name, d.Previous), formatMetric(d.Name, d.Current), trend)
	}
	tbl.Print()
}

// savedLines renders a saved scenario as unstyled report lines.
func savedLines(s *store.SavedScenario, metrics []store.Metric) []string {
	m := store.MetricMap(metrics)
	rows := []summaryRow{
		{label: "Name", value: s.Name},
		{label: "Officers", value: output.Number(float64(s.OfficerCount))},
		{label: "Average salary", value: output.Currency(s.AvgSalary)},
	}
	for _, name := range []string{
		store.MetricSelectedCount,
		store.MetricTotalAnnualSavings,
		store.MetricTotalTimeSavings,
		store.MetricImplementationCost,
		store.MetricAnnualLicenseCost,
		store.MetricNetFirstYearSavings,
		store.MetricNetAnnualSavings,
		store.MetricThreeYearROI,
		store.MetricPaybackMonths,
	} {
		rows = append(rows, summaryRow{label: metricShortName(name), value: formatMetric(name, m[name])})
	}
	return plainLines(rows, s.UseCases)
}

// reportDiff returns a unified diff between the reports of two saves, or ""
// when they match.
func reportDiff(prev *store.SavedScenario, prevMetrics []store.Metric, curr *store.SavedScenario, currMetrics []store.Metric) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        savedLines(prev, prevMetrics),
		B:        savedLines(curr, currMetrics),
		FromFile: fmt.Sprintf("%s (%s)", prev.Name, prev.ID),
		ToFile:   fmt.Sprintf("%s (%s)", curr.Name, curr.ID),
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("building diff: %w", err)
	}
	return text, nil
}
