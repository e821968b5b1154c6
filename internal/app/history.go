package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blackwell-systems/roicalc/internal/output"
	"github.com/blackwell-systems/roicalc/internal/projection"
	"github.com/blackwell-systems/roicalc/internal/store"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved projections",
	Long: `List the most recently saved projections, newest first. Projections are
saved with 'roicalc project --save NAME' or 'roicalc scenarios FILE --save'.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of saved projections to show")
	rootCmd.AddCommand(historyCmd)
}

// historyEntry is a saved scenario with its metrics.
type historyEntry struct {
	Scenario store.SavedScenario `json:"scenario"`
	Metrics  []store.Metric      `json:"metrics"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if historyLimit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", historyLimit)
	}

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	saved, err := db.GetRecentScenarios(historyLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	entries := make([]historyEntry, 0, len(saved))
	for _, s := range saved {
		metrics, err := db.GetMetrics(s.ID)
		if err != nil {
			return fmt.Errorf("loading metrics for %s: %w", s.ID, err)
		}
		entries = append(entries, historyEntry{Scenario: s, Metrics: metrics})
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"history": entries})
	}

	if len(entries) == 0 {
		fmt.Println(" No saved projections. Run 'roicalc project --save NAME' to create one.")
		return nil
	}

	fmt.Println(output.Section("Saved Projections"))
	fmt.Println()
	tbl := output.NewTable("ID", "Saved", "Name", "Officers", "Use Cases", "Annual Net", "3-Yr ROI", "Payback").
		AlignRight(3, 5, 6, 7)
	for _, e := range entries {
		m := store.MetricMap(e.Metrics)
		tbl.AddRow(
			e.Scenario.ID,
			e.Scenario.SavedAt.Local().Format("Jan 02 15:04"),
			e.Scenario.Name,
			output.Number(float64(e.Scenario.OfficerCount)),
			joinIDs(e.Scenario.UseCases, 2),
			metricCell(m[store.MetricNetAnnualSavings], output.Currency),
			metricCell(m[store.MetricThreeYearROI], output.Percent),
			paybackCell(m[store.MetricPaybackMonths]),
		)
	}
	tbl.Print()
	return nil
}

// metricCell formats a stored metric value, or N/A when it is missing.
func metricCell(v *float64, format func(float64) string) string {
	if v == nil {
		return output.NotApplicable
	}
	return output.Signed(*v, format(*v))
}

// paybackCell formats a stored payback period. NULL is the no-payback
// sentinel.
func paybackCell(v *float64) string {
	if v == nil {
		return output.Months(projection.NoPayback)
	}
	return output.Months(projection.Months(*v))
}
