package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/blackwell-systems/roicalc/internal/advise"
	"github.com/blackwell-systems/roicalc/internal/output"
	"github.com/blackwell-systems/roicalc/internal/projection"
)

// summaryRow is one label/value line of the projection summary.
type summaryRow struct {
	label string
	value string
	sign  float64 // styles the value when non-zero
}

func summaryRows(p projection.Projection) []summaryRow {
	officers := float64(max(p.OfficerCount, 1))
	return []summaryRow{
		{"Officers", output.Number(float64(p.OfficerCount)), 0},
		{"Average salary", output.Currency(p.AvgSalary), 0},
		{"Use cases selected", fmt.Sprintf("%d", p.SelectedCount), 0},
		{"Annual savings", output.Currency(p.TotalAnnualSavings), p.TotalAnnualSavings},
		{"Time saved per year", output.Hours(p.TotalTimeSavings), 0},
		{"Savings per officer", output.Currency(p.TotalAnnualSavings / officers), 0},
		{"Hours saved per officer", output.Hours(p.TotalTimeSavings / officers), 0},
		{"Implementation cost", output.Currency(p.ImplementationCost), 0},
		{"Annual license cost", output.Currency(p.AnnualLicenseCost), 0},
		{"Net first-year savings", output.Currency(p.NetFirstYearSavings), p.NetFirstYearSavings},
		{"Net annual savings", output.Currency(p.NetAnnualSavings), p.NetAnnualSavings},
		{"Three-year ROI", output.Percent(p.ThreeYearROI), p.ThreeYearROI},
		{"Payback period", output.Months(p.PaybackMonths), 0},
	}
}

// writeReport renders a projection with summary, category breakdown and
// selected use cases.
func writeReport(w io.Writer, p projection.Projection) {
	fmt.Fprintln(w, output.Section("Projection Summary"))
	fmt.Fprintln(w)
	for _, r := range summaryRows(p) {
		value := r.value
		if r.sign != 0 {
			value = output.Signed(r.sign, value)
		}
		fmt.Fprintln(w, output.Metric(r.label, value))
	}

	fmt.Fprintln(w, output.Section("By Category"))
	fmt.Fprintln(w)
	cats := output.NewTable("Category", "Use Cases", "Annual Savings", "Share").AlignRight(1, 2)
	for _, b := range p.ByCategory {
		cats.AddRow(b.Category.Title(), fmt.Sprintf("%d", len(b.UseCases)), output.Currency(b.Total), output.ShareBar(b.Percentage, 20))
	}
	cats.Fprint(w)

	fmt.Fprintln(w, output.Section("Selected Use Cases"))
	fmt.Fprintln(w)
	if p.SelectedCount == 0 {
		fmt.Fprintln(w, " "+output.StyleMuted.Render("No use cases selected."))
		return
	}
	officers := float64(p.OfficerCount)
	sel := output.NewTable("Use Case", "Category", "Annual Savings", "Hours").AlignRight(2, 3)
	for _, uc := range p.Selected {
		sel.AddRow(uc.Name, uc.Category.Title(),
			output.Currency(uc.AnnualSavingsPerOfficer*officers),
			output.Number(uc.TimeSavingsHoursPerYear*officers))
	}
	sel.Fprint(w)
}

// writeRecommendations renders ranked recommendations.
func writeRecommendations(w io.Writer, recs []advise.Recommendation) {
	fmt.Fprintln(w, output.Section("Recommendations"))
	fmt.Fprintln(w)
	if len(recs) == 0 {
		fmt.Fprintln(w, " "+output.StyleSuccess.Render("Nothing to recommend."))
		return
	}
	for i, r := range recs {
		fmt.Fprintf(w, " %d. %s %s\n", i+1, priorityBadge(r.Priority), output.StyleBold.Render(r.Title))
		fmt.Fprintf(w, "    %s\n", r.Description)
		fmt.Fprintf(w, "    %s\n\n", output.StyleMuted.Render("Impact: "+output.Currency(r.ImpactScore)+"/yr"))
	}
}

func priorityBadge(p int) string {
	switch p {
	case advise.PriorityCritical:
		return output.StyleError.Render("[critical]")
	case advise.PriorityHigh:
		return output.StyleWarning.Render("[high]")
	case advise.PriorityMedium:
		return output.StyleInfo.Render("[medium]")
	default:
		return output.StyleMuted.Render("[low]")
	}
}

// plainLines renders label/value pairs and use case IDs as unstyled lines
// for diffing.
func plainLines(rows []summaryRow, useCases []string) []string {
	var lines []string
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-24s %s\n", r.label+":", r.value))
	}
	lines = append(lines, "Use cases:\n")
	for _, id := range useCases {
		lines = append(lines, "  - "+id+"\n")
	}
	if len(useCases) == 0 {
		lines = append(lines, "  (none)\n")
	}
	return lines
}

// joinIDs formats use case IDs for a table cell.
func joinIDs(ids []string, max int) string {
	if len(ids) == 0 {
		return "-"
	}
	if max > 0 && len(ids) > max {
		return strings.Join(ids[:max], ", ") + fmt.Sprintf(" +%d", len(ids)-max)
	}
	return strings.Join(ids, ", ")
}
