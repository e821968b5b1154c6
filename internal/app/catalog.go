package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/output"
	"github.com/blackwell-systems/roicalc/internal/projection"
	"github.com/spf13/cobra"
)

var catalogCheck bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the use case catalog",
	Long: `List every voice AI use case with its per-officer annual savings and
hours saved. Use cases in the default selection are marked with *.

Use --check to validate the catalog (unique IDs, non-negative values, known
categories).`,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogCheck, "check", false, "Validate the catalog and exit")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	uses := catalog.Default()
	if catalogCheck {
		if err := catalog.Validate(uses); err != nil {
			return err
		}
		fmt.Printf(" %s catalog ok (%d use cases)\n", output.StyleSuccess.Render(checkMark()), len(uses))
		return nil
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"use_cases":         uses,
			"default_selection": catalog.DefaultSelection(),
		})
	}

	defaults := projection.NewSelection(catalog.DefaultSelection()...)

	fmt.Println(output.Section("Use Case Catalog"))
	fmt.Println()
	tbl := output.NewTable("", "ID", "Name", "Category", "$/Officer/Yr", "Hrs/Officer/Yr").AlignRight(4, 5)
	for _, uc := range uses {
		mark := " "
		if defaults.Has(uc.ID) {
			mark = output.StyleSuccess.Render("*")
		}
		tbl.AddRow(mark, uc.ID, uc.Name, uc.Category.Title(),
			output.Currency(uc.AnnualSavingsPerOfficer), output.Number(uc.TimeSavingsHoursPerYear))
	}
	tbl.Print()

	fmt.Println()
	fmt.Println(" " + output.StyleMuted.Render("* in the default selection"))
	return nil
}
