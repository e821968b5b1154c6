package app

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/roicalc/internal/catalog"
	"github.com/blackwell-systems/roicalc/internal/config"
	"github.com/blackwell-systems/roicalc/internal/projection"
	"github.com/blackwell-systems/roicalc/internal/scenario"
	"github.com/blackwell-systems/roicalc/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands_Registered(t *testing.T) {
	want := []string{"catalog", "project", "sweep", "scenarios", "history", "compare", "watch", "doctor", "serve", "mcp"}
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("%s subcommand not registered on rootCmd", name)
		}
	}
}

func TestSelectionFlags_Resolve(t *testing.T) {
	uses := catalog.Default()
	defaults := catalog.DefaultSelection()

	sel, err := selectionFlags{}.resolve(uses, defaults)
	require.NoError(t, err)
	assert.ElementsMatch(t, defaults, sel.IDs())

	sel, err = selectionFlags{all: true}.resolve(uses, defaults)
	require.NoError(t, err)
	assert.Equal(t, len(uses), sel.Len())

	sel, err = selectionFlags{none: true}.resolve(uses, defaults)
	require.NoError(t, err)
	assert.NotNil(t, sel)
	assert.Zero(t, sel.Len())

	sel, err = selectionFlags{useCases: []string{"translation", "translation", " bolo-alerts "}}.resolve(uses, defaults)
	require.NoError(t, err)
	assert.Equal(t, []string{"bolo-alerts", "translation"}, sel.IDs())

	_, err = selectionFlags{all: true, none: true}.resolve(uses, defaults)
	assert.Error(t, err)
	_, err = selectionFlags{all: true, useCases: []string{"translation"}}.resolve(uses, defaults)
	assert.Error(t, err)
}

func TestSelectionFlags_ApplyToggles(t *testing.T) {
	base := projection.NewSelection(catalog.DefaultSelection()...)

	f := selectionFlags{toggles: []string{"policy-lookup", " translation ", "radio-control", "radio-control", ""}}
	got := f.applyToggles(base)
	assert.Equal(t, []string{"real-time-transcription", "translation", "voice-queries"}, got.IDs())
	assert.ElementsMatch(t, catalog.DefaultSelection(), base.IDs(), "base selection must not change")

	same := selectionFlags{}.applyToggles(base)
	assert.Equal(t, base.IDs(), same.IDs())

	fromNone := selectionFlags{toggles: []string{"bolo-alerts"}}.applyToggles(projection.NewSelection())
	assert.Equal(t, []string{"bolo-alerts"}, fromNone.IDs())
}

func TestPickScenario(t *testing.T) {
	one := []scenario.Scenario{{Name: "pilot"}}
	sc, err := pickScenario(one, "")
	require.NoError(t, err)
	assert.Equal(t, "pilot", sc.Name)

	two := []scenario.Scenario{{Name: "pilot"}, {Name: "rollout"}}
	_, err = pickScenario(two, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pilot, rollout")

	sc, err = pickScenario(two, "rollout")
	require.NoError(t, err)
	assert.Equal(t, "rollout", sc.Name)

	_, err = pickScenario(two, "missing")
	assert.Error(t, err)
}

func TestJoinIDs(t *testing.T) {
	assert.Equal(t, "-", joinIDs(nil, 0))
	assert.Equal(t, "a, b, c", joinIDs([]string{"a", "b", "c"}, 0))
	assert.Equal(t, "a, b +1", joinIDs([]string{"a", "b", "c"}, 2))
	assert.Equal(t, "a, b", joinIDs([]string{"a", "b"}, 2))
}

func TestPlainLines(t *testing.T) {
	lines := plainLines([]summaryRow{{label: "Officers", value: "100"}}, nil)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Officers:"))
	assert.True(t, strings.HasSuffix(lines[0], " 100\n"))
	assert.Equal(t, "Use cases:\n", lines[1])
	assert.Equal(t, "  (none)\n", lines[2])

	lines = plainLines(nil, []string{"policy-lookup"})
	assert.Equal(t, []string{"Use cases:\n", "  - policy-lookup\n"}, lines)
}

func TestParseWatchInterval(t *testing.T) {
	d, err := parseWatchInterval("2s")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	_, err = parseWatchInterval("500ms")
	assert.Error(t, err)
	_, err = parseWatchInterval("soon")
	assert.Error(t, err)
}

func reference(uses []catalog.UseCase, officers int) projection.Projection {
	return projection.Compute(uses, projection.NewSelection(catalog.DefaultSelection()...),
		projection.Params{OfficerCount: officers, AvgSalary: 75000})
}

func findDelta(t *testing.T, deltas []store.MetricDelta, name string) store.MetricDelta {
	t.Helper()
	for _, d := range deltas {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no delta for %s", name)
	return store.MetricDelta{}
}

func TestComputeDeltas(t *testing.T) {
	uses := catalog.Default()
	prev := store.ProjectionMetrics(reference(uses, 100))
	curr := store.ProjectionMetrics(reference(uses, 200))

	deltas := computeDeltas(prev, curr)
	require.Len(t, deltas, len(curr))

	savings := findDelta(t, deltas, store.MetricTotalAnnualSavings)
	assert.Equal(t, 1_020_000.0, savings.Delta)
	assert.Equal(t, "improved", savings.Direction)

	license := findDelta(t, deltas, store.MetricAnnualLicenseCost)
	assert.Equal(t, 120_000.0, license.Delta)
	assert.Equal(t, "regressed", license.Direction)

	// Payback is independent of officer count.
	payback := findDelta(t, deltas, store.MetricPaybackMonths)
	assert.InDelta(t, 0, payback.Delta, 1e-9)

	selected := findDelta(t, deltas, store.MetricSelectedCount)
	assert.Equal(t, "unchanged", selected.Direction)
}

func TestComputeDeltas_MissingValues(t *testing.T) {
	uses := catalog.Default()
	empty := projection.Compute(uses, projection.NewSelection(), projection.Params{OfficerCount: 100, AvgSalary: 75000})

	withPayback := store.ProjectionMetrics(reference(uses, 100))
	noPayback := store.ProjectionMetrics(empty)

	gained := findDelta(t, computeDeltas(noPayback, withPayback), store.MetricPaybackMonths)
	assert.Nil(t, gained.Previous)
	assert.NotNil(t, gained.Current)
	assert.Equal(t, "improved", gained.Direction)
	assert.Zero(t, gained.Delta)

	lost := findDelta(t, computeDeltas(withPayback, noPayback), store.MetricPaybackMonths)
	assert.Equal(t, "regressed", lost.Direction)

	v := 1.0
	onlyPrev := computeDeltas([]store.Metric{{Name: "legacy", Value: &v}}, nil)
	require.Len(t, onlyPrev, 1)
	assert.Equal(t, "legacy", onlyPrev[0].Name)
	assert.Equal(t, "regressed", onlyPrev[0].Direction)
}

func TestResolveSavedAndReportDiff(t *testing.T) {
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	uses := catalog.Default()
	first, err := db.SaveScenario("small", "test", reference(uses, 50))
	require.NoError(t, err)
	second, err := db.SaveScenario("large", "test", reference(uses, 100))
	require.NoError(t, err)

	got, err := resolveSaved(db, "1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	got, err = resolveSaved(db, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "small", got.Name)

	_, err = resolveSaved(db, "3")
	assert.Error(t, err)
	_, err = resolveSaved(db, "0")
	assert.Error(t, err)
	_, err = resolveSaved(db, "not-an-id")
	assert.Error(t, err)

	firstMetrics, err := db.GetMetrics(first.ID)
	require.NoError(t, err)
	secondMetrics, err := db.GetMetrics(second.ID)
	require.NoError(t, err)

	text, err := reportDiff(first, firstMetrics, second, secondMetrics)
	require.NoError(t, err)
	assert.Contains(t, text, "-Name:")
	assert.Contains(t, text, "+Officers:")
	assert.Contains(t, text, "$1,020,000")
	assert.NotContains(t, text, "-  - voice-queries", "use cases are unchanged")

	same, err := reportDiff(second, secondMetrics, second, secondMetrics)
	require.NoError(t, err)
	assert.Empty(t, same)
}

func TestFormatMetric(t *testing.T) {
	v := 646.153
	assert.Equal(t, "646%", formatMetric(store.MetricThreeYearROI, &v))
	assert.Equal(t, "N/A", formatMetric(store.MetricPaybackMonths, nil))
	m := 2.0
	assert.Equal(t, "2.0 months", formatMetric(store.MetricPaybackMonths, &m))
	s := 1_020_000.0
	assert.Equal(t, "$1,020,000", formatMetric(store.MetricTotalAnnualSavings, &s))
	n := 3.0
	assert.Equal(t, "3", formatMetric(store.MetricSelectedCount, &n))
}

func TestDoctorChecks(t *testing.T) {
	uses := catalog.Default()
	cfg := config.Default()

	assert.True(t, checkCatalog(uses).Passed)
	assert.True(t, checkDefaultSelection(uses, cfg.Defaults.UseCases).Passed)

	bad := checkDefaultSelection(uses, []string{"voice-queries", "teleport"})
	assert.False(t, bad.Passed)
	assert.Contains(t, bad.Message, "teleport")

	proj := checkDefaultProjection(cfg, uses)
	assert.True(t, proj.Passed)
	assert.Contains(t, proj.Message, "$900,000")

	cfg.Defaults.UseCases = []string{"radio-control"}
	cfg.Defaults.OfficerCount = 10
	cfg.Rates.LicensePerOfficer = 2000
	assert.False(t, checkDefaultProjection(cfg, uses).Passed)

	dbCheck := checkDatabase(filepath.Join(t.TempDir(), "sub", "roicalc.db"))
	assert.True(t, dbCheck.Passed, dbCheck.Message)
	assert.Contains(t, dbCheck.Message, "(empty)")

	missing := checkConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.False(t, missing.Passed)
}

func TestSummaryRows_PerOfficer(t *testing.T) {
	rows := summaryRows(reference(catalog.Default(), 100))
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.label] = r.value
	}
	assert.Equal(t, "$10,200", values["Savings per officer"])
	assert.Equal(t, "356 hrs", values["Hours saved per officer"])

	zero := summaryRows(projection.Projection{OfficerCount: 0, TotalAnnualSavings: 500})
	for _, r := range zero {
		if r.label == "Savings per officer" {
			assert.Equal(t, "$500", r.value)
		}
	}
}

func TestExportScenario_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pilot.yaml")
	params := projection.Params{OfficerCount: 40, AvgSalary: 82000}
	sel := projection.NewSelection("translation", "voice-queries")
	require.NoError(t, exportScenario(path, "pilot", params, sel))

	scenarios, err := scenario.Load(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "pilot", scenarios[0].Name)

	gotParams, gotSel := scenarios[0].Resolve(scenario.Defaults{
		Params:   projection.Params{OfficerCount: 100, AvgSalary: 75000},
		UseCases: catalog.DefaultSelection(),
	})
	assert.Equal(t, params, gotParams)
	assert.Equal(t, sel.IDs(), gotSel.IDs())
}

func TestExportScenario_EmptySelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.yaml")
	require.NoError(t, exportScenario(path, "none", projection.Params{OfficerCount: 5, AvgSalary: 50000}, projection.NewSelection()))

	scenarios, err := scenario.Load(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.NotNil(t, scenarios[0].UseCases)
	assert.Empty(t, scenarios[0].UseCases)
}

func TestExportName(t *testing.T) {
	t.Cleanup(func() { projectSave, projectName = "", "" })

	projectSave, projectName = "", ""
	assert.Equal(t, "projection", exportName())
	projectName = "pilot"
	assert.Equal(t, "pilot", exportName())
	projectSave = " pilot-2026 "
	assert.Equal(t, "pilot-2026", exportName())
}
