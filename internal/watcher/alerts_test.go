package watcher

import (
	"math"
	"strings"
	"testing"

	"github.com/blackwell-systems/roicalc/internal/projection"
)

func makeState(scenarios ...ScenarioState) *WatchState {
	s := &WatchState{Scenarios: make(map[string]ScenarioState)}
	for _, sc := range scenarios {
		s.Order = append(s.Order, sc.Name)
		s.Scenarios[sc.Name] = sc
	}
	return s
}

func healthy(name string) ScenarioState {
	return ScenarioState{Name: name, SelectedCount: 3, NetAnnual: 900_000, ROI: 646, Payback: 2}
}

func TestCompare_IdenticalStates(t *testing.T) {
	alerts := Compare(makeState(healthy("a")), makeState(healthy("a")), 12)
	if len(alerts) != 0 {
		t.Errorf("expected 0 alerts for identical states, got %d", len(alerts))
		for _, a := range alerts {
			t.Logf("  [%s] %s: %s", a.Level, a.Title, a.Message)
		}
	}
}

func TestCompare_EmptyStates(t *testing.T) {
	if alerts := Compare(makeState(), makeState(), 12); len(alerts) != 0 {
		t.Errorf("expected 0 alerts, got %d", len(alerts))
	}
}

func TestCompare_AddedAndRemoved(t *testing.T) {
	prev := makeState(healthy("a"), healthy("b"))
	curr := makeState(healthy("c"), healthy("a"))

	alerts := Compare(prev, curr, 12)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Title != "Scenario added: c" {
		t.Errorf("first alert = %q", alerts[0].Title)
	}
	if alerts[1].Title != "Scenario removed: b" {
		t.Errorf("second alert = %q", alerts[1].Title)
	}
	if !strings.Contains(alerts[0].Message, "646%") {
		t.Errorf("added message should carry ROI, got %q", alerts[0].Message)
	}
}

func TestCompare_ROISignChange(t *testing.T) {
	neg := healthy("a")
	neg.ROI = -12
	neg.NetAnnual = 0

	alerts := Compare(makeState(healthy("a")), makeState(neg), 0)
	if len(alerts) != 1 || alerts[0].Level != LevelCritical {
		t.Fatalf("expected one critical alert, got %v", alerts)
	}

	alerts = Compare(makeState(neg), makeState(healthy("a")), 0)
	if len(alerts) != 1 || alerts[0].Level != LevelInfo || !strings.Contains(alerts[0].Title, "recovered") {
		t.Fatalf("expected one recovery alert, got %v", alerts)
	}
}

func TestCompare_PaybackCrossing(t *testing.T) {
	slow := healthy("a")
	slow.Payback = 17

	alerts := Compare(makeState(healthy("a")), makeState(slow), 12)
	if len(alerts) != 1 || alerts[0].Level != LevelWarning {
		t.Fatalf("expected one warning, got %v", alerts)
	}
	if !strings.Contains(alerts[0].Message, "17.0 months") {
		t.Errorf("message = %q", alerts[0].Message)
	}

	never := healthy("a")
	never.Payback = projection.NoPayback
	alerts = Compare(makeState(slow), makeState(never), 12)
	if len(alerts) != 0 {
		t.Errorf("slow to never should not re-alert, got %v", alerts)
	}

	alerts = Compare(makeState(never), makeState(healthy("a")), 12)
	if len(alerts) != 1 || alerts[0].Level != LevelInfo {
		t.Fatalf("expected one info alert, got %v", alerts)
	}
}

func TestCompare_PaybackDisabled(t *testing.T) {
	slow := healthy("a")
	slow.Payback = projection.Months(math.Inf(1))
	slow.NetAnnual = healthy("a").NetAnnual

	if alerts := Compare(makeState(healthy("a")), makeState(slow), 0); len(alerts) != 0 {
		t.Errorf("expected no alerts with payback threshold disabled, got %v", alerts)
	}
}

func TestCompare_ProjectionUpdated(t *testing.T) {
	more := healthy("a")
	more.NetAnnual = 950_000

	alerts := Compare(makeState(healthy("a")), makeState(more), 12)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if want := "Net annual savings $950,000 (+$50,000)"; alerts[0].Message != want {
		t.Errorf("message = %q, want %q", alerts[0].Message, want)
	}
}
