package watcher

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/roicalc/internal/output"
	"github.com/blackwell-systems/roicalc/internal/projection"
)

// Compare detects notable changes between two watch states and returns
// alerts. Scenarios are reported in the order they appear in the current
// file, followed by removed scenarios in their previous order.
func Compare(prev, curr *WatchState, paybackLimit float64) []Alert {
	var alerts []Alert
	now := time.Now()

	for _, name := range curr.Order {
		c := curr.Scenarios[name]
		p, existed := prev.Scenarios[name]
		if !existed {
			alerts = append(alerts, Alert{
				Level:   LevelInfo,
				Title:   fmt.Sprintf("Scenario added: %s", name),
				Message: fmt.Sprintf("ROI %s, payback %s", output.Percent(c.ROI), output.Months(c.Payback)),
				Time:    now,
			})
			continue
		}
		alerts = append(alerts, compareScenario(p, c, paybackLimit, now)...)
	}

	for _, name := range prev.Order {
		if _, ok := curr.Scenarios[name]; !ok {
			alerts = append(alerts, Alert{
				Level:   LevelInfo,
				Title:   fmt.Sprintf("Scenario removed: %s", name),
				Message: "No longer present in the scenario file",
				Time:    now,
			})
		}
	}

	return alerts
}

func compareScenario(prev, curr ScenarioState, paybackLimit float64, now time.Time) []Alert {
	var alerts []Alert
	name := curr.Name

	switch {
	case prev.ROI >= 0 && curr.ROI < 0:
		alerts = append(alerts, Alert{
			Level:   LevelCritical,
			Title:   fmt.Sprintf("%s: ROI turned negative", name),
			Message: fmt.Sprintf("Three-year ROI is %s (was %s)", output.Percent(curr.ROI), output.Percent(prev.ROI)),
			Time:    now,
		})
	case prev.ROI < 0 && curr.ROI >= 0:
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   fmt.Sprintf("%s: ROI recovered", name),
			Message: fmt.Sprintf("Three-year ROI is %s (was %s)", output.Percent(curr.ROI), output.Percent(prev.ROI)),
			Time:    now,
		})
	}

	if paybackLimit > 0 {
		wasSlow := slowPayback(prev.Payback, paybackLimit)
		isSlow := slowPayback(curr.Payback, paybackLimit)
		switch {
		case !wasSlow && isSlow:
			alerts = append(alerts, Alert{
				Level:   LevelWarning,
				Title:   fmt.Sprintf("%s: payback beyond %.0f months", name, paybackLimit),
				Message: fmt.Sprintf("Payback is %s (was %s)", output.Months(curr.Payback), output.Months(prev.Payback)),
				Time:    now,
			})
		case wasSlow && !isSlow:
			alerts = append(alerts, Alert{
				Level:   LevelInfo,
				Title:   fmt.Sprintf("%s: payback within %.0f months", name, paybackLimit),
				Message: fmt.Sprintf("Payback is %s (was %s)", output.Months(curr.Payback), output.Months(prev.Payback)),
				Time:    now,
			})
		}
	}

	if len(alerts) == 0 && curr.NetAnnual != prev.NetAnnual {
		delta := curr.NetAnnual - prev.NetAnnual
		sign := "+"
		if delta < 0 {
			sign = "-"
			delta = -delta
		}
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   fmt.Sprintf("%s: projection updated", name),
			Message: fmt.Sprintf("Net annual savings %s (%s%s)", output.Currency(curr.NetAnnual), sign, output.Currency(delta)),
			Time:    now,
		})
	}

	return alerts
}

// slowPayback reports whether m misses the limit. The no-payback sentinel
// always misses.
func slowPayback(m projection.Months, limit float64) bool {
	return !m.Valid() || float64(m) > limit
}
