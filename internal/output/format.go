package output

import (
	"math"

	"github.com/blackwell-systems/roicalc/internal/projection"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotApplicable is shown for values that have no finite result, such as the
// payback period of a selection with no savings.
const NotApplicable = "N/A"

// printer formats numbers with en-US digit grouping.
var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats v as whole US dollars: "$1,020,000", "-$5,000".
func Currency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotApplicable
	}
	r := math.Round(v)
	if r < 0 {
		return printer.Sprintf("-$%d", int64(-r))
	}
	return printer.Sprintf("$%d", int64(r))
}

// Number formats v as a whole number with digit grouping: "35,600".
func Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotApplicable
	}
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// Hours formats an hour count: "35,600 hrs".
func Hours(v float64) string {
	return Number(v) + " hrs"
}

// Percent formats v as a whole percentage: "646%".
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotApplicable
	}
	return printer.Sprintf("%d%%", int64(math.Round(v)))
}

// Months formats a payback period to one decimal place, or N/A for the
// no-payback sentinel.
func Months(m projection.Months) string {
	if !m.Valid() {
		return NotApplicable
	}
	return printer.Sprintf("%.1f months", float64(m))
}
