// Package input turns raw user input into the bounded values the projection
// engine expects. Nothing here fails: bad input is corrected to the nearest
// valid value.
package input

import (
	"math"
	"strconv"
	"strings"

	"github.com/blackwell-systems/roicalc/internal/projection"
)

// Bounds applied at the input boundary.
const (
	MinOfficers     = 1
	MaxOfficers     = 10000
	DefaultOfficers = 100

	MinSalary     = 30000.0
	MaxSalary     = 200000.0
	DefaultSalary = 75000.0
)

// ParseOfficerCount parses a headcount. Unparseable input becomes
// MinOfficers; the result is clamped to [MinOfficers, MaxOfficers].
func ParseOfficerCount(raw string) int {
	n, ok := leadingInt(raw)
	if !ok {
		return MinOfficers
	}
	return ClampOfficerCount(n)
}

// ClampOfficerCount bounds n to [MinOfficers, MaxOfficers].
func ClampOfficerCount(n int) int {
	if n < MinOfficers {
		return MinOfficers
	}
	if n > MaxOfficers {
		return MaxOfficers
	}
	return n
}

// ParseAvgSalary parses an annual salary. Unparseable or zero input becomes
// DefaultSalary; the result is clamped to [MinSalary, MaxSalary].
func ParseAvgSalary(raw string) float64 {
	n, ok := leadingInt(raw)
	if !ok || n == 0 {
		return DefaultSalary
	}
	return ClampAvgSalary(float64(n))
}

// ClampAvgSalary bounds s to [MinSalary, MaxSalary].
func ClampAvgSalary(s float64) float64 {
	if math.IsNaN(s) {
		return DefaultSalary
	}
	if s < MinSalary {
		return MinSalary
	}
	if s > MaxSalary {
		return MaxSalary
	}
	return s
}

// ClampParams bounds already-typed parameters.
func ClampParams(p projection.Params) projection.Params {
	return projection.Params{
		OfficerCount: ClampOfficerCount(p.OfficerCount),
		AvgSalary:    ClampAvgSalary(p.AvgSalary),
	}
}

// NormalizeSelection converts an ordered list of IDs, as collected from
// flags, files or request bodies, into a Selection. Entries may be
// comma-separated; whitespace and empty entries are dropped.
func NormalizeSelection(ids []string) projection.Selection {
	sel := projection.NewSelection()
	for _, entry := range ids {
		for _, id := range strings.Split(entry, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				sel.Add(id)
			}
		}
	}
	return sel
}

// leadingInt parses the leading integer of s, ignoring surrounding
// whitespace and any trailing non-digit characters ("12.5" parses as 12).
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Overflow: saturate in the direction of the sign.
		if s[0] == '-' {
			return math.MinInt32, true
		}
		return math.MaxInt32, true
	}
	return n, true
}
