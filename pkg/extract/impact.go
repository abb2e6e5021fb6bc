package extract

import (
	"regexp"
	"strconv"
)

// ImpactInfo is impact-analysis context scraped from the simulation code
// surrounding a reform literal. The zero value means nothing was found.
type ImpactInfo struct {
	// Metrics are the variable names passed to calculate() calls, in first
	// appearance order with duplicates removed.
	Metrics []string `json:"metrics,omitempty"`

	// SimulationYear is the period of the first calculate() call, or zero.
	SimulationYear int `json:"simulation_year,omitempty"`

	// DifferenceVariable is the target of the first "x = a - b" assignment,
	// or empty. Reform scripts conventionally bind the baseline/reform
	// delta this way.
	DifferenceVariable string `json:"difference_variable,omitempty"`
}

var calculateRe = regexp.MustCompile(`calculate\(\s*"([^"]+)"\s*,\s*period\s*=\s*(\d+)\s*\)`)

var differenceRe = regexp.MustCompile(`(\w+)\s*=\s*(\w+)\s*-\s*(\w+)`)

// ExtractImpactInfo scans source code for simulation context: metrics
// computed with calculate("metric", period=YYYY) and the first difference
// assignment. It never fails; absent markers leave the zero value.
func ExtractImpactInfo(source string) ImpactInfo {
	var info ImpactInfo

	seen := make(map[string]bool)
	for _, m := range calculateRe.FindAllStringSubmatch(source, -1) {
		metric, period := m[1], m[2]
		if !seen[metric] {
			seen[metric] = true
			info.Metrics = append(info.Metrics, metric)
		}
		if info.SimulationYear == 0 {
			if year, err := strconv.Atoi(period); err == nil {
				info.SimulationYear = year
			}
		}
	}

	if m := differenceRe.FindStringSubmatch(source); m != nil {
		info.DifferenceVariable = m[1]
	}

	return info
}
