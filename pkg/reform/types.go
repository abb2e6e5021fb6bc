// Package reform holds the typed domain model of a policy reform: which
// parameters change, to what values, over which date ranges. A reform is
// built once per drafting request from extractor output, is immutable
// thereafter, and is consumed by the text renderer.
package reform

import (
	"strconv"
	"strings"

	"github.com/coolbeans/billdraft/pkg/extract"
	"github.com/coolbeans/billdraft/pkg/parampath"
)

// SemanticType is the inferred category of a policy parameter. The
// category drives phrasing and value formatting downstream.
type SemanticType string

const (
	TaxCredit     SemanticType = "Tax Credit"
	TaxDeduction  SemanticType = "Tax Deduction"
	BenefitAmount SemanticType = "Benefit Amount"
	TaxRate       SemanticType = "Tax Rate"
	Threshold     SemanticType = "Threshold"
	Eligibility   SemanticType = "Eligibility Criteria"
	Generic       SemanticType = "Policy Parameter"
)

// TypeForPath classifies a parameter path into a SemanticType.
func TypeForPath(path string) SemanticType {
	return SemanticType(parampath.InferType(path))
}

// openEndedYear is the conventional sentinel end-date year meaning "no
// scheduled expiry" in reform date ranges.
const openEndedYear = "2100"

// PolicyChange is one dated (or opaque) change of a parameter's value.
// Either StartDate and EndDate hold validated ISO dates, or RawRange holds
// the original unparseable date-range key verbatim.
type PolicyChange struct {
	StartDate string        `json:"start_date,omitempty"`
	EndDate   string        `json:"end_date,omitempty"`
	Value     extract.Value `json:"value"`
	RawRange  string        `json:"date_range,omitempty"`
}

// Year returns the calendar year of the start date. Opaque changes carry
// no year.
func (c PolicyChange) Year() (int, bool) {
	if c.RawRange != "" || c.StartDate == "" {
		return 0, false
	}
	yearPart, _, _ := strings.Cut(c.StartDate, "-")
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return 0, false
	}
	return year, true
}

// FormattedDates renders the date range as a phrase. A sentinel 2100 end
// year reads "starting in {year}"; a bounded range reads "from {start} to
// {end}"; an opaque change echoes its raw label verbatim.
func (c PolicyChange) FormattedDates() string {
	if c.RawRange != "" {
		return c.RawRange
	}
	startYear, _, okStart := strings.Cut(c.StartDate, "-")
	endYear, _, okEnd := strings.Cut(c.EndDate, "-")
	if !okStart || !okEnd || startYear == "" || endYear == "" {
		return "for a specified period"
	}
	if endYear == openEndedYear {
		return "starting in " + startYear
	}
	return "from " + startYear + " to " + endYear
}

// PolicyParameter is one parameter being modified by a reform, with its
// derived display attributes and ordered changes. A parameter with zero
// changes is valid; it simply renders no detail text.
type PolicyParameter struct {
	Path    string         `json:"path"`
	Name    string         `json:"name"`
	Agency  string         `json:"agency"`
	Type    SemanticType   `json:"type"`
	Changes []PolicyChange `json:"changes"`

	// Year is the start-year of the first dated change, or zero when no
	// change carried a parseable date.
	Year int `json:"year,omitempty"`
}

// EffectiveYear returns the year this parameter's change takes effect:
// the recorded year, else the first dated change's year, else fallback.
func (p *PolicyParameter) EffectiveYear(fallback int) int {
	if p.Year != 0 {
		return p.Year
	}
	for _, change := range p.Changes {
		if year, ok := change.Year(); ok {
			return year
		}
	}
	return fallback
}

// PolicyReform is a complete reform: an ordered list of parameter changes
// plus contextual attributes. Parameter order follows the source mapping;
// the first parameter is the primary one for summary purposes.
type PolicyReform struct {
	Parameters []PolicyParameter `json:"parameters"`
	Country    string            `json:"country"`
	Year       int               `json:"year"`

	Metrics            []string `json:"metrics,omitempty"`
	SimulationYear     int      `json:"simulation_year,omitempty"`
	DifferenceVariable string   `json:"difference_variable,omitempty"`
}

// PrimaryParameter returns the first parameter, or nil for an empty reform.
func (r *PolicyReform) PrimaryParameter() *PolicyParameter {
	if len(r.Parameters) == 0 {
		return nil
	}
	return &r.Parameters[0]
}

// programNames maps program-code path segments to program names, checked
// in this order against each segment of the primary parameter's path.
var programNames = []struct {
	code string
	name string
}{
	{"ctc", "Child Tax Credit"},
	{"eitc", "Earned Income Tax Credit"},
	{"snap", "Supplemental Nutrition Assistance Program"},
	{"tanf", "Temporary Assistance for Needy Families"},
	{"ssi", "Supplemental Security Income"},
	{"ui", "Unemployment Insurance"},
	{"housing", "Housing Assistance"},
	{"section8", "Housing Assistance"},
	{"medicaid", "Medicaid"},
}

// ProgramName resolves the government program this reform touches by
// scanning the primary parameter's path segments for known program codes.
// Reforms with no recognizable program fall back to a name derived from
// the primary parameter's type.
func (r *PolicyReform) ProgramName() string {
	primary := r.PrimaryParameter()
	if primary == nil {
		return "Tax and Transfer Program"
	}

	for _, segment := range parampath.Parse(primary.Path) {
		name := strings.ToLower(segment.Name)
		for _, program := range programNames {
			if name == program.code {
				return program.name
			}
		}
	}

	if primary.Type != "" {
		return string(primary.Type) + " Program"
	}
	return "Government Program"
}
