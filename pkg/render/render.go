// Package render turns a normalized policy reform into a deterministic
// plain-language description: a title, a one-sentence summary of the
// primary change, per-change detail sentences, and implementation notes.
// The description feeds the bill drafting gateway and is shown to the
// analyst verbatim.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coolbeans/billdraft/pkg/reform"
)

// DescriptionParts is the structured intermediate of a description. Parts
// render independently; empty parts are omitted from the flattened text.
type DescriptionParts struct {
	Title          string
	Summary        string
	Details        string
	Implementation string
}

// phrasing holds the sentence templates for one semantic type. Each
// template takes the parameter name, the formatted value, and the
// formatted date phrase, in that order.
type phrasing struct {
	summary string
	detail  string
}

// defaultPhrasing covers types without dedicated templates.
var defaultPhrasing = phrasing{
	summary: "This reform changes the %s parameter to %s %s.",
	detail:  "The %s parameter is set to %s %s.",
}

var phrasings = map[reform.SemanticType]phrasing{
	reform.TaxCredit: {
		summary: "This reform modifies the %s to %s %s.",
		detail:  "The %s is set to %s %s.",
	},
	reform.TaxRate: {
		summary: "This reform sets the %s to %s %s.",
		detail:  "The %s is changed to %s %s.",
	},
	reform.BenefitAmount: {
		summary: "This reform changes the %s to %s %s.",
		detail:  "The %s is adjusted to %s %s.",
	},
	reform.Threshold: {
		summary: "This reform adjusts the %s to %s %s.",
		detail:  "The %s is modified to %s %s.",
	},
	reform.Eligibility: {
		summary: defaultPhrasing.summary,
		detail:  "The %s is modified to %s %s.",
	},
}

func phrasingFor(t reform.SemanticType) phrasing {
	if p, ok := phrasings[t]; ok {
		return p
	}
	return defaultPhrasing
}

// Description renders the reform as flattened text: the non-empty parts
// joined by blank lines.
func Description(r *reform.PolicyReform) string {
	parts := Parts(r)
	var out []string
	for _, part := range []string{parts.Title, parts.Summary, parts.Details, parts.Implementation} {
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, "\n\n")
}

// Parts renders the reform into its structured parts.
func Parts(r *reform.PolicyReform) DescriptionParts {
	return DescriptionParts{
		Title:          "Reform to the " + r.ProgramName(),
		Summary:        summary(r),
		Details:        details(r),
		Implementation: implementation(r),
	}
}

// summary describes the first change of the primary parameter in one
// sentence, with a type-dependent verb.
func summary(r *reform.PolicyReform) string {
	if len(r.Parameters) == 0 {
		return "This reform modifies federal tax and transfer policy parameters."
	}

	primary := r.PrimaryParameter()
	if len(primary.Changes) == 0 {
		return "This reform modifies one or more parameters of the federal tax and transfer system."
	}

	return fmt.Sprintf(phrasingFor(primary.Type).summary,
		primary.Name, primary.FormattedValue(0), primary.Changes[0].FormattedDates())
}

// details emits one sentence per change across all parameters. Sentences
// for the same parameter are space-joined on one line; parameters with no
// changes contribute nothing.
func details(r *reform.PolicyReform) string {
	var lines []string
	for i := range r.Parameters {
		param := &r.Parameters[i]
		if len(param.Changes) == 0 {
			continue
		}
		sentences := make([]string, 0, len(param.Changes))
		for j, change := range param.Changes {
			sentences = append(sentences, fmt.Sprintf(phrasingFor(param.Type).detail,
				param.Name, param.FormattedValue(j), change.FormattedDates()))
		}
		lines = append(lines, strings.Join(sentences, " "))
	}
	if len(lines) == 0 {
		return ""
	}
	return "Details:\n" + strings.Join(lines, "\n")
}

// implementation reports the agencies involved, the effective years, and
// any simulation context. Agencies are listed in first-appearance order
// so the output is stable; years are sorted ascending.
func implementation(r *reform.PolicyReform) string {
	var lines []string

	var agencies []string
	seenAgency := make(map[string]bool)
	for i := range r.Parameters {
		agency := r.Parameters[i].Agency
		if agency != "" && !seenAgency[agency] {
			seenAgency[agency] = true
			agencies = append(agencies, agency)
		}
	}
	if len(agencies) > 0 {
		lines = append(lines, fmt.Sprintf("This reform would be implemented through %s.",
			strings.Join(agencies, ", ")))
	}

	var years []int
	seenYear := make(map[int]bool)
	for i := range r.Parameters {
		for _, change := range r.Parameters[i].Changes {
			if year, ok := change.Year(); ok && !seenYear[year] {
				seenYear[year] = true
				years = append(years, year)
			}
		}
	}
	if len(years) > 0 {
		sort.Ints(years)
		yearStrs := make([]string, len(years))
		for i, year := range years {
			yearStrs[i] = fmt.Sprintf("%d", year)
		}
		if len(years) == 1 {
			lines = append(lines, fmt.Sprintf("The reform would take effect in %s.", yearStrs[0]))
		} else {
			lines = append(lines, fmt.Sprintf("The reform would be implemented across multiple years: %s.",
				strings.Join(yearStrs, ", ")))
		}
	}

	if r.SimulationYear != 0 {
		lines = append(lines, fmt.Sprintf("The policy impact was simulated for the year %d.", r.SimulationYear))
	}
	if len(r.Metrics) > 0 {
		titled := make([]string, len(r.Metrics))
		for i, metric := range r.Metrics {
			titled[i] = titleWords(strings.ReplaceAll(metric, "_", " "))
		}
		lines = append(lines, fmt.Sprintf("The simulation analyzed impacts on %s.",
			strings.Join(titled, ", ")))
	}

	if len(lines) == 0 {
		return ""
	}
	return "Implementation:\n" + strings.Join(lines, "\n")
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
