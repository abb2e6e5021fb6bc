// Package parampath analyzes dotted parameter paths from the federal
// tax-and-transfer parameter namespace, e.g.
// "gov.irs.credits.ctc.amount.base[0].amount". All functions are pure:
// they derive display names, agencies, semantic categories, and lookup
// keys from the path text alone.
package parampath

import (
	"regexp"
	"strconv"
	"strings"
)

// Segment is one dot-separated component of a parameter path. A segment
// may carry a trailing bracket index denoting a position within an ordered
// list of sub-rules (tax brackets, phase-out tiers).
type Segment struct {
	Name     string
	Index    int
	HasIndex bool
}

// Path is an ordered sequence of segments.
type Path []Segment

var indexSuffixRe = regexp.MustCompile(`\[(\d+)\]$`)

// Parse splits a dotted path into segments, separating bracket indices
// from segment names. Empty segments are preserved as written; malformed
// input is a data-quality condition for the caller, not a parse error.
func Parse(path string) Path {
	parts := strings.Split(path, ".")
	segments := make(Path, 0, len(parts))
	for _, part := range parts {
		seg := Segment{Name: part}
		if m := indexSuffixRe.FindStringSubmatch(part); m != nil {
			seg.Name = part[:len(part)-len(m[0])]
			seg.Index, _ = strconv.Atoi(m[1])
			seg.HasIndex = true
		}
		segments = append(segments, seg)
	}
	return segments
}

// ReadableName derives a display name from the last path segment: the
// bracket index is stripped, underscores become spaces, and each word is
// title-cased. An empty result yields "Unknown Parameter".
func ReadableName(path string) string {
	segments := Parse(path)
	if len(segments) == 0 {
		return "Unknown Parameter"
	}
	last := segments[len(segments)-1].Name
	name := titleCase(strings.ReplaceAll(last, "_", " "))
	if name == "" {
		return "Unknown Parameter"
	}
	return name
}

// agencyNames maps agency codes under the "gov" root to full names.
var agencyNames = map[string]string{
	"irs":  "Internal Revenue Service",
	"hhs":  "Health and Human Services",
	"usda": "Department of Agriculture",
	"dol":  "Department of Labor",
	"ssi":  "Social Security Administration",
}

// Agency resolves the administering agency from the leading path segments.
// Known codes under the "gov" root map to full agency names; an unknown
// code under "gov" is returned uppercased; any other shape falls back to
// "Federal Government".
func Agency(path string) string {
	segments := Parse(path)
	if len(segments) >= 2 && segments[0].Name == "gov" {
		code := segments[1].Name
		if name, ok := agencyNames[code]; ok {
			return name
		}
		return strings.ToUpper(code)
	}
	return "Federal Government"
}

// typeRule associates marker substrings with a semantic category label.
type typeRule struct {
	markers []string
	label   string
}

// typeRules is checked in order; the first rule whose marker appears in
// the lowercased path wins.
var typeRules = []typeRule{
	{[]string{"credit", "ctc"}, "Tax Credit"},
	{[]string{"deduction"}, "Tax Deduction"},
	{[]string{"amount"}, "Benefit Amount"},
	{[]string{"rate"}, "Tax Rate"},
	{[]string{"threshold", "limit"}, "Threshold"},
	{[]string{"eligibility"}, "Eligibility Criteria"},
}

// InferType classifies a parameter by substring markers in its lowercased
// path. Paths matching no rule are generic "Policy Parameter" entries.
func InferType(path string) string {
	lower := strings.ToLower(path)
	for _, rule := range typeRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.label
			}
		}
	}
	return "Policy Parameter"
}

var metadataSuffixRe = regexp.MustCompile(`\[\d+\]\.\w+$`)

// MetadataKey normalizes a path for descriptor lookup by stripping one
// trailing bracket-indexed-field suffix. Descriptor records live at the
// list level: "gov.irs.credits.ctc.amount.base[0].amount" is described by
// the record for "gov.irs.credits.ctc.amount.base".
func MetadataKey(path string) string {
	return metadataSuffixRe.ReplaceAllString(path, "")
}

// PolicyArea returns the first three path segments dot-joined, or the root
// segment for shorter paths. It names the namespace region a parameter
// lives in ("gov.irs.credits") for grouping and inspection output.
func PolicyArea(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) >= 3 {
		return strings.Join(parts[:3], ".")
	}
	return parts[0]
}

// titleCase uppercases the first letter of each space-separated word and
// lowercases the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
