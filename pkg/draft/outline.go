package draft

import (
	"regexp"
	"strings"
)

// OutlineSection is one numbered section heading of a bill.
type OutlineSection struct {
	Number  string `json:"number"`
	Heading string `json:"heading"`
}

// BillOutline is a structural sketch of generated bill text: the short
// title, the section headings, and whether an effective-date section is
// present. It is a display aid only; generated text is never rejected on
// structural grounds.
type BillOutline struct {
	ShortTitle       string           `json:"short_title,omitempty"`
	Sections         []OutlineSection `json:"sections"`
	HasEffectiveDate bool             `json:"has_effective_date"`
}

var sectionRe = regexp.MustCompile(`(?im)^\s*(?:SECTION|SEC\.?)\s+(\d+[A-Za-z]?)\.?\s*(.*)$`)

var shortTitleRe = regexp.MustCompile("(?i)may be cited as(?: the)?\\s*[\"“']([^\"”']+)[\"”']")

// Outline scans bill text for SECTION/SEC. headings, the "may be cited
// as" clause, and an effective-date heading.
func Outline(billText string) BillOutline {
	outline := BillOutline{}

	for _, m := range sectionRe.FindAllStringSubmatch(billText, -1) {
		heading := strings.TrimSpace(m[2])
		outline.Sections = append(outline.Sections, OutlineSection{
			Number:  m[1],
			Heading: heading,
		})
		if strings.Contains(strings.ToUpper(heading), "EFFECTIVE DATE") {
			outline.HasEffectiveDate = true
		}
	}

	if m := shortTitleRe.FindStringSubmatch(billText); m != nil {
		outline.ShortTitle = strings.TrimSpace(m[1])
	}

	return outline
}
