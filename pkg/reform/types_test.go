package reform

import (
	"testing"

	"github.com/coolbeans/billdraft/pkg/extract"
)

func TestPolicyChangeYear(t *testing.T) {
	cases := []struct {
		name     string
		change   PolicyChange
		year     int
		expectOK bool
	}{
		{"dated", PolicyChange{StartDate: "2025-01-01", EndDate: "2100-12-31"}, 2025, true},
		{"opaque", PolicyChange{RawRange: "year:2025"}, 0, false},
		{"empty", PolicyChange{}, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			year, ok := tc.change.Year()
			if ok != tc.expectOK || year != tc.year {
				t.Errorf("Expected (%d, %v), got (%d, %v)", tc.year, tc.expectOK, year, ok)
			}
		})
	}
}

func TestPolicyChangeFormattedDates(t *testing.T) {
	cases := []struct {
		name     string
		change   PolicyChange
		expected string
	}{
		{
			"open ended sentinel",
			PolicyChange{StartDate: "2025-01-01", EndDate: "2100-12-31"},
			"starting in 2025",
		},
		{
			"bounded range",
			PolicyChange{StartDate: "2025-01-01", EndDate: "2030-12-31"},
			"from 2025 to 2030",
		},
		{
			"opaque label verbatim",
			PolicyChange{RawRange: "fiscal_year_2025"},
			"fiscal_year_2025",
		},
		{
			"no dates at all",
			PolicyChange{},
			"for a specified period",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.change.FormattedDates(); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestFormattedValue(t *testing.T) {
	cases := []struct {
		name     string
		param    PolicyParameter
		index    int
		expected string
	}{
		{
			"rate below one is scaled",
			PolicyParameter{
				Path: "gov.irs.income.bracket.rates.2", Type: TaxRate,
				Changes: []PolicyChange{{Value: extract.FloatValue(0.07)}},
			},
			0, "7.0%",
		},
		{
			"rate of one and above is used as-is",
			PolicyParameter{
				Path: "gov.irs.income.bracket.rates.2", Type: TaxRate,
				Changes: []PolicyChange{{Value: extract.IntValue(7)}},
			},
			0, "7.0%",
		},
		{
			"rate by path substring",
			PolicyParameter{
				Path: "gov.irs.ctc.phase_out.rate", Type: TaxCredit,
				Changes: []PolicyChange{{Value: extract.FloatValue(0.05)}},
			},
			0, "5.0%",
		},
		{
			"currency amount",
			PolicyParameter{
				Path: "gov.irs.credits.ctc.amount.base[0].amount", Type: TaxCredit,
				Changes: []PolicyChange{{Value: extract.IntValue(2500)}},
			},
			0, "$2,500",
		},
		{
			"currency rounds to whole dollars",
			PolicyParameter{
				Path: "gov.usda.snap.benefit.max", Type: BenefitAmount,
				Changes: []PolicyChange{{Value: extract.FloatValue(1099.6)}},
			},
			0, "$1,100",
		},
		{
			"plain integer gets separators",
			PolicyParameter{
				Path: "gov.irs.income.exemption.threshold", Type: Threshold,
				Changes: []PolicyChange{{Value: extract.IntValue(400000)}},
			},
			0, "400,000",
		},
		{
			"plain float",
			PolicyParameter{
				Path: "gov.irs.income.personal_factor", Type: Generic,
				Changes: []PolicyChange{{Value: extract.FloatValue(0.5)}},
			},
			0, "0.5",
		},
		{
			"text value unchanged",
			PolicyParameter{
				Path: "gov.usda.snap.status", Type: Generic,
				Changes: []PolicyChange{{Value: extract.TextValue("abolished")}},
			},
			0, "abolished",
		},
		{
			"out of range index",
			PolicyParameter{
				Path: "gov.irs.credits.ctc.amount.base[0].amount", Type: TaxCredit,
				Changes: []PolicyChange{{Value: extract.IntValue(2500)}},
			},
			1, "modified value",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.param.FormattedValue(tc.index); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestEffectiveYear(t *testing.T) {
	withYear := PolicyParameter{Year: 2026}
	if got := withYear.EffectiveYear(2030); got != 2026 {
		t.Errorf("Recorded year should win, got %d", got)
	}

	fromChanges := PolicyParameter{Changes: []PolicyChange{
		{RawRange: "opaque"},
		{StartDate: "2027-01-01", EndDate: "2100-12-31"},
	}}
	if got := fromChanges.EffectiveYear(2030); got != 2027 {
		t.Errorf("First dated change should win, got %d", got)
	}

	empty := PolicyParameter{}
	if got := empty.EffectiveYear(2030); got != 2030 {
		t.Errorf("Fallback should win, got %d", got)
	}
}

func TestProgramName(t *testing.T) {
	cases := []struct {
		name     string
		reform   PolicyReform
		expected string
	}{
		{
			"empty reform",
			PolicyReform{},
			"Tax and Transfer Program",
		},
		{
			"ctc",
			PolicyReform{Parameters: []PolicyParameter{
				{Path: "gov.irs.credits.ctc.amount.base[0].amount", Type: TaxCredit},
			}},
			"Child Tax Credit",
		},
		{
			"eitc",
			PolicyReform{Parameters: []PolicyParameter{
				{Path: "gov.irs.credits.eitc.max[0].amount", Type: TaxCredit},
			}},
			"Earned Income Tax Credit",
		},
		{
			"snap",
			PolicyReform{Parameters: []PolicyParameter{
				{Path: "gov.usda.snap.max_allotment", Type: BenefitAmount},
			}},
			"Supplemental Nutrition Assistance Program",
		},
		{
			"ssi segment",
			PolicyReform{Parameters: []PolicyParameter{
				{Path: "gov.ssi.amount.individual", Type: BenefitAmount},
			}},
			"Supplemental Security Income",
		},
		{
			"medicaid",
			PolicyReform{Parameters: []PolicyParameter{
				{Path: "gov.hhs.medicaid.eligibility.age", Type: Eligibility},
			}},
			"Medicaid",
		},
		{
			"no code falls back to type",
			PolicyReform{Parameters: []PolicyParameter{
				{Path: "gov.irs.income.bracket.rates.2", Type: TaxRate},
			}},
			"Tax Rate Program",
		},
		{
			"no code and no type",
			PolicyReform{Parameters: []PolicyParameter{
				{Path: "gov.irs.income.bracket.rates.2"},
			}},
			"Government Program",
		},
		{
			"first parameter wins",
			PolicyReform{Parameters: []PolicyParameter{
				{Path: "gov.usda.snap.max_allotment", Type: BenefitAmount},
				{Path: "gov.irs.credits.ctc.amount.base[0].amount", Type: TaxCredit},
			}},
			"Supplemental Nutrition Assistance Program",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.reform.ProgramName(); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
