package extract

import (
	"errors"
	"strings"
	"testing"
)

const ctcReformCode = `
from policyengine_us import Simulation
from policyengine_core.reforms import Reform

reform = Reform.from_dict({
    "gov.irs.credits.ctc.amount.base[0].amount": {
        "2025-01-01.2100-12-31": 2500
    }
}, country_id="us")
`

func TestExtractReformSingleParameter(t *testing.T) {
	raw, err := ExtractReform(ctcReformCode)
	if err != nil {
		t.Fatalf("ExtractReform failed: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("Expected 1 parameter, got %d", len(raw))
	}
	param := raw[0]
	if param.Path != "gov.irs.credits.ctc.amount.base[0].amount" {
		t.Errorf("Unexpected path: %q", param.Path)
	}
	if len(param.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(param.Entries))
	}
	entry := param.Entries[0]
	if entry.RangeKey != "2025-01-01.2100-12-31" {
		t.Errorf("Unexpected range key: %q", entry.RangeKey)
	}
	if entry.Value.Kind() != ValueInt || entry.Value.Int() != 2500 {
		t.Errorf("Unexpected value: %v", entry.Value)
	}
}

func TestExtractReformPreservesParameterOrder(t *testing.T) {
	code := `reform = Reform.from_dict({
		"gov.irs.income.bracket.rates.2": {"2026-01-01.2026-12-31": 0.28},
		"gov.usda.snap.max_allotment": {"2026-01-01.2100-12-31": 1100},
		"gov.irs.deductions.standard.amount.single": {"2026-01-01.2100-12-31": 15000},
	}, country_id="us")`

	raw, err := ExtractReform(code)
	if err != nil {
		t.Fatalf("ExtractReform failed: %v", err)
	}
	expected := []string{
		"gov.irs.income.bracket.rates.2",
		"gov.usda.snap.max_allotment",
		"gov.irs.deductions.standard.amount.single",
	}
	if len(raw) != len(expected) {
		t.Fatalf("Expected %d parameters, got %d", len(expected), len(raw))
	}
	for i, path := range expected {
		if raw[i].Path != path {
			t.Errorf("Parameter %d: expected %q, got %q", i, path, raw[i].Path)
		}
	}
}

func TestExtractReformStrictGrammar(t *testing.T) {
	cases := []struct {
		name  string
		code  string
		path  string
		value Value
	}{
		{
			"single quotes",
			`Reform.from_dict({'gov.irs.credits.eitc.max[0].amount': {'2025-01-01.2100-12-31': 632}}, country_id="us")`,
			"gov.irs.credits.eitc.max[0].amount",
			IntValue(632),
		},
		{
			"float value",
			`Reform.from_dict({"gov.irs.income.bracket.rates.1": {"2025-01-01.2100-12-31": 0.12}}, country_id="us")`,
			"gov.irs.income.bracket.rates.1",
			FloatValue(0.12),
		},
		{
			"negative value",
			`Reform.from_dict({"gov.irs.credits.offset": {"2025-01-01.2100-12-31": -500}}, country_id="us")`,
			"gov.irs.credits.offset",
			IntValue(-500),
		},
		{
			"string value",
			`Reform.from_dict({"gov.usda.snap.status": {"2025-01-01.2100-12-31": "abolished"}}, country_id="us")`,
			"gov.usda.snap.status",
			TextValue("abolished"),
		},
		{
			"bare identifier value",
			`Reform.from_dict({"gov.hhs.tanf.enabled": {"2025-01-01.2100-12-31": True}}, country_id="us")`,
			"gov.hhs.tanf.enabled",
			TextValue("True"),
		},
		{
			"trailing commas",
			`Reform.from_dict({"gov.dol.minimum_wage": {"2025-01-01.2100-12-31": 15,},}, country_id="us")`,
			"gov.dol.minimum_wage",
			IntValue(15),
		},
		{
			"no country_id keyword",
			`Reform.from_dict({"gov.irs.credits.ctc.amount.base[0].amount": {"2025-01-01.2100-12-31": 2500}})`,
			"gov.irs.credits.ctc.amount.base[0].amount",
			IntValue(2500),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := ExtractReform(tc.code)
			if err != nil {
				t.Fatalf("ExtractReform failed: %v", err)
			}
			if len(raw) != 1 || len(raw[0].Entries) != 1 {
				t.Fatalf("Expected 1 parameter with 1 entry, got %+v", raw)
			}
			if raw[0].Path != tc.path {
				t.Errorf("Expected path %q, got %q", tc.path, raw[0].Path)
			}
			if raw[0].Entries[0].Value != tc.value {
				t.Errorf("Expected value %v, got %v", tc.value, raw[0].Entries[0].Value)
			}
		})
	}
}

func TestExtractReformFallbackOnBrokenLiteral(t *testing.T) {
	// The list value breaks the strict two-level grammar; the pattern
	// scanner still recovers the date-keyed entries.
	code := `reform = Reform.from_dict({
		"gov.irs.credits.ctc.amount.base[0].amount": {"2025-01-01.2100-12-31": 2500},
		"gov.irs.credits.ctc.phase_out.rate": [0.05, 0.07],
		"gov.usda.snap.max_allotment": {"2026-01-01.2100-12-31": 1100}
	}, country_id="us")`

	raw, err := ExtractReform(code)
	if err != nil {
		t.Fatalf("Expected fallback recovery, got error: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("Expected 2 recovered parameters, got %d", len(raw))
	}
	if raw[0].Path != "gov.irs.credits.ctc.amount.base[0].amount" {
		t.Errorf("Unexpected first path: %q", raw[0].Path)
	}
	if raw[0].Entries[0].Value.Int() != 2500 {
		t.Errorf("Unexpected first value: %v", raw[0].Entries[0].Value)
	}
	if raw[1].Path != "gov.usda.snap.max_allotment" {
		t.Errorf("Unexpected second path: %q", raw[1].Path)
	}
}

func TestExtractReformErrors(t *testing.T) {
	cases := []struct {
		name string
		code string
	}{
		{"no factory call", `simulation = Simulation(situation=household)`},
		{"marker without call", `Reform.from_dict`},
		{"unterminated call", `Reform.from_dict({"gov.x": {"2025-01-01.2100-12-31": 1}`},
		{"nothing recoverable", `Reform.from_dict(reform_dict, country_id="us")`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractReform(tc.code)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			var extractErr *ExtractError
			if !errors.As(err, &extractErr) {
				t.Fatalf("Expected *ExtractError, got %T: %v", err, err)
			}
			if extractErr.Reason == "" {
				t.Error("ExtractError should carry a reason")
			}
		})
	}
}

func TestExtractErrorSnippetIsBounded(t *testing.T) {
	_, err := ExtractReform(strings.Repeat("x", 5000))
	var extractErr *ExtractError
	if !errors.As(err, &extractErr) {
		t.Fatalf("Expected *ExtractError, got %T", err)
	}
	if len(extractErr.Snippet) > snippetLimit+3 {
		t.Errorf("Snippet not bounded: %d bytes", len(extractErr.Snippet))
	}
}
