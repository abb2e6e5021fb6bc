// Package extract recovers policy-reform mappings from source code that
// embeds a PolicyEngine-style reform literal. The literal is a two-level
// dictionary of {parameter path: {date range: scalar}} passed to a
// Reform.from_dict(...) factory call. Extraction is layered: a strict
// literal parser runs first, and a permissive pattern scanner recovers
// what it can when the literal is syntactically broken.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// factoryMarker identifies the reform factory call in the source text.
const factoryMarker = "Reform.from_dict"

// snippetLimit bounds the amount of offending text carried in an ExtractError.
const snippetLimit = 80

// ChangeEntry is one date-range key and its scalar value, in source order.
type ChangeEntry struct {
	RangeKey string `json:"date_range"`
	Value    Value  `json:"value"`
}

// ParameterChange is one entry of the reform mapping: a parameter path and
// its ordered date-range entries.
type ParameterChange struct {
	Path    string        `json:"path"`
	Entries []ChangeEntry `json:"entries"`
}

// RawReform is the recovered reform mapping. It is a slice rather than a
// map because the order of parameters in the literal is meaningful: the
// first parameter is the reform's primary parameter downstream.
type RawReform []ParameterChange

// ExtractError reports a failed extraction along with a bounded snippet of
// the text that could not be processed.
type ExtractError struct {
	Reason  string
	Snippet string
}

func (e *ExtractError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("reform extraction failed: %s", e.Reason)
	}
	return fmt.Sprintf("reform extraction failed: %s (near %q)", e.Reason, e.Snippet)
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > snippetLimit {
		return s[:snippetLimit] + "..."
	}
	return s
}

// countryIDRe matches the keyword argument that terminates the reform
// literal inside the factory call.
var countryIDRe = regexp.MustCompile(`,\s*country_id`)

// ExtractReform recovers the reform mapping from source code.
//
// The strategy is layered, first success wins:
//  1. locate the Reform.from_dict( call and take the span up to the
//     country_id keyword, or up to the matching close parenthesis when no
//     keyword is present;
//  2. parse the span as a strict two-level dict literal;
//  3. on strict-parse failure, scan the span for "key": {...} blocks and
//     "range": value pairs.
//
// The fallback operates on the whole span: either the mapping is recovered
// (possibly with fewer entries than the author intended) or the call fails
// with *ExtractError. There is no per-parameter partial failure.
func ExtractReform(source string) (RawReform, error) {
	span, err := callSpan(source)
	if err != nil {
		return nil, err
	}

	raw, strictErr := parseDictLiteral(span)
	if strictErr == nil {
		return raw, nil
	}

	raw = scanDictBlocks(span)
	if len(raw) == 0 {
		return nil, &ExtractError{
			Reason:  fmt.Sprintf("reform literal is not parseable: %v", strictErr),
			Snippet: snippet(span),
		}
	}
	return raw, nil
}

// callSpan returns the substring of source holding the reform literal.
func callSpan(source string) (string, error) {
	idx := strings.Index(source, factoryMarker)
	if idx < 0 {
		return "", &ExtractError{
			Reason:  "no " + factoryMarker + "() call found",
			Snippet: snippet(source),
		}
	}

	rest := source[idx+len(factoryMarker):]
	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return "", &ExtractError{
			Reason:  factoryMarker + " is not followed by a call",
			Snippet: snippet(rest),
		}
	}
	body := rest[open+1:]

	// The country_id keyword, when present, bounds the literal.
	if loc := countryIDRe.FindStringIndex(body); loc != nil {
		return body[:loc[0]], nil
	}

	// Otherwise scan for the parenthesis closing the call, skipping
	// parentheses inside string literals.
	depth := 1
	inString := byte(0)
	for i := 0; i < len(body); i++ {
		c := body[i]
		if inString != 0 {
			if c == '\\' {
				i++
			} else if c == inString {
				inString = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			inString = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return body[:i], nil
			}
		}
	}
	return "", &ExtractError{
		Reason:  "unterminated " + factoryMarker + "() call",
		Snippet: snippet(body),
	}
}

// blockRe matches one "path": { ... } block of a broken literal. The inner
// braces are non-nested by construction: reform literals are exactly two
// levels deep.
var blockRe = regexp.MustCompile(`"([^"]+)"\s*:\s*\{([^{}]*)\}`)

// pairRe matches one "date-range": value pair inside a block. Values are
// quoted strings, numeric tokens, or bare identifiers.
var pairRe = regexp.MustCompile(`"([^"]+)"\s*:\s*("[^"]*"|'[^']*'|[-+]?[0-9][0-9_.eE+-]*|[A-Za-z_][A-Za-z0-9_]*)`)

// scanDictBlocks is the permissive recovery tier. It extracts whatever
// well-shaped blocks and pairs it can find in the span, coercing value
// tokens with CoerceScalar. Blocks yielding no pairs are dropped.
func scanDictBlocks(span string) RawReform {
	var raw RawReform
	for _, block := range blockRe.FindAllStringSubmatch(span, -1) {
		path, inner := block[1], block[2]
		var entries []ChangeEntry
		for _, pair := range pairRe.FindAllStringSubmatch(inner, -1) {
			entries = append(entries, ChangeEntry{
				RangeKey: pair[1],
				Value:    CoerceScalar(pair[2]),
			})
		}
		if len(entries) == 0 {
			continue
		}
		raw = append(raw, ParameterChange{Path: path, Entries: entries})
	}
	return raw
}
