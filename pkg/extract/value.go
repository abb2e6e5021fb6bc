package extract

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValueKind discriminates the scalar variants a reform literal can carry.
type ValueKind int

const (
	// ValueInt is a signed integer scalar.
	ValueInt ValueKind = iota
	// ValueFloat is a floating-point scalar.
	ValueFloat
	// ValueText is any non-numeric scalar, stored verbatim.
	ValueText
)

// Value is a tagged scalar recovered from a reform literal. Reform values
// are heterogeneous (dollar amounts, rates, enum strings), so the parser
// records which syntactic shape each one had instead of collapsing
// everything to a string or a float64.
type Value struct {
	kind     ValueKind
	intVal   int64
	floatVal float64
	textVal  string
}

// IntValue returns an integer Value.
func IntValue(v int64) Value { return Value{kind: ValueInt, intVal: v} }

// FloatValue returns a floating-point Value.
func FloatValue(v float64) Value { return Value{kind: ValueFloat, floatVal: v} }

// TextValue returns a text Value.
func TextValue(v string) Value { return Value{kind: ValueText, textVal: v} }

// Kind reports which variant the value holds.
func (v Value) Kind() ValueKind { return v.kind }

// Int returns the integer payload. Zero for non-integer values.
func (v Value) Int() int64 { return v.intVal }

// Float returns the floating-point payload. Zero for non-float values.
func (v Value) Float() float64 { return v.floatVal }

// Text returns the text payload. Empty for numeric values.
func (v Value) Text() string { return v.textVal }

// IsNumeric reports whether the value is an integer or a float.
func (v Value) IsNumeric() bool { return v.kind == ValueInt || v.kind == ValueFloat }

// Number returns the numeric payload as a float64. Zero for text values.
func (v Value) Number() float64 {
	switch v.kind {
	case ValueInt:
		return float64(v.intVal)
	case ValueFloat:
		return v.floatVal
	}
	return 0
}

// String renders the scalar the way it would appear in a literal.
func (v Value) String() string {
	switch v.kind {
	case ValueInt:
		return strconv.FormatInt(v.intVal, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 64)
	}
	return v.textVal
}

// MarshalJSON emits the underlying scalar, not the tagged wrapper.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueInt:
		return json.Marshal(v.intVal)
	case ValueFloat:
		return json.Marshal(v.floatVal)
	}
	return json.Marshal(v.textVal)
}

// CoerceScalar converts a raw token into a typed Value by its syntactic
// shape: integer-looking tokens become ValueInt, decimal-looking tokens
// become ValueFloat, everything else is kept as ValueText. A token wrapped
// in matching single or double quotes is unwrapped and always treated as
// text, so quoted digits stay strings.
func CoerceScalar(token string) Value {
	token = strings.TrimSpace(token)

	if len(token) >= 2 {
		first, last := token[0], token[len(token)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return TextValue(token[1 : len(token)-1])
		}
	}

	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return FloatValue(f)
	}
	return TextValue(token)
}
