package extract

import (
	"fmt"
	"strings"
)

// parseDictLiteral is the strict tier: a recursive-descent parse of a
// two-level dict literal {string: {string: scalar}}. It accepts single- or
// double-quoted strings, signed integer and float tokens (exponent forms
// included), bare identifiers such as True/False/None (kept as text), and
// trailing commas. Any structural deviation is an error; the caller falls
// back to the pattern scanner instead of accepting a partial result.
func parseDictLiteral(span string) (RawReform, error) {
	p := &literalParser{src: span}
	p.skipSpace()
	raw, err := p.parseOuterDict()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.atEnd() {
		return nil, p.errorf("unexpected trailing text after literal")
	}
	return raw, nil
}

// literalParser is a cursor over the literal span.
type literalParser struct {
	src string
	pos int
}

func (p *literalParser) atEnd() bool { return p.pos >= len(p.src) }

func (p *literalParser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *literalParser) skipSpace() {
	for !p.atEnd() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return p.errorf("expected %q, found %q", string(c), string(p.peek()))
	}
	p.pos++
	return nil
}

func (p *literalParser) parseOuterDict() (RawReform, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var raw RawReform
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return raw, nil
		}
		path, err := p.parseString()
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		entries, err := p.parseInnerDict()
		if err != nil {
			return nil, err
		}
		raw = append(raw, ParameterChange{Path: path, Entries: entries})

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			// Closing brace handled on the next loop pass.
		default:
			return nil, p.errorf("expected ',' or '}' after entry")
		}
	}
}

func (p *literalParser) parseInnerDict() ([]ChangeEntry, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var entries []ChangeEntry
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return entries, nil
		}
		rangeKey, err := p.parseString()
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		value, err := p.parseScalar()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ChangeEntry{RangeKey: rangeKey, Value: value})

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			// Closing brace handled on the next loop pass.
		default:
			return nil, p.errorf("expected ',' or '}' after entry")
		}
	}
}

// parseString reads a single- or double-quoted string with backslash escapes.
func (p *literalParser) parseString() (string, error) {
	p.skipSpace()
	quote := p.peek()
	if quote != '\'' && quote != '"' {
		return "", p.errorf("expected quoted string, found %q", string(quote))
	}
	p.pos++
	var b strings.Builder
	for !p.atEnd() {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.atEnd() {
				return "", p.errorf("unterminated escape")
			}
			b.WriteByte(p.src[p.pos])
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

// parseScalar reads a quoted string, a numeric token, or a bare identifier.
func (p *literalParser) parseScalar() (Value, error) {
	p.skipSpace()
	c := p.peek()

	if c == '\'' || c == '"' {
		s, err := p.parseString()
		if err != nil {
			return Value{}, err
		}
		return TextValue(s), nil
	}

	start := p.pos
	if c == '+' || c == '-' || isDigit(c) || c == '.' {
		p.pos++
		for !p.atEnd() && isNumberByte(p.src[p.pos]) {
			p.pos++
		}
		token := p.src[start:p.pos]
		v := CoerceScalar(token)
		if !v.IsNumeric() {
			return Value{}, p.errorf("malformed number %q", token)
		}
		return v, nil
	}

	if isIdentByte(c) {
		p.pos++
		for !p.atEnd() && isIdentByte(p.src[p.pos]) {
			p.pos++
		}
		// True/False/None and any other bare word survive as text.
		return TextValue(p.src[start:p.pos]), nil
	}

	return Value{}, p.errorf("expected scalar value, found %q", string(c))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNumberByte(c byte) bool {
	return isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' || c == '_'
}

func isIdentByte(c byte) bool {
	return c == '_' || isDigit(c) ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
