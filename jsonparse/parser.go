// Package jsonparse implements a recursive-descent parser that consumes a
// jsonlex token stream and produces a jsonvalue.Value tree, enforcing
// strict JSON grammar (RFC 8259, no comments, no trailing commas).
package jsonparse

import (
	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonlex"
	"github.com/lattice-substrate/json-codec/jsonvalue"
)

// DefaultMaxDepth bounds object/array nesting depth as a defense against
// pathological input; it is not part of RFC 8259 grammar enforcement.
const DefaultMaxDepth = 1000

// DefaultMaxInputSize bounds total input size in bytes.
const DefaultMaxInputSize = 64 * 1024 * 1024

// Options configures resource bounds for Parse. A zero Options uses the
// package defaults.
type Options struct {
	MaxDepth     int
	MaxInputSize int
}

func (o *Options) maxDepth() int {
	if o != nil && o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

func (o *Options) maxInputSize() int {
	if o != nil && o.MaxInputSize > 0 {
		return o.MaxInputSize
	}
	return DefaultMaxInputSize
}

type parser struct {
	lex      *jsonlex.Lexer
	cur      jsonlex.Token
	depth    int
	maxDepth int
}

// Parse parses a complete JSON text and returns the top-level value tree.
// After the top-level value, the next token must be EOF.
func Parse(data []byte) (jsonvalue.Value, error) {
	return ParseWithOptions(data, nil)
}

// ParseWithOptions is like Parse but accepts resource-bound configuration.
func ParseWithOptions(data []byte, opts *Options) (jsonvalue.Value, error) {
	if len(data) > opts.maxInputSize() {
		return jsonvalue.Null, jsonerr.New("Input size %d exceeds maximum %d", len(data), opts.maxInputSize())
	}

	p := &parser{lex: jsonlex.New(data), maxDepth: opts.maxDepth()}
	if err := p.advance(); err != nil {
		return jsonvalue.Null, err
	}

	v, err := p.parseValue()
	if err != nil {
		return jsonvalue.Null, err
	}

	if p.cur.Kind != jsonlex.EOF {
		return jsonvalue.Null, jsonerr.At(p.cur.Line, p.cur.Col,
			"Trailing characters after top-level value (token %s)", p.cur.Kind)
	}
	return v, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) pushDepth() error {
	p.depth++
	if p.depth > p.maxDepth {
		return jsonerr.At(p.cur.Line, p.cur.Col, "Nesting depth %d exceeds maximum %d", p.depth, p.maxDepth)
	}
	return nil
}

func (p *parser) popDepth() {
	p.depth--
}

func (p *parser) parseValue() (jsonvalue.Value, error) {
	switch p.cur.Kind {
	case jsonlex.LBRACE:
		return p.parseObject()
	case jsonlex.LBRACKET:
		return p.parseArray()
	case jsonlex.STRING:
		v := jsonvalue.Str(p.cur.Text)
		return v, p.advance()
	case jsonlex.NUMBER:
		v := jsonvalue.Num(jsonvalue.ParseNumberLexeme(p.cur.Text))
		return v, p.advance()
	case jsonlex.TRUE:
		return jsonvalue.Bool(true), p.advance()
	case jsonlex.FALSE:
		return jsonvalue.Bool(false), p.advance()
	case jsonlex.NULL:
		return jsonvalue.Null, p.advance()
	default:
		return jsonvalue.Null, jsonerr.At(p.cur.Line, p.cur.Col,
			"Unexpected token %s", p.cur.Kind)
	}
}

func (p *parser) parseObject() (jsonvalue.Value, error) {
	if err := p.pushDepth(); err != nil {
		return jsonvalue.Null, err
	}
	defer p.popDepth()

	if err := p.advance(); err != nil { // consume '{'
		return jsonvalue.Null, err
	}

	var members []jsonvalue.Member
	seen := map[string]int{}

	if p.cur.Kind == jsonlex.RBRACE {
		return jsonvalue.Object(members), p.advance()
	}

	for {
		if p.cur.Kind != jsonlex.STRING {
			return jsonvalue.Null, jsonerr.At(p.cur.Line, p.cur.Col,
				"Expected string as object key (token %s)", p.cur.Kind)
		}
		key := p.cur.Text
		if err := p.advance(); err != nil {
			return jsonvalue.Null, err
		}

		if p.cur.Kind != jsonlex.COLON {
			return jsonvalue.Null, jsonerr.At(p.cur.Line, p.cur.Col,
				"Expected ':' after object key (token %s)", p.cur.Kind)
		}
		if err := p.advance(); err != nil {
			return jsonvalue.Null, err
		}

		val, err := p.parseValue()
		if err != nil {
			return jsonvalue.Null, err
		}

		// Duplicate keys: last wins, insertion order of the first
		// occurrence is kept.
		if idx, ok := seen[key]; ok {
			members[idx].Value = val
		} else {
			seen[key] = len(members)
			members = append(members, jsonvalue.Member{Key: key, Value: val})
		}

		switch p.cur.Kind {
		case jsonlex.RBRACE:
			return jsonvalue.Object(members), p.advance()
		case jsonlex.COMMA:
			if err := p.advance(); err != nil {
				return jsonvalue.Null, err
			}
		default:
			return jsonvalue.Null, jsonerr.At(p.cur.Line, p.cur.Col,
				"Expected ',' or '}' in object (token %s)", p.cur.Kind)
		}
	}
}

func (p *parser) parseArray() (jsonvalue.Value, error) {
	if err := p.pushDepth(); err != nil {
		return jsonvalue.Null, err
	}
	defer p.popDepth()

	if err := p.advance(); err != nil { // consume '['
		return jsonvalue.Null, err
	}

	var elems []jsonvalue.Value
	if p.cur.Kind == jsonlex.RBRACKET {
		return jsonvalue.Array(elems), p.advance()
	}

	for {
		v, err := p.parseValue()
		if err != nil {
			return jsonvalue.Null, err
		}
		elems = append(elems, v)

		switch p.cur.Kind {
		case jsonlex.RBRACKET:
			return jsonvalue.Array(elems), p.advance()
		case jsonlex.COMMA:
			if err := p.advance(); err != nil {
				return jsonvalue.Null, err
			}
		default:
			return jsonvalue.Null, jsonerr.At(p.cur.Line, p.cur.Col,
				"Expected ',' or ']' in array (token %s)", p.cur.Kind)
		}
	}
}
