package flow

import (
	"fmt"
	"strings"
)

// ParseCondition parses a boolean trigger expression into a canonical
// Condition tree.
//
// Supported grammar:
//
//	<expr> ::= <or>
//	<or>   ::= <and> ( "||" <and> )*
//	<and>  ::= <atom> ( "&&" <atom> )*
//	<atom> ::= "(" <expr> ")" | <name>
//	<name> ::= alphanumeric + _ + .
//
// A single name parses to a leaf; chains collapse into one AND/OR node per
// operator level, so "a && b && c" is And(a, b, c).
func ParseCondition(expr string) (*Condition, error) {
	p := &exprParser{input: strings.TrimSpace(expr)}
	cond, err := p.parseOr()
	if err != nil {
		return nil, fmt.Errorf("condition %q: %w", expr, err)
	}
	p.skipWS()
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("condition %q: unexpected input at pos %d", expr, p.pos)
	}
	return cond, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) peek() string {
	if p.pos >= len(p.input) {
		return ""
	}
	return p.input[p.pos:]
}

func (p *exprParser) skipWS() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) parseOr() (*Condition, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	children := []*Condition{left}
	for {
		p.skipWS()
		if !strings.HasPrefix(p.peek(), "||") {
			break
		}
		p.pos += 2
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}
	if len(children) == 1 {
		return left, nil
	}
	return &Condition{Kind: ConditionOr, Children: children}, nil
}

func (p *exprParser) parseAnd() (*Condition, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	children := []*Condition{left}
	for {
		p.skipWS()
		if !strings.HasPrefix(p.peek(), "&&") {
			break
		}
		p.pos += 2
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}
	if len(children) == 1 {
		return left, nil
	}
	return &Condition{Kind: ConditionAnd, Children: children}, nil
}

func (p *exprParser) parseAtom() (*Condition, error) {
	p.skipWS()
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	if p.input[p.pos] == '(' {
		p.pos++
		cond, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return nil, fmt.Errorf("expected ')'")
		}
		p.pos++
		return cond, nil
	}
	name := p.parseName()
	if name == "" {
		return nil, fmt.Errorf("expected identifier at pos %d in %q", p.pos, p.input)
	}
	return MethodRef(name), nil
}

func (p *exprParser) parseName() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' || c == '.' {
			p.pos++
		} else {
			break
		}
	}
	return p.input[start:p.pos]
}

// isExpression reports whether a raw string trigger should be parsed as a
// boolean expression rather than taken as a bare step name.
func isExpression(s string) bool {
	return strings.ContainsAny(s, "()") || strings.Contains(s, "&&") || strings.Contains(s, "||")
}
