// Package expr evaluates the arithmetic grammar inside a Hyprlang
// `{{ ... }}` expression span (spec §4.3): infix +, -, *, /, unary -,
// parenthesization, and integer/float numeric literals. By the time a span
// reaches this package, variable references inside it have already been
// substituted to raw text by internal/varsub, so this evaluator only ever
// sees numbers and operators — the recursive-descent shape mirrors the
// small hand-rolled parsers throughout the example pack (see DESIGN.md).
package expr

import (
	"strconv"
	"strings"

	"github.com/hyprlang-go/hyprlang/pkg/herr"
)

// Num is the numeric result of evaluating an expression: the widest kind
// among its operands, per spec invariant 3 (any float operand makes the
// whole expression a float).
type Num struct {
	Float bool
	I     int64
	F     float64
}

// AsFloat widens an integer Num to float64 without losing a float Num's
// value.
func (n Num) AsFloat() float64 {
	if n.Float {
		return n.F
	}
	return float64(n.I)
}

// Raw renders n back to text the way the binder stores a resolved
// expression result.
func (n Num) Raw() string {
	if n.Float {
		s := strconv.FormatFloat(n.F, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return strconv.FormatInt(n.I, 10)
}

// ExpandSpans replaces every `{{ ... }}` span in text with the decimal text
// of its evaluated result (spec §4.1 "Expression span", §4.6: "the stored
// string is already the final numeric text"). Variable references must
// already be substituted before text reaches here — see internal/varsub.
// Unterminated spans are left untouched.
func ExpandSpans(text string, loc herr.Location) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	var sb strings.Builder
	i, n := 0, len(text)
	for i < n {
		start := strings.Index(text[i:], "{{")
		if start < 0 {
			sb.WriteString(text[i:])
			break
		}
		start += i
		sb.WriteString(text[i:start])
		end := strings.Index(text[start+2:], "}}")
		if end < 0 {
			sb.WriteString(text[start:])
			break
		}
		end += start + 2
		inner := text[start+2 : end]
		num, err := Evaluate(inner, loc)
		if err != nil {
			return "", err
		}
		sb.WriteString(num.Raw())
		i = end + 2
	}
	return sb.String(), nil
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	num  Num
}

// Evaluate parses and evaluates src as a standalone arithmetic expression,
// as found inside a `{{ ... }}` span.
func Evaluate(src string, loc herr.Location) (Num, error) {
	toks, err := tokenize(src, loc)
	if err != nil {
		return Num{}, err
	}
	p := &parser{toks: toks, loc: loc}
	n, err := p.parseExpr()
	if err != nil {
		return Num{}, err
	}
	if p.peek().kind != tokEOF {
		return Num{}, herr.NewEval(herr.UnexpectedToken, loc, "unexpected trailing input in expression %q", src)
	}
	return n, nil
}

func tokenize(src string, loc herr.Location) ([]token, error) {
	var toks []token
	i, n := 0, len(src)
	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus})
			i++
		case c == '*':
			toks = append(toks, token{kind: tokStar})
			i++
		case c == '/':
			toks = append(toks, token{kind: tokSlash})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen})
			i++
		case isDigit(c) || (c == '.' && i+1 < n && isDigit(src[i+1])):
			j := i
			isFloat := false
			for j < n && (isDigit(src[j]) || src[j] == '.') {
				if src[j] == '.' {
					isFloat = true
				}
				j++
			}
			text := src[i:j]
			num, err := parseNumberLiteral(text, isFloat, loc)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokNumber, num: num})
			i = j
		default:
			return nil, herr.NewEval(herr.NonNumeric, loc, "unexpected character %q in expression", string(c))
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

func parseNumberLiteral(text string, isFloat bool, loc herr.Location) (Num, error) {
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Num{}, herr.NewEval(herr.NonNumeric, loc, "invalid numeric literal %q", text)
		}
		return Num{Float: true, F: f}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Num{}, herr.NewEval(herr.NonNumeric, loc, "invalid numeric literal %q", text)
	}
	return Num{I: n}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

type parser struct {
	toks []token
	pos  int
	loc  herr.Location
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// parseExpr := term (('+'|'-') term)*
func (p *parser) parseExpr() (Num, error) {
	left, err := p.parseTerm()
	if err != nil {
		return Num{}, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.advance()
			right, err := p.parseTerm()
			if err != nil {
				return Num{}, err
			}
			left = add(left, right)
		case tokMinus:
			p.advance()
			right, err := p.parseTerm()
			if err != nil {
				return Num{}, err
			}
			left = sub(left, right)
		default:
			return left, nil
		}
	}
}

// parseTerm := unary (('*'|'/') unary)*
func (p *parser) parseTerm() (Num, error) {
	left, err := p.parseUnary()
	if err != nil {
		return Num{}, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return Num{}, err
			}
			left = mul(left, right)
		case tokSlash:
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return Num{}, err
			}
			left, err = div(left, right, p.loc)
			if err != nil {
				return Num{}, err
			}
		default:
			return left, nil
		}
	}
}

// parseUnary := '-' unary | primary
func (p *parser) parseUnary() (Num, error) {
	if p.peek().kind == tokMinus {
		p.advance()
		n, err := p.parseUnary()
		if err != nil {
			return Num{}, err
		}
		return neg(n), nil
	}
	return p.parsePrimary()
}

// parsePrimary := number | '(' expr ')'
func (p *parser) parsePrimary() (Num, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.advance()
		return t.num, nil
	case tokLParen:
		p.advance()
		n, err := p.parseExpr()
		if err != nil {
			return Num{}, err
		}
		if p.peek().kind != tokRParen {
			return Num{}, herr.NewEval(herr.UnexpectedToken, p.loc, "missing closing parenthesis")
		}
		p.advance()
		return n, nil
	default:
		return Num{}, herr.NewEval(herr.UnexpectedToken, p.loc, "expected a number or '('")
	}
}

func add(a, b Num) Num {
	if a.Float || b.Float {
		return Num{Float: true, F: a.AsFloat() + b.AsFloat()}
	}
	return Num{I: a.I + b.I}
}

func sub(a, b Num) Num {
	if a.Float || b.Float {
		return Num{Float: true, F: a.AsFloat() - b.AsFloat()}
	}
	return Num{I: a.I - b.I}
}

func mul(a, b Num) Num {
	if a.Float || b.Float {
		return Num{Float: true, F: a.AsFloat() * b.AsFloat()}
	}
	return Num{I: a.I * b.I}
}

// div implements spec §4.3: integer division truncates toward zero (Go's
// native '/' on signed integers already does this); any float operand
// promotes the result to float. Division by zero is always an error,
// regardless of operand kind.
func div(a, b Num, loc herr.Location) (Num, error) {
	if a.Float || b.Float {
		if b.AsFloat() == 0 {
			return Num{}, herr.NewEval(herr.DivByZero, loc, "division by zero")
		}
		return Num{Float: true, F: a.AsFloat() / b.AsFloat()}, nil
	}
	if b.I == 0 {
		return Num{}, herr.NewEval(herr.DivByZero, loc, "division by zero")
	}
	return Num{I: a.I / b.I}, nil
}

func neg(n Num) Num {
	if n.Float {
		return Num{Float: true, F: -n.F}
	}
	return Num{I: -n.I}
}
