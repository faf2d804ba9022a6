package filter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse converts the portable surface grammar into an expression tree.
//
//	expr    = orExpr
//	orExpr  = andExpr { "||" andExpr }
//	andExpr = unary { "&&" unary }
//	unary   = "(" expr ")" | ident op value | ident "in" "[" list "]"
//	op      = "=" | "==" | ">=" | "<=" | ">" | "<"
//	value   = number | "'" chars "'" | `"` chars `"`
//
// "&&" binds tighter than "||".
func Parse(input string) (Expression, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, fmt.Errorf("unexpected %q at end of filter", p.peek().text)
	}
	return expr, nil
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokString
	tokOp     // = == >= <= > <
	tokAnd    // &&
	tokOr     // ||
	tokLParen // (
	tokRParen // )
	tokLBrack // [
	tokRBrack // ]
	tokComma  // ,
)

type token struct {
	kind tokenKind
	text string
}

func lex(input string) ([]token, error) {
	var toks []token
	rs := []rune(input)
	i := 0

	for i < len(rs) {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case r == '[':
			toks = append(toks, token{tokLBrack, "["})
			i++
		case r == ']':
			toks = append(toks, token{tokRBrack, "]"})
			i++
		case r == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case r == '&':
			if i+1 >= len(rs) || rs[i+1] != '&' {
				return nil, fmt.Errorf("lone '&' at offset %d (want \"&&\")", i)
			}
			toks = append(toks, token{tokAnd, "&&"})
			i += 2
		case r == '|':
			if i+1 >= len(rs) || rs[i+1] != '|' {
				return nil, fmt.Errorf("lone '|' at offset %d (want \"||\")", i)
			}
			toks = append(toks, token{tokOr, "||"})
			i += 2
		case r == '=':
			if i+1 < len(rs) && rs[i+1] == '=' {
				i++
			}
			toks = append(toks, token{tokOp, "="})
			i++
		case r == '>' || r == '<':
			op := string(r)
			if i+1 < len(rs) && rs[i+1] == '=' {
				op += "="
				i++
			}
			toks = append(toks, token{tokOp, op})
			i++
		case r == '\'' || r == '"':
			quote := r
			j := i + 1
			var sb strings.Builder
			for j < len(rs) && rs[j] != quote {
				sb.WriteRune(rs[j])
				j++
			}
			if j >= len(rs) {
				return nil, fmt.Errorf("unterminated string at offset %d", i)
			}
			toks = append(toks, token{tokString, sb.String()})
			i = j + 1
		case unicode.IsDigit(r) || r == '-' || r == '.':
			j := i
			if rs[j] == '-' {
				j++
			}
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			text := string(rs[i:j])
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				return nil, fmt.Errorf("bad number %q at offset %d", text, i)
			}
			toks = append(toks, token{tokNumber, text})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			toks = append(toks, token{tokIdent, string(rs[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", r, i)
		}
	}

	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token {
	if p.eof() {
		return token{}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.eof() || p.peek().kind != kind {
		got := "end of filter"
		if !p.eof() {
			got = fmt.Sprintf("%q", p.peek().text)
		}
		return token{}, fmt.Errorf("expected %s, got %s", what, got)
	}
	return p.next(), nil
}

func (p *parser) parseOr() (Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for !p.eof() && p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left, err = NewOr(left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for !p.eof() && p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left, err = NewAnd(left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expression, error) {
	if p.eof() {
		return nil, fmt.Errorf("unexpected end of filter")
	}

	if p.peek().kind == tokLParen {
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "\")\""); err != nil {
			return nil, err
		}
		return NewGroup(inner)
	}

	key, err := p.expect(tokIdent, "field name")
	if err != nil {
		return nil, err
	}

	// "in" membership
	if !p.eof() && p.peek().kind == tokIdent && p.peek().text == "in" {
		p.next()
		return p.parseMembership(key.text)
	}

	op, err := p.expect(tokOp, "comparison operator")
	if err != nil {
		return nil, err
	}

	val := p.next()
	switch val.kind {
	case tokString:
		return NewComparison(key.text, Op(op.text), val.text)
	case tokNumber:
		n, perr := strconv.ParseFloat(val.text, 64)
		if perr != nil {
			return nil, fmt.Errorf("bad number %q: %w", val.text, perr)
		}
		return NewComparison(key.text, Op(op.text), n)
	case tokIdent:
		// Bare words are accepted as string values (country = UK).
		return NewComparison(key.text, Op(op.text), val.text)
	default:
		return nil, fmt.Errorf("expected value after %q %s", key.text, op.text)
	}
}

func (p *parser) parseMembership(key string) (Expression, error) {
	if _, err := p.expect(tokLBrack, "\"[\""); err != nil {
		return nil, err
	}

	var values []string
	for {
		t := p.next()
		switch t.kind {
		case tokString, tokIdent, tokNumber:
			values = append(values, t.text)
		default:
			return nil, fmt.Errorf("expected membership value for %q, got %q", key, t.text)
		}
		if p.eof() {
			return nil, fmt.Errorf("unterminated membership list for %q", key)
		}
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		break
	}

	if _, err := p.expect(tokRBrack, "\"]\""); err != nil {
		return nil, err
	}
	return NewMembership(key, values...)
}
