package omnisearch

import (
	"fmt"
	"strings"
)

// MaxDepth bounds how deeply groups and negations may nest. Anything deeper
// degrades to a bare term.
const MaxDepth = 4096

// Parser builds an expression tree from query tokens.
//
// Precedence from highest to lowest is ~, &, |; parentheses override it and
// binary operators associate to the left. Malformed input is never an error:
// problems are collected as diagnostics and the offending part degrades to a
// bare term or is dropped.
type Parser struct {
	input  string
	tokens []Token
	pos    int
	fields FieldSet
	errors []string
	depth  int
	cut    bool
}

// NewParser creates a parser for input. fields is used to tell configured
// field names apart from names carrying a raw lookup suffix; it may be nil.
func NewParser(input string, fields FieldSet) *Parser {
	return &Parser{
		input:  input,
		tokens: Tokenize(input),
		fields: fields,
	}
}

// Parse parses a query. The returned node is nil when the query holds no
// leaf at all.
func Parse(input string, fields FieldSet) (Node, []string) {
	p := NewParser(input, fields)
	root := p.Parse()
	return root, p.Errors()
}

// Parse returns the expression tree.
func (p *Parser) Parse() Node {
	root := p.parseOr()

	if tok, ok := p.peek(); ok {
		p.errorf("Unbalanced grouping: unexpected '%s' at offset %d", tok.Text, tok.Pos)
		rest := strings.Trim(p.input[tok.Pos:], "&|~() \t\r\n")
		if rest != "" {
			root = joinAnd(root, &Leaf{Term: rest, Text: rest})
		}
		p.pos = len(p.tokens)
	}

	return root
}

// Errors returns diagnostics collected while parsing.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) parseOr() Node {
	left := p.parseAnd()
	for p.match(TokenOr) {
		op := p.tokens[p.pos-1]
		right := p.parseAnd()
		left = p.combine(op, left, right, func(l, r Node) Node { return &Or{Left: l, Right: r} })
	}
	return left
}

func (p *Parser) parseAnd() Node {
	left := p.parseNot()
	for p.match(TokenAnd) {
		op := p.tokens[p.pos-1]
		right := p.parseNot()
		left = p.combine(op, left, right, joinAnd)
	}
	return left
}

func (p *Parser) parseNot() Node {
	if tok, ok := p.peek(); ok && tok.Kind == TokenNot {
		if p.depth >= MaxDepth {
			return p.truncate(tok)
		}
		p.pos++
		p.depth++
		child := p.parseNot()
		p.depth--
		if child == nil {
			if !p.cut {
				p.errorf("Missing operand for '%s' at offset %d", tok.Text, tok.Pos)
			}
			return nil
		}
		return &Not{Child: child}
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() Node {
	tok, ok := p.peek()
	if !ok {
		return nil
	}

	switch tok.Kind {
	case TokenLParen:
		if p.depth >= MaxDepth {
			return p.truncate(tok)
		}
		p.pos++
		p.depth++
		inner := p.parseOr()
		p.depth--
		if !p.match(TokenRParen) && !p.cut {
			p.errorf("Unbalanced grouping: missing ')' for '(' at offset %d", tok.Pos)
		}
		if inner == nil && !p.cut {
			p.errorf("Empty group at offset %d", tok.Pos)
		}
		return inner
	case TokenFieldExpr:
		p.pos++
		return newLeaf(tok.Text, p.fields)
	default:
		return nil
	}
}

// truncate turns everything from tok onward into one bare term.
func (p *Parser) truncate(tok Token) Node {
	p.errorf("Nesting deeper than %d at offset %d", MaxDepth, tok.Pos)
	p.cut = true
	p.pos = len(p.tokens)

	rest := strings.Trim(p.input[tok.Pos:], "&|~() \t\r\n")
	if rest == "" {
		return nil
	}
	return &Leaf{Term: rest, Text: rest}
}

func (p *Parser) combine(op Token, left, right Node, join func(l, r Node) Node) Node {
	switch {
	case left != nil && right != nil:
		return join(left, right)
	case left == nil && right == nil:
		p.errorf("Missing operands for '%s' at offset %d", op.Text, op.Pos)
		return nil
	case left == nil:
		p.errorf("Missing left operand for '%s' at offset %d", op.Text, op.Pos)
		return right
	default:
		p.errorf("Missing right operand for '%s' at offset %d", op.Text, op.Pos)
		return left
	}
}

func (p *Parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) match(kind TokenKind) bool {
	if tok, ok := p.peek(); ok && tok.Kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func joinAnd(left, right Node) Node {
	if left == nil {
		return right
	}
	return &And{Left: left, Right: right}
}
