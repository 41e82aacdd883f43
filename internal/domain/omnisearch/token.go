// Package omnisearch translates search-box query text into backend predicates.
//
// A query such as
//
//	title === "One Title" & (link = test1 | ~author == anonymous)
//
// is tokenized, parsed into an AST and then evaluated post-order: leaves by a
// SymbolEvaluator, boolean nodes by an EquationEvaluator. Both evaluators are
// supplied by a backend package, so the engine itself never knows what the
// resulting predicate looks like.
package omnisearch

import "strings"

// TokenKind identifies a lexical token.
type TokenKind int

const (
	TokenFieldExpr TokenKind = iota // comparison or bare term
	TokenAnd                        // &
	TokenOr                         // |
	TokenNot                        // ~
	TokenLParen                     // (
	TokenRParen                     // )
)

func (k TokenKind) String() string {
	switch k {
	case TokenFieldExpr:
		return "FIELD_EXPR"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexical unit of a query.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int // byte offset of Text in the input
}

var connectives = map[byte]TokenKind{
	'&': TokenAnd,
	'|': TokenOr,
	'~': TokenNot,
	'(': TokenLParen,
	')': TokenRParen,
}

// Tokenize splits a query into tokens. It never fails: text without any
// comparison operator collapses into a single FieldExpr token, unless it is
// made of connectives alone.
func Tokenize(input string) []Token {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}

	if operatorIndex(trimmed) < 0 && hasTermText(trimmed) {
		return []Token{{
			Kind: TokenFieldExpr,
			Text: trimmed,
			Pos:  strings.Index(input, trimmed),
		}}
	}

	var (
		tokens []Token
		quote  byte
		start  = -1
	)

	flush := func(end int) {
		if start < 0 {
			return
		}
		raw := input[start:end]
		text := strings.TrimSpace(raw)
		if text != "" {
			tokens = append(tokens, Token{
				Kind: TokenFieldExpr,
				Text: text,
				Pos:  start + strings.Index(raw, text),
			})
		}
		start = -1
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}

		if kind, ok := connectives[ch]; ok {
			flush(i)
			tokens = append(tokens, Token{Kind: kind, Text: string(ch), Pos: i})
			continue
		}

		if start < 0 {
			if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
				continue
			}
			start = i
		}
		if opensQuote(input, i) {
			quote = ch
		}
	}
	flush(len(input))

	return tokens
}

// operatorIndex returns the offset of the first comparison operator character
// outside of quotes, or -1.
func operatorIndex(s string) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case opensQuote(s, i):
			quote = ch
		case ch == '=' || ch == '<' || ch == '>':
			return i
		}
	}
	return -1
}

// opensQuote reports whether s[i] starts a quoted literal. A quote only opens
// at the start of a token or of a comparison value, so apostrophes inside
// words (O'Reilly, don't) stay plain text.
func opensQuote(s string, i int) bool {
	if s[i] != '"' && s[i] != '\'' {
		return false
	}
	for j := i - 1; j >= 0; j-- {
		switch c := s[j]; c {
		case ' ', '\t', '\n', '\r':
			continue
		case '=', '<', '>':
			return true
		default:
			_, ok := connectives[c]
			return ok
		}
	}
	return true
}

func hasTermText(s string) bool {
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case ' ', '\t', '\n', '\r':
		default:
			if _, ok := connectives[ch]; !ok {
				return true
			}
		}
	}
	return false
}

// unquote strips one pair of matching surrounding quotes. An unterminated
// leading quote is dropped as well.
func unquote(s string) (string, bool) {
	if len(s) == 0 || (s[0] != '"' && s[0] != '\'') {
		return s, false
	}
	if len(s) >= 2 && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], true
	}
	return s[1:], true
}
