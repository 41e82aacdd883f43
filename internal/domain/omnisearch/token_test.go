package omnisearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenize_Basic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kinds []TokenKind
		texts []string
	}{
		{
			name:  "empty",
			input: "   ",
		},
		{
			name:  "single comparison",
			input: "title === something",
			kinds: []TokenKind{TokenFieldExpr},
			texts: []string{"title === something"},
		},
		{
			name:  "and",
			input: "link == https://test1.com & title === One Title",
			kinds: []TokenKind{TokenFieldExpr, TokenAnd, TokenFieldExpr},
			texts: []string{"link == https://test1.com", "&", "title === One Title"},
		},
		{
			name:  "grouping and negation",
			input: "~(a=1|b=2)&c>3",
			kinds: []TokenKind{TokenNot, TokenLParen, TokenFieldExpr, TokenOr, TokenFieldExpr, TokenRParen, TokenAnd, TokenFieldExpr},
			texts: []string{"~", "(", "a=1", "|", "b=2", ")", "&", "c>3"},
		},
		{
			name:  "bare term keeps connectives",
			input: "  rock & roll (live) ",
			kinds: []TokenKind{TokenFieldExpr},
			texts: []string{"rock & roll (live)"},
		},
		{
			name:  "quoted connectives",
			input: `title = "rock & roll (live)" | author == 'a|b'`,
			kinds: []TokenKind{TokenFieldExpr, TokenOr, TokenFieldExpr},
			texts: []string{`title = "rock & roll (live)"`, "|", `author == 'a|b'`},
		},
		{
			name:  "connectives only",
			input: " & | ~ ",
			kinds: []TokenKind{TokenAnd, TokenOr, TokenNot},
			texts: []string{"&", "|", "~"},
		},
		{
			name:  "empty group",
			input: "()",
			kinds: []TokenKind{TokenLParen, TokenRParen},
			texts: []string{"(", ")"},
		},
		{
			name:  "apostrophe inside a word",
			input: "author = O'Reilly & link == a",
			kinds: []TokenKind{TokenFieldExpr, TokenAnd, TokenFieldExpr},
			texts: []string{"author = O'Reilly", "&", "link == a"},
		},
		{
			name:  "quote opens after operator",
			input: "title ='a & b' | x = y",
			kinds: []TokenKind{TokenFieldExpr, TokenOr, TokenFieldExpr},
			texts: []string{"title ='a & b'", "|", "x = y"},
		},
		{
			name:  "unterminated quote swallows the rest",
			input: `title = "abc & def`,
			kinds: []TokenKind{TokenFieldExpr},
			texts: []string{`title = "abc & def`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			if tt.kinds == nil {
				assert.Empty(t, tokens)
				return
			}
			assert.Equal(t, tt.kinds, kinds(tokens))
			assert.Equal(t, tt.texts, texts(tokens))
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	input := " a=1 &  b=2"
	tokens := Tokenize(input)

	for _, tok := range tokens {
		assert.Equal(t, tok.Text, input[tok.Pos:tok.Pos+len(tok.Text)])
	}
}
