// File: lexer_test.go
// Title: Lexer Unit Tests
// Description: Tests for token kinds, lexemes, positions and end-of-input
//              behavior of the lexer.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package parser

import (
	"math/rand"
	"strings"
	"testing"
)

func TestLexer_NextToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "Empty input",
			input: "",
			expected: []Token{
				{Type: TokenEOF, Lexeme: "", Line: 1, Column: 0, Offset: 0},
			},
		},
		{
			name:  "Simple sum",
			input: "1 + 2.5",
			expected: []Token{
				{Type: TokenInteger, Lexeme: "1", Line: 1, Column: 0, Offset: 0},
				{Type: TokenPlus, Lexeme: "+", Line: 1, Column: 2, Offset: 2},
				{Type: TokenFloat, Lexeme: "2.5", Line: 1, Column: 4, Offset: 4},
				{Type: TokenEOF, Lexeme: "", Line: 1, Column: 7, Offset: 7},
			},
		},
		{
			name:  "All punctuation",
			input: "+-*/^%();",
			expected: []Token{
				{Type: TokenPlus, Lexeme: "+", Line: 1, Column: 0, Offset: 0},
				{Type: TokenMinus, Lexeme: "-", Line: 1, Column: 1, Offset: 1},
				{Type: TokenAsterisk, Lexeme: "*", Line: 1, Column: 2, Offset: 2},
				{Type: TokenSlash, Lexeme: "/", Line: 1, Column: 3, Offset: 3},
				{Type: TokenCaret, Lexeme: "^", Line: 1, Column: 4, Offset: 4},
				{Type: TokenPercent, Lexeme: "%", Line: 1, Column: 5, Offset: 5},
				{Type: TokenLeftParen, Lexeme: "(", Line: 1, Column: 6, Offset: 6},
				{Type: TokenRightParen, Lexeme: ")", Line: 1, Column: 7, Offset: 7},
				{Type: TokenSemicolon, Lexeme: ";", Line: 1, Column: 8, Offset: 8},
				{Type: TokenEOF, Lexeme: "", Line: 1, Column: 9, Offset: 9},
			},
		},
		{
			name:  "Identifiers stop at digits",
			input: "foo_bar*x1",
			expected: []Token{
				{Type: TokenIdentifier, Lexeme: "foo_bar", Line: 1, Column: 0, Offset: 0},
				{Type: TokenAsterisk, Lexeme: "*", Line: 1, Column: 7, Offset: 7},
				{Type: TokenIdentifier, Lexeme: "x", Line: 1, Column: 8, Offset: 8},
				{Type: TokenInteger, Lexeme: "1", Line: 1, Column: 9, Offset: 9},
				{Type: TokenEOF, Lexeme: "", Line: 1, Column: 10, Offset: 10},
			},
		},
		{
			name:  "Malformed numbers are not validated",
			input: "1.2.3 . 7.",
			expected: []Token{
				{Type: TokenFloat, Lexeme: "1.2.3", Line: 1, Column: 0, Offset: 0},
				{Type: TokenFloat, Lexeme: ".", Line: 1, Column: 6, Offset: 6},
				{Type: TokenFloat, Lexeme: "7.", Line: 1, Column: 8, Offset: 8},
				{Type: TokenEOF, Lexeme: "", Line: 1, Column: 10, Offset: 10},
			},
		},
		{
			name:  "Newlines advance the line",
			input: "1 +\n  2\r\n;",
			expected: []Token{
				{Type: TokenInteger, Lexeme: "1", Line: 1, Column: 0, Offset: 0},
				{Type: TokenPlus, Lexeme: "+", Line: 1, Column: 2, Offset: 2},
				{Type: TokenInteger, Lexeme: "2", Line: 2, Column: 2, Offset: 6},
				{Type: TokenSemicolon, Lexeme: ";", Line: 3, Column: 0, Offset: 9},
				{Type: TokenEOF, Lexeme: "", Line: 3, Column: 1, Offset: 10},
			},
		},
		{
			name:  "Illegal characters",
			input: "1 $ #",
			expected: []Token{
				{Type: TokenInteger, Lexeme: "1", Line: 1, Column: 0, Offset: 0},
				{Type: TokenIllegal, Lexeme: "$", Line: 1, Column: 2, Offset: 2},
				{Type: TokenIllegal, Lexeme: "#", Line: 1, Column: 4, Offset: 4},
				{Type: TokenEOF, Lexeme: "", Line: 1, Column: 5, Offset: 5},
			},
		},
		{
			name:  "Unicode letters and spaces",
			input: "é+ 1",
			expected: []Token{
				{Type: TokenIdentifier, Lexeme: "é", Line: 1, Column: 0, Offset: 0},
				{Type: TokenPlus, Lexeme: "+", Line: 1, Column: 1, Offset: 2},
				{Type: TokenInteger, Lexeme: "1", Line: 1, Column: 3, Offset: 4},
				{Type: TokenEOF, Lexeme: "", Line: 1, Column: 4, Offset: 5},
			},
		},
		{
			name:  "Non-letter symbol is a single illegal rune",
			input: "€5",
			expected: []Token{
				{Type: TokenIllegal, Lexeme: "€", Line: 1, Column: 0, Offset: 0},
				{Type: TokenInteger, Lexeme: "5", Line: 1, Column: 1, Offset: 3},
				{Type: TokenEOF, Lexeme: "", Line: 1, Column: 2, Offset: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(tt.input)
			for i, want := range tt.expected {
				got := lexer.NextToken()
				if got != want {
					t.Fatalf("token %d = %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

func TestLexer_EOFIsSticky(t *testing.T) {
	lexer := NewLexer("42 ")
	lexer.NextToken()

	first := lexer.NextToken()
	if first.Type != TokenEOF {
		t.Fatalf("NextToken() = %v, want EOF", first)
	}
	for i := 0; i < 5; i++ {
		if got := lexer.NextToken(); got != first {
			t.Errorf("NextToken() after EOF = %+v, want %+v", got, first)
		}
	}
}

func TestLexer_Tokenize(t *testing.T) {
	tokens := Tokenize("(1 + 2) * 3;")

	var types []string
	for _, tok := range tokens {
		types = append(types, tok.Type.String())
	}

	want := "LEFT_PAREN INTEGER PLUS INTEGER RIGHT_PAREN ASTERISK INTEGER SEMICOLON EOF"
	if got := strings.Join(types, " "); got != want {
		t.Errorf("Tokenize() types = %s, want %s", got, want)
	}
}

func TestLexer_DigitStringsAreIntegers(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(30)
		var sb strings.Builder
		for j := 0; j < n; j++ {
			sb.WriteByte(byte('0' + rng.Intn(10)))
		}
		input := sb.String()

		tokens := Tokenize(input)
		if len(tokens) != 2 {
			t.Fatalf("Tokenize(%q) returned %d tokens, want 2", input, len(tokens))
		}
		if tokens[0].Type != TokenInteger || tokens[0].Lexeme != input {
			t.Errorf("Tokenize(%q)[0] = %v, want INTEGER(%s)", input, tokens[0], input)
		}
		if tokens[1].Type != TokenEOF {
			t.Errorf("Tokenize(%q)[1] = %v, want EOF", input, tokens[1])
		}
	}
}

func TestTokenType_String(t *testing.T) {
	tests := []struct {
		tt   TokenType
		want string
	}{
		{TokenEOF, "EOF"},
		{TokenIllegal, "ILLEGAL"},
		{TokenLeftParen, "LEFT_PAREN"},
		{TokenCaret, "CARET"},
		{TokenType(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.tt.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
