// File: lexer.go
// Title: Lexical Analyzer
// Description: Converts source text into tokens on demand. Works on runes,
//              tracks line and column, and never fails.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer produces tokens from a source string. A Lexer cannot be rewound;
// create a new one to start over.
type Lexer struct {
	input  string
	pos    int  // byte offset of ch
	width  int  // byte width of ch, 0 at end of input
	ch     rune // current character
	line   int  // line of ch, 1-based
	column int  // column of ch, 0-based
}

// NewLexer creates a lexer positioned at the start of input
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.load()
	return l
}

// NextToken returns the next token. After the input is exhausted it keeps
// returning EOF with an empty lexeme at the end position.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Line: l.line, Column: l.column, Offset: l.pos}
	if l.width == 0 {
		tok.Type = TokenEOF
		return tok
	}

	switch l.ch {
	case '+':
		tok.Type = TokenPlus
	case '-':
		tok.Type = TokenMinus
	case '*':
		tok.Type = TokenAsterisk
	case '/':
		tok.Type = TokenSlash
	case '^':
		tok.Type = TokenCaret
	case '%':
		tok.Type = TokenPercent
	case '(':
		tok.Type = TokenLeftParen
	case ')':
		tok.Type = TokenRightParen
	case ';':
		tok.Type = TokenSemicolon
	default:
		switch {
		case isDigit(l.ch) || l.ch == '.':
			tok.Lexeme = l.readWhile(func(r rune) bool { return isDigit(r) || r == '.' })
			tok.Type = TokenInteger
			if strings.ContainsRune(tok.Lexeme, '.') {
				tok.Type = TokenFloat
			}
			return tok
		case isLetter(l.ch):
			tok.Lexeme = l.readWhile(isLetter)
			tok.Type = TokenIdentifier
			return tok
		default:
			tok.Type = TokenIllegal
		}
	}

	tok.Lexeme = l.input[l.pos : l.pos+l.width]
	l.readChar()
	return tok
}

// Tokenize reads every remaining token up to and including EOF
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

// Tokenize returns all tokens of input, ending with EOF
func Tokenize(input string) []Token {
	return NewLexer(input).Tokenize()
}

// load decodes the character at pos
func (l *Lexer) load() {
	if l.pos >= len(l.input) {
		l.ch, l.width = 0, 0
		return
	}
	l.ch, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
}

// readChar advances past the current character
func (l *Lexer) readChar() {
	if l.width == 0 {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	l.pos += l.width
	l.load()
}

func (l *Lexer) readWhile(accept func(rune) bool) string {
	start := l.pos
	for l.width > 0 && accept(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) skipWhitespace() {
	for l.width > 0 && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
