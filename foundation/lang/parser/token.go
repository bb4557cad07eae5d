// File: token.go
// Title: Tokens
// Description: Token kinds and the Token value produced by the lexer.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package parser

import (
	"fmt"

	"github.com/abyanmajid/trump/foundation/lang/ast"
)

// TokenType is the kind of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Identifiers and literals
	TokenIdentifier // x, total_sum
	TokenInteger    // 123
	TokenFloat      // 1.5, .5, 1.2.3

	// Operators
	TokenPlus     // +
	TokenMinus    // -
	TokenAsterisk // *
	TokenSlash    // /
	TokenCaret    // ^
	TokenPercent  // %

	// Delimiters
	TokenLeftParen  // (
	TokenRightParen // )
	TokenSemicolon  // ;
)

// String returns the upper-case name used in diagnostics
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "ILLEGAL"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenInteger:
		return "INTEGER"
	case TokenFloat:
		return "FLOAT"
	case TokenPlus:
		return "PLUS"
	case TokenMinus:
		return "MINUS"
	case TokenAsterisk:
		return "ASTERISK"
	case TokenSlash:
		return "SLASH"
	case TokenCaret:
		return "CARET"
	case TokenPercent:
		return "PERCENT"
	case TokenLeftParen:
		return "LEFT_PAREN"
	case TokenRightParen:
		return "RIGHT_PAREN"
	case TokenSemicolon:
		return "SEMICOLON"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the type by name
func (tt TokenType) MarshalText() ([]byte, error) {
	return []byte(tt.String()), nil
}

// IsOperator reports whether tt is a binary operator
func (tt TokenType) IsOperator() bool {
	return tt >= TokenPlus && tt <= TokenPercent
}

// Token is a lexical unit with its position in the source
type Token struct {
	Type   TokenType `json:"type"`
	Lexeme string    `json:"lexeme"`
	Line   int       `json:"line"`   // 1-based
	Column int       `json:"column"` // 0-based, in runes
	Offset int       `json:"offset"` // byte offset of the first byte
}

// String returns a readable form of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return fmt.Sprintf("ILLEGAL(%q)", t.Lexeme)
	default:
		return fmt.Sprintf("%s(%s)", t.Type, t.Lexeme)
	}
}

// Position converts the token's location into an AST position
func (t Token) Position() ast.Position {
	return ast.Position{Line: t.Line, Column: t.Column, Offset: t.Offset}
}
