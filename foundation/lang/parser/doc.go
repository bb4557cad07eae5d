// File: doc.go
// Title: Expression Parser Package Documentation
// Description: Tokenizer and precedence-climbing parser for trump
//              expression programs.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

/*
Package parser turns trump source text into a syntax tree.

The Lexer produces tokens on demand. It never fails: characters outside the
language become ILLEGAL tokens and, once the input is exhausted, every call
returns EOF.

The Parser pulls tokens from a Lexer, keeping the current token and one
token of lookahead, and builds an ast.Program by precedence climbing:

  - -      sum
  - / %    product
    ^        power

Problems never abort a parse. Each one is recorded as a Diagnostic and the
parser keeps going, substituting an ast.ErrorExpression where an expression
could not be built. A program returned together with diagnostics is a best
effort and should not be trusted.

Usage:

	p := parser.NewParser(parser.NewLexer("1 + 2 * 3"), parser.Options{})
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		// report p.Diagnostics()
	}
*/
package parser
