// File: parser.go
// Title: Expression Parser
// Description: Precedence-climbing parser that builds an ast.Program from
//              the lexer's token stream. Problems are collected as
//              diagnostics and never stop the parse.
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
	"strconv"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/foundation/lang/ast"
)

// Options configures a Parser
type Options struct {
	// Logger receives debug output; defaults to the package default logger
	Logger *mdwlog.Logger

	// PowerAssociativity controls how chained ^ operators group
	PowerAssociativity Associativity
}

// Diagnostic is one problem found while parsing
type Diagnostic struct {
	Code    mdwerror.Code `json:"code"`
	Message string        `json:"message"`
	Token   Token         `json:"token"`
}

// Error formats the diagnostic with its position
func (d Diagnostic) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", d.Token.Line, d.Token.Column, d.Message)
}

// Err converts the diagnostic into a structured error
func (d Diagnostic) Err() *mdwerror.Error {
	return mdwerror.New(d.Message).
		WithCode(d.Code).
		WithOperation("parser.ParseProgram").
		WithDetail("line", d.Token.Line).
		WithDetail("column", d.Token.Column).
		WithDetail("token", d.Token.Lexeme).
		WithDetail("token_type", d.Token.Type.String())
}

// Parser builds a syntax tree from a Lexer. A Parser is single use and not
// safe for concurrent use.
type Parser struct {
	lexer       *Lexer
	curToken    Token
	peekToken   Token
	diagnostics []Diagnostic
	tokens      int
	options     Options
	logger      *mdwlog.Logger
}

// NewParser creates a parser reading from l and primes the current and
// lookahead tokens
func NewParser(l *Lexer, opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}

	p := &Parser{
		lexer:   l,
		options: opts,
		logger:  opts.Logger.WithField("component", "parser"),
	}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses input and returns the program with its diagnostics
func Parse(input string, opts Options) (*ast.Program, []Diagnostic) {
	p := NewParser(NewLexer(input), opts)
	program := p.ParseProgram()
	return program, p.Diagnostics()
}

// ParseProgram parses statements until EOF
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for p.curToken.Type != TokenEOF {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	p.logger.Debug("program parsed", mdwlog.Fields{
		"statements": len(program.Statements),
		"tokens":     p.tokens,
		"errors":     len(p.diagnostics),
	})
	return program
}

// Errors returns the diagnostic messages in the order they were found
func (p *Parser) Errors() []string {
	messages := make([]string, len(p.diagnostics))
	for i, d := range p.diagnostics {
		messages[i] = d.Message
	}
	return messages
}

// Diagnostics returns a copy of the diagnostics found so far
func (p *Parser) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(p.diagnostics))
	copy(out, p.diagnostics)
	return out
}

// TokenCount returns the number of non-EOF tokens read
func (p *Parser) TokenCount() int {
	return p.tokens
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
	if p.peekToken.Type != TokenEOF {
		p.tokens++
	}
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case TokenIdentifier, TokenInteger, TokenFloat, TokenLeftParen:
		return p.parseExpressionStatement()
	default:
		p.addDiagnostic(mdwerror.CodeSyntax, p.curToken, "unexpected token: %s", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Start: p.curToken.Position()}
	stmt.Expression = p.parseExpression(PrecedenceLowest)

	if p.peekToken.Type == TokenSemicolon {
		p.nextToken()
	}
	return stmt
}

// parseExpression parses an expression whose operators bind tighter than
// bindingPower
func (p *Parser) parseExpression(bindingPower Precedence) ast.Expression {
	left, ok := p.parsePrefix()
	if !ok {
		return left
	}

	for p.peekToken.Type != TokenSemicolon && bindingPower < precedenceOf(p.peekToken.Type) {
		if !p.peekToken.Type.IsOperator() {
			return left
		}
		p.nextToken()
		left = p.parseInfix(left)
	}
	return left
}

// parsePrefix parses the expression starting at the current token. It
// returns false when no expression can start here.
func (p *Parser) parsePrefix() (ast.Expression, bool) {
	tok := p.curToken

	switch tok.Type {
	case TokenInteger:
		value, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return p.errorExpression(mdwerror.CodeLiteralFormat, tok, "could not parse %q as integer", tok.Lexeme), true
		}
		return &ast.IntegerLiteral{Value: value, Start: tok.Position()}, true

	case TokenFloat:
		value, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return p.errorExpression(mdwerror.CodeLiteralFormat, tok, "could not parse %q as float", tok.Lexeme), true
		}
		return &ast.FloatLiteral{Value: value, Start: tok.Position()}, true

	case TokenLeftParen:
		p.nextToken()
		inner := p.parseExpression(PrecedenceLowest)
		p.expectPeek(TokenRightParen)
		return inner, true

	default:
		return p.errorExpression(mdwerror.CodeSyntax, tok, "no prefix parse function for %s found", tok.Type), false
	}
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Left:     left,
		Operator: p.curToken.Lexeme,
		OpPos:    p.curToken.Position(),
	}

	precedence := precedenceOf(p.curToken.Type)
	if p.curToken.Type == TokenCaret && p.options.PowerAssociativity == AssociativityRight {
		precedence--
	}

	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

// expectPeek advances when the lookahead has type tt and records a
// diagnostic otherwise
func (p *Parser) expectPeek(tt TokenType) bool {
	if p.peekToken.Type == tt {
		p.nextToken()
		return true
	}
	p.addDiagnostic(mdwerror.CodeSyntax, p.peekToken,
		"expected next token to be %s, got %s instead", tt, p.peekToken.Type)
	return false
}

func (p *Parser) errorExpression(code mdwerror.Code, tok Token, format string, args ...interface{}) *ast.ErrorExpression {
	d := p.addDiagnostic(code, tok, format, args...)
	return &ast.ErrorExpression{
		Lexeme:    tok.Lexeme,
		TokenType: tok.Type.String(),
		Message:   d.Message,
		Start:     tok.Position(),
	}
}

func (p *Parser) addDiagnostic(code mdwerror.Code, tok Token, format string, args ...interface{}) Diagnostic {
	d := Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Token: tok}
	p.diagnostics = append(p.diagnostics, d)
	p.logger.Trace("diagnostic recorded", mdwlog.Fields{
		"code":    code.String(),
		"message": d.Message,
		"line":    tok.Line,
		"column":  tok.Column,
	})
	return d
}
