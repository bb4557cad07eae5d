// File: nodes.go
// Title: Expression AST Nodes
// Description: Node definitions for programs, statements and expressions.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package ast

import (
	"strconv"
	"strings"
)

// NodeType names the kind of a node. The names are part of the document
// format and must not change.
type NodeType string

const (
	TypeProgram             NodeType = "Program"
	TypeExpressionStatement NodeType = "ExpressionStatement"
	TypeInfixStatement      NodeType = "InfixStatement"
	TypeIntegerLiteral      NodeType = "IntegerLiteral"
	TypeFloatLiteral        NodeType = "FloatLiteral"
	TypeErrorExpression     NodeType = "ErrorExpression"
)

// String returns the type name
func (t NodeType) String() string {
	return string(t)
}

// Position is a location in the source text
type Position struct {
	Line   int // 1-based
	Column int // 0-based, in runes
	Offset int // byte offset
}

// Node is implemented by every syntax tree node
type Node interface {
	// Type describes the node's own kind
	Type() NodeType

	// Document serializes the node and its children
	Document() Document

	// Accept dispatches to the matching Visitor method
	Accept(v Visitor) interface{}

	// Pos returns where the node starts in the source
	Pos() Position

	String() string
}

// Statement is a top-level node of a Program
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that produces a value
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of a parse
type Program struct {
	Statements []Statement
}

func (p *Program) Type() NodeType               { return TypeProgram }
func (p *Program) Accept(v Visitor) interface{} { return v.VisitProgram(p) }

// Pos returns the position of the first statement
func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{Line: 1}
	}
	return p.Statements[0].Pos()
}

// String joins statements with "; "
func (p *Program) String() string {
	parts := make([]string, len(p.Statements))
	for i, stmt := range p.Statements {
		parts[i] = stmt.String()
	}
	return strings.Join(parts, "; ")
}

// ExpressionStatement wraps a single expression
type ExpressionStatement struct {
	Expression Expression
	Start      Position
}

func (s *ExpressionStatement) statementNode()               {}
func (s *ExpressionStatement) Type() NodeType               { return TypeExpressionStatement }
func (s *ExpressionStatement) Accept(v Visitor) interface{} { return v.VisitExpressionStatement(s) }
func (s *ExpressionStatement) Pos() Position                { return s.Start }
func (s *ExpressionStatement) String() string               { return s.Expression.String() }

// InfixExpression is a binary operation
type InfixExpression struct {
	Left     Expression
	Operator string
	Right    Expression
	OpPos    Position // position of the operator token
}

func (e *InfixExpression) expressionNode()              {}
func (e *InfixExpression) Type() NodeType               { return TypeInfixStatement }
func (e *InfixExpression) Accept(v Visitor) interface{} { return v.VisitInfixExpression(e) }
func (e *InfixExpression) Pos() Position                { return e.Left.Pos() }

// String renders the expression fully parenthesized
func (e *InfixExpression) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}

// IntegerLiteral is a signed 64-bit integer
type IntegerLiteral struct {
	Value int64
	Start Position
}

func (l *IntegerLiteral) expressionNode()              {}
func (l *IntegerLiteral) Type() NodeType               { return TypeIntegerLiteral }
func (l *IntegerLiteral) Accept(v Visitor) interface{} { return v.VisitIntegerLiteral(l) }
func (l *IntegerLiteral) Pos() Position                { return l.Start }
func (l *IntegerLiteral) String() string               { return strconv.FormatInt(l.Value, 10) }

// FloatLiteral is a finite 64-bit float
type FloatLiteral struct {
	Value float64
	Start Position
}

func (l *FloatLiteral) expressionNode()              {}
func (l *FloatLiteral) Type() NodeType               { return TypeFloatLiteral }
func (l *FloatLiteral) Accept(v Visitor) interface{} { return v.VisitFloatLiteral(l) }
func (l *FloatLiteral) Pos() Position                { return l.Start }

// String always includes a decimal point or exponent
func (l *FloatLiteral) String() string {
	s := strconv.FormatFloat(l.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// ErrorExpression stands in for an expression the parser could not build.
// TokenType is the name of the offending token's kind.
type ErrorExpression struct {
	Lexeme    string
	TokenType string
	Message   string
	Start     Position
}

func (e *ErrorExpression) expressionNode()              {}
func (e *ErrorExpression) Type() NodeType               { return TypeErrorExpression }
func (e *ErrorExpression) Accept(v Visitor) interface{} { return v.VisitErrorExpression(e) }
func (e *ErrorExpression) Pos() Position                { return e.Start }
func (e *ErrorExpression) String() string               { return "<error>" }
