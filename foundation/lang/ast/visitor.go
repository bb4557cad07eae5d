// File: visitor.go
// Title: AST Traversal
// Description: Visitor interface, depth-first Walk and tree statistics.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package ast

// Visitor has one method per node kind
type Visitor interface {
	VisitProgram(p *Program) interface{}
	VisitExpressionStatement(s *ExpressionStatement) interface{}
	VisitInfixExpression(e *InfixExpression) interface{}
	VisitIntegerLiteral(l *IntegerLiteral) interface{}
	VisitFloatLiteral(l *FloatLiteral) interface{}
	VisitErrorExpression(e *ErrorExpression) interface{}
}

// Children returns the direct children of node in source order
func Children(node Node) []Node {
	switch n := node.(type) {
	case *Program:
		children := make([]Node, len(n.Statements))
		for i, stmt := range n.Statements {
			children[i] = stmt
		}
		return children
	case *ExpressionStatement:
		return []Node{n.Expression}
	case *InfixExpression:
		return []Node{n.Left, n.Right}
	default:
		return nil
	}
}

// Walk visits node and its descendants depth-first, parents before
// children. fn receives each node with its depth, the root being 0. When fn
// returns false the node's children are skipped.
func Walk(node Node, fn func(n Node, depth int) bool) {
	walk(node, 0, fn)
}

func walk(node Node, depth int, fn func(Node, int) bool) {
	if node == nil || !fn(node, depth) {
		return
	}
	for _, child := range Children(node) {
		walk(child, depth+1, fn)
	}
}

// Stats summarizes a tree
type Stats struct {
	Nodes      int            `json:"nodes"`
	Statements int            `json:"statements"`
	Depth      int            `json:"depth"`
	Integers   int            `json:"integers"`
	Floats     int            `json:"floats"`
	Errors     int            `json:"errors"`
	Operators  map[string]int `json:"operators"`
}

type statsVisitor struct {
	stats *Stats
}

func (v statsVisitor) VisitProgram(p *Program) interface{} {
	v.stats.Statements = len(p.Statements)
	return nil
}

func (v statsVisitor) VisitExpressionStatement(*ExpressionStatement) interface{} { return nil }

func (v statsVisitor) VisitInfixExpression(e *InfixExpression) interface{} {
	v.stats.Operators[e.Operator]++
	return nil
}

func (v statsVisitor) VisitIntegerLiteral(*IntegerLiteral) interface{} {
	v.stats.Integers++
	return nil
}

func (v statsVisitor) VisitFloatLiteral(*FloatLiteral) interface{} {
	v.stats.Floats++
	return nil
}

func (v statsVisitor) VisitErrorExpression(*ErrorExpression) interface{} {
	v.stats.Errors++
	return nil
}

// CollectStats counts the nodes of the tree rooted at node
func CollectStats(node Node) Stats {
	stats := Stats{Operators: make(map[string]int)}
	v := statsVisitor{stats: &stats}
	Walk(node, func(n Node, depth int) bool {
		stats.Nodes++
		if depth+1 > stats.Depth {
			stats.Depth = depth + 1
		}
		n.Accept(v)
		return true
	})
	return stats
}
