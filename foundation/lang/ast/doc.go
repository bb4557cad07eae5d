// File: doc.go
// Title: Expression AST Package Documentation
// Description: Syntax tree produced by the expression parser, its document
//              serialization and traversal helpers.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

/*
Package ast defines the syntax tree for trump expression programs.

A Program holds expression statements in source order. Expressions are
integer and float literals, binary infix expressions, and ErrorExpression
placeholders that mark where the parser had to recover.

Every node can describe its own kind through Type and serialize itself to a
Document, a plain map tree that encodes to JSON, YAML or protobuf Struct
without further conversion. Serializing the same tree twice yields the same
document.

Nodes are immutable once the parser returns them and may be shared freely
between goroutines.
*/
package ast
