// File: document.go
// Title: Document Serialization
// Description: Converts syntax trees into documents, the structured form
//              exchanged with tools. Field names are fixed:
//              type, statements, expression, left_node, operator,
//              right_node and value.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package ast

import (
	"encoding/json"
)

// Document is the serialized form of a node. Nested values are only
// strings, numbers, []interface{} and map[string]interface{}, so a
// Document can be handed to any generic encoder.
type Document = map[string]interface{}

// Document returns {"type": "Program", "statements": [...]}. Each entry of
// statements maps the statement's type name to its document.
func (p *Program) Document() Document {
	statements := make([]interface{}, 0, len(p.Statements))
	for _, stmt := range p.Statements {
		statements = append(statements, map[string]interface{}{
			stmt.Type().String(): stmt.Document(),
		})
	}
	return Document{
		"type":       TypeProgram.String(),
		"statements": statements,
	}
}

// Document returns {"type": "ExpressionStatement", "expression": ...}
func (s *ExpressionStatement) Document() Document {
	return Document{
		"type":       TypeExpressionStatement.String(),
		"expression": s.Expression.Document(),
	}
}

// Document returns {"type": "InfixStatement", "left_node": ...,
// "operator": ..., "right_node": ...}
func (e *InfixExpression) Document() Document {
	return Document{
		"type":       TypeInfixStatement.String(),
		"left_node":  e.Left.Document(),
		"operator":   e.Operator,
		"right_node": e.Right.Document(),
	}
}

// Document returns {"type": "IntegerLiteral", "value": n}
func (l *IntegerLiteral) Document() Document {
	return Document{
		"type":  TypeIntegerLiteral.String(),
		"value": l.Value,
	}
}

// Document returns {"type": "FloatLiteral", "value": x}
func (l *FloatLiteral) Document() Document {
	return Document{
		"type":  TypeFloatLiteral.String(),
		"value": l.Value,
	}
}

// Document returns {"type": "ErrorExpression", "token": ..., "token_type":
// ..., "message": ...}
func (e *ErrorExpression) Document() Document {
	return Document{
		"type":       TypeErrorExpression.String(),
		"token":      e.Lexeme,
		"token_type": e.TokenType,
		"message":    e.Message,
	}
}

// MarshalJSON encodes the program's document. Keys are emitted in sorted
// order, so equal trees always produce identical bytes.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Document())
}

// EncodeJSON encodes a node's document, indented when indent is not empty
func EncodeJSON(node Node, indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(node.Document())
	}
	return json.MarshalIndent(node.Document(), "", indent)
}
