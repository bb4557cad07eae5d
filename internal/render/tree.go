package render

import (
	"fmt"

	"github.com/abyanmajid/trump/foundation/lang/ast"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// Tree renders node as an indented box-drawing tree
func Tree(node ast.Node, style Style) string {
	if node == nil {
		return ""
	}
	t := buildTree(node, style)
	if style.Color {
		t = t.EnumeratorStyle(lipgloss.NewStyle().Foreground(ColorMuted).PaddingRight(1))
	}
	return t.String()
}

func buildTree(node ast.Node, style Style) *tree.Tree {
	t := tree.Root(Label(node, style))
	for _, child := range ast.Children(node) {
		if len(ast.Children(child)) == 0 {
			t.Child(Label(child, style))
			continue
		}
		t.Child(buildTree(child, style))
	}
	return t
}

// Label returns the one-line description of a node used in trees
func Label(node ast.Node, style Style) string {
	name := style.apply(nodeStyle, string(node.Type()))
	switch n := node.(type) {
	case *ast.InfixExpression:
		return fmt.Sprintf("%s (%s)", name, style.apply(operatorStyle, n.Operator))
	case *ast.IntegerLiteral, *ast.FloatLiteral:
		return name + " " + style.apply(literalStyle, n.String())
	case *ast.ErrorExpression:
		return fmt.Sprintf("%s %s", style.apply(errorStyle, string(node.Type())), style.apply(mutedStyle, fmt.Sprintf("%q", n.Lexeme)))
	default:
		return name
	}
}
