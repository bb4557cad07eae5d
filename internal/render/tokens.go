package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abyanmajid/trump/foundation/lang/parser"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Tokens renders a token table with position, kind and lexeme columns
func Tokens(tokens []parser.Token, style Style) string {
	rows := make([][]string, len(tokens))
	for i, tok := range tokens {
		rows[i] = []string{
			fmt.Sprintf("%d:%d", tok.Line, tok.Column),
			tok.Type.String(),
			strconv.Quote(tok.Lexeme),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("POS", "TYPE", "LEXEME").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if style.Color {
					return headerStyle
				}
				return cellStyle
			}
			if style.Color && row >= 0 && row < len(tokens) && tokens[row].Type == parser.TokenIllegal {
				return cellStyle.Foreground(ColorError)
			}
			return cellStyle
		})
	if style.Color {
		t = t.BorderStyle(mutedStyle)
	}
	return t.String()
}

// TokenLines renders one "line:col TYPE lexeme" line per token
func TokenLines(tokens []parser.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&b, "%d:%d\t%s\t%q\n", tok.Line, tok.Column, tok.Type, tok.Lexeme)
	}
	return b.String()
}
