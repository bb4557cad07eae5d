package render

import (
	"fmt"
	"strings"

	"github.com/abyanmajid/trump/foundation/lang/parser"
)

// Diagnostics renders one "line:col: message" line per diagnostic
func Diagnostics(diags []parser.Diagnostic, style Style) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	for _, d := range diags {
		pos := fmt.Sprintf("%d:%d:", d.Token.Line, d.Token.Column)
		b.WriteString(style.apply(mutedStyle, pos))
		b.WriteString(" ")
		b.WriteString(style.apply(errorStyle, d.Message))
		b.WriteString("\n")
	}
	return b.String()
}

// Summary renders a one-line outcome such as "ok: 2 statements"
func Summary(statements, diagnostics int, style Style) string {
	if diagnostics == 0 {
		return style.apply(okStyle, fmt.Sprintf("ok: %d %s", statements, plural(statements, "statement")))
	}
	return style.apply(errorStyle, fmt.Sprintf("%d %s, %d %s",
		diagnostics, plural(diagnostics, "error"), statements, plural(statements, "statement")))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
